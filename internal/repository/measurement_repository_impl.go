package repository

import (
	"context"

	"patient-study-api/internal/domain/entity"
	domainRepo "patient-study-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type measurementRepository struct{}

func NewMeasurementRepository() domainRepo.MeasurementRepository {
	return &measurementRepository{}
}

func (r *measurementRepository) Create(ctx context.Context, db *gorm.DB, measurement *entity.Measurement) error {
	return db.WithContext(ctx).Create(measurement).Error
}

func (r *measurementRepository) FindByAssignments(ctx context.Context, db *gorm.DB, assignmentIDs []uuid.UUID) ([]entity.Measurement, error) {
	measurements := []entity.Measurement{}
	if len(assignmentIDs) == 0 {
		return measurements, nil
	}

	err := db.WithContext(ctx).
		Where("assignment_id IN ?", assignmentIDs).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).Order("id ASC").
		Find(&measurements).Error
	if err != nil {
		return nil, err
	}
	return measurements, nil
}

// FindByStudy flattens the measurements of every assignment in the study
func (r *measurementRepository) FindByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) ([]entity.Measurement, error) {
	measurements := []entity.Measurement{}
	err := db.WithContext(ctx).
		Joins("JOIN patient_doctor_studies ON patient_doctor_studies.id = measurements.assignment_id").
		Where("patient_doctor_studies.study_id = ?", studyID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "measurements", Name: "timestamp"}}).
		Order("measurements.id ASC").
		Find(&measurements).Error
	if err != nil {
		return nil, err
	}
	return measurements, nil
}

func (r *measurementRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID, assignmentIDs []uuid.UUID) (int64, error) {
	if len(assignmentIDs) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).
		Where("id = ? AND assignment_id IN ?", id, assignmentIDs).
		Delete(&entity.Measurement{})
	return result.RowsAffected, result.Error
}

func (r *measurementRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	return countRows(ctx, db, &entity.Measurement{})
}
