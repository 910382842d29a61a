package repository

import (
	"context"

	"patient-study-api/internal/domain/entity"
	domainRepo "patient-study-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type studyDoctorRepository struct{}

func NewStudyDoctorRepository() domainRepo.StudyDoctorRepository {
	return &studyDoctorRepository{}
}

func (r *studyDoctorRepository) Add(ctx context.Context, db *gorm.DB, studyID, doctorID uuid.UUID) error {
	membership := &entity.StudyDoctor{StudyID: studyID, DoctorID: doctorID}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(membership).Error
}

func (r *studyDoctorRepository) Remove(ctx context.Context, db *gorm.DB, studyID, doctorID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).
		Where("study_id = ? AND doctor_id = ?", studyID, doctorID).
		Delete(&entity.StudyDoctor{})
	return result.RowsAffected, result.Error
}

func (r *studyDoctorRepository) FindDoctorIDsByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&entity.StudyDoctor{}).
		Where("study_id = ?", studyID).
		Order("created_at ASC").Order("doctor_id ASC").
		Pluck("doctor_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *studyDoctorRepository) FindStudyIDsByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&entity.StudyDoctor{}).
		Where("doctor_id = ?", doctorID).
		Order("created_at ASC").Order("study_id ASC").
		Pluck("study_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *studyDoctorRepository) DeleteByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("study_id = ?", studyID).Delete(&entity.StudyDoctor{})
	return result.RowsAffected, result.Error
}

func (r *studyDoctorRepository) DeleteByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("doctor_id = ?", doctorID).Delete(&entity.StudyDoctor{})
	return result.RowsAffected, result.Error
}
