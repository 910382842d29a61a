package repository

import (
	"context"
	"errors"

	"patient-study-api/internal/domain/entity"
	domainRepo "patient-study-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type assignmentRepository struct{}

func NewAssignmentRepository() domainRepo.AssignmentRepository {
	return &assignmentRepository{}
}

func (r *assignmentRepository) Create(ctx context.Context, db *gorm.DB, assignment *entity.PatientDoctorStudy) error {
	return db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.PatientDoctorStudy, error) {
	var assignment entity.PatientDoctorStudy
	err := db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByTriple(ctx context.Context, db *gorm.DB, patientID, doctorID, studyID uuid.UUID) ([]entity.PatientDoctorStudy, error) {
	return r.find(ctx, db, "patient_id = ? AND doctor_id = ? AND study_id = ?", patientID, doctorID, studyID)
}

// FindByPatientAndStudy returns the matches oldest first, so callers that need
// a single assignment consistently pick the same one
func (r *assignmentRepository) FindByPatientAndStudy(ctx context.Context, db *gorm.DB, patientID, studyID uuid.UUID) ([]entity.PatientDoctorStudy, error) {
	return r.find(ctx, db, "patient_id = ? AND study_id = ?", patientID, studyID)
}

func (r *assignmentRepository) FindByDoctorAndStudy(ctx context.Context, db *gorm.DB, doctorID, studyID uuid.UUID) ([]entity.PatientDoctorStudy, error) {
	return r.find(ctx, db, "doctor_id = ? AND study_id = ?", doctorID, studyID)
}

func (r *assignmentRepository) FindByPatient(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.PatientDoctorStudy, error) {
	return r.find(ctx, db, "patient_id = ?", patientID)
}

func (r *assignmentRepository) FindByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) ([]entity.PatientDoctorStudy, error) {
	return r.find(ctx, db, "study_id = ?", studyID)
}

func (r *assignmentRepository) find(ctx context.Context, db *gorm.DB, where string, args ...interface{}) ([]entity.PatientDoctorStudy, error) {
	var assignments []entity.PatientDoctorStudy
	err := db.WithContext(ctx).
		Where(where, args...).
		Order("created_at ASC").Order("id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// Delete removes one assignment together with its measurements
func (r *assignmentRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, db, "id = ?", id)
}

func (r *assignmentRepository) DeleteByPatient(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, db, "patient_id = ?", patientID)
}

func (r *assignmentRepository) DeleteByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, db, "doctor_id = ?", doctorID)
}

func (r *assignmentRepository) DeleteByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, db, "study_id = ?", studyID)
}

func (r *assignmentRepository) deleteWhere(ctx context.Context, db *gorm.DB, where string, args ...interface{}) (int64, error) {
	var affected int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&entity.PatientDoctorStudy{}).Where(where, args...).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("assignment_id IN ?", ids).Delete(&entity.Measurement{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&entity.PatientDoctorStudy{})
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

func (r *assignmentRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	return countRows(ctx, db, &entity.PatientDoctorStudy{})
}
