package repository

import (
	"context"

	"patient-study-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentRepository stores PatientDoctorStudy rows. Every delete also
// removes the measurements owned by the deleted rows.
type AssignmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, assignment *entity.PatientDoctorStudy) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.PatientDoctorStudy, error)
	FindByTriple(ctx context.Context, db *gorm.DB, patientID, doctorID, studyID uuid.UUID) ([]entity.PatientDoctorStudy, error)
	FindByPatientAndStudy(ctx context.Context, db *gorm.DB, patientID, studyID uuid.UUID) ([]entity.PatientDoctorStudy, error)
	FindByDoctorAndStudy(ctx context.Context, db *gorm.DB, doctorID, studyID uuid.UUID) ([]entity.PatientDoctorStudy, error)
	FindByPatient(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.PatientDoctorStudy, error)
	FindByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) ([]entity.PatientDoctorStudy, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	DeleteByPatient(ctx context.Context, db *gorm.DB, patientID uuid.UUID) (int64, error)
	DeleteByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (int64, error)
	DeleteByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}

type MeasurementRepository interface {
	Create(ctx context.Context, db *gorm.DB, measurement *entity.Measurement) error
	FindByAssignments(ctx context.Context, db *gorm.DB, assignmentIDs []uuid.UUID) ([]entity.Measurement, error)
	FindByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) ([]entity.Measurement, error)
	// Delete removes the measurement only if one of the given assignments owns it
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID, assignmentIDs []uuid.UUID) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
