package repository

import (
	"context"

	"patient-study-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudyRepository interface {
	Create(ctx context.Context, db *gorm.DB, study *entity.Study) error
	Update(ctx context.Context, db *gorm.DB, study *entity.Study) error
	Save(ctx context.Context, db *gorm.DB, study *entity.Study) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Study, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Study, error)
	FindAll(ctx context.Context, db *gorm.DB, query entity.ListQuery) ([]entity.Study, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}

// StudyDoctorRepository manages the doctor set of each study
type StudyDoctorRepository interface {
	// Add is a no-op when the membership already exists
	Add(ctx context.Context, db *gorm.DB, studyID, doctorID uuid.UUID) error
	Remove(ctx context.Context, db *gorm.DB, studyID, doctorID uuid.UUID) (int64, error)
	FindDoctorIDsByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) ([]uuid.UUID, error)
	FindStudyIDsByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]uuid.UUID, error)
	DeleteByStudy(ctx context.Context, db *gorm.DB, studyID uuid.UUID) (int64, error)
	DeleteByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (int64, error)
}
