package repository

import (
	"context"

	"patient-study-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	Save(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.Patient, error)
	FindAll(ctx context.Context, db *gorm.DB, query entity.ListQuery) ([]entity.Patient, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
