package repository

import (
	"context"

	"patient-study-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	Update(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	Save(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.Doctor, error)
	FindAll(ctx context.Context, db *gorm.DB, query entity.ListQuery) ([]entity.Doctor, error)
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
