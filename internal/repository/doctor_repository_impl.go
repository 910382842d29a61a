package repository

import (
	"context"
	"errors"

	"patient-study-api/internal/domain/entity"
	domainRepo "patient-study-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct {
	assignments domainRepo.AssignmentRepository
	memberships domainRepo.StudyDoctorRepository
}

func NewDoctorRepository(assignments domainRepo.AssignmentRepository, memberships domainRepo.StudyDoctorRepository) domainRepo.DoctorRepository {
	return &doctorRepository{
		assignments: assignments,
		memberships: memberships,
	}
}

func (r *doctorRepository) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Create(doctor).Error
}

func (r *doctorRepository) Update(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	err := compareAndSwap(ctx, db, &entity.Doctor{}, doctor.ID, doctor.Version, map[string]interface{}{
		"username":  doctor.Username,
		"firstname": doctor.Firstname,
		"lastname":  doctor.Lastname,
	})
	if err != nil {
		return err
	}
	doctor.Version++
	return nil
}

func (r *doctorRepository) Save(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	if doctor.IsNew() {
		return r.Create(ctx, db, doctor)
	}
	return r.Update(ctx, db, doctor)
}

func (r *doctorRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Where("username = ?", username).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, db *gorm.DB, query entity.ListQuery) ([]entity.Doctor, error) {
	scoped, err := orderAndPage(db.WithContext(ctx), query, entity.DoctorSortFields)
	if err != nil {
		return nil, err
	}

	var doctors []entity.Doctor
	if err := scoped.Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

// Delete removes the doctor, every assignment the doctor made (with measurements)
// and the doctor's study memberships.
func (r *doctorRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	var affected int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.assignments.DeleteByDoctor(ctx, tx, id); err != nil {
			return err
		}
		if _, err := r.memberships.DeleteByDoctor(ctx, tx, id); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entity.Doctor{})
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

func (r *doctorRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	return countRows(ctx, db, &entity.Doctor{})
}
