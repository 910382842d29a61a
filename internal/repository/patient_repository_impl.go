package repository

import (
	"context"
	"errors"

	"patient-study-api/internal/domain/entity"
	domainRepo "patient-study-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct {
	assignments domainRepo.AssignmentRepository
}

func NewPatientRepository(assignments domainRepo.AssignmentRepository) domainRepo.PatientRepository {
	return &patientRepository{assignments: assignments}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Create(patient).Error
}

// Update persists the patient if its version is still current and advances the version in place
func (r *patientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	err := compareAndSwap(ctx, db, &entity.Patient{}, patient.ID, patient.Version, map[string]interface{}{
		"username":    patient.Username,
		"patient_ref": patient.PatientRef,
		"firstname":   patient.Firstname,
		"lastname":    patient.Lastname,
		"weight":      patient.Weight,
		"height":      patient.Height,
	})
	if err != nil {
		return err
	}
	patient.Version++
	return nil
}

func (r *patientRepository) Save(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	if patient.IsNew() {
		return r.Create(ctx, db, patient)
	}
	return r.Update(ctx, db, patient)
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Where("username = ?", username).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindAll(ctx context.Context, db *gorm.DB, query entity.ListQuery) ([]entity.Patient, error) {
	scoped, err := orderAndPage(db.WithContext(ctx), query, entity.PatientSortFields)
	if err != nil {
		return nil, err
	}

	var patients []entity.Patient
	if err := scoped.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// Delete removes the patient with its assignments and their measurements.
// Deleting a missing patient affects no rows and is not an error.
func (r *patientRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	var affected int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.assignments.DeleteByPatient(ctx, tx, id); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entity.Patient{})
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

func (r *patientRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	return countRows(ctx, db, &entity.Patient{})
}
