package repository

import (
	"context"
	"errors"

	"patient-study-api/internal/domain/entity"
	domainRepo "patient-study-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type studyRepository struct {
	assignments domainRepo.AssignmentRepository
	memberships domainRepo.StudyDoctorRepository
}

func NewStudyRepository(assignments domainRepo.AssignmentRepository, memberships domainRepo.StudyDoctorRepository) domainRepo.StudyRepository {
	return &studyRepository{
		assignments: assignments,
		memberships: memberships,
	}
}

func (r *studyRepository) Create(ctx context.Context, db *gorm.DB, study *entity.Study) error {
	return db.WithContext(ctx).Create(study).Error
}

func (r *studyRepository) Update(ctx context.Context, db *gorm.DB, study *entity.Study) error {
	err := compareAndSwap(ctx, db, &entity.Study{}, study.ID, study.Version, map[string]interface{}{
		"name":        study.Name,
		"description": study.Description,
		"start_date":  study.StartDate,
		"end_date":    study.EndDate,
	})
	if err != nil {
		return err
	}
	study.Version++
	return nil
}

func (r *studyRepository) Save(ctx context.Context, db *gorm.DB, study *entity.Study) error {
	if study.IsNew() {
		return r.Create(ctx, db, study)
	}
	return r.Update(ctx, db, study)
}

func (r *studyRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Study, error) {
	var study entity.Study
	err := db.WithContext(ctx).Where("id = ?", id).First(&study).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &study, nil
}

func (r *studyRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Study, error) {
	var study entity.Study
	err := db.WithContext(ctx).Where("name = ?", name).First(&study).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &study, nil
}

func (r *studyRepository) FindAll(ctx context.Context, db *gorm.DB, query entity.ListQuery) ([]entity.Study, error) {
	scoped, err := orderAndPage(db.WithContext(ctx), query, entity.StudySortFields)
	if err != nil {
		return nil, err
	}

	var studies []entity.Study
	if err := scoped.Find(&studies).Error; err != nil {
		return nil, err
	}
	return studies, nil
}

func (r *studyRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	var affected int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.assignments.DeleteByStudy(ctx, tx, id); err != nil {
			return err
		}
		if _, err := r.memberships.DeleteByStudy(ctx, tx, id); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entity.Study{})
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

func (r *studyRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	return countRows(ctx, db, &entity.Study{})
}
