package usecase

import (
	"context"

	"patient-study-api/internal/converter"
	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/domain/entity"
	"patient-study-api/internal/domain/repository"
	"patient-study-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PatientUsecase interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	FindByUsername(ctx context.Context, username string) ([]dto.PatientResponse, error)
	List(ctx context.Context, params dto.ListParams) ([]dto.PatientResponse, *dto.PageMeta, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type patientUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	auditService    service.AuditService
	defaultPageSize int
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	defaultPageSize int,
) PatientUsecase {
	return &patientUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		auditService:    auditService,
		defaultPageSize: defaultPageSize,
	}
}

func (u *patientUsecase) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	patient, err := entity.NewPatient(req.Username, req.PatientID, req.Firstname, req.Lastname, req.Weight, req.Height)
	if err != nil {
		return nil, invalidEntity(err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrUsernameExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	result := converter.PatientToResponse(patient)
	if err := u.auditService.LogCreate(ctx, tx, actorFrom(ctx), entity.AuditActionPatientCreate, "patient", patient.ID.String(), result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return result, nil
}

func (u *patientUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return converter.PatientToResponse(patient), nil
}

// FindByUsername returns the matching patient as a list of zero or one element
func (u *patientUsecase) FindByUsername(ctx context.Context, username string) ([]dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByUsername(ctx, u.db, username)
	if err != nil {
		u.log.Warnf("Failed to find patient by username: %+v", err)
		return nil, err
	}
	if patient == nil {
		return []dto.PatientResponse{}, nil
	}
	return []dto.PatientResponse{*converter.PatientToResponse(patient)}, nil
}

func (u *patientUsecase) List(ctx context.Context, params dto.ListParams) ([]dto.PatientResponse, *dto.PageMeta, error) {
	query, err := resolveListQuery(params, entity.PatientSortFields, entity.DefaultPatientSortField, u.defaultPageSize)
	if err != nil {
		return nil, nil, err
	}

	patients, err := u.patientRepo.FindAll(ctx, u.db, query)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, nil, err
	}

	u.log.Debugf("Listed %d patients ordered by %s %s", len(patients), query.OrderBy, query.Direction)
	return converter.PatientsToResponses(patients), pageMeta(query, len(patients)), nil
}

// Update replaces the patient's fields if the request carries the current version
func (u *patientUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	patient, err := entity.RehydratePatient(id, *req.Version, req.Username, req.PatientID, req.Firstname, req.Lastname, req.Weight, req.Height)
	if err != nil {
		return nil, invalidEntity(err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	old, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if old == nil {
		return nil, ErrPatientNotFound
	}

	if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
		mapped := updateError(err, ErrPatientNotFound, ErrUsernameExists)
		if mapped == err {
			u.log.Warnf("Failed to update patient: %+v", err)
		}
		return nil, mapped
	}

	updated, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload patient: %+v", err)
		return nil, err
	}

	result := converter.PatientToResponse(updated)
	if err := u.auditService.LogUpdate(ctx, tx, actorFrom(ctx), entity.AuditActionPatientUpdate, "patient", id.String(), converter.PatientToResponse(old), result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return result, nil
}

// Delete removes the patient with everything that references it. Deleting a
// missing patient succeeds.
func (u *patientUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	old, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if old == nil {
		return nil
	}

	if _, err := u.patientRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actorFrom(ctx), entity.AuditActionPatientDelete, "patient", id.String(), converter.PatientToResponse(old)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
