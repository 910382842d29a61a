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

type DoctorUsecase interface {
	Create(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	FindByUsername(ctx context.Context, username string) ([]dto.DoctorResponse, error)
	List(ctx context.Context, params dto.ListParams) ([]dto.DoctorResponse, *dto.PageMeta, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	auditService    service.AuditService
	defaultPageSize int
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	defaultPageSize int,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		auditService:    auditService,
		defaultPageSize: defaultPageSize,
	}
}

func (u *doctorUsecase) Create(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := entity.NewDoctor(req.Username, req.Firstname, req.Lastname)
	if err != nil {
		return nil, invalidEntity(err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.doctorRepo.Create(ctx, tx, doctor); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrUsernameExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	result := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogCreate(ctx, tx, actorFrom(ctx), entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return result, nil
}

func (u *doctorUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) FindByUsername(ctx context.Context, username string) ([]dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByUsername(ctx, u.db, username)
	if err != nil {
		u.log.Warnf("Failed to find doctor by username: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return []dto.DoctorResponse{}, nil
	}
	return []dto.DoctorResponse{*converter.DoctorToResponse(doctor)}, nil
}

func (u *doctorUsecase) List(ctx context.Context, params dto.ListParams) ([]dto.DoctorResponse, *dto.PageMeta, error) {
	query, err := resolveListQuery(params, entity.DoctorSortFields, entity.DefaultDoctorSortField, u.defaultPageSize)
	if err != nil {
		return nil, nil, err
	}

	doctors, err := u.doctorRepo.FindAll(ctx, u.db, query)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, nil, err
	}

	return converter.DoctorsToResponses(doctors), pageMeta(query, len(doctors)), nil
}

func (u *doctorUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := entity.RehydrateDoctor(id, *req.Version, req.Username, req.Firstname, req.Lastname)
	if err != nil {
		return nil, invalidEntity(err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	old, err := u.doctorRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if old == nil {
		return nil, ErrDoctorNotFound
	}

	if err := u.doctorRepo.Update(ctx, tx, doctor); err != nil {
		mapped := updateError(err, ErrDoctorNotFound, ErrUsernameExists)
		if mapped == err {
			u.log.Warnf("Failed to update doctor: %+v", err)
		}
		return nil, mapped
	}

	updated, err := u.doctorRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload doctor: %+v", err)
		return nil, err
	}

	result := converter.DoctorToResponse(updated)
	if err := u.auditService.LogUpdate(ctx, tx, actorFrom(ctx), entity.AuditActionDoctorUpdate, "doctor", id.String(), converter.DoctorToResponse(old), result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return result, nil
}

// Delete removes the doctor, the doctor's assignments and study memberships
func (u *doctorUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	old, err := u.doctorRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if old == nil {
		return nil
	}

	if _, err := u.doctorRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actorFrom(ctx), entity.AuditActionDoctorDelete, "doctor", id.String(), converter.DoctorToResponse(old)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
