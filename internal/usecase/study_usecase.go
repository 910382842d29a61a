package usecase

import (
	"context"
	"time"

	"patient-study-api/internal/converter"
	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/domain/entity"
	"patient-study-api/internal/domain/repository"
	"patient-study-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StudyUsecase interface {
	Create(ctx context.Context, req *dto.CreateStudyRequest) (*dto.StudyResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.StudyResponse, error)
	FindByName(ctx context.Context, name string) ([]dto.StudyResponse, error)
	List(ctx context.Context, params dto.ListParams) ([]dto.StudyResponse, *dto.PageMeta, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateStudyRequest) (*dto.StudyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type studyUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	studyRepo       repository.StudyRepository
	auditService    service.AuditService
	defaultPageSize int
}

func NewStudyUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	studyRepo repository.StudyRepository,
	auditService service.AuditService,
	defaultPageSize int,
) StudyUsecase {
	return &studyUsecase{
		db:              db,
		log:             log,
		studyRepo:       studyRepo,
		auditService:    auditService,
		defaultPageSize: defaultPageSize,
	}
}

func (u *studyUsecase) Create(ctx context.Context, req *dto.CreateStudyRequest) (*dto.StudyResponse, error) {
	start, end, err := parseStudyDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	study, err := entity.NewStudy(req.Name, req.Description, start, end)
	if err != nil {
		return nil, invalidEntity(err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.studyRepo.Create(ctx, tx, study); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrStudyNameExists
		}
		u.log.Warnf("Failed to create study: %+v", err)
		return nil, err
	}

	result := converter.StudyToResponse(study)
	if err := u.auditService.LogCreate(ctx, tx, actorFrom(ctx), entity.AuditActionStudyCreate, "study", study.ID.String(), result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return result, nil
}

func (u *studyUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.StudyResponse, error) {
	study, err := u.studyRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find study: %+v", err)
		return nil, err
	}
	if study == nil {
		return nil, ErrStudyNotFound
	}
	return converter.StudyToResponse(study), nil
}

func (u *studyUsecase) FindByName(ctx context.Context, name string) ([]dto.StudyResponse, error) {
	study, err := u.studyRepo.FindByName(ctx, u.db, name)
	if err != nil {
		u.log.Warnf("Failed to find study by name: %+v", err)
		return nil, err
	}
	if study == nil {
		return []dto.StudyResponse{}, nil
	}
	return []dto.StudyResponse{*converter.StudyToResponse(study)}, nil
}

func (u *studyUsecase) List(ctx context.Context, params dto.ListParams) ([]dto.StudyResponse, *dto.PageMeta, error) {
	query, err := resolveListQuery(params, entity.StudySortFields, entity.DefaultStudySortField, u.defaultPageSize)
	if err != nil {
		return nil, nil, err
	}

	studies, err := u.studyRepo.FindAll(ctx, u.db, query)
	if err != nil {
		u.log.Warnf("Failed to list studies: %+v", err)
		return nil, nil, err
	}

	return converter.StudiesToResponses(studies), pageMeta(query, len(studies)), nil
}

func (u *studyUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateStudyRequest) (*dto.StudyResponse, error) {
	start, end, err := parseStudyDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	study, err := entity.RehydrateStudy(id, *req.Version, req.Name, req.Description, start, end)
	if err != nil {
		return nil, invalidEntity(err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	old, err := u.studyRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find study: %+v", err)
		return nil, err
	}
	if old == nil {
		return nil, ErrStudyNotFound
	}

	if err := u.studyRepo.Update(ctx, tx, study); err != nil {
		mapped := updateError(err, ErrStudyNotFound, ErrStudyNameExists)
		if mapped == err {
			u.log.Warnf("Failed to update study: %+v", err)
		}
		return nil, mapped
	}

	updated, err := u.studyRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to reload study: %+v", err)
		return nil, err
	}

	result := converter.StudyToResponse(updated)
	if err := u.auditService.LogUpdate(ctx, tx, actorFrom(ctx), entity.AuditActionStudyUpdate, "study", id.String(), converter.StudyToResponse(old), result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return result, nil
}

// Delete removes the study, its memberships and every assignment in it
func (u *studyUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	old, err := u.studyRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find study: %+v", err)
		return err
	}
	if old == nil {
		return nil
	}

	if _, err := u.studyRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete study: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actorFrom(ctx), entity.AuditActionStudyDelete, "study", id.String(), converter.StudyToResponse(old)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// parseStudyDates parses optional YYYY-MM-DD dates as UTC midnight
func parseStudyDates(startDate, endDate string) (*time.Time, *time.Time, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return nil, nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, ErrInvalidDateRange
	}
	return start, end, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(converter.DateLayout, value, time.UTC)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	return &t, nil
}
