package usecase

import (
	"context"
	"math"

	"patient-study-api/internal/converter"
	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxAuditLogPage caps a single audit log page
const maxAuditLogPage = 500

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, page, size int) ([]dto.AuditLogResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetAllAuditLogs returns one page of the trail, newest first
func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, page, size int) ([]dto.AuditLogResponse, error) {
	if page < 0 {
		return nil, ErrInvalidPage
	}
	if size <= 0 || size > maxAuditLogPage {
		return nil, ErrInvalidPageSize.WithMessage("Size must be between 1 and %d", maxAuditLogPage)
	}
	if page > math.MaxInt/size {
		return nil, ErrInvalidPage.WithMessage("Page [%d] is out of range for size [%d]", page, size)
	}

	logs, err := u.auditLogRepo.FindAll(ctx, u.db, size, page*size)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	return converter.AuditLogsToResponses(logs), nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
