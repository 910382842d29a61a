package usecase

import (
	"context"
	"errors"

	"patient-study-api/internal/delivery/http/middleware"
	"patient-study-api/internal/domain/entity"
	"patient-study-api/internal/domain/repository"
	"patient-study-api/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound    = apperror.New(apperror.KindNotFound, "patient_not_found", "Patient not found")
	ErrDoctorNotFound     = apperror.New(apperror.KindNotFound, "doctor_not_found", "Doctor not found")
	ErrStudyNotFound      = apperror.New(apperror.KindNotFound, "study_not_found", "Study not found")
	ErrAssignmentNotFound = apperror.New(apperror.KindNotFound, "assignment_not_found", "Patient is not assigned to the study")
	ErrAuditLogNotFound   = apperror.New(apperror.KindNotFound, "audit_log_not_found", "Audit log not found")

	ErrUsernameExists  = apperror.New(apperror.KindConflict, "username_exists", "Username already exists")
	ErrStudyNameExists = apperror.New(apperror.KindConflict, "study_name_exists", "Study name already exists")
	ErrVersionConflict = apperror.New(apperror.KindConflict, "version_conflict", "The entity was changed by another request, reload and retry")

	ErrAmbiguousAssignment = apperror.New(apperror.KindInternalInconsistency, "ambiguous_assignment", "More than one assignment matches the patient, doctor and study")

	ErrInvalidOrderField = apperror.New(apperror.KindUnprocessable, "invalid_order_field", "Invalid order field")
	ErrInvalidOrder      = apperror.New(apperror.KindUnprocessable, "invalid_order", "Order must be one of: [asc, desc]")
	ErrInvalidPage       = apperror.New(apperror.KindUnprocessable, "invalid_page", "Page must be zero or greater")
	ErrInvalidPageSize   = apperror.New(apperror.KindUnprocessable, "invalid_page_size", "Size must be -1 or greater than zero")

	ErrInvalidEntity     = apperror.New(apperror.KindValidation, "invalid_entity", "Entity is missing required fields")
	ErrInvalidDateFormat = apperror.New(apperror.KindValidation, "invalid_date_format", "Invalid date format, use YYYY-MM-DD")
	ErrInvalidDateRange  = apperror.New(apperror.KindValidation, "invalid_date_range", "Study end date is before its start date")

	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "invalid_credentials", "Invalid username or password")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthorized, "invalid_token", "Invalid or expired token")
	ErrTokenRevoked       = apperror.New(apperror.KindUnauthorized, "token_revoked", "Token has been revoked")
)

// systemActor is recorded in the audit log for changes made outside a request, e.g. seeding
const systemActor = "system"

func actorFrom(ctx context.Context) string {
	if username, ok := middleware.GetUsernameFromContext(ctx); ok && username != "" {
		return username
	}
	return systemActor
}

// isDuplicateKeyError reports a unique constraint violation. Both dialectors
// run with TranslateError, the pgconn check covers a session opened without it.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	// PostgreSQL error code 23505 = unique_violation
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// invalidEntity turns a constructor error into a validation error carrying its message
func invalidEntity(err error) error {
	if errors.Is(err, entity.ErrRequiredField) || errors.Is(err, entity.ErrMissingID) {
		return ErrInvalidEntity.WithMessage("%s", err.Error()).Wrap(err)
	}
	return err
}

// updateError maps the outcome of a versioned update onto application errors
func updateError(err error, notFound, duplicate *apperror.Error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrStaleVersion):
		return ErrVersionConflict
	case isDuplicateKeyError(err):
		return duplicate
	default:
		return err
	}
}
