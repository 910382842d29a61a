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

type MeasurementUsecase interface {
	AddMeasurement(ctx context.Context, patientID, studyID uuid.UUID, req *dto.CreateMeasurementRequest) (*dto.MeasurementResponse, error)
	ListMeasurements(ctx context.Context, patientID, studyID uuid.UUID) ([]dto.MeasurementResponse, error)
	ListMeasurementsForStudy(ctx context.Context, studyID uuid.UUID) ([]dto.MeasurementResponse, error)
	DeleteMeasurement(ctx context.Context, patientID, studyID, measurementID uuid.UUID) error
}

type measurementUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	studyRepo       repository.StudyRepository
	assignmentRepo  repository.AssignmentRepository
	measurementRepo repository.MeasurementRepository
	auditService    service.AuditService
}

func NewMeasurementUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	studyRepo repository.StudyRepository,
	assignmentRepo repository.AssignmentRepository,
	measurementRepo repository.MeasurementRepository,
	auditService service.AuditService,
) MeasurementUsecase {
	return &measurementUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		studyRepo:       studyRepo,
		assignmentRepo:  assignmentRepo,
		measurementRepo: measurementRepo,
		auditService:    auditService,
	}
}

// AddMeasurement attaches the measurement to the patient's oldest assignment in the study
func (u *measurementUsecase) AddMeasurement(ctx context.Context, patientID, studyID uuid.UUID, req *dto.CreateMeasurementRequest) (*dto.MeasurementResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	assignments, err := u.assignmentsOf(ctx, tx, patientID, studyID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, ErrAssignmentNotFound
	}

	measurement, err := entity.NewMeasurement(assignments[0].ID, req.Description, req.Timestamp.UTC(), *req.Steps)
	if err != nil {
		return nil, invalidEntity(err)
	}

	if err := u.measurementRepo.Create(ctx, tx, measurement); err != nil {
		u.log.Warnf("Failed to create measurement: %+v", err)
		return nil, err
	}

	result := converter.MeasurementToResponse(measurement)
	if err := u.auditService.LogCreate(ctx, tx, actorFrom(ctx), entity.AuditActionMeasurementCreate, "measurement", measurement.ID.String(), result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return result, nil
}

// ListMeasurements returns the measurements of every assignment of the patient in the study
func (u *measurementUsecase) ListMeasurements(ctx context.Context, patientID, studyID uuid.UUID) ([]dto.MeasurementResponse, error) {
	assignments, err := u.assignmentsOf(ctx, u.db, patientID, studyID)
	if err != nil {
		return nil, err
	}

	measurements, err := u.measurementRepo.FindByAssignments(ctx, u.db, assignmentIDs(assignments))
	if err != nil {
		u.log.Warnf("Failed to list measurements: %+v", err)
		return nil, err
	}
	return converter.MeasurementsToResponses(measurements), nil
}

func (u *measurementUsecase) ListMeasurementsForStudy(ctx context.Context, studyID uuid.UUID) ([]dto.MeasurementResponse, error) {
	study, err := u.studyRepo.FindByID(ctx, u.db, studyID)
	if err != nil {
		u.log.Warnf("Failed to find study: %+v", err)
		return nil, err
	}
	if study == nil {
		return nil, ErrStudyNotFound
	}

	measurements, err := u.measurementRepo.FindByStudy(ctx, u.db, studyID)
	if err != nil {
		u.log.Warnf("Failed to list measurements of study: %+v", err)
		return nil, err
	}
	return converter.MeasurementsToResponses(measurements), nil
}

// DeleteMeasurement is idempotent. A measurement owned by another patient or
// study is left alone.
func (u *measurementUsecase) DeleteMeasurement(ctx context.Context, patientID, studyID, measurementID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	assignments, err := u.assignmentsOf(ctx, tx, patientID, studyID)
	if err != nil {
		return err
	}

	deleted, err := u.measurementRepo.Delete(ctx, tx, measurementID, assignmentIDs(assignments))
	if err != nil {
		u.log.Warnf("Failed to delete measurement: %+v", err)
		return err
	}
	if deleted == 0 {
		return nil
	}

	owner := map[string]string{"patient_id": patientID.String(), "study_id": studyID.String()}
	if err := u.auditService.LogDelete(ctx, tx, actorFrom(ctx), entity.AuditActionMeasurementDelete, "measurement", measurementID.String(), owner); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// assignmentsOf checks that patient and study exist and returns the patient's
// assignments in the study, oldest first
func (u *measurementUsecase) assignmentsOf(ctx context.Context, db *gorm.DB, patientID, studyID uuid.UUID) ([]entity.PatientDoctorStudy, error) {
	patient, err := u.patientRepo.FindByID(ctx, db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	study, err := u.studyRepo.FindByID(ctx, db, studyID)
	if err != nil {
		u.log.Warnf("Failed to find study: %+v", err)
		return nil, err
	}
	if study == nil {
		return nil, ErrStudyNotFound
	}

	assignments, err := u.assignmentRepo.FindByPatientAndStudy(ctx, db, patientID, studyID)
	if err != nil {
		u.log.Warnf("Failed to find assignments: %+v", err)
		return nil, err
	}
	return assignments, nil
}

func assignmentIDs(assignments []entity.PatientDoctorStudy) []uuid.UUID {
	ids := make([]uuid.UUID, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
	}
	return ids
}
