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

// AssignmentUsecase manages the doctor set of each study and the
// patient-doctor-study assignments made within it
type AssignmentUsecase interface {
	AssignDoctorToStudy(ctx context.Context, studyID, doctorID uuid.UUID) error
	RemoveDoctorFromStudy(ctx context.Context, studyID, doctorID uuid.UUID) error
	ListAssignedDoctors(ctx context.Context, studyID uuid.UUID) ([]dto.IDResponse, error)
	ListAssignedStudies(ctx context.Context, doctorID uuid.UUID) ([]dto.IDResponse, error)

	CreateAssignment(ctx context.Context, patientID, doctorID, studyID uuid.UUID) (uuid.UUID, error)
	RemoveAssignment(ctx context.Context, patientID, doctorID, studyID uuid.UUID) error
	ListPatientsAssignedByDoctorInStudy(ctx context.Context, doctorID, studyID uuid.UUID) ([]dto.IDResponse, error)
	ListStudiesForPatient(ctx context.Context, patientID uuid.UUID) ([]dto.IDResponse, error)
}

type assignmentUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	patientRepo    repository.PatientRepository
	doctorRepo     repository.DoctorRepository
	studyRepo      repository.StudyRepository
	membershipRepo repository.StudyDoctorRepository
	assignmentRepo repository.AssignmentRepository
	auditService   service.AuditService
}

func NewAssignmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	studyRepo repository.StudyRepository,
	membershipRepo repository.StudyDoctorRepository,
	assignmentRepo repository.AssignmentRepository,
	auditService service.AuditService,
) AssignmentUsecase {
	return &assignmentUsecase{
		db:             db,
		log:            log,
		patientRepo:    patientRepo,
		doctorRepo:     doctorRepo,
		studyRepo:      studyRepo,
		membershipRepo: membershipRepo,
		assignmentRepo: assignmentRepo,
		auditService:   auditService,
	}
}

// AssignDoctorToStudy adds the doctor to the study. Adding an existing member changes nothing.
func (u *assignmentUsecase) AssignDoctorToStudy(ctx context.Context, studyID, doctorID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requireStudy(ctx, tx, studyID); err != nil {
		return err
	}
	if err := u.requireDoctor(ctx, tx, doctorID); err != nil {
		return err
	}

	if err := u.membershipRepo.Add(ctx, tx, studyID, doctorID); err != nil {
		u.log.Warnf("Failed to add doctor to study: %+v", err)
		return err
	}

	membership := map[string]string{"study_id": studyID.String(), "doctor_id": doctorID.String()}
	if err := u.auditService.LogCreate(ctx, tx, actorFrom(ctx), entity.AuditActionStudyDoctorAdd, "study_doctor", studyID.String(), membership); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// RemoveDoctorFromStudy is idempotent, removing a non-member succeeds
func (u *assignmentUsecase) RemoveDoctorFromStudy(ctx context.Context, studyID, doctorID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requireStudy(ctx, tx, studyID); err != nil {
		return err
	}
	if err := u.requireDoctor(ctx, tx, doctorID); err != nil {
		return err
	}

	removed, err := u.membershipRepo.Remove(ctx, tx, studyID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to remove doctor from study: %+v", err)
		return err
	}
	if removed == 0 {
		return nil
	}

	membership := map[string]string{"study_id": studyID.String(), "doctor_id": doctorID.String()}
	if err := u.auditService.LogDelete(ctx, tx, actorFrom(ctx), entity.AuditActionStudyDoctorRemove, "study_doctor", studyID.String(), membership); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *assignmentUsecase) ListAssignedDoctors(ctx context.Context, studyID uuid.UUID) ([]dto.IDResponse, error) {
	if err := u.requireStudy(ctx, u.db, studyID); err != nil {
		return nil, err
	}

	ids, err := u.membershipRepo.FindDoctorIDsByStudy(ctx, u.db, studyID)
	if err != nil {
		u.log.Warnf("Failed to list doctors of study: %+v", err)
		return nil, err
	}
	return converter.IDsToResponses(ids), nil
}

func (u *assignmentUsecase) ListAssignedStudies(ctx context.Context, doctorID uuid.UUID) ([]dto.IDResponse, error) {
	if err := u.requireDoctor(ctx, u.db, doctorID); err != nil {
		return nil, err
	}

	ids, err := u.membershipRepo.FindStudyIDsByDoctor(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to list studies of doctor: %+v", err)
		return nil, err
	}
	return converter.IDsToResponses(ids), nil
}

// CreateAssignment records that the doctor enrolled the patient in the study.
// Repeating the call creates another assignment for the same triple.
func (u *assignmentUsecase) CreateAssignment(ctx context.Context, patientID, doctorID, studyID uuid.UUID) (uuid.UUID, error) {
	assignment, err := entity.NewPatientDoctorStudy(patientID, doctorID, studyID)
	if err != nil {
		return uuid.Nil, invalidEntity(err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requirePatient(ctx, tx, patientID); err != nil {
		return uuid.Nil, err
	}
	if err := u.requireDoctor(ctx, tx, doctorID); err != nil {
		return uuid.Nil, err
	}
	if err := u.requireStudy(ctx, tx, studyID); err != nil {
		return uuid.Nil, err
	}

	if err := u.assignmentRepo.Create(ctx, tx, assignment); err != nil {
		u.log.Warnf("Failed to create assignment: %+v", err)
		return uuid.Nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actorFrom(ctx), entity.AuditActionAssignmentCreate, "assignment", assignment.ID.String(), assignment); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return uuid.Nil, err
	}

	return assignment.ID, nil
}

// RemoveAssignment deletes the single assignment of the triple with its
// measurements. No match is a no-op; several matches are reported and
// nothing is deleted.
func (u *assignmentUsecase) RemoveAssignment(ctx context.Context, patientID, doctorID, studyID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requirePatient(ctx, tx, patientID); err != nil {
		return err
	}
	if err := u.requireDoctor(ctx, tx, doctorID); err != nil {
		return err
	}
	if err := u.requireStudy(ctx, tx, studyID); err != nil {
		return err
	}

	matches, err := u.assignmentRepo.FindByTriple(ctx, tx, patientID, doctorID, studyID)
	if err != nil {
		u.log.Warnf("Failed to find assignment: %+v", err)
		return err
	}

	switch len(matches) {
	case 0:
		return nil
	case 1:
	default:
		u.log.Errorf("Found %d assignments for patient %s, doctor %s, study %s", len(matches), patientID, doctorID, studyID)
		return ErrAmbiguousAssignment.WithMessage(
			"Found %d assignments for patient %s, doctor %s and study %s, expected at most one", len(matches), patientID, doctorID, studyID)
	}

	assignment := matches[0]
	if _, err := u.assignmentRepo.Delete(ctx, tx, assignment.ID); err != nil {
		u.log.Warnf("Failed to delete assignment: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actorFrom(ctx), entity.AuditActionAssignmentDelete, "assignment", assignment.ID.String(), assignment); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// ListPatientsAssignedByDoctorInStudy returns each enrolled patient once, in enrollment order
func (u *assignmentUsecase) ListPatientsAssignedByDoctorInStudy(ctx context.Context, doctorID, studyID uuid.UUID) ([]dto.IDResponse, error) {
	if err := u.requireDoctor(ctx, u.db, doctorID); err != nil {
		return nil, err
	}
	if err := u.requireStudy(ctx, u.db, studyID); err != nil {
		return nil, err
	}

	assignments, err := u.assignmentRepo.FindByDoctorAndStudy(ctx, u.db, doctorID, studyID)
	if err != nil {
		u.log.Warnf("Failed to list assignments: %+v", err)
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.PatientID)
	}
	return converter.IDsToResponses(distinct(ids)), nil
}

func (u *assignmentUsecase) ListStudiesForPatient(ctx context.Context, patientID uuid.UUID) ([]dto.IDResponse, error) {
	if err := u.requirePatient(ctx, u.db, patientID); err != nil {
		return nil, err
	}

	assignments, err := u.assignmentRepo.FindByPatient(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to list assignments: %+v", err)
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.StudyID)
	}
	return converter.IDsToResponses(distinct(ids)), nil
}

func (u *assignmentUsecase) requirePatient(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	patient, err := u.patientRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	return nil
}

func (u *assignmentUsecase) requireDoctor(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	doctor, err := u.doctorRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	return nil
}

func (u *assignmentUsecase) requireStudy(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	study, err := u.studyRepo.FindByID(ctx, db, id)
	if err != nil {
		u.log.Warnf("Failed to find study: %+v", err)
		return err
	}
	if study == nil {
		return ErrStudyNotFound
	}
	return nil
}

// distinct drops repeated ids and keeps the first occurrence order
func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
