package usecase

import (
	"context"
	"io"
	"testing"

	"patient-study-api/internal/delivery/http/middleware"
	domainRepo "patient-study-api/internal/domain/repository"
	"patient-study-api/internal/repository"
	"patient-study-api/internal/service"
	"patient-study-api/internal/testutil"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// testEnv wires every usecase against a private in-memory database
type testEnv struct {
	db           *gorm.DB
	auditLogRepo domainRepo.AuditLogRepository

	patients     PatientUsecase
	doctors      DoctorUsecase
	studies      StudyUsecase
	assignments  AssignmentUsecase
	measurements MeasurementUsecase
	auditLogs    AuditLogUsecase
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := newTestLogger()

	assignmentRepo := repository.NewAssignmentRepository()
	membershipRepo := repository.NewStudyDoctorRepository()
	patientRepo := repository.NewPatientRepository(assignmentRepo)
	doctorRepo := repository.NewDoctorRepository(assignmentRepo, membershipRepo)
	studyRepo := repository.NewStudyRepository(assignmentRepo, membershipRepo)
	measurementRepo := repository.NewMeasurementRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	auditService := service.NewAuditService(log, auditLogRepo)

	return &testEnv{
		db:           db,
		auditLogRepo: auditLogRepo,
		patients:     NewPatientUsecase(db, log, patientRepo, auditService, 20),
		doctors:      NewDoctorUsecase(db, log, doctorRepo, auditService, 20),
		studies:      NewStudyUsecase(db, log, studyRepo, auditService, 20),
		assignments:  NewAssignmentUsecase(db, log, patientRepo, doctorRepo, studyRepo, membershipRepo, assignmentRepo, auditService),
		measurements: NewMeasurementUsecase(db, log, patientRepo, studyRepo, assignmentRepo, measurementRepo, auditService),
		auditLogs:    NewAuditLogUsecase(db, log, auditLogRepo),
	}
}

func newAuditServiceFor(env *testEnv, log *logrus.Logger) service.AuditService {
	return service.NewAuditService(log, env.auditLogRepo)
}

func asUser(username string) context.Context {
	return middleware.WithIdentity(context.Background(), username, "token-id")
}

func intPtr(v int) *int {
	return &v
}
