package service

import (
	"context"
	"io"
	"testing"
	"time"

	"patient-study-api/internal/repository"
	"patient-study-api/internal/testutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeedService(t *testing.T) (*seedService, func() int64) {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	assignmentRepo := repository.NewAssignmentRepository()
	membershipRepo := repository.NewStudyDoctorRepository()
	measurementRepo := repository.NewMeasurementRepository()
	s := NewSeedService(
		db,
		log,
		repository.NewPatientRepository(assignmentRepo),
		repository.NewDoctorRepository(assignmentRepo, membershipRepo),
		repository.NewStudyRepository(assignmentRepo, membershipRepo),
		membershipRepo,
		assignmentRepo,
		measurementRepo,
	).(*seedService)
	s.clock = func() time.Time { return time.Date(2024, 5, 17, 13, 45, 0, 0, time.UTC) }

	countMeasurements := func() int64 {
		n, err := measurementRepo.Count(context.Background(), db)
		require.NoError(t, err)
		return n
	}
	return s, countMeasurements
}

func TestSeedService_SeedsDemoData(t *testing.T) {
	s, countMeasurements := newSeedService(t)
	ctx := context.Background()

	report, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{Patients: 4, Doctors: 3, Studies: 2, Memberships: 3, Assignments: 5, Measurements: 10}, report)
	assert.Equal(t, int64(10), countMeasurements())

	study, err := s.studyRepo.FindByName(ctx, s.db, "study-2")
	require.NoError(t, err)
	require.NotNil(t, study)
	require.NotNil(t, study.StartDate)
	assert.Equal(t, "2024-05-17", study.StartDate.UTC().Format("2006-01-02"))

	doctorIDs, err := s.membershipRepo.FindDoctorIDsByStudy(ctx, s.db, study.ID)
	require.NoError(t, err)
	assert.Len(t, doctorIDs, 2)

	patient, err := s.patientRepo.FindByUsername(ctx, s.db, "patient-4")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assignments, err := s.assignmentRepo.FindByPatientAndStudy(ctx, s.db, patient.ID, study.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	measurements, err := s.measurementRepo.FindByAssignments(ctx, s.db, []uuid.UUID{assignments[0].ID})
	require.NoError(t, err)
	require.Len(t, measurements, 2)
	assert.Equal(t, 900, measurements[0].Steps)
	assert.Equal(t, 1000, measurements[1].Steps)
}

func TestSeedService_IsRepeatable(t *testing.T) {
	s, countMeasurements := newSeedService(t)
	ctx := context.Background()

	_, err := s.Seed(ctx)
	require.NoError(t, err)

	report, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{}, report)
	assert.Equal(t, int64(10), countMeasurements())
}

func TestTokenKey(t *testing.T) {
	assert.Equal(t, "access_token:api:abc", tokenKey("access", "api", "abc"))
}
