package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"patient-study-api/internal/domain/entity"
	"patient-study-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedReport counts the rows a seed run inserted
type SeedReport struct {
	Patients     int
	Doctors      int
	Studies      int
	Memberships  int
	Assignments  int
	Measurements int
}

type seedAssignment struct {
	patient, doctor, study int
	steps                  [2]int
}

// Index based references into the seeded patients, doctors and studies
var (
	seedMemberships = [][2]int{{1, 1}, {2, 2}, {2, 3}} // study, doctor
	seedAssignments = []seedAssignment{
		{patient: 1, doctor: 1, study: 1, steps: [2]int{100, 200}},
		{patient: 1, doctor: 2, study: 2, steps: [2]int{300, 400}},
		{patient: 2, doctor: 1, study: 1, steps: [2]int{500, 600}},
		{patient: 3, doctor: 2, study: 2, steps: [2]int{700, 800}},
		{patient: 4, doctor: 3, study: 2, steps: [2]int{900, 1000}},
	}
)

const (
	seedPatientCount = 4
	seedDoctorCount  = 3
	seedStudyCount   = 2
)

type SeedService interface {
	Seed(ctx context.Context) (*SeedReport, error)
}

type seedService struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	studyRepo       repository.StudyRepository
	membershipRepo  repository.StudyDoctorRepository
	assignmentRepo  repository.AssignmentRepository
	measurementRepo repository.MeasurementRepository
	clock           func() time.Time
}

func NewSeedService(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	studyRepo repository.StudyRepository,
	membershipRepo repository.StudyDoctorRepository,
	assignmentRepo repository.AssignmentRepository,
	measurementRepo repository.MeasurementRepository,
) SeedService {
	return &seedService{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		studyRepo:       studyRepo,
		membershipRepo:  membershipRepo,
		assignmentRepo:  assignmentRepo,
		measurementRepo: measurementRepo,
		clock:           time.Now,
	}
}

// Seed loads the demo data set in one transaction. Rows that already exist,
// matched by username, study name or assignment triple, are left untouched
// so the command can run repeatedly.
func (s *seedService) Seed(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}

	tx := s.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patients := make(map[int]uuid.UUID, seedPatientCount)
	for i := 1; i <= seedPatientCount; i++ {
		id, created, err := s.seedPatient(ctx, tx, i)
		if err != nil {
			return nil, err
		}
		patients[i] = id
		if created {
			report.Patients++
		}
	}

	doctors := make(map[int]uuid.UUID, seedDoctorCount)
	for i := 1; i <= seedDoctorCount; i++ {
		id, created, err := s.seedDoctor(ctx, tx, i)
		if err != nil {
			return nil, err
		}
		doctors[i] = id
		if created {
			report.Doctors++
		}
	}

	studies := make(map[int]uuid.UUID, seedStudyCount)
	for i := 1; i <= seedStudyCount; i++ {
		id, created, err := s.seedStudy(ctx, tx, i)
		if err != nil {
			return nil, err
		}
		studies[i] = id
		if created {
			report.Studies++
		}
	}

	for _, m := range seedMemberships {
		studyID, doctorID := studies[m[0]], doctors[m[1]]
		members, err := s.membershipRepo.FindDoctorIDsByStudy(ctx, tx, studyID)
		if err != nil {
			return nil, err
		}
		if slices.Contains(members, doctorID) {
			continue
		}
		if err := s.membershipRepo.Add(ctx, tx, studyID, doctorID); err != nil {
			s.log.Warnf("Failed to seed membership: %+v", err)
			return nil, err
		}
		report.Memberships++
	}

	now := s.clock().UTC()
	for _, a := range seedAssignments {
		patientID, doctorID, studyID := patients[a.patient], doctors[a.doctor], studies[a.study]
		existing, err := s.assignmentRepo.FindByTriple(ctx, tx, patientID, doctorID, studyID)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			continue
		}

		assignment, err := entity.NewPatientDoctorStudy(patientID, doctorID, studyID)
		if err != nil {
			return nil, err
		}
		if err := s.assignmentRepo.Create(ctx, tx, assignment); err != nil {
			s.log.Warnf("Failed to seed assignment: %+v", err)
			return nil, err
		}
		report.Assignments++

		for i, steps := range a.steps {
			measurement, err := entity.NewMeasurement(assignment.ID, "descr", now.Add(time.Duration(i)*time.Minute), steps)
			if err != nil {
				return nil, err
			}
			if err := s.measurementRepo.Create(ctx, tx, measurement); err != nil {
				s.log.Warnf("Failed to seed measurement: %+v", err)
				return nil, err
			}
			report.Measurements++
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"patients":     report.Patients,
		"doctors":      report.Doctors,
		"studies":      report.Studies,
		"memberships":  report.Memberships,
		"assignments":  report.Assignments,
		"measurements": report.Measurements,
	}).Info("Seed data loaded")

	return report, nil
}

func (s *seedService) seedPatient(ctx context.Context, tx *gorm.DB, i int) (uuid.UUID, bool, error) {
	username := fmt.Sprintf("patient-%d", i)
	found, err := s.patientRepo.FindByUsername(ctx, tx, username)
	if err != nil {
		return uuid.Nil, false, err
	}
	if found != nil {
		return found.ID, false, nil
	}

	weight, height := 100, 200
	patient, err := entity.NewPatient(username, "1234", "F1", "L1", &weight, &height)
	if err != nil {
		return uuid.Nil, false, err
	}
	if err := s.patientRepo.Create(ctx, tx, patient); err != nil {
		s.log.Warnf("Failed to seed patient: %+v", err)
		return uuid.Nil, false, err
	}
	return patient.ID, true, nil
}

func (s *seedService) seedDoctor(ctx context.Context, tx *gorm.DB, i int) (uuid.UUID, bool, error) {
	username := fmt.Sprintf("doctor-%d", i)
	found, err := s.doctorRepo.FindByUsername(ctx, tx, username)
	if err != nil {
		return uuid.Nil, false, err
	}
	if found != nil {
		return found.ID, false, nil
	}

	doctor, err := entity.NewDoctor(username, "F1", "L1")
	if err != nil {
		return uuid.Nil, false, err
	}
	if err := s.doctorRepo.Create(ctx, tx, doctor); err != nil {
		s.log.Warnf("Failed to seed doctor: %+v", err)
		return uuid.Nil, false, err
	}
	return doctor.ID, true, nil
}

func (s *seedService) seedStudy(ctx context.Context, tx *gorm.DB, i int) (uuid.UUID, bool, error) {
	name := fmt.Sprintf("study-%d", i)
	found, err := s.studyRepo.FindByName(ctx, tx, name)
	if err != nil {
		return uuid.Nil, false, err
	}
	if found != nil {
		return found.ID, false, nil
	}

	now := s.clock().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	study, err := entity.NewStudy(name, "description", &today, &today)
	if err != nil {
		return uuid.Nil, false, err
	}
	if err := s.studyRepo.Create(ctx, tx, study); err != nil {
		s.log.Warnf("Failed to seed study: %+v", err)
		return uuid.Nil, false, err
	}
	return study.ID, true, nil
}
