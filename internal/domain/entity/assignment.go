package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientDoctorStudy records that a doctor enrolled a patient in a study.
// It owns the measurements taken for that patient in that study.
//
// The triple is not unique: enrolling the same patient twice creates two rows.
type PatientDoctorStudy struct {
	Versioned
	PatientID uuid.UUID `gorm:"type:uuid;not null;index:idx_pds_patient_study,priority:1;index:idx_pds_triple,priority:1" json:"patient_id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index;index:idx_pds_triple,priority:2" json:"doctor_id"`
	StudyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_pds_patient_study,priority:2;index:idx_pds_triple,priority:3" json:"study_id"`
}

func (PatientDoctorStudy) TableName() string {
	return "patient_doctor_studies"
}

func NewPatientDoctorStudy(patientID, doctorID, studyID uuid.UUID) (*PatientDoctorStudy, error) {
	if patientID == uuid.Nil || doctorID == uuid.Nil || studyID == uuid.Nil {
		return nil, ErrMissingID
	}
	return &PatientDoctorStudy{
		PatientID: patientID,
		DoctorID:  doctorID,
		StudyID:   studyID,
	}, nil
}

// Measurement is a single activity record of a patient within a study
type Measurement struct {
	Versioned
	AssignmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"assignment_id"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	Timestamp    time.Time `gorm:"not null;index" json:"timestamp"`
	Steps        int       `gorm:"not null" json:"steps"`
}

func (Measurement) TableName() string {
	return "measurements"
}

func NewMeasurement(assignmentID uuid.UUID, description string, timestamp time.Time, steps int) (*Measurement, error) {
	if assignmentID == uuid.Nil {
		return nil, ErrMissingID
	}
	return &Measurement{
		AssignmentID: assignmentID,
		Description:  description,
		Timestamp:    timestamp,
		Steps:        steps,
	}, nil
}
