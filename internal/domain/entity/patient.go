package entity

import "github.com/google/uuid"

// Patient is a person that can be enrolled in studies
type Patient struct {
	Versioned
	Username   string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PatientRef string `gorm:"column:patient_ref;type:varchar(100)" json:"patientID"`
	Firstname  string `gorm:"type:varchar(100);not null" json:"firstname"`
	Lastname   string `gorm:"type:varchar(100);not null" json:"lastname"`
	Weight     *int   `json:"weight,omitempty"`
	Height     *int   `json:"height,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// PatientSortFields lists the fields a patient listing can be ordered by
var PatientSortFields = SortFields{
	"username":  "username",
	"firstName": "firstname",
	"lastName":  "lastname",
}

// DefaultPatientSortField is used when a listing names no order field
const DefaultPatientSortField = "username"

// NewPatient builds a patient that has not been persisted yet
func NewPatient(username, patientRef, firstname, lastname string, weight, height *int) (*Patient, error) {
	if err := requireText(map[string]string{
		"username":  username,
		"firstname": firstname,
		"lastname":  lastname,
	}); err != nil {
		return nil, err
	}

	return &Patient{
		Username:   username,
		PatientRef: patientRef,
		Firstname:  firstname,
		Lastname:   lastname,
		Weight:     weight,
		Height:     height,
	}, nil
}

// RehydratePatient builds an already persisted patient carrying the version the caller last read
func RehydratePatient(id uuid.UUID, version int, username, patientRef, firstname, lastname string, weight, height *int) (*Patient, error) {
	base, err := existing(id, version)
	if err != nil {
		return nil, err
	}
	patient, err := NewPatient(username, patientRef, firstname, lastname, weight, height)
	if err != nil {
		return nil, err
	}
	patient.Versioned = base
	return patient, nil
}
