package entity

import (
	"time"

	"github.com/google/uuid"
)

// Study groups the doctors working on it and the patients they enroll
type Study struct {
	Versioned
	Name        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	StartDate   *time.Time `gorm:"type:date" json:"startdate,omitempty"`
	EndDate     *time.Time `gorm:"type:date" json:"enddate,omitempty"`
}

func (Study) TableName() string {
	return "studies"
}

// StudySortFields lists the fields a study listing can be ordered by
var StudySortFields = SortFields{
	"name": "name",
}

const DefaultStudySortField = "name"

func NewStudy(name, description string, startDate, endDate *time.Time) (*Study, error) {
	if err := requireText(map[string]string{"name": name}); err != nil {
		return nil, err
	}

	return &Study{
		Name:        name,
		Description: description,
		StartDate:   startDate,
		EndDate:     endDate,
	}, nil
}

func RehydrateStudy(id uuid.UUID, version int, name, description string, startDate, endDate *time.Time) (*Study, error) {
	base, err := existing(id, version)
	if err != nil {
		return nil, err
	}
	study, err := NewStudy(name, description, startDate, endDate)
	if err != nil {
		return nil, err
	}
	study.Versioned = base
	return study, nil
}

// StudyDoctor is one membership of the doctor set of a study.
// The same rows answer both "doctors of a study" and "studies of a doctor".
type StudyDoctor struct {
	StudyID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"study_id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"doctor_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StudyDoctor) TableName() string {
	return "study_doctors"
}
