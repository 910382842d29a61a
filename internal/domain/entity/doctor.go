package entity

import "github.com/google/uuid"

// Doctor can be assigned to studies and enrolls patients in them
type Doctor struct {
	Versioned
	Username  string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Firstname string `gorm:"type:varchar(100);not null" json:"firstname"`
	Lastname  string `gorm:"type:varchar(100);not null" json:"lastname"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// DoctorSortFields lists the fields a doctor listing can be ordered by
var DoctorSortFields = SortFields{
	"username":  "username",
	"firstName": "firstname",
	"lastName":  "lastname",
}

const DefaultDoctorSortField = "username"

func NewDoctor(username, firstname, lastname string) (*Doctor, error) {
	if err := requireText(map[string]string{
		"username":  username,
		"firstname": firstname,
		"lastname":  lastname,
	}); err != nil {
		return nil, err
	}

	return &Doctor{
		Username:  username,
		Firstname: firstname,
		Lastname:  lastname,
	}, nil
}

func RehydrateDoctor(id uuid.UUID, version int, username, firstname, lastname string) (*Doctor, error) {
	base, err := existing(id, version)
	if err != nil {
		return nil, err
	}
	doctor, err := NewDoctor(username, firstname, lastname)
	if err != nil {
		return nil, err
	}
	doctor.Versioned = base
	return doctor, nil
}
