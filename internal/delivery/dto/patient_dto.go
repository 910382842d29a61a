package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	Username  string `json:"username" validate:"required,max=100"`
	PatientID string `json:"patientID" validate:"omitempty,max=100"`
	Firstname string `json:"firstname" validate:"required,max=100"`
	Lastname  string `json:"lastname" validate:"required,max=100"`
	Weight    *int   `json:"weight" validate:"omitempty,gte=0"`
	Height    *int   `json:"height" validate:"omitempty,gte=0"`
}

// UpdatePatientRequest replaces every field of the patient. Version must be
// the version the client last read.
type UpdatePatientRequest struct {
	Version   *int   `json:"version" validate:"required,gte=0"`
	Username  string `json:"username" validate:"required,max=100"`
	PatientID string `json:"patientID" validate:"omitempty,max=100"`
	Firstname string `json:"firstname" validate:"required,max=100"`
	Lastname  string `json:"lastname" validate:"required,max=100"`
	Weight    *int   `json:"weight" validate:"omitempty,gte=0"`
	Height    *int   `json:"height" validate:"omitempty,gte=0"`
}

// Response DTOs

type PatientResponse struct {
	ID        uuid.UUID `json:"id"`
	Version   int       `json:"version"`
	Username  string    `json:"username"`
	PatientID string    `json:"patientID,omitempty"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Weight    *int      `json:"weight,omitempty"`
	Height    *int      `json:"height,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
