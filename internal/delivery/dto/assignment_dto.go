package dto

import (
	"time"

	"github.com/google/uuid"
)

// IDRequest references an existing entity, e.g. the doctor added to a study
type IDRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

type CreateMeasurementRequest struct {
	Description string     `json:"description" validate:"omitempty,max=1000"`
	Timestamp   *time.Time `json:"timestamp" validate:"required"` // RFC 3339
	Steps       *int       `json:"steps" validate:"required,gte=0"`
}

type MeasurementResponse struct {
	ID           uuid.UUID `json:"id"`
	Version      int       `json:"version"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	Description  string    `json:"description,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Steps        int       `json:"steps"`
}
