package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateStudyRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty"`
	StartDate   string `json:"startdate" validate:"omitempty,datetime=2006-01-02"` // Format: YYYY-MM-DD
	EndDate     string `json:"enddate" validate:"omitempty,datetime=2006-01-02"`   // Format: YYYY-MM-DD
}

type UpdateStudyRequest struct {
	Version     *int   `json:"version" validate:"required,gte=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty"`
	StartDate   string `json:"startdate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"enddate" validate:"omitempty,datetime=2006-01-02"`
}

// Response DTOs

type StudyResponse struct {
	ID          uuid.UUID `json:"id"`
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartDate   string    `json:"startdate,omitempty"`
	EndDate     string    `json:"enddate,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
