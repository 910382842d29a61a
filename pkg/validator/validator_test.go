package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type studyRequest struct {
	Version   *int   `json:"version" validate:"required,gte=0"`
	Name      string `json:"name" validate:"required,max=5"`
	StartDate string `json:"startdate" validate:"omitempty,datetime=2006-01-02"`
	Steps     int    `json:"steps" validate:"gte=10"`
	Internal  string `json:"-" validate:"required"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&studyRequest{Name: "too long", StartDate: "17.05.2024", Steps: 3})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"version":   "version is required, send the version returned by the last read",
		"name":      "name must be at most 5 characters",
		"startdate": "startdate must be a date in YYYY-MM-DD format",
		"steps":     "steps must be greater than or equal to 10",
		"Internal":  "Internal is required",
	}, v.FormatValidationErrors(err))
}

func TestFormatValidationErrors_IgnoresOtherErrors(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.FormatValidationErrors(assert.AnError))
	assert.NoError(t, v.Validate(&studyRequest{Version: new(int), Name: "ok", StartDate: "2024-05-17", Steps: 10, Internal: "x"}))
}
