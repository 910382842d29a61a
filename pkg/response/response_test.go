package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"patient-study-api/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := map[apperror.Kind]int{
		apperror.KindValidation:            http.StatusBadRequest,
		apperror.KindUnauthorized:          http.StatusUnauthorized,
		apperror.KindNotFound:              http.StatusNotFound,
		apperror.KindConflict:              http.StatusConflict,
		apperror.KindUnprocessable:         http.StatusUnprocessableEntity,
		apperror.KindInternalInconsistency: http.StatusInternalServerError,
		apperror.KindInternal:              http.StatusInternalServerError,
	}

	for kind, status := range tests {
		assert.Equal(t, status, StatusFor(kind), string(kind))
	}
}

func TestFromError(t *testing.T) {
	t.Run("application error keeps code and message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		FromError(rec, apperror.New(apperror.KindConflict, "version_conflict", "Changed meanwhile"), "fallback")

		assert.Equal(t, http.StatusConflict, rec.Code)
		var body Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Changed meanwhile", body.Message)
	})

	t.Run("internal inconsistency keeps its message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		FromError(rec, apperror.New(apperror.KindInternalInconsistency, "ambiguous", "Two rows match"), "fallback")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Two rows match")
	})

	t.Run("plain error is hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		FromError(rec, errors.New("pq: connection refused"), "Failed to get patient")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to get patient")
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}
