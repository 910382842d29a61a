package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_RejectsInvalidPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		page     int
		size     int
		expected error
	}{
		{name: "negative page", page: -1, size: 10, expected: ErrInvalidPage},
		{name: "offset overflows", page: math.MaxInt / 2, size: 10, expected: ErrInvalidPage},
		{name: "zero size", page: 0, size: 0, expected: ErrInvalidPageSize},
		{name: "size above cap", page: 0, size: maxAuditLogPage + 1, expected: ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auditLogs.GetAllAuditLogs(ctx, tt.page, tt.size)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestAuditLogUsecase_PageBeyondTrailIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	createPatient(t, env, "patient-1")

	logs, err := env.auditLogs.GetAllAuditLogs(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	logs, err = env.auditLogs.GetAllAuditLogs(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
