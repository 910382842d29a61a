package usecase

import (
	"math"
	"testing"

	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/domain/entity"
	"patient-study-api/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveListQuery_Defaults(t *testing.T) {
	query, err := resolveListQuery(dto.ListParams{}, entity.PatientSortFields, entity.DefaultPatientSortField, 20)
	require.NoError(t, err)

	assert.Equal(t, entity.ListQuery{OrderBy: "username", Direction: entity.SortAsc, Page: 0, Size: 20}, query)
}

func TestResolveListQuery_AcceptsValidParams(t *testing.T) {
	query, err := resolveListQuery(dto.ListParams{
		OrderBy: "lastName",
		Order:   "DESC",
		Page:    intPtr(3),
		Size:    intPtr(entity.Unpaged),
	}, entity.PatientSortFields, entity.DefaultPatientSortField, 20)
	require.NoError(t, err)

	assert.Equal(t, "lastName", query.OrderBy)
	assert.Equal(t, entity.SortDesc, query.Direction)
	assert.Equal(t, 3, query.Page)
	assert.False(t, query.Paged())
}

func TestResolveListQuery_RejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		params   dto.ListParams
		expected *apperror.Error
	}{
		{name: "unknown field", params: dto.ListParams{OrderBy: "weight"}, expected: ErrInvalidOrderField},
		{name: "unknown order", params: dto.ListParams{Order: "sideways"}, expected: ErrInvalidOrder},
		{name: "negative page", params: dto.ListParams{Page: intPtr(-1)}, expected: ErrInvalidPage},
		{name: "page offset overflows", params: dto.ListParams{Page: intPtr(1 << 61), Size: intPtr(4)}, expected: ErrInvalidPage},
		{name: "page offset overflows default size", params: dto.ListParams{Page: intPtr(math.MaxInt / 10)}, expected: ErrInvalidPage},
		{name: "zero size", params: dto.ListParams{Size: intPtr(0)}, expected: ErrInvalidPageSize},
		{name: "size below unpaged", params: dto.ListParams{Size: intPtr(-2)}, expected: ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveListQuery(tt.params, entity.PatientSortFields, entity.DefaultPatientSortField, 20)
			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, apperror.KindUnprocessable, apperror.KindOf(err))
		})
	}
}

func TestResolveListQuery_AcceptsLastAddressablePage(t *testing.T) {
	query, err := resolveListQuery(dto.ListParams{Page: intPtr(math.MaxInt / 4), Size: intPtr(4)},
		entity.PatientSortFields, entity.DefaultPatientSortField, 20)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt/4, query.Page)

	query, err = resolveListQuery(dto.ListParams{Page: intPtr(math.MaxInt), Size: intPtr(entity.Unpaged)},
		entity.PatientSortFields, entity.DefaultPatientSortField, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, query.Offset())
}

func TestResolveListQuery_UnknownFieldNamesAllowedFields(t *testing.T) {
	_, err := resolveListQuery(dto.ListParams{OrderBy: "age"}, entity.DoctorSortFields, entity.DefaultDoctorSortField, 20)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Order field [age] must be one of: [firstName, lastName, username]", appErr.Message)
}
