package usecase

import (
	"math"
	"strings"

	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/domain/entity"
)

// resolveListQuery applies listing defaults and rejects parameters outside
// the allowed range before anything reaches storage
func resolveListQuery(params dto.ListParams, fields entity.SortFields, defaultField string, defaultSize int) (entity.ListQuery, error) {
	query := entity.ListQuery{
		OrderBy:   defaultField,
		Direction: entity.SortAsc,
		Page:      0,
		Size:      defaultSize,
	}

	if params.OrderBy != "" {
		if _, ok := fields.Column(params.OrderBy); !ok {
			return entity.ListQuery{}, ErrInvalidOrderField.WithMessage(
				"Order field [%s] must be one of: [%s]", params.OrderBy, strings.Join(fields.Names(), ", "))
		}
		query.OrderBy = params.OrderBy
	}

	switch strings.ToLower(params.Order) {
	case "", string(entity.SortAsc):
	case string(entity.SortDesc):
		query.Direction = entity.SortDesc
	default:
		return entity.ListQuery{}, ErrInvalidOrder.WithMessage("Order [%s] must be one of: [asc, desc]", params.Order)
	}

	if params.Page != nil {
		if *params.Page < 0 {
			return entity.ListQuery{}, ErrInvalidPage
		}
		query.Page = *params.Page
	}

	if params.Size != nil {
		if *params.Size == 0 || *params.Size < entity.Unpaged {
			return entity.ListQuery{}, ErrInvalidPageSize
		}
		query.Size = *params.Size
	}

	// the first row of the page has to be addressable
	if query.Paged() && query.Page > math.MaxInt/query.Size {
		return entity.ListQuery{}, ErrInvalidPage.WithMessage("Page [%d] is out of range for size [%d]", query.Page, query.Size)
	}

	return query, nil
}

func pageMeta(query entity.ListQuery, count int) *dto.PageMeta {
	return &dto.PageMeta{
		Page:    query.Page,
		Size:    query.Size,
		Count:   count,
		OrderBy: query.OrderBy,
		Order:   string(query.Direction),
	}
}
