package repository

import (
	"context"
	"fmt"

	"patient-study-api/internal/domain/entity"
	domainRepo "patient-study-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderAndPage orders by the requested column, then by id in the same
// direction so rows with equal sort values keep a stable position across pages.
func orderAndPage(db *gorm.DB, query entity.ListQuery, fields entity.SortFields) (*gorm.DB, error) {
	column, ok := fields.Column(query.OrderBy)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domainRepo.ErrUnknownSortField, query.OrderBy)
	}

	desc := query.Direction == entity.SortDesc
	db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})

	if query.Paged() {
		db = db.Limit(query.Size).Offset(query.Offset())
	}
	return db, nil
}

// compareAndSwap writes fields to the row only while its version still equals
// the expected one, bumping the version in the same statement.
func compareAndSwap(ctx context.Context, db *gorm.DB, model interface{}, id uuid.UUID, version int, fields map[string]interface{}) error {
	fields["version"] = gorm.Expr("version + ?", 1)

	result := db.WithContext(ctx).Model(model).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the row is gone or someone else won the race
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainRepo.ErrNotFound
	}
	return domainRepo.ErrStaleVersion
}

func countRows(ctx context.Context, db *gorm.DB, model interface{}) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(model).Count(&count).Error
	return count, err
}
