package domain

import (
	"time"

	"github.com/google/uuid"
)

// Колонки таблицы product_categories
const (
	CategoryColID        = "id"
	CategoryColIsDeleted = "is_deleted"
)

// ProductCategory описывает категорию продукта
type ProductCategory struct {
	ID        uuid.UUID
	Name      string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewProductCategory(name string) *ProductCategory {
	return &ProductCategory{
		ID:   uuid.New(),
		Name: name,
	}
}

func (c ProductCategory) ColumnValue(column string) (any, bool) {
	switch column {
	case CategoryColID:
		return c.ID, true
	case CategoryColIsDeleted:
		return c.IsDeleted, true
	default:
		return nil, false
	}
}
