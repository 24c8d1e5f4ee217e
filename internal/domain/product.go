package domain

import (
	"time"
	"unicode/utf8"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Колонки таблицы products, по которым строятся предикаты.
const (
	ProductColID         = "id"
	ProductColCategoryID = "product_category_id"
	ProductColIsDeleted  = "is_deleted"
)

// MaxMonetaryUnitLength - ограничение длины денежной единицы цены в символах, как у varchar(256).
const MaxMonetaryUnitLength = 256

// Product описывает продукт каталога.
// Физически продукт не удаляется: удаление выставляет IsDeleted.
type Product struct {
	ID                uuid.UUID
	Name              string
	Brand             string
	Description       string
	ImageURL          string
	ProductCategoryID uuid.UUID
	IsDeleted         bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time

	// Загружаются только на чтение
	Category       *ProductCategory
	ProductDetails []ProductDetail
}

// ProductDetail - вариант продукта, владеющий ценами.
type ProductDetail struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Name          string
	ProductPrices []ProductPrice
}

// ProductPrice - цена и доступное количество варианта продукта.
// ID задаётся вызывающей стороной и никогда не генерируется хранилищем.
type ProductPrice struct {
	ID              uuid.UUID
	ProductDetailID uuid.UUID
	Quantity        decimal.Decimal
	Price           decimal.Decimal
	MonetaryUnit    string
}

func NewProduct(id uuid.UUID, categoryID uuid.UUID, name, brand, description, imageURL string) *Product {
	return &Product{
		ID:                id,
		Name:              name,
		Brand:             brand,
		Description:       description,
		ImageURL:          imageURL,
		ProductCategoryID: categoryID,
	}
}

// ColumnValue позволяет применять предикаты filter к продукту в памяти.
func (p Product) ColumnValue(column string) (any, bool) {
	switch column {
	case ProductColID:
		return p.ID, true
	case ProductColCategoryID:
		return p.ProductCategoryID, true
	case ProductColIsDeleted:
		return p.IsDeleted, true
	default:
		return nil, false
	}
}

// Validate проверяет ограничения цены, которые не выражены в типах.
func (p ProductPrice) Validate() error {
	if utf8.RuneCountInString(p.MonetaryUnit) > MaxMonetaryUnitLength {
		return e.ErrMonetaryUnitTooLong
	}
	return nil
}
