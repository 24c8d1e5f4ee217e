package usecase

import (
	"testing"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalQuantity(t *testing.T) {
	price := func(q string) DtoProductPrice {
		return DtoProductPrice{Quantity: decimal.RequireFromString(q)}
	}

	tests := []struct {
		name    string
		details []DtoProductDetail
		want    int
	}{
		{name: "no details", details: nil, want: 0},
		{name: "detail without prices", details: []DtoProductDetail{{}}, want: 0},
		{name: "single price", details: []DtoProductDetail{{ProductPrices: []DtoProductPrice{price("7")}}}, want: 7},
		{
			name: "fractional sum is truncated",
			details: []DtoProductDetail{
				{ProductPrices: []DtoProductPrice{price("0.6"), price("0.6")}},
				{ProductPrices: []DtoProductPrice{price("2.7")}},
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalQuantity(tt.details))
		})
	}
}

func TestMergeUpdateReq_LeavesNilFields(t *testing.T) {
	id := uuid.New()
	product := domain.NewProduct(id, uuid.New(), "name", "brand", "desc", "img")
	newCategory := uuid.New()
	brand := "new brand"

	MergeUpdateReq(product, &UpdateProductReq{ProductCategoryID: newCategory, Brand: &brand})

	assert.Equal(t, id, product.ID)
	assert.Equal(t, "name", product.Name)
	assert.Equal(t, "new brand", product.Brand)
	assert.Equal(t, "desc", product.Description)
	assert.Equal(t, "img", product.ImageURL)
	assert.Equal(t, newCategory, product.ProductCategoryID)
}

func TestToDtoProduct_UsesLoadedCategory(t *testing.T) {
	category := domain.NewProductCategory("Напитки")
	product := domain.NewProduct(uuid.New(), category.ID, "Сок", "", "", "")
	product.Category = category
	product.ProductDetails = []domain.ProductDetail{{
		ID:   uuid.New(),
		Name: "1л",
		ProductPrices: []domain.ProductPrice{{
			ID:           uuid.New(),
			Quantity:     decimal.NewFromInt(5),
			Price:        decimal.RequireFromString("99.90"),
			MonetaryUnit: "RUB",
		}},
	}}

	dto := ToDtoProduct(*product)

	assert.Equal(t, DtoProductCategory{ID: category.ID, Name: "Напитки"}, dto.ProductCategory)
	assert.Len(t, dto.ProductDetails, 1)
	assert.Equal(t, "RUB", dto.ProductDetails[0].ProductPrices[0].MonetaryUnit)
	assert.Equal(t, 0, dto.TotalQuantity)
}
