package usecase

import (
	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewProductFromCreateReq создаёт новую сущность продукта с новым идентификатором.
func NewProductFromCreateReq(req *CreateProductReq) *domain.Product {
	return domain.NewProduct(
		uuid.New(),
		req.ProductCategoryID,
		req.Name,
		req.Brand,
		req.Description,
		req.ImageURL,
	)
}

// MergeUpdateReq переносит заданные поля запроса в существующую сущность.
// ID, детали и флаг удаления не затрагиваются.
func MergeUpdateReq(product *domain.Product, req *UpdateProductReq) {
	product.ProductCategoryID = req.ProductCategoryID

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
}

// ToDtoProduct - проекция продукта для списков. TotalQuantity не заполняется.
func ToDtoProduct(p domain.Product) DtoProduct {
	dto := DtoProduct{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.Brand,
		Description:    p.Description,
		ImageURL:       p.ImageURL,
		ProductDetails: toDtoProductDetails(p.ProductDetails),
	}

	if p.Category != nil {
		dto.ProductCategory = DtoProductCategory{ID: p.Category.ID, Name: p.Category.Name}
	} else {
		dto.ProductCategory = DtoProductCategory{ID: p.ProductCategoryID}
	}

	return dto
}

// ToDtoProductWithoutCategory - проекция продукта для карточки. TotalQuantity не заполняется.
func ToDtoProductWithoutCategory(p domain.Product) DtoProductWithoutCategory {
	return DtoProductWithoutCategory{
		ID:                p.ID,
		Name:              p.Name,
		Brand:             p.Brand,
		Description:       p.Description,
		ImageURL:          p.ImageURL,
		ProductCategoryID: p.ProductCategoryID,
		ProductDetails:    toDtoProductDetails(p.ProductDetails),
	}
}

// TotalQuantity суммирует количество по всем ценам всех деталей и отбрасывает дробную часть.
func TotalQuantity(details []DtoProductDetail) int {
	sum := decimal.Zero
	for _, d := range details {
		for _, pr := range d.ProductPrices {
			sum = sum.Add(pr.Quantity)
		}
	}

	return int(sum.IntPart())
}

func toDtoProductDetails(details []domain.ProductDetail) []DtoProductDetail {
	res := make([]DtoProductDetail, 0, len(details))
	for _, d := range details {
		prices := make([]DtoProductPrice, 0, len(d.ProductPrices))
		for _, pr := range d.ProductPrices {
			prices = append(prices, DtoProductPrice{
				ID:           pr.ID,
				Quantity:     pr.Quantity,
				Price:        pr.Price,
				MonetaryUnit: pr.MonetaryUnit,
			})
		}

		res = append(res, DtoProductDetail{
			ID:            d.ID,
			Name:          d.Name,
			ProductPrices: prices,
		})
	}

	return res
}
