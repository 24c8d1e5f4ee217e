// Package converter преобразует записи PostgreSQL в сущности domain и usecase и обратно.
package converter

import (
	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/google/uuid"
)

// ProductToModel переносит скалярные поля продукта. Детали и категория не пишутся через products.
func ProductToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:                entity.ID,
		Name:              entity.Name,
		Brand:             entity.Brand,
		Description:       entity.Description,
		ImageURL:          entity.ImageURL,
		ProductCategoryID: entity.ProductCategoryID,
		IsDeleted:         entity.IsDeleted,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
	}
}

// ProductToEntity собирает продукт вместе с деталями и ценами.
func ProductToEntity(model *ProductModel, details []ProductDetailModel, prices map[uuid.UUID][]ProductPriceModel) domain.Product {
	product := domain.Product{
		ID:                model.ID,
		Name:              model.Name,
		Brand:             model.Brand,
		Description:       model.Description,
		ImageURL:          model.ImageURL,
		ProductCategoryID: model.ProductCategoryID,
		IsDeleted:         model.IsDeleted,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
		ProductDetails:    make([]domain.ProductDetail, 0, len(details)),
	}

	if model.Category != nil {
		product.Category = CategoryToEntity(model.Category)
	}

	for _, d := range details {
		detail := domain.ProductDetail{
			ID:        d.ID,
			ProductID: d.ProductID,
			Name:      d.Name,
		}

		for _, pr := range prices[d.ID] {
			detail.ProductPrices = append(detail.ProductPrices, domain.ProductPrice{
				ID:              pr.ID,
				ProductDetailID: pr.ProductDetailID,
				Quantity:        pr.Quantity,
				Price:           pr.Price,
				MonetaryUnit:    pr.MonetaryUnit,
			})
		}

		product.ProductDetails = append(product.ProductDetails, detail)
	}

	return product
}

func CategoryToModel(entity *domain.ProductCategory) *CategoryModel {
	return &CategoryModel{
		ID:        entity.ID,
		Name:      entity.Name,
		IsDeleted: entity.IsDeleted,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func CategoryToEntity(model *CategoryModel) *domain.ProductCategory {
	return &domain.ProductCategory{
		ID:        model.ID,
		Name:      model.Name,
		IsDeleted: model.IsDeleted,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func OutboxEventToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func OutboxEventToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func OutboxEventsToEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	res := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		res = append(res, OutboxEventToEntity(m))
	}

	return res
}
