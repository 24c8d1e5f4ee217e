package usecase

import (
	"context"

	"github.com/google/uuid"
)

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*ActionResult, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*ActionResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ActionResult, error)
	GetAllProducts(ctx context.Context) (*ActionResult, error)
	GetPaginatedProducts(ctx context.Context, req PaginatedReq) (*ActionResult, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq, id uuid.UUID) (*ActionResult, error)
}

type CatalogExportUC interface {
	ExportSnapshot(ctx context.Context) (*ActionResult, error)
}
