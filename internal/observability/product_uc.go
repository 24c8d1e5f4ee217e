package observability

import (
	"context"

	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/google/uuid"
)

// InstrumentedProductUC оборачивает ProductUC и считает исходы каждой операции.
type InstrumentedProductUC struct {
	next    usecase.ProductUC
	metrics *Metrics
}

func NewInstrumentedProductUC(next usecase.ProductUC, metrics *Metrics) *InstrumentedProductUC {
	return &InstrumentedProductUC{next: next, metrics: metrics}
}

func (i *InstrumentedProductUC) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*usecase.ActionResult, error) {
	res, err := i.next.CreateProduct(ctx, req)
	i.metrics.ObserveProductOp("create", err)
	return res, err
}

func (i *InstrumentedProductUC) DeleteProduct(ctx context.Context, id uuid.UUID) (*usecase.ActionResult, error) {
	res, err := i.next.DeleteProduct(ctx, id)
	i.metrics.ObserveProductOp("delete", err)
	return res, err
}

func (i *InstrumentedProductUC) GetProduct(ctx context.Context, id uuid.UUID) (*usecase.ActionResult, error) {
	res, err := i.next.GetProduct(ctx, id)
	i.metrics.ObserveProductOp("get", err)
	return res, err
}

func (i *InstrumentedProductUC) GetAllProducts(ctx context.Context) (*usecase.ActionResult, error) {
	res, err := i.next.GetAllProducts(ctx)
	i.metrics.ObserveProductOp("get_all", err)
	return res, err
}

func (i *InstrumentedProductUC) GetPaginatedProducts(ctx context.Context, req usecase.PaginatedReq) (*usecase.ActionResult, error) {
	res, err := i.next.GetPaginatedProducts(ctx, req)
	i.metrics.ObserveProductOp("get_paginated", err)
	return res, err
}

func (i *InstrumentedProductUC) UpdateProduct(ctx context.Context, req *usecase.UpdateProductReq, id uuid.UUID) (*usecase.ActionResult, error) {
	res, err := i.next.UpdateProduct(ctx, req, id)
	i.metrics.ObserveProductOp("update", err)
	return res, err
}
