package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/filter"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/DRSN-tech/product-catalog/pkg/pagination"
	"github.com/google/uuid"
)

// ProductUseCase реализует бизнес-логику управления продуктами каталога.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo ProductCategoryRepository
	outboxRepo   OutboxRepository
	uow          UnitOfWork
	logger       logger.Logger
	now          func() time.Time
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo ProductCategoryRepository,
	outboxRepo OutboxRepository,
	uow UnitOfWork,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateProduct проверяет категорию и создаёт продукт вместе с событием product.created.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (_ *ActionResult, err error) {
	const op = "ProductUseCase.CreateProduct"

	ctx, err = p.uow.Begin(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil {
			p.uow.Rollback(ctx)
		}
	}()

	if err = p.ensureCategory(ctx, req.ProductCategoryID); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := NewProductFromCreateReq(req)
	product.CreatedAt = p.now()
	if err = p.productRepo.Add(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = p.stageEvent(ctx, ProductCreated, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = p.uow.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("product created. product_id: %s", product.ID)
	return NewActionResult(nil), nil
}

// DeleteProduct помечает продукт удалённым. Повторное удаление возвращает ErrProductNotFound.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id uuid.UUID) (_ *ActionResult, err error) {
	const op = "ProductUseCase.DeleteProduct"

	ctx, err = p.uow.Begin(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil {
			p.uow.Rollback(ctx)
		}
	}()

	product, err := p.findProduct(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	now := p.now()
	product.IsDeleted = true
	product.UpdatedAt = &now
	if err = p.productRepo.Update(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = p.stageEvent(ctx, ProductDeleted, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = p.uow.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("product deleted. product_id: %s", id)
	return NewActionResult(nil), nil
}

// GetProduct возвращает карточку продукта без категории с пересчитанным TotalQuantity.
func (p *ProductUseCase) GetProduct(ctx context.Context, id uuid.UUID) (*ActionResult, error) {
	const op = "ProductUseCase.GetProduct"

	src := pagination.Project(
		p.productRepo.Query(activeProduct().And(filter.Eq(domain.ProductColID, id))),
		ToDtoProductWithoutCategory,
	)

	items, err := src.Fetch(ctx, 0, 1)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(items) == 0 {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	dto := items[0]
	dto.TotalQuantity = TotalQuantity(dto.ProductDetails)

	return NewActionResult(dto), nil
}

// GetAllProducts возвращает все неудалённые продукты без пагинации.
func (p *ProductUseCase) GetAllProducts(ctx context.Context) (*ActionResult, error) {
	const op = "ProductUseCase.GetAllProducts"

	items, err := p.ListProducts(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewActionResult(items), nil
}

// ListProducts материализует все неудалённые продукты с пересчитанным TotalQuantity.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]DtoProduct, error) {
	items, err := pagination.All(ctx, p.productsQuery())
	if err != nil {
		return nil, err
	}

	withTotals(items)
	return items, nil
}

// GetPaginatedProducts возвращает одну страницу неудалённых продуктов.
// TotalCount считается по всему отфильтрованному набору.
func (p *ProductUseCase) GetPaginatedProducts(ctx context.Context, req PaginatedReq) (*ActionResult, error) {
	const op = "ProductUseCase.GetPaginatedProducts"

	page, err := pagination.Paginate(ctx, p.productsQuery(), req.GetPageSize(), req.GetPageIndex())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	withTotals(page.Items)
	return NewActionResult(page), nil
}

// UpdateProduct переносит поля запроса в существующий продукт после проверки категории.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq, id uuid.UUID) (_ *ActionResult, err error) {
	const op = "ProductUseCase.UpdateProduct"

	ctx, err = p.uow.Begin(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil {
			p.uow.Rollback(ctx)
		}
	}()

	product, err := p.findProduct(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = p.ensureCategory(ctx, req.ProductCategoryID); err != nil {
		return nil, e.Wrap(op, err)
	}

	MergeUpdateReq(product, req)
	now := p.now()
	product.UpdatedAt = &now
	if err = p.productRepo.Update(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = p.stageEvent(ctx, ProductUpdated, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = p.uow.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("product updated. product_id: %s", id)
	return NewActionResult(nil), nil
}

// productsQuery - общий ленивый запрос для списков: неудалённые продукты в проекции DtoProduct.
func (p *ProductUseCase) productsQuery() pagination.Source[DtoProduct] {
	return pagination.Project(p.productRepo.Query(activeProduct()), ToDtoProduct)
}

// findProduct ищет неудалённый продукт по id.
func (p *ProductUseCase) findProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := p.productRepo.GetOne(ctx, activeProduct().And(filter.Eq(domain.ProductColID, id)))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, e.ErrProductNotFound
	}

	return product, nil
}

// ensureCategory проверяет, что категория существует и не удалена.
func (p *ProductUseCase) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	exists, err := p.categoryRepo.Exists(ctx, filter.Where(
		filter.Eq(domain.CategoryColID, categoryID),
		filter.Eq(domain.CategoryColIsDeleted, false),
	))
	if err != nil {
		return err
	}
	if !exists {
		return e.ErrProductCategoryNotFound
	}

	return nil
}

func (p *ProductUseCase) stageEvent(ctx context.Context, eventType OutboxEventType, product *domain.Product) error {
	event, err := NewProductOutboxEvent(eventType, product, p.now())
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, event)
	return err
}

func activeProduct() filter.Predicate {
	return filter.Where(filter.Eq(domain.ProductColIsDeleted, false))
}

func withTotals(items []DtoProduct) {
	for i := range items {
		items[i].TotalQuantity = TotalQuantity(items[i].ProductDetails)
	}
}
