package pgdb

import (
	"context"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/filter"
	"github.com/DRSN-tech/product-catalog/pkg/pagination"
	"github.com/DRSN-tech/product-catalog/pkg/tr"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

const productAlias = "p"

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
// Чтение идёт через транзакцию из контекста, если она открыта, иначе через пул.
type ProductRepo struct {
	pool tr.Querier
}

func NewProductRepo(pool tr.Querier) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func (p *ProductRepo) Exists(ctx context.Context, pred filter.Predicate) (bool, error) {
	where, args := pred.SQL(productAlias, 0)
	query := `SELECT EXISTS (SELECT 1 FROM products p WHERE ` + where + `)`

	var exists bool
	if err := tr.QuerierFromCtx(ctx, p.pool).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

func (p *ProductRepo) GetOne(ctx context.Context, pred filter.Predicate) (*domain.Product, error) {
	products, err := p.Query(pred).Fetch(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}

	return &products[0], nil
}

func (p *ProductRepo) Query(pred filter.Predicate) pagination.Source[domain.Product] {
	return &productQuery{repo: p, pred: pred}
}

// Add вставляет продукт в рамках транзакции из контекста.
func (p *ProductRepo) Add(ctx context.Context, product *domain.Product) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := converter.ProductToModel(product)
	query := `
		INSERT INTO products (
			id, name, brand, description, image_url, product_category_id, is_deleted, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if _, err := tx.Exec(ctx, query,
		model.ID,
		model.Name,
		model.Brand,
		model.Description,
		model.ImageURL,
		model.ProductCategoryID,
		model.IsDeleted,
		model.CreatedAt,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Update перезаписывает скалярные поля продукта, включая флаг удаления.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := converter.ProductToModel(product)
	query := `
		UPDATE products
		SET name = $2,
			brand = $3,
			description = $4,
			image_url = $5,
			product_category_id = $6,
			is_deleted = $7,
			updated_at = COALESCE($8, NOW())
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query,
		model.ID,
		model.Name,
		model.Brand,
		model.Description,
		model.ImageURL,
		model.ProductCategoryID,
		model.IsDeleted,
		model.UpdatedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// productQuery - ленивый запрос продуктов. Детали и цены догружаются одним запросом на уровень.
type productQuery struct {
	repo *ProductRepo
	pred filter.Predicate
}

func (q *productQuery) Count(ctx context.Context) (int, error) {
	where, args := q.pred.SQL(productAlias, 0)
	query := `SELECT COUNT(*) FROM products p WHERE ` + where

	var count int
	if err := tr.QuerierFromCtx(ctx, q.repo.pool).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

func (q *productQuery) Fetch(ctx context.Context, offset, limit int) ([]domain.Product, error) {
	db := tr.QuerierFromCtx(ctx, q.repo.pool)

	where, args := q.pred.SQL(productAlias, 0)
	query := `
		SELECT
			p.id, p.name, p.brand, p.description, p.image_url, p.product_category_id,
			p.is_deleted, p.created_at, p.updated_at,
			c.id, c.name, c.is_deleted, c.created_at, c.updated_at
		FROM products p
		JOIN product_categories c ON c.id = p.product_category_id
		WHERE ` + where + `
		ORDER BY p.created_at, p.id`
	query, args = limitOffset(query, args, offset, limit)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]*converter.ProductModel, 0)
	ids := make([]string, 0)
	for rows.Next() {
		model := converter.ProductModel{Category: &converter.CategoryModel{}}
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Brand, &model.Description, &model.ImageURL, &model.ProductCategoryID,
			&model.IsDeleted, &model.CreatedAt, &model.UpdatedAt,
			&model.Category.ID, &model.Category.Name, &model.Category.IsDeleted,
			&model.Category.CreatedAt, &model.Category.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
		ids = append(ids, model.ID.String())
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(models) == 0 {
		return []domain.Product{}, nil
	}

	details, err := q.fetchDetails(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	detailIDs := make([]string, 0)
	for _, ds := range details {
		for _, d := range ds {
			detailIDs = append(detailIDs, d.ID.String())
		}
	}

	prices, err := q.fetchPrices(ctx, db, detailIDs)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Product, 0, len(models))
	for _, model := range models {
		result = append(result, converter.ProductToEntity(model, details[model.ID], prices))
	}

	return result, nil
}

func (q *productQuery) fetchDetails(ctx context.Context, db tr.Querier, productIDs []string) (map[uuid.UUID][]converter.ProductDetailModel, error) {
	query := `
		SELECT id, product_id, name
		FROM product_details
		WHERE product_id = ANY($1::uuid[])
		ORDER BY name, id
	`

	rows, err := db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	res := make(map[uuid.UUID][]converter.ProductDetailModel)
	for rows.Next() {
		var model converter.ProductDetailModel
		if err := rows.Scan(&model.ID, &model.ProductID, &model.Name); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		res[model.ProductID] = append(res[model.ProductID], model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return res, nil
}

func (q *productQuery) fetchPrices(ctx context.Context, db tr.Querier, detailIDs []string) (map[uuid.UUID][]converter.ProductPriceModel, error) {
	res := make(map[uuid.UUID][]converter.ProductPriceModel)
	if len(detailIDs) == 0 {
		return res, nil
	}

	query := `
		SELECT id, product_detail_id, quantity, price, monetary_unit
		FROM product_prices
		WHERE product_detail_id = ANY($1::uuid[])
		ORDER BY id
	`

	rows, err := db.Query(ctx, query, detailIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var model converter.ProductPriceModel
		if err := rows.Scan(&model.ID, &model.ProductDetailID, &model.Quantity, &model.Price, &model.MonetaryUnit); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		res[model.ProductDetailID] = append(res[model.ProductDetailID], model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return res, nil
}
