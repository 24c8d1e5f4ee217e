package pgdb

import (
	"context"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/filter"
	"github.com/DRSN-tech/product-catalog/pkg/pagination"
	"github.com/DRSN-tech/product-catalog/pkg/tr"
	"github.com/jimlawless/whereami"
)

const categoryAlias = "c"

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool tr.Querier
}

func NewCategoryRepo(pool tr.Querier) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

func (c *CategoryRepo) Exists(ctx context.Context, pred filter.Predicate) (bool, error) {
	where, args := pred.SQL(categoryAlias, 0)
	query := `SELECT EXISTS (SELECT 1 FROM product_categories c WHERE ` + where + `)`

	var exists bool
	if err := tr.QuerierFromCtx(ctx, c.pool).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

func (c *CategoryRepo) GetOne(ctx context.Context, pred filter.Predicate) (*domain.ProductCategory, error) {
	categories, err := c.Query(pred).Fetch(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, nil
	}

	return &categories[0], nil
}

func (c *CategoryRepo) Query(pred filter.Predicate) pagination.Source[domain.ProductCategory] {
	return &categoryQuery{repo: c, pred: pred}
}

// Add создаёт категорию, дубликат идентификатора возвращается как ошибка.
func (c *CategoryRepo) Add(ctx context.Context, category *domain.ProductCategory) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := converter.CategoryToModel(category)
	query := `
		INSERT INTO product_categories (id, name, is_deleted)
		VALUES ($1, $2, $3)
	`

	if _, err := tx.Exec(ctx, query, model.ID, model.Name, model.IsDeleted); err != nil {
		if postgresDuplicate(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CategoryRepo) Update(ctx context.Context, category *domain.ProductCategory) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := converter.CategoryToModel(category)
	query := `
		UPDATE product_categories
		SET name = $2, is_deleted = $3, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, query, model.ID, model.Name, model.IsDeleted); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

type categoryQuery struct {
	repo *CategoryRepo
	pred filter.Predicate
}

func (q *categoryQuery) Count(ctx context.Context) (int, error) {
	where, args := q.pred.SQL(categoryAlias, 0)
	query := `SELECT COUNT(*) FROM product_categories c WHERE ` + where

	var count int
	if err := tr.QuerierFromCtx(ctx, q.repo.pool).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

func (q *categoryQuery) Fetch(ctx context.Context, offset, limit int) ([]domain.ProductCategory, error) {
	where, args := q.pred.SQL(categoryAlias, 0)
	query := `
		SELECT c.id, c.name, c.is_deleted, c.created_at, c.updated_at
		FROM product_categories c
		WHERE ` + where + `
		ORDER BY c.name, c.id`
	query, args = limitOffset(query, args, offset, limit)

	rows, err := tr.QuerierFromCtx(ctx, q.repo.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.ProductCategory, 0)
	for rows.Next() {
		var model converter.CategoryModel
		if err := rows.Scan(&model.ID, &model.Name, &model.IsDeleted, &model.CreatedAt, &model.UpdatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *converter.CategoryToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
