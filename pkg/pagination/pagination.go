// Package pagination содержит ленивые источники данных и сборку страниц по ним.
package pagination

import (
	"context"

	"github.com/DRSN-tech/product-catalog/pkg/e"
)

// NoLimit передаётся в Fetch, чтобы получить все записи начиная с offset.
const NoLimit = -1

// Source - ленивый источник записей. Ничего не читается до вызова Count или Fetch.
type Source[T any] interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// Page - конверт страницы результатов.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	PageSize   int `json:"pageSize"`
	PageIndex  int `json:"pageIndex"`
}

// Paginate материализует одну страницу источника.
// skip = pageIndex*pageSize, take = pageSize, TotalCount считается по всему источнику.
// Страница за концом источника пуста; offset вычисляется только для существующих страниц.
func Paginate[T any](ctx context.Context, src Source[T], pageSize, pageIndex int) (*Page[T], error) {
	if pageSize <= 0 || pageIndex < 0 {
		return nil, e.ErrInvalidPage
	}

	total, err := src.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0)
	if total > 0 && pageIndex <= (total-1)/pageSize {
		items, err = src.Fetch(ctx, pageIndex*pageSize, pageSize)
		if err != nil {
			return nil, err
		}
	}

	return &Page[T]{
		Items:      items,
		TotalCount: total,
		PageSize:   pageSize,
		PageIndex:  pageIndex,
	}, nil
}

// All материализует источник целиком.
func All[T any](ctx context.Context, src Source[T]) ([]T, error) {
	items, err := src.Fetch(ctx, 0, NoLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]T, 0)
	}

	return items, nil
}

// Project лениво применяет проекцию к источнику: преобразование выполняется при Fetch.
func Project[S, D any](src Source[S], fn func(S) D) Source[D] {
	return &projected[S, D]{src: src, fn: fn}
}

type projected[S, D any] struct {
	src Source[S]
	fn  func(S) D
}

func (p *projected[S, D]) Count(ctx context.Context) (int, error) {
	return p.src.Count(ctx)
}

func (p *projected[S, D]) Fetch(ctx context.Context, offset, limit int) ([]D, error) {
	items, err := p.src.Fetch(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	res := make([]D, len(items))
	for i, item := range items {
		res[i] = p.fn(item)
	}

	return res, nil
}

// SliceSource - источник поверх среза в памяти.
type SliceSource[T any] []T

func (s SliceSource[T]) Count(_ context.Context) (int, error) {
	return len(s), nil
}

func (s SliceSource[T]) Fetch(_ context.Context, offset, limit int) ([]T, error) {
	if offset < 0 || offset >= len(s) {
		return []T{}, nil
	}

	end := len(s)
	if limit != NoLimit && limit < end-offset {
		end = offset + limit
	}

	return append([]T(nil), s[offset:end]...), nil
}
