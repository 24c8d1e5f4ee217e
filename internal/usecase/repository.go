package usecase

import (
	"context"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/pkg/filter"
	"github.com/DRSN-tech/product-catalog/pkg/pagination"
)

// Repository - порт доступа к данным, параметризованный типом сущности.
// Add и Update выполняются в рамках текущего unit of work и становятся
// видимыми только после UnitOfWork.Commit.
type Repository[T any] interface {
	Exists(ctx context.Context, pred filter.Predicate) (bool, error)
	// GetOne возвращает nil, nil, если запись не найдена.
	GetOne(ctx context.Context, pred filter.Predicate) (*T, error)
	// Query возвращает ленивый источник; запрос выполняется при Count/Fetch.
	Query(pred filter.Predicate) pagination.Source[T]
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
}

type ProductRepository interface {
	Repository[domain.Product]
}

type ProductCategoryRepository interface {
	Repository[domain.ProductCategory]
}

// UnitOfWork - граница транзакции. Begin возвращает контекст, в котором
// репозитории видят открытую транзакцию; Commit атомарно фиксирует все изменения.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsFailed(ctx context.Context, id int64, reason string) error
	// ReleaseStale возвращает в pending события, зависшие в processing.
	ReleaseStale(ctx context.Context, timeoutSeconds int) (int64, error)
}

type SnapshotRepository interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
