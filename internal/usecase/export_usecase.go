package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/google/uuid"
)

const snapshotContentType = "application/json"

// ProductLister отдаёт все неудалённые продукты. Реализуется ProductUseCase.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]DtoProduct, error)
}

// CatalogExportUseCase выгружает снимок каталога в объектное хранилище.
type CatalogExportUseCase struct {
	products  ProductLister
	snapshots SnapshotRepository
	logger    logger.Logger
	now       func() time.Time
}

func NewCatalogExportUC(products ProductLister, snapshots SnapshotRepository, logger logger.Logger) *CatalogExportUseCase {
	return &CatalogExportUseCase{
		products:  products,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// ExportSnapshot сериализует каталог в JSON и загружает под ключом snapshots/<timestamp>-<uuid>.json.
func (c *CatalogExportUseCase) ExportSnapshot(ctx context.Context) (*ActionResult, error) {
	const op = "CatalogExportUseCase.ExportSnapshot"

	products, err := c.products.ListProducts(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	generatedAt := c.now().UTC()
	data, err := json.Marshal(CatalogSnapshot{
		GeneratedAt: generatedAt,
		Count:       len(products),
		Products:    products,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	key, err := c.snapshots.Upload(ctx, SnapshotKey(generatedAt, uuid.New()), data, snapshotContentType)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("catalog snapshot uploaded. key: %s, products: %d", key, len(products))
	return NewActionResult(SnapshotInfo{
		Key:         key,
		Count:       len(products),
		GeneratedAt: generatedAt,
	}), nil
}

// SnapshotKey формирует ключ объекта снимка.
func SnapshotKey(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("snapshots/%s-%s.json", at.UTC().Format("20060102T150405Z"), id)
}
