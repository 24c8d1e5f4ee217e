package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ObjectPutter - подмножество *minio.Client, нужное для выгрузки.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// SnapshotRepo сохраняет снимки каталога в MinIO.
type SnapshotRepo struct {
	mc  ObjectPutter
	cfg *cfg.MinIOCfg
}

func NewSnapshotRepo(mc ObjectPutter, cfg *cfg.MinIOCfg) *SnapshotRepo {
	return &SnapshotRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает снимок и возвращает ключ объекта.
func (s *SnapshotRepo) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	info, err := s.mc.PutObject(ctx, s.cfg.BucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}
