package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExporter struct {
	calls int
	err   error
}

func (s *stubExporter) ExportSnapshot(_ context.Context) (*usecase.ActionResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return usecase.NewActionResult(usecase.SnapshotInfo{Key: "snapshots/x.json"}), nil
}

func TestSnapshotHandler_ProcessTask(t *testing.T) {
	exporter := &stubExporter{}
	h := NewSnapshotHandler(exporter, logger.Nop())

	require.NoError(t, h.ProcessTask(context.Background(), NewCatalogSnapshotTask()))
	assert.Equal(t, 1, exporter.calls)

	boom := errors.New("minio down")
	failing := NewSnapshotHandler(&stubExporter{err: boom}, logger.Nop())
	require.ErrorIs(t, failing.ProcessTask(context.Background(), NewCatalogSnapshotTask()), boom)
}

func TestNewCatalogSnapshotTask(t *testing.T) {
	task := NewCatalogSnapshotTask()
	assert.Equal(t, TaskCatalogSnapshot, task.Type())
	assert.Empty(t, task.Payload())
}

func TestNewWorker_Schedule(t *testing.T) {
	mr := miniredis.RunT(t)
	opt := asynq.RedisClientOpt{Addr: mr.Addr()}
	h := NewSnapshotHandler(&stubExporter{}, logger.Nop())

	t.Run("disabled", func(t *testing.T) {
		w, err := NewWorker(opt, &cfg.JobsCfg{Concurrency: 1}, h, logger.Nop())
		require.NoError(t, err)
		assert.Nil(t, w.scheduler)
	})

	t.Run("valid cron", func(t *testing.T) {
		w, err := NewWorker(opt, &cfg.JobsCfg{SnapshotCron: "0 3 * * *", Concurrency: 1}, h, logger.Nop())
		require.NoError(t, err)
		assert.NotNil(t, w.scheduler)
	})

	t.Run("invalid cron", func(t *testing.T) {
		_, err := NewWorker(opt, &cfg.JobsCfg{SnapshotCron: "every day", Concurrency: 1}, h, logger.Nop())
		require.Error(t, err)
	})
}

func TestSnapshotHandler_ViaMux(t *testing.T) {
	exporter := &stubExporter{}
	mux := asynq.NewServeMux()
	mux.Handle(TaskCatalogSnapshot, NewSnapshotHandler(exporter, logger.Nop()))

	require.NoError(t, mux.ProcessTask(context.Background(), NewCatalogSnapshotTask()))
	assert.Equal(t, 1, exporter.calls)
}
