// Package jobs запускает фоновые задачи каталога на очереди asynq поверх Redis.
package jobs

import (
	"context"
	"time"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/hibiken/asynq"
	"github.com/jimlawless/whereami"
)

const (
	QueueDefault = "default"

	// TaskCatalogSnapshot выгружает снимок каталога в объектное хранилище.
	TaskCatalogSnapshot = "catalog:snapshot"

	snapshotTimeout = 5 * time.Minute
)

// NewCatalogSnapshotTask создаёт задачу выгрузки. Полезной нагрузки у задачи нет.
func NewCatalogSnapshotTask() *asynq.Task {
	return asynq.NewTask(TaskCatalogSnapshot, nil, asynq.Queue(QueueDefault), asynq.Timeout(snapshotTimeout))
}

// SnapshotHandler выполняет задачу выгрузки через use case экспорта.
type SnapshotHandler struct {
	exporter usecase.CatalogExportUC
	logger   logger.Logger
}

func NewSnapshotHandler(exporter usecase.CatalogExportUC, logger logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{exporter: exporter, logger: logger}
}

func (h *SnapshotHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	res, err := h.exporter.ExportSnapshot(ctx)
	if err != nil {
		h.logger.Errorf(err, "scheduled catalog snapshot failed")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if info, ok := res.Data.(usecase.SnapshotInfo); ok {
		h.logger.Infof("scheduled catalog snapshot done. key: %s", info.Key)
	}
	return nil
}

// Worker объединяет сервер asynq и планировщик cron-задач.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    logger.Logger
}

// NewWorker регистрирует обработчики и, если задан SnapshotCron, расписание выгрузки.
func NewWorker(redisOpt asynq.RedisClientOpt, cfg *cfg.JobsCfg, handler *SnapshotHandler, logger logger.Logger) (*Worker, error) {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TaskCatalogSnapshot, handler)

	var scheduler *asynq.Scheduler
	if cfg.SnapshotCron != "" {
		scheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
		if _, err := scheduler.Register(cfg.SnapshotCron, NewCatalogSnapshotTask(), asynq.MaxRetry(3)); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, logger: logger}, nil
}

// Start запускает обработку задач в фоне.
func (w *Worker) Start() error {
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if err := w.server.Start(w.mux); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	w.logger.Infof("jobs worker started. snapshot schedule enabled: %t", w.scheduler != nil)
	return nil
}

func (w *Worker) Stop(_ context.Context) error {
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()

	return nil
}
