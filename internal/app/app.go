// Package app собирает зависимости сервиса каталога, запускает серверы и фоновые
// обработчики и корректно останавливает их по сигналу.
package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/product-catalog/internal/cfg"
	v1Grpc "github.com/DRSN-tech/product-catalog/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/product-catalog/internal/delivery/v1/http"
	"github.com/DRSN-tech/product-catalog/internal/infrastructure"
	"github.com/DRSN-tech/product-catalog/internal/infrastructure/jobs"
	"github.com/DRSN-tech/product-catalog/internal/infrastructure/kafka"
	redisInfra "github.com/DRSN-tech/product-catalog/internal/infrastructure/redis"
	"github.com/DRSN-tech/product-catalog/internal/observability"
	s3Repo "github.com/DRSN-tech/product-catalog/internal/repository/minio"
	"github.com/DRSN-tech/product-catalog/internal/repository/pgdb"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/clients"
	"github.com/DRSN-tech/product-catalog/pkg/closer"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/DRSN-tech/product-catalog/pkg/postgres"
	"github.com/DRSN-tech/product-catalog/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout = 30 * time.Second
	pingTimeout    = 5 * time.Second
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	outboxWorker *kafka.OutboxWorker
	jobsWorker   *jobs.Worker
}

// NewApp подключается к внешним системам и собирает граф зависимостей.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (_ *App, err error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(cfg.App.ShutdownTimeout/3, log),
	}
	defer func() {
		if err != nil {
			_ = a.closer.Close(context.Background())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := initPGDB(ctx, log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddSimple("postgres", db.Close)

	redisClient, err := initRedis(ctx, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err = clients.EnsureBucket(ctx, minioClient, cfg.Minio.BucketName); err != nil {
		log.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	producer := kafka.NewProducer(log, cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })
	if err = producer.EnsureTopic(cfg.Kafka.EnsureTimeout); err != nil {
		log.Errorf(err, "failed to ensure kafka topic")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Репозитории и use case'ы
	productRepo := pgdb.NewProductRepo(db.Pool)
	categoryRepo := pgdb.NewCategoryRepo(db.Pool)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool)
	snapshotRepo := s3Repo.NewSnapshotRepo(minioClient, cfg.Minio)
	txManager := tr.NewTxManager(db.Pool)

	productUC := usecase.NewProductUC(productRepo, categoryRepo, outboxRepo, txManager, log)
	exportUC := usecase.NewCatalogExportUC(productUC, snapshotRepo, log)

	metrics := observability.NewMetrics()
	instrumentedUC := observability.NewInstrumentedProductUC(productUC, metrics)

	// Доставка событий: Kafka основной брокер, Redis Pub/Sub дублирует
	publisher := infrastructure.NewFanOutProducer(log, producer,
		redisInfra.NewEventPublisher(redisClient.Client, cfg.Redis.EventsChannel))
	a.outboxWorker = kafka.NewOutboxWorker(
		outboxRepo, log, publisher,
		kafka.PgxDialer(cfg.Db.DSN()), pgdb.OutboxNotifyChannel, cfg.Outbox,
	)

	a.jobsWorker, err = jobs.NewWorker(clients.AsynqRedisOpt(cfg.Redis), cfg.Jobs, jobs.NewSnapshotHandler(exportUC, log), log)
	if err != nil {
		log.Errorf(err, "failed to initialize jobs worker")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Серверы
	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.grpcSrv.RegisterServices()

	r := chi.NewRouter()
	v1Http.NewRouter(r, log, metrics).Init(instrumentedUC, exportUC)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return a, nil
}

// Run запускает серверы и воркеры и блокируется до сигнала или падения сервера.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.outboxWorker.Start(ctx)
	a.closer.Add("outbox worker", a.outboxWorker.Stop)

	if err := a.jobsWorker.Start(); err != nil {
		a.logger.Errorf(err, "failed to start jobs worker")
		_ = a.closer.Close(context.Background())
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("jobs worker", a.jobsWorker.Stop)

	errCh := make(chan error, 2)

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	a.grpcSrv.SetServing(true)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-ctx.Done():
		a.logger.Infof("received shutdown signal, stopping gracefully...")
	}

	a.grpcSrv.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("application shutdown complete")
	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db, logger)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

func initRedis(ctx context.Context, cfg *config.Config) (*clients.RedisClient, error) {
	client := clients.NewRedisClient(cfg.Redis)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
