package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/jitter"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 5 * time.Second
	retryBase    = 500 * time.Millisecond
	retryMaxWait = 10 * time.Second
)

// PgDatabase инкапсулирует пул подключений к PostgreSQL и управление миграциями.
// Pool реализует и tr.Querier, и transaction.Transactional для TxManager.
type PgDatabase struct {
	Pool *pgxpool.Pool
	cfg  *cfg.PGDBCfg
}

func NewPgDatabase(pool *pgxpool.Pool, cfg *cfg.PGDBCfg) *PgDatabase {
	return &PgDatabase{Pool: pool, cfg: cfg}
}

// Connect создаёт пул и ждёт, пока база ответит на ping, не дольше cfg.ConnectAttempts попыток.
func Connect(ctx context.Context, cfg *cfg.PGDBCfg, log logger.Logger) (*PgDatabase, error) {
	const op = "PgDatabase.Connect"

	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	db := NewPgDatabase(pool, cfg)
	err = jitter.Retry(ctx, cfg.ConnectAttempts, retryBase, retryMaxWait, db.ping, func(attempt int, err error) {
		log.Warnf("postgres is not ready. attempt: %d, error: %v", attempt+1, err)
	})
	if err != nil {
		pool.Close()
		return nil, e.Wrap(op, err)
	}

	return db, nil
}

func poolConfig(cfg *cfg.PGDBCfg) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	return poolCfg, nil
}

func (db *PgDatabase) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return db.Pool.Ping(ctx)
}

func (db *PgDatabase) Ping(ctx context.Context) error {
	const op = "PgDatabase.Ping"

	if err := db.ping(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Close корректно закрывает пул соединений к базе данных.
func (db *PgDatabase) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// RunMigrations применяет ожидающие миграции из cfg.MigrationsPath.
func (db *PgDatabase) RunMigrations(logger logger.Logger) error {
	const (
		op                 = "PgDatabase.RunMigrations"
		driverName         = "pgx"
		databaseDriverName = "postgres"
	)

	sqlDb, err := sql.Open(driverName, db.cfg.DSN())
	if err != nil {
		return e.Wrap(op, err)
	}
	defer sqlDb.Close()

	driver, err := postgres.WithInstance(sqlDb, &postgres.Config{})
	if err != nil {
		return e.Wrap(op, err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationsURL(db.cfg.MigrationsPath),
		databaseDriverName,
		driver,
	)
	if err != nil {
		return e.Wrap(op, err)
	}

	err = m.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Infof("migrations are up to date")
			return nil
		}
		return e.Wrap(op, err)
	}

	version, _, _ := m.Version()
	logger.Infof("migrations applied successfully. version: %d", version)
	return nil
}

func migrationsURL(path string) string {
	return "file://" + path
}
