package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("POSTGRES_USER", "catalog")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "catalog")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_TOPIC", "product-events")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := Load(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "production", c.App.Env)
	assert.Equal(t, 15*time.Second, c.App.ShutdownTimeout)
	assert.Equal(t, "8080", c.Http.Port)
	assert.Equal(t, "8091", c.Grpc.Port)
	assert.Equal(t, "localhost", c.Db.Host)
	assert.Equal(t, int32(10), c.Db.MaxConns)
	assert.Equal(t, 5, c.Db.ConnectAttempts)
	assert.Equal(t, "db/migrations", c.Db.MigrationsPath)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, 3, c.Kafka.Partitions)
	assert.Equal(t, "catalog-snapshots", c.Minio.BucketName)
	assert.Equal(t, "catalog.product-events", c.Redis.EventsChannel)
	assert.Equal(t, 10, c.Outbox.BatchSize)
	assert.Equal(t, "0 3 * * *", c.Jobs.SnapshotCron)
	assert.Equal(t,
		"host=localhost port=5432 user=catalog password=secret dbname=catalog sslmode=disable",
		c.Db.DSN(),
	)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("HTTP_READ_TIMEOUT", "2s")
	t.Setenv("OUTBOX_BATCH_SIZE", "50")
	t.Setenv("SNAPSHOT_CRON", "")

	c, err := Load(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "development", c.App.Env)
	assert.Equal(t, 2*time.Second, c.Http.ReadTimeout)
	assert.Equal(t, 50, c.Outbox.BatchSize)
	assert.Empty(t, c.Jobs.SnapshotCron)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		key   string
		value string
	}{
		{name: "missing postgres user", unset: "POSTGRES_USER"},
		{name: "missing kafka topic", unset: "KAFKA_TOPIC"},
		{name: "bad duration", key: "HTTP_WRITE_TIMEOUT", value: "ten"},
		{name: "bad redis db", key: "REDIS_DB_ID", value: "x"},
		{name: "non-positive batch", key: "OUTBOX_BATCH_SIZE", value: "0"},
		{name: "zero connect attempts", key: "POSTGRES_CONNECT_ATTEMPTS", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			if tt.unset != "" {
				t.Setenv(tt.unset, "")
			}
			if tt.key != "" {
				t.Setenv(tt.key, tt.value)
			}

			_, err := Load(logger.Nop())
			require.Error(t, err)
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("SOME_INT", "abc")

	v, err := parseIntEnv("SOME_INT", 7)
	require.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
	assert.Equal(t, 7, v)

	v, err = parseIntEnv("UNSET_INT_FOR_TEST", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_DOTENV_PROBE=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CATALOG_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("CATALOG_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
