package postgres

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg() *cfg.PGDBCfg {
	return &cfg.PGDBCfg{
		Host:     "db",
		Port:     "5433",
		User:     "catalog",
		Password: "secret",
		DBName:   "catalog",
		SSLMode:  "disable",
		MaxConns: 7,
	}
}

func TestPoolConfig(t *testing.T) {
	poolCfg, err := poolConfig(testCfg())
	require.NoError(t, err)

	assert.Equal(t, int32(7), poolCfg.MaxConns)
	assert.Equal(t, "db", poolCfg.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolCfg.ConnConfig.Port)
	assert.Equal(t, "catalog", poolCfg.ConnConfig.Database)
}

func TestPoolConfig_DefaultMaxConns(t *testing.T) {
	c := testCfg()
	c.MaxConns = 0

	poolCfg, err := poolConfig(c)
	require.NoError(t, err)
	assert.Positive(t, poolCfg.MaxConns)
}

func TestMigrationsURL(t *testing.T) {
	assert.Equal(t, "file://db/migrations", migrationsURL("db/migrations"))
}

// Миграции golang-migrate должны идти парами up/down с одинаковыми версиями.
func TestMigrationFilesArePaired(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "db", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, f := range files {
		name := filepath.Base(f)
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected migration file %s", name)
		}

		data, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(data)), name)
	}

	keys := func(m map[string]bool) []string {
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, keys(ups), keys(downs))
}
