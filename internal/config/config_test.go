package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.App.Host)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Cache.UserTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Exp)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Admin.Password)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CACHE_USER_TTL", "1h")
	t.Setenv("JWT_EXP", "15m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "postgres://user:password@db:6543/database?sslmode=disable", cfg.Postgres.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Hour, cfg.Cache.UserTTL)
	assert.Equal(t, 15*time.Minute, cfg.JWT.Exp)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_HOST=cache\nREDIS_PORT=7000\n"), 0o600))

	t.Setenv("REDIS_HOST", "")
	os.Unsetenv("REDIS_HOST")
	t.Setenv("REDIS_PORT", "")
	os.Unsetenv("REDIS_PORT")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cache:7000", cfg.Redis.Addr())

	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("REDIS_PORT")
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("POSTGRES_PORT", "not-a-number")

	_, err := Load("")
	assert.Error(t, err)
}
