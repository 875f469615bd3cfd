package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("STACKREDIS_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("STACKREDIS_REDIS_DB", "2")
	t.Setenv("STACKREDIS_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "debug", cfg.LogLevel)

	os.Unsetenv("STACKREDIS_REDIS_ADDR")
	os.Unsetenv("STACKREDIS_REDIS_DB")
	os.Unsetenv("STACKREDIS_LOG_LEVEL")
}
