// Package config loads runtime configuration for the cache process from the
// environment, with the STACKREDIS_ prefix (e.g. STACKREDIS_REDIS_ADDR).
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings the cache process needs to connect to the
// remote store and run its listener.
type Config struct {
	RedisAddr string // host:port of the Redis-compatible store
	RedisDB   int    // database index; also the index embedded in keyspace channel prefixes
	LogLevel  string // zap level name: debug, info, warn, error
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("log_level", "info")
}

// Load reads Config from the environment, applying defaults for anything
// unset.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("stackredis")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		RedisAddr: v.GetString("redis_addr"),
		RedisDB:   v.GetInt("redis_db"),
		LogLevel:  v.GetString("log_level"),
	}
}
