// Command l1cached boots the invalidation engine against a Redis-compatible
// store: it wires config, logging, the Redis subscription adapter, process
// identity and one demo registered database, then blocks until interrupted.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Tungtt2020/StackRedis.L1/internal/cacheengine"
	"github.com/Tungtt2020/StackRedis.L1/internal/config"
	"github.com/Tungtt2020/StackRedis.L1/internal/identity"
	"github.com/Tungtt2020/StackRedis.L1/internal/metrics"
	stackredis "github.com/Tungtt2020/StackRedis.L1/redis"
)

func main() {
	cfg := config.Load()
	dbIndex := flag.Int("db", cfg.RedisDB, "redis database index (also embedded in keyspace-notification channel prefixes)")
	flag.Parse()

	log := buildLogger()
	defer log.Sync()
	log = log.Named("main")

	client := stackredis.NewClient(cfg.RedisAddr, *dbIndex, log)
	defer client.Close()

	m := metrics.NewSet(prometheus.DefaultRegisterer)
	id := identity.NewProvider()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := cacheengine.NewListener(ctx, log, client, id, *dbIndex, m)
	if err != nil {
		log.Fatal("listener setup failed", zap.Error(err))
	}
	defer listener.Close(context.Background())

	// One demo database; a real façade would construct and register one
	// per logical cache instance.
	listener.Register(cacheengine.NewDatabase(
		cacheengine.NewMemoryCache(),
		cacheengine.NewMemoryHashes(),
		cacheengine.NewMemorySets(),
		cacheengine.NewMemorySortedSets(),
	))

	log.Info("listening for keyspace notifications",
		zap.String("identity", string(id.Current())),
		zap.Int("db", *dbIndex),
	)

	<-ctx.Done()
	log.Info("shutting down")
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	return zap.Must(logConfig.Build())
}
