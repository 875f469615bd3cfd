package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Tungtt2020/StackRedis.L1/internal/cacheengine"
)

// Client wraps go-redis with the connection diagnostics and the
// cacheengine.Subscriber adapter the invalidation engine depends on.
type Client struct {
	*goredis.Client
	log     *zap.Logger
	dbIndex int
}

// NewClient dials addr/db and logs connection diagnostics before returning.
// The returned Client is both a cacheengine.Subscriber (via Subscribe) and
// the store the cache shadows.
func NewClient(addr string, db int, log *zap.Logger) *Client {
	opts := &goredis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	}

	client := &Client{
		Client:  goredis.NewClient(opts),
		log:     log.Named("l1cache.redis"),
		dbIndex: db,
	}

	log.Info("Redis client initialized",
		zap.String("addr", addr),
		zap.Int("db", db),
	)

	client.Ping(context.TODO())

	return client
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	return c.Client.Close()
}

// Ping pings the store with a 500ms timeout and logs connection diagnostics.
func (c *Client) Ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	opts := c.Options()
	log := c.log.With(
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Int("max_retries", opts.MaxRetries),
	)

	start := time.Now()
	err := c.Client.Ping(ctx).Err()
	elapsed := time.Since(start)

	if err != nil {
		log.Warn("connection failed", zap.Error(err), zap.Duration("ping_rtt", elapsed))
	} else {
		log.Info("connection established", zap.Duration("ping_rtt", elapsed))
	}
}

// Subscribe implements cacheengine.Subscriber over go-redis's PSUBSCRIBE.
// It blocks until the subscription is acknowledged so callers never race a
// publish against an unready pattern.
func (c *Client) Subscribe(ctx context.Context, pattern string, handler cacheengine.Handler) (cacheengine.Subscription, error) {
	pubsub := c.PSubscribe(ctx, pattern)

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &patternSubscription{
		pubsub: pubsub,
		log:    c.log.Named("pubsub").With(zap.String("pattern", pattern), zap.Int("db", c.dbIndex)),
	}
	go sub.run(handler)
	return sub, nil
}

// patternSubscription adapts a *redis.PubSub pattern subscription's channel
// of messages into cacheengine.Handler invocations.
type patternSubscription struct {
	pubsub *goredis.PubSub
	log    *zap.Logger
}

func (s *patternSubscription) run(handler cacheengine.Handler) {
	for msg := range s.pubsub.Channel() {
		handler(msg.Channel, msg.Payload)
	}
}

// Unsubscribe closes the underlying PubSub, which both unsubscribes the
// pattern and ends the delivery channel consumed by run.
func (s *patternSubscription) Unsubscribe(ctx context.Context) error {
	if err := s.pubsub.Close(); err != nil {
		return err
	}
	s.log.Debug("unsubscribed")
	return nil
}
