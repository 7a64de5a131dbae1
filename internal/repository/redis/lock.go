package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
}

// client is the subset of redis.Client used by the lock.
type client interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// PassLock is a single-holder lease shared by every notifier instance.
type PassLock struct {
	c   client
	key string
	ttl time.Duration
	log *zap.Logger
}

func NewPassLock(cfg Config, log *zap.Logger) *PassLock {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return newPassLock(rdb, cfg, log)
}

func newPassLock(c client, cfg Config, log *zap.Logger) *PassLock {
	if log == nil {
		log = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PassLock{
		c:   c,
		key: cfg.Key,
		ttl: ttl,
		log: log.With(zap.String("component", "redis.lock"), zap.String("key", cfg.Key)),
	}
}

func (l *PassLock) Acquire(ctx context.Context) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.c.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("setnx %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// The pass context may already be cancelled at this point.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.c.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
			l.log.Warn("lock release failed", zap.Error(err))
		}
	}
	return release, true, nil
}

func (l *PassLock) Ping(ctx context.Context) error { return l.c.Ping(ctx).Err() }

func (l *PassLock) Close() error { return l.c.Close() }
