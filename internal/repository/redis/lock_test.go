package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClient emulates SET NX and the compare-and-delete script.
type memClient struct {
	vals    map[string]string
	ttls    map[string]time.Duration
	failErr error
}

func newMemClient() *memClient {
	return &memClient{vals: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memClient) SetNX(_ context.Context, key string, value any, exp time.Duration) *redis.BoolCmd {
	if m.failErr != nil {
		return redis.NewBoolResult(false, m.failErr)
	}
	if _, held := m.vals[key]; held {
		return redis.NewBoolResult(false, nil)
	}
	m.vals[key] = value.(string)
	m.ttls[key] = exp
	return redis.NewBoolResult(true, nil)
}

func (m *memClient) Eval(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	if m.vals[keys[0]] == args[0].(string) {
		delete(m.vals, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func (m *memClient) Ping(context.Context) *redis.StatusCmd { return redis.NewStatusResult("PONG", nil) }
func (m *memClient) Close() error                          { return nil }

func TestPassLock(t *testing.T) {
	ctx := context.Background()
	c := newMemClient()
	cfg := Config{Key: "notifier:pass", TTL: time.Minute}
	a := newPassLock(c, cfg, nil)
	b := newPassLock(c, cfg, nil)

	release, ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Minute, c.ttls["notifier:pass"])

	_, ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second holder is refused")

	release()
	_, ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPassLock_ReleaseKeepsForeignToken(t *testing.T) {
	ctx := context.Background()
	c := newMemClient()
	l := newPassLock(c, Config{Key: "k"}, nil)

	release, ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10*time.Minute, c.ttls["k"])

	c.vals["k"] = "someone-else"
	release()
	assert.Equal(t, "someone-else", c.vals["k"])
}

func TestPassLock_BackendError(t *testing.T) {
	c := newMemClient()
	c.failErr = errors.New("connection refused")
	_, ok, err := newPassLock(c, Config{Key: "k"}, nil).Acquire(context.Background())
	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection refused")
}
