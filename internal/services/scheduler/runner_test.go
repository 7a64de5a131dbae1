package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
	"github.com/NordCoder/update-notifier/internal/services/notifier"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type recordingPass struct {
	mu      sync.Mutex
	calls   []bool
	at      []time.Time
	started chan struct{}
	block   chan struct{}
}

func (p *recordingPass) RunPass(_ context.Context, now time.Time, bypass bool) notifier.PassReport {
	p.mu.Lock()
	p.calls = append(p.calls, bypass)
	p.at = append(p.at, now)
	p.mu.Unlock()
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.block != nil {
		<-p.block
	}
	return notifier.PassReport{ID: "x"}
}

func TestNew_DailySchedule(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	r, err := New(nil, &recordingPass{}, fixedClock{now}, config.Schedule{CronTime: "06:30", Timezone: "Europe/Berlin"})
	require.NoError(t, err)

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	assert.True(t, r.Next(now).Equal(time.Date(2024, 5, 11, 6, 30, 0, 0, berlin)))

	r, err = New(nil, &recordingPass{}, fixedClock{now}, config.Schedule{CronTime: "00:00"})
	require.NoError(t, err)
	assert.True(t, r.Next(now).Equal(time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)))
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	_, err := New(nil, &recordingPass{}, fixedClock{}, config.Schedule{CronTime: "7pm"})
	assert.Error(t, err)
	_, err = New(nil, &recordingPass{}, fixedClock{}, config.Schedule{Spec: "every day"})
	assert.Error(t, err)
	_, err = New(nil, &recordingPass{}, fixedClock{}, config.Schedule{CronTime: "00:00", Timezone: "Nowhere/City"})
	assert.Error(t, err)
}

func TestTick_RespectsInterval(t *testing.T) {
	now := time.Unix(90000, 0)
	pass := &recordingPass{}
	r, err := New(nil, pass, fixedClock{now}, config.Schedule{CronTime: "00:00"})
	require.NoError(t, err)

	r.tick(context.Background())
	require.Len(t, pass.calls, 1)
	assert.False(t, pass.calls[0])
	assert.Equal(t, now, pass.at[0])
}

func TestTick_SkipsOverlap(t *testing.T) {
	pass := &recordingPass{started: make(chan struct{}), block: make(chan struct{})}
	r, err := New(nil, pass, fixedClock{time.Unix(0, 0)}, config.Schedule{CronTime: "00:00"})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		r.tick(context.Background())
		close(done)
	}()
	<-pass.started

	r.tick(context.Background())
	close(pass.block)
	<-done

	pass.mu.Lock()
	defer pass.mu.Unlock()
	assert.Len(t, pass.calls, 1)
}
