package notifier

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
)

func TestCompose(t *testing.T) {
	date := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	raw, err := compose("noreply@site.test", "a@x.test", "Entity Update Notification: Foo",
		"Update: Foo at http://x/1", "text/plain", "en", date)
	require.NoError(t, err)

	e, err := message.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	h := mail.Header{Header: e.Header}

	subj, err := h.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Entity Update Notification: Foo", subj)

	to, err := h.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "a@x.test", to[0].Address)

	got, err := h.Date()
	require.NoError(t, err)
	assert.True(t, got.Equal(date))

	id, err := h.MessageID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, "en", h.Get("Content-Language"))

	ct, params, err := h.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, "utf-8", params["charset"])

	body, err := io.ReadAll(e.Body)
	require.NoError(t, err)
	assert.Equal(t, "Update: Foo at http://x/1", string(body))
}

func TestCompose_NoLanguage(t *testing.T) {
	raw, err := compose("a@x.test", "b@x.test", "s", "b", "text/plain", "", time.Now())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Content-Language")
}

func TestMailer_RateLimitHonoursContext(t *testing.T) {
	m := NewMailer(config.SMTP{Addr: "127.0.0.1:1", From: "a@x.test", RatePerSec: 0.001, Burst: 1})
	m.limiter.Allow() // drain the single token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Send(ctx, "b@x.test", "s", "b", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

// stallingRelay accepts connections and never sends a greeting.
func stallingRelay(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().String()
}

func sendAsync(ctx context.Context, m *Mailer) <-chan error {
	done := make(chan error, 1)
	go func() { done <- m.Send(ctx, "b@x.test", "s", "b", "en") }()
	return done
}

func TestMailer_PlainSessionTimesOut(t *testing.T) {
	addr := stallingRelay(t)
	m := NewMailer(config.SMTP{Addr: addr, From: "a@x.test", Timeout: 200 * time.Millisecond})

	select {
	case err := <-sendAsync(context.Background(), m):
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp client")
	case <-time.After(5 * time.Second):
		t.Fatal("send did not honour smtp.timeout")
	}
}

func TestMailer_PlainSessionHonoursContext(t *testing.T) {
	addr := stallingRelay(t)
	m := NewMailer(config.SMTP{Addr: addr, From: "a@x.test", Timeout: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	select {
	case err := <-sendAsync(ctx, m):
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("send did not stop on context cancellation")
	}
}

func TestHost(t *testing.T) {
	assert.Equal(t, "smtp.test", host("smtp.test:465"))
	assert.Equal(t, "smtp.test", host(" smtp.test "))
}
