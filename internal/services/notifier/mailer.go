package notifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	config "github.com/NordCoder/update-notifier/internal/config/notifier"
	"github.com/NordCoder/update-notifier/internal/domain/notification"
)

var _ notification.EmailSender = (*Mailer)(nil)

type Mailer struct {
	addr        string
	auth        smtp.Auth
	useTLS      bool
	skipVerify  bool
	timeout     time.Duration
	from        string
	contentType string
	limiter     *rate.Limiter

	log *zap.Logger
}

func NewMailer(cfg config.SMTP) *Mailer {
	var auth smtp.Auth
	if cfg.User != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, host(cfg.Addr))
	}
	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}
	contentType := cfg.ContentType
	if contentType == "" {
		contentType = "text/plain"
	}
	return &Mailer{
		addr:        cfg.Addr,
		auth:        auth,
		useTLS:      cfg.UseTLS,
		skipVerify:  cfg.InsecureSkipVerify,
		timeout:     cfg.Timeout,
		from:        cfg.From,
		contentType: contentType,
		limiter:     limiter,
		log:         zap.L().With(zap.String("component", "notifier.mailer")),
	}
}

func (m *Mailer) WithLogger(l *zap.Logger) *Mailer {
	if l == nil {
		return m
	}
	cp := *m
	cp.log = l.With(zap.String("component", "notifier.mailer"))
	return &cp
}

// compose renders an RFC 5322 message with a single inline text part.
func compose(from, to, subject, body, contentType, languageCode string, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	if languageCode != "" {
		h.Set("Content-Language", languageCode)
	}
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create writer: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *Mailer) Send(ctx context.Context, to, subject, body, languageCode string) error {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	msg, err := compose(m.from, to, subject, body, m.contentType, languageCode, time.Now())
	if err != nil {
		return err
	}

	start := time.Now()
	log := m.log.With(
		zap.String("smtp_addr", m.addr),
		zap.Bool("tls", m.useTLS),
		zap.String("to", to),
		zap.String("subject", subject),
	)

	mode := "PLAIN"
	if m.useTLS {
		mode = "TLS"
	}
	log.Debug("sending email", zap.String("mode", mode))

	conn, err := m.dial(ctx)
	if err != nil {
		return err
	}
	// Bound the whole SMTP session; a cancelled ctx cuts it short.
	if err := conn.SetDeadline(time.Now().Add(m.sessionTimeout())); err != nil {
		_ = conn.Close()
		return fmt.Errorf("set deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, host(m.addr))
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() { _ = c.Close() }()

	if !m.useTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(m.tlsConfig()); err != nil {
				return fmt.Errorf("smtp STARTTLS: %w", err)
			}
		}
	}
	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(m.auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}
	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	if err := c.Quit(); err != nil {
		log.Debug("smtp quit", zap.Error(err))
	}
	log.Debug("email sent", zap.String("mode", mode), zap.Duration("elapsed", time.Since(start)))
	return nil
}

const defaultSMTPTimeout = 10 * time.Second

func (m *Mailer) sessionTimeout() time.Duration {
	if m.timeout > 0 {
		return m.timeout
	}
	return defaultSMTPTimeout
}

func (m *Mailer) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         host(m.addr),
		InsecureSkipVerify: m.skipVerify,
	}
}

// dial opens the transport: implicit TLS when configured, plain TCP otherwise.
func (m *Mailer) dial(ctx context.Context) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: m.sessionTimeout()}
	if m.useTLS {
		td := &tls.Dialer{NetDialer: dialer, Config: m.tlsConfig()}
		conn, err := td.DialContext(ctx, "tcp", m.addr)
		if err != nil {
			return nil, fmt.Errorf("tls dial: %w", err)
		}
		return conn, nil
	}
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return conn, nil
}

func host(addr string) string {
	if h, _, err := net.SplitHostPort(addr); err == nil {
		return h
	}
	return strings.TrimSpace(addr)
}
