package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/NordCoder/update-notifier/internal/auth"
	config "github.com/NordCoder/update-notifier/internal/config/notifier"
	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/cursor"
	"github.com/NordCoder/update-notifier/internal/domain/notification"
	"github.com/NordCoder/update-notifier/internal/obs"
	"github.com/NordCoder/update-notifier/internal/services/notifier"
)

type PassRunner interface {
	RunPass(ctx context.Context, now time.Time, bypassInterval bool) notifier.PassReport
}

type CursorLister interface {
	List(ctx context.Context) ([]*cursor.Cursor, error)
}

// API exposes the manual triggers and read-only views over HTTP.
type API struct {
	Pass       PassRunner
	Categories category.Lister
	Cursors    CursorLister
	Clock      notification.Clock
	Verifier   *auth.Verifier // nil disables auth on /api
	Health     func(ctx context.Context) error
	Log        *zap.Logger
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.requestLog)

	r.Get("/healthz", obs.HealthHandler(a.Health))
	r.Handle("/metrics", obs.MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		if a.Verifier != nil {
			r.Use(a.bearerAuth)
		}
		r.Post("/send", a.handleSend(false))
		r.Post("/send-now", a.handleSend(true))
		r.Get("/categories", a.handleCategories())
		r.Get("/cursors", a.handleCursors())
	})

	return obs.HTTPHandler(r, "notifier.admin")
}

// Server wraps the router in an http.Server with the configured timeouts.
type Server struct {
	srv      *http.Server
	graceful time.Duration
	log      *zap.Logger
}

func NewServer(cfg config.Server, h http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		srv: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      h,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		graceful: cfg.GracefulTimeout,
		log:      log.With(zap.String("component", "admin.http")),
	}
}

// Run serves until ctx is done, then shuts down within the graceful timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("admin http listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	grace := s.graceful
	if grace <= 0 {
		grace = 5 * time.Second
	}
	shCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := s.srv.Shutdown(shCtx); err != nil {
		return err
	}
	return ctx.Err()
}
