package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/NordCoder/update-notifier/internal/auth"
	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/domain/cursor"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorJSON struct {
	Error string `json:"error"`
}

// handleSend runs a pass synchronously and returns its report. bypass skips
// the interval check; the plain variant only skips the cron gate. A client
// disconnect must not abort a pass half way, so cancellation is dropped.
func (a *API) handleSend(bypass bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := a.Pass.RunPass(context.WithoutCancel(r.Context()), a.Clock.Now(), bypass)
		status := http.StatusOK
		if rep.Skipped {
			status = http.StatusConflict
		}
		writeJSON(w, status, rep)
	}
}

func (a *API) handleCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		cats := a.Categories.ListCategories()
		if cats == nil {
			cats = []category.Category{}
		}
		writeJSON(w, http.StatusOK, cats)
	}
}

func (a *API) handleCursors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := a.Cursors.List(r.Context())
		if err != nil {
			a.log().Error("list cursors", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorJSON{Error: "cannot list cursors"})
			return
		}
		if list == nil {
			list = []*cursor.Cursor{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (a *API) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err == nil {
			err = a.Verifier.Verify(token)
		}
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="notifier"`)
			writeJSON(w, http.StatusUnauthorized, errorJSON{Error: err.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		if r.URL.Path == "/metrics" || r.URL.Path == "/healthz" {
			return
		}
		a.log().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (a *API) log() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}
