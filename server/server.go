// Package server exposes the HTTP surface: health, status, metrics,
// broadcaster counter reads, an SSE event stream for overlays, and a
// token-guarded admin reset. It injects correlation IDs into request
// contexts for consistent logging.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onnwee/chat-tally/notify"
	"github.com/onnwee/chat-tally/telemetry"
)

// NewMux returns the HTTP handler with all routes wired. adminToken
// guards the /admin/ endpoints; empty disables the guard.
func NewMux(ctx context.Context, db *sql.DB, hub *notify.Hub, adminToken string) http.Handler {
	authCfg := newAuthConfig(adminToken)
	handlers := NewHandlers(ctx, db, hub)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", handlers.HandleHealthz)
	mux.HandleFunc("/readyz", handlers.HandleReadyz)
	mux.HandleFunc("/status", handlers.HandleStatus)
	mux.HandleFunc("/broadcasters/", handlers.HandleBroadcastersDispatcher)
	mux.HandleFunc("/events", handlers.HandleEvents)
	mux.HandleFunc("/admin/counters/reset", handlers.HandleAdminCountersReset)

	// Admin endpoints sit behind token auth; everything else is open.
	guarded := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) >= 7 && r.URL.Path[:7] == "/admin/" {
			adminAuth(mux, authCfg).ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	// Correlation id + tracing wrapper.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corr := r.Header.Get("X-Correlation-ID")
		if corr == "" {
			corr = uuid.New().String()
		}
		rctx := telemetry.WithCorrelation(r.Context(), corr)
		w.Header().Set("X-Correlation-ID", corr)

		rctx, span := telemetry.StartSpan(rctx, "http-server", r.Method+" "+r.URL.Path)
		defer span.End()

		telemetry.LoggerWithCorr(rctx).Debug("request start",
			slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.String("component", "http"))

		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		guarded.ServeHTTP(rec, r.WithContext(rctx))
		if rec.statusCode >= http.StatusInternalServerError {
			telemetry.RecordError(span, fmt.Errorf("http %d on %s %s", rec.statusCode, r.Method, r.URL.Path))
		}
	})
	return withCORS(handler)
}

// statusRecorder wraps ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// Flush implements http.Flusher when the underlying writer supports it,
// which the SSE handler requires.
func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Start runs the HTTP server and shuts down gracefully on context
// cancellation. SSE streams are long-lived, so there is no write timeout.
func Start(ctx context.Context, db *sql.DB, hub *notify.Hub, addr, adminToken string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(ctx, db, hub, adminToken),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown error", slog.Any("err", err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server error", slog.Any("err", err))
		return err
	}
	return nil
}
