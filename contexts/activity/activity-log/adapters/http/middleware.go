package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	application "timecapsule/contexts/activity/activity-log/application"
	"timecapsule/contexts/activity/activity-log/application/commands"
	"timecapsule/internal/platform/httpx"
)

const defaultRecordTimeout = 2 * time.Second

// Middleware records one activity row per request on every route. The row is
// written after the inner handler returns; a failed write is logged and never
// alters the response already produced.
type Middleware struct {
	Record  commands.RecordActivityUseCase
	Timeout time.Duration
	Logger  *slog.Logger
}

func (m Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			rec := recover()
			if rec != nil {
				status = http.StatusInternalServerError
			}
			if status == 0 {
				status = http.StatusOK
			}
			m.record(r, status, time.Since(start))
			if rec != nil {
				panic(rec)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

func (m Middleware) record(r *http.Request, status int, elapsed time.Duration) {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = defaultRecordTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeout)
	defer cancel()

	_, err := m.Record.Execute(ctx, commands.RecordActivityCommand{
		RequestID: httpx.RequestID(r),
		Method:    r.Method,
		Path:      r.URL.Path,
		Route:     routePattern(r),
		Status:    status,
		UserID:    httpx.UserID(r),
		IPAddress: httpx.ClientIP(r),
		UserAgent: r.UserAgent(),
		Duration:  elapsed,
	})
	if err != nil {
		application.ResolveLogger(m.Logger).Warn("activity not recorded",
			"event", "activity_middleware_record_failed",
			"module", "activity/activity-log",
			"layer", "transport",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err.Error(),
		)
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
