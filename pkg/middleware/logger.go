package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// NewStructuredLogger provides structured request logging. Actor identity
// headers are recorded so marketplace actions can be traced back to the
// party that made them. Conflict responses are logged at warn level since
// they usually indicate a lost race on a project or offer rather than a
// client bug.
func NewStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			started := time.Now()
			defer func() {
				status := ww.Status()

				attrs := []any{
					slog.Group("request",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("remote_addr", r.RemoteAddr),
					),
					slog.Group("actor",
						slog.String("id", r.Header.Get("X-Actor-Id")),
						slog.String("role", r.Header.Get("X-Actor-Role")),
					),
					slog.Group("response",
						slog.Int("status", status),
						slog.Int("bytes", ww.BytesWritten()),
						slog.String("latency", time.Since(started).String()),
					),
				}

				switch {
				case status >= 500:
					logger.Error("server error", attrs...)
				case status == http.StatusConflict:
					logger.Warn("request conflict", attrs...)
				default:
					logger.Info("request completed", attrs...)
				}
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
