package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mssola/useragent"
)

// Logger emits one structured access-log line per request. The User-Agent is
// parsed so operators can slice logs by browser and platform without regex
// gymnastics at query time.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			ctx := r.Context()
			ua := useragent.New(r.Header.Get("User-Agent"))
			browser, browserVersion := ua.Browser()

			logger.InfoContext(ctx, "http request",
				"request_id", GetRequestID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", ClientIPFromRequest(r),
				"browser", browser,
				"browser_version", browserVersion,
				"os", ua.OSInfo().Name,
				"mobile", ua.Mobile(),
				"bot", ua.Bot(),
			)
		})
	}
}
