package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// RequestIDHeader is the canonical header for request correlation. Inbound
// values from trusted proxies are reused so a request keeps one ID across
// service hops.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a correlation ID, stores it in the context
// and echoes it back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the correlation ID set by RequestID.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
