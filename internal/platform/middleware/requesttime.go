package middleware

import (
	"net/http"
	"time"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// RequestTime pins a single "now" for the whole request. Every domain
// mutation, audit record and solvency check triggered by one request then
// carries the same timestamp.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
