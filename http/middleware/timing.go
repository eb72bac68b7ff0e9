// Package middleware holds HTTP plumbing shared by the admin API.
package middleware

import (
	"context"
	"net/http"
	"time"
)

type timingContextKey string

const startTimeKey timingContextKey = "start_time"

// Timing records the request start time so responders can report how
// long handling took.
func Timing() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), startTimeKey, time.Now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Took returns the milliseconds since the request entered Timing, or 0
// when the middleware did not run.
func Took(ctx context.Context) int64 {
	if startTime, ok := ctx.Value(startTimeKey).(time.Time); ok {
		return time.Since(startTime).Milliseconds()
	}
	return 0
}
