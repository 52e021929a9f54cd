package middleware

import (
	"net/http"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/pkg/logger"

	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// RequestID propagates the caller's X-Trace-ID when it is a UUID and mints
// one otherwise, so arbitrary header text never reaches the logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := uuid.NewString()
		if id, err := uuid.Parse(r.Header.Get(traceHeader)); err == nil {
			traceID = id.String()
		}

		ctx := internal.ContextWithTraceID(r.Context(), traceID)
		ctx = logger.With(ctx, "trace_id", traceID)
		w.Header().Set(traceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
