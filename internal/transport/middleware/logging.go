package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/pos-platform/internal"
)

const maxLoggedBody = 2048

// sensitiveKeys are matched against lowercased header and JSON keys with
// underscores and dashes removed.
var sensitiveKeys = []string{
	"password",
	"pin",
	"pinhash",
	"token",
	"authorization",
	"cookie",
	"secret",
	"credential",
}

// quietPaths are probed by orchestrators and logged at debug only.
var quietPaths = map[string]bool{
	"/api/v1/health": true,
	"/api/v1/ping":   true,
}

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			traceID := internal.TraceIDFromContext(r.Context())
			quiet := quietPaths[r.URL.Path]

			if !quiet {
				logRequest(logger, r, traceID)
			}

			ww := &responseWriter{ResponseWriter: w, body: &bytes.Buffer{}}
			next.ServeHTTP(ww, r)

			logResponse(logger, r, ww, time.Since(start), traceID, quiet)
		})
	}
}

// responseWriter keeps the status and the first bytes of the body.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.size += len(b)
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		if len(b) > room {
			rw.body.Write(b[:room])
		} else {
			rw.body.Write(b)
		}
	}
	return rw.ResponseWriter.Write(b)
}

func logRequest(logger *slog.Logger, r *http.Request, traceID string) {
	var bodyBytes []byte
	if r.Body != nil {
		bodyBytes, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	logger.InfoContext(r.Context(), "incoming request",
		"trace_id", traceID,
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterHeaders(r.Header),
		"body", filterBody(bodyBytes),
	)
}

func logResponse(logger *slog.Logger, r *http.Request, rw *responseWriter, duration time.Duration, traceID string, quiet bool) {
	statusCode := rw.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	level := slog.LevelInfo
	switch {
	case statusCode >= http.StatusInternalServerError:
		level = slog.LevelError
	case statusCode >= http.StatusBadRequest:
		level = slog.LevelWarn
	case quiet:
		level = slog.LevelDebug
	}

	attrs := []any{
		"trace_id", traceID,
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
	}
	// Bodies are kept for failures only.
	if statusCode >= http.StatusBadRequest {
		attrs = append(attrs, "body", filterBody(rw.body.Bytes()))
	}
	logger.Log(r.Context(), level, "response", attrs...)
}

func isSensitive(key string) bool {
	normalized := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(key))
	for _, s := range sensitiveKeys {
		if normalized == s || (len(s) > 3 && strings.Contains(normalized, s)) {
			return true
		}
	}
	return false
}

func filterHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			filtered[name] = "[FILTERED]"
			continue
		}
		filtered[name] = strings.Join(values, ", ")
	}
	return filtered
}

func filterBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if len(body) >= maxLoggedBody {
			return "[TRUNCATED]"
		}
		return "[NON-JSON BODY]"
	}

	out, err := json.Marshal(filterJSON(data))
	if err != nil {
		return "[UNLOGGABLE BODY]"
	}
	return string(out)
}

func filterJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		filtered := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				filtered[key] = "[FILTERED]"
				continue
			}
			filtered[key] = filterJSON(value)
		}
		return filtered
	case []interface{}:
		filtered := make([]interface{}, len(v))
		for i, item := range v {
			filtered[i] = filterJSON(item)
		}
		return filtered
	default:
		return v
	}
}
