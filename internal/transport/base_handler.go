package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// HandleServiceError maps a service error onto the {error:{...}} envelope.
// Anything that is not an AppError is reported as a 500 without its message.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("Internal server error", err)
	}

	lg := logger.Attach(r.Context(), h.Logger)
	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", appErr.GetDetailedMessage())
	} else {
		lg.WarnContext(r.Context(), "request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"code", appErr.Code,
			"message", appErr.Message)
	}

	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// DecodeJSON reads the request body into dst, answering 400 on malformed input.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("Invalid request body", internal.ErrCodeInvalidRequest))
		return false
	}
	return true
}

// ParseIDParam reads a positive integer path parameter.
func (h *BaseHandler) ParseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, r, internal.NewValidationFieldError(name, "invalid "+name, internal.ErrCodeInvalidRequest))
		return 0, false
	}
	return id, true
}

// ParseOptionalIDQuery reads an optional positive integer query parameter.
func (h *BaseHandler) ParseOptionalIDQuery(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, r, internal.NewValidationFieldError(name, "invalid "+name, internal.ErrCodeInvalidRequest))
		return nil, false
	}
	return &id, true
}

// ParseOptionalDateQuery reads an optional YYYY-MM-DD query parameter.
func (h *BaseHandler) ParseOptionalDateQuery(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		h.HandleServiceError(w, r, internal.NewValidationFieldError(name, name+" must be a date (YYYY-MM-DD)", internal.ErrCodeInvalidDate))
		return nil, false
	}
	return &t, true
}

// ParseDateRange reads from/to query dates. The returned end is exclusive,
// one day after the inclusive to date.
func (h *BaseHandler) ParseDateRange(w http.ResponseWriter, r *http.Request) (from, to *time.Time, ok bool) {
	if from, ok = h.ParseOptionalDateQuery(w, r, "from"); !ok {
		return nil, nil, false
	}
	if to, ok = h.ParseOptionalDateQuery(w, r, "to"); !ok {
		return nil, nil, false
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	return from, to, true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
