package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS builds the cross-origin handler from a comma separated origin list.
// An empty list or "*" allows every origin.
func CORS(allowedOrigins string) func(http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:       origins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:       []string{"X-Trace-ID"},
		MaxAge:               300,
		OptionsSuccessStatus: http.StatusNoContent,
	})
}
