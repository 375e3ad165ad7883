package middleware

import (
	"net/http"

	"github.com/bookrack/bookrack/internal/logger"
)

// Recovery converts handler panics into 500 responses instead of
// killing the connection.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic serving %s %s: %v", r.Method, r.URL.Path, rec)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
