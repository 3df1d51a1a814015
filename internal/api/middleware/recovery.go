package middleware

import (
	"net/http"

	"github.com/arsw/blueprints/internal/api/response"
)

// Recovery is middleware that recovers from panics and returns a 500 envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				Logger(r.Context()).Error("panic recovered", "error", err, "path", r.URL.Path)
				response.Err(w, http.StatusInternalServerError, "an unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
