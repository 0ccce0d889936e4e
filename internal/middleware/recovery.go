package middleware

import (
	"log"
	"net/http"

	"traderhub-api/pkg/apierror"
	"traderhub-api/pkg/response"
)

// Recovery turns panics into 500 responses instead of dropped
// connections.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[http] panic on %s %s: %v", r.Method, r.URL.Path, rec)
				response.Error(w, apierror.InternalError(""))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
