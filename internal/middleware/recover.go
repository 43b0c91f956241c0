package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Recover turns a panic in the handler into a 500 JSON error.
// http.ErrAbortHandler is re-raised so the server can abort the response.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic in handler", "path", r.URL.Path, "panic", rec)

				body, _ := json.Marshal(map[string]string{
					"error": fmt.Sprintf("An unexpected server error occurred: %v", rec),
				})
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write(body) // nolint:errcheck
			}()
			next.ServeHTTP(w, r)
		})
	}
}
