package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"
)

// APIKeyHeader: заголовок с ключом доступа.
const APIKeyHeader = "X-API-Key"

// WithAPIKey пропускает только запросы с верным X-API-Key. Пустой key отключает проверку.
// Preflight (OPTIONS) не проверяется.
func WithAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				log.Warnw("rejected api key", "remote", clientIP(r), "uri", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid or missing API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   false,
		"error":     msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
