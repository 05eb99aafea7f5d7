package middleware

import (
	"net/http"

	"github.com/narang24/Journal-Website-Backend/app/config"
)

const defaultMaxBodyBytes = 1 << 20 // 1MB

// BodyLimit caps request body size. Oversized bodies get an early 413 when
// Content-Length says so; chunked bodies are cut off by MaxBytesReader.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				w.Write([]byte(`{"success":false,"message":"Request body too large."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimitFromEnv reads the cap from REQUEST_BODY_MAX_SIZE (bytes).
func BodyLimitFromEnv() func(http.Handler) http.Handler {
	return BodyLimit(int64(config.GetInt("REQUEST_BODY_MAX_SIZE", defaultMaxBodyBytes)))
}
