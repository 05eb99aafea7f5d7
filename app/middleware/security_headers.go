package middleware

import (
	"net/http"

	"github.com/narang24/Journal-Website-Backend/app/config"
)

// SecurityHeaders sets the standard protective headers on every response.
// HSTS is only emitted in production where HTTPS is guaranteed.
func SecurityHeaders() func(http.Handler) http.Handler {
	enabled := config.GetBool("SECURITY_HEADERS_ENABLED", true)
	isProduction := config.GetString("ENVIRONMENT", "development") == "production"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-XSS-Protection", "1; mode=block")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Permissions-Policy",
				"geolocation=(), microphone=(), camera=(), payment=(), usb=()")
			w.Header().Set("Content-Security-Policy",
				"default-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'")

			if isProduction {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}

			next.ServeHTTP(w, r)
		})
	}
}
