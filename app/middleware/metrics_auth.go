package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/narang24/Journal-Website-Backend/app/config"
	"github.com/narang24/Journal-Website-Backend/app/models"
)

// MetricsAuth protects the Prometheus endpoint. Checked in order:
// an IP allowlist (METRICS_ALLOWED_IPS), an API key (METRICS_API_KEY),
// then admin authentication (METRICS_REQUIRE_AUTH=true). With nothing
// configured the endpoint is open, which is acceptable in development only.
func MetricsAuth() func(http.Handler) http.Handler {
	allowedIPs := metricsAllowedIPs()
	apiKey := config.GetString("METRICS_API_KEY", "")
	requireAuth := config.GetBool("METRICS_REQUIRE_AUTH", false)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowedIPs) > 0 {
				if !ipAllowed(clientIP(r), allowedIPs) {
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if apiKey != "" {
				provided := r.Header.Get("X-Metrics-API-Key")
				if provided == "" {
					provided = r.URL.Query().Get("api_key")
				}
				if provided != apiKey {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if requireAuth {
				user, ok := UserFromContext(r.Context())
				if !ok || user.Role != models.RoleAdmin {
					http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func metricsAllowedIPs() []string {
	raw := config.GetString("METRICS_ALLOWED_IPS", "")
	if raw == "" {
		return nil
	}
	ips := strings.Split(raw, ",")
	for i := range ips {
		ips[i] = strings.TrimSpace(ips[i])
	}
	return ips
}

func ipAllowed(ip string, allowed []string) bool {
	parsed := net.ParseIP(ip)
	for _, a := range allowed {
		if a == "*" || a == ip {
			return true
		}
		if strings.Contains(a, "/") {
			if _, cidr, err := net.ParseCIDR(a); err == nil && parsed != nil && cidr.Contains(parsed) {
				return true
			}
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
