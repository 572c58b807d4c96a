package middleware

import (
	"net"
	"net/http"
	"strings"
)

// RealIP extracts the real client IP from X-Forwarded-For or X-Real-IP
// headers, falling back to RemoteAddr when neither is present or valid.
func RealIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if idx := strings.Index(xff, ","); idx != -1 {
				xff = xff[:idx]
			}
			xff = strings.TrimSpace(xff)
			if net.ParseIP(xff) != nil {
				r.RemoteAddr = xff
				next.ServeHTTP(w, r)
				return
			}
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			xri = strings.TrimSpace(xri)
			if net.ParseIP(xri) != nil {
				r.RemoteAddr = xri
				next.ServeHTTP(w, r)
				return
			}
		}

		if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			r.RemoteAddr = ip
		}

		next.ServeHTTP(w, r)
	})
}
