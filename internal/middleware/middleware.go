// Package middleware contains HTTP middleware shared across the server.
package middleware

import (
	"net"
	"net/http"
	"strings"
)

// Stack composes middlewares so the first argument is the outermost handler.
//
// Example:
//
//	chain := Stack(security.Handler, logging.Handler)
//	mux.Handle("/path", chain(handler))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// getClientIP extracts the client IP, honoring proxy headers.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For may contain a comma-separated chain; the first entry
	// is the originating client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
