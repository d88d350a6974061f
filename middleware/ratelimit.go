package middleware

import (
	"net"
	"net/http"

	credguard "github.com/credguard/credguard"
	"github.com/credguard/credguard/internal/rate"
)

// RateLimit guards an http.Handler with a fixed-window limiter keyed by
// the request's client address. Over-budget clients get 429 before next
// runs; limiter failures (Redis down) get 503 rather than an open gate.
//
// Use either this guard or context-keyed service gating (ClientID), not
// both on one route — each Allow call consumes a slot in the window.
func RateLimit(limiter rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil {
				allowed, err := limiter.Allow(r.Context(), clientAddr(r))
				if err != nil {
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}
				if !allowed {
					http.Error(w, "too many requests", http.StatusTooManyRequests)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientID attaches the request's client address to the context so a
// Service gates the wrapped operations itself.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := credguard.WithClientID(r.Context(), clientAddr(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
