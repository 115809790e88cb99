// Package network resolves client addresses for rate limiting and logs.
package network

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller's address. Forwarding headers are honored
// only when trustProxy is set, since a direct client can forge them.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// KeyByClientIP returns an httprate key function built on ClientIP.
func KeyByClientIP(trustProxy bool) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		return ClientIP(r, trustProxy), nil
	}
}
