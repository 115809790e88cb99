// Package apicors provides the CORS policy for the JSON API.
//
// The browser client sends a bearer token in the Authorization header, so
// requests are credentialed and the origin list must be explicit. A "*" entry
// is accepted for local tooling but then credentials are not advertised.
package apicors

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// DefaultMaxAge is how long (seconds) browsers may cache a preflight response.
const DefaultMaxAge = 600

// ParseOrigins splits a comma separated origin list, dropping blanks and
// trailing slashes.
func ParseOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Middleware returns CORS middleware that only allows the given origins.
//
// Usage in routes.go:
//
//	r.Use(apicors.Middleware(appCfg.AllowedOrigins))
func Middleware(origins []string) func(http.Handler) http.Handler {
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !wildcard,
		MaxAge:           DefaultMaxAge,
	})
}
