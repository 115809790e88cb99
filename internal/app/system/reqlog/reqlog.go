// Package reqlog tags every request with an ID and writes one structured
// access-log line per request.
package reqlog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/network"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID is echoed on every response.
const HeaderRequestID = "X-Request-ID"

// maxClientIDLen caps client-supplied request IDs.
const maxClientIDLen = 64

type ctxKey struct{}

// Config controls the middleware.
type Config struct {
	Logger *zap.Logger

	// QuietPaths are logged at Debug instead of Info (probes, scrapes).
	QuietPaths []string

	// TrustProxy selects the client IP source, see network.ClientIP.
	TrustProxy bool
}

// DefaultQuietPaths are the probe and scrape endpoints.
var DefaultQuietPaths = []string{"/health", "/metrics"}

// RequestID returns the ID assigned to the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware assigns a request ID (reusing a sane client-provided one),
// stores it in the context and response header, and logs the outcome.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := clientID(r.Header.Get(HeaderRequestID))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Int64("bytes", rec.bytes),
				zap.Duration("took", time.Since(start)),
				zap.String("ip", network.ClientIP(r, cfg.TrustProxy)),
			}
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("request failed", fields...)
			case quiet(r.URL.Path, cfg.QuietPaths):
				logger.Debug("request", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}

// clientID accepts printable ASCII IDs up to maxClientIDLen.
func clientID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxClientIDLen {
		return ""
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return ""
		}
	}
	return s
}

func quiet(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

type recorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (r *recorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

func (r *recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
