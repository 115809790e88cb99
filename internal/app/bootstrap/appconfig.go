// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds AdPatterns-specific configuration.
//
// Values come from environment variables (ADPATTERNS_*), config files, or
// command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level, env, body limits).
//
// AppConfig is passed by value to every lifecycle hook and is not mutated
// after startup.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Bearer token signing
	SecretKey         string        // HS256 signing secret (must be strong in production)
	AccessTokenExpire time.Duration // Token lifetime (default: 30m)

	// Browser origins allowed by CORS, already split and trimmed
	AllowedOrigins []string

	// Path of the ad-copy CSV dataset, read on every suggestion request
	DatasetPath string

	// Login throttling (per client IP)
	LoginRateLimit  int           // Attempts per window; 0 disables (default: 10)
	LoginRateWindow time.Duration // Window length (default: 1m)
	TrustProxy      bool          // Honor X-Forwarded-For / X-Real-IP

	// OAuth client registrations for ad-account connect
	MetaAppID             string
	MetaAppSecret         string
	MetaAPIVersion        string // Graph API version in the dialog/token URLs (default: v18.0)
	GoogleAdsClientID     string
	GoogleAdsClientSecret string
	LinkedInClientID      string
	LinkedInClientSecret  string

	// Handler context deadlines, see system/timeouts
	DBTimeoutShort time.Duration // single-document reads and writes (default: 5s)
	DBTimeoutLong  time.Duration // aggregations and multi-document writes (default: 15s)

	// Reported by GET /
	AppVersion string
}
