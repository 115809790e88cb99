// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/apicors"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for app environment variables.
const EnvVarPrefix = "ADPATTERNS"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, secret_key, etc.
//   - Environment variables: ADPATTERNS_MONGO_URI, ADPATTERNS_SECRET_KEY, etc.
//   - Command-line flags: --mongo_uri, --secret_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "adpatterns_db", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "secret_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Bearer token signing key (must be strong in production)"},
	{Name: "access_token_expire", Default: "30m", Desc: "Bearer token lifetime (e.g., 30m, 12h)"},

	{Name: "allowed_origins", Default: "http://localhost:3000,http://localhost:3001", Desc: "Comma-separated CORS origins ('*' allows any)"},

	{Name: "dataset_path", Default: "adpattern_final_production.csv", Desc: "Path of the ad-copy CSV dataset"},

	// Login throttling
	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts allowed per client IP per window (0 disables)"},
	{Name: "login_rate_window", Default: "1m", Desc: "Login rate limit window"},
	{Name: "trust_proxy", Default: false, Desc: "Use X-Forwarded-For / X-Real-IP for the client IP"},

	// Ad platform OAuth clients
	{Name: "meta_app_id", Default: "", Desc: "Meta app ID"},
	{Name: "meta_app_secret", Default: "", Desc: "Meta app secret"},
	{Name: "meta_api_version", Default: "v18.0", Desc: "Meta Graph API version"},
	{Name: "google_ads_client_id", Default: "", Desc: "Google Ads OAuth2 client ID"},
	{Name: "google_ads_client_secret", Default: "", Desc: "Google Ads OAuth2 client secret"},
	{Name: "linkedin_client_id", Default: "", Desc: "LinkedIn OAuth2 client ID"},
	{Name: "linkedin_client_secret", Default: "", Desc: "LinkedIn OAuth2 client secret"},

	{Name: "db_timeout_short", Default: "5s", Desc: "Deadline for single-document database operations"},
	{Name: "db_timeout_long", Default: "15s", Desc: "Deadline for aggregations and multi-document writes"},

	{Name: "app_version", Default: "1.0.0", Desc: "Version reported by GET /"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// WAFFLE_* and ADPATTERNS_* environment variables, and flags, with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SecretKey:         appValues.String("secret_key"),
		AccessTokenExpire: appValues.Duration("access_token_expire", 30*time.Minute),

		AllowedOrigins: apicors.ParseOrigins(appValues.String("allowed_origins")),
		DatasetPath:    appValues.String("dataset_path"),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),
		TrustProxy:      appValues.Bool("trust_proxy"),

		MetaAppID:             appValues.String("meta_app_id"),
		MetaAppSecret:         appValues.String("meta_app_secret"),
		MetaAPIVersion:        appValues.String("meta_api_version"),
		GoogleAdsClientID:     appValues.String("google_ads_client_id"),
		GoogleAdsClientSecret: appValues.String("google_ads_client_secret"),
		LinkedInClientID:      appValues.String("linkedin_client_id"),
		LinkedInClientSecret:  appValues.String("linkedin_client_secret"),

		DBTimeoutShort: appValues.Duration("db_timeout_short", timeouts.DefaultShort),
		DBTimeoutLong:  appValues.Duration("db_timeout_long", timeouts.DefaultLong),

		AppVersion: appValues.String("app_version"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations the service cannot run with.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must not be empty")
	}

	if appCfg.SecretKey == "" {
		return errors.New("secret_key must not be empty")
	}
	if auth.IsWeakSecret(appCfg.SecretKey) {
		if coreCfg.Env == "prod" {
			return errors.New("secret_key is too weak for production (use 32+ random characters)")
		}
		logger.Warn("using a weak secret_key; set ADPATTERNS_SECRET_KEY before deploying")
	}
	if appCfg.AccessTokenExpire <= 0 {
		return fmt.Errorf("access_token_expire must be positive, got %s", appCfg.AccessTokenExpire)
	}

	if appCfg.LoginRateLimit < 0 {
		return fmt.Errorf("login_rate_limit must not be negative, got %d", appCfg.LoginRateLimit)
	}
	if appCfg.LoginRateLimit > 0 && appCfg.LoginRateWindow <= 0 {
		return fmt.Errorf("login_rate_window must be positive, got %s", appCfg.LoginRateWindow)
	}

	if appCfg.DBTimeoutShort < 0 || appCfg.DBTimeoutLong < 0 {
		return errors.New("db_timeout_short and db_timeout_long must not be negative")
	}

	if len(appCfg.AllowedOrigins) == 0 {
		logger.Warn("allowed_origins is empty; browsers on other origins will be rejected")
	}
	if appCfg.DatasetPath == "" {
		logger.Warn("dataset_path is empty; suggestions will always return the mock bundle")
	}

	return nil
}
