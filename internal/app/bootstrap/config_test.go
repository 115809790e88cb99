package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "adpatterns_db",
		SecretKey:         "k3J9x2Lq8vNw5Rt7Yb1Zc4Hm6Pd0Sf2GaQe",
		AccessTokenExpire: 30 * time.Minute,
		AllowedOrigins:    []string{"http://localhost:3000"},
		DatasetPath:       "adpattern_final_production.csv",
		LoginRateLimit:    10,
		LoginRateWindow:   time.Minute,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", env: "prod", mutate: func(*AppConfig) {}},
		{name: "bad mongo uri", env: "dev", mutate: func(c *AppConfig) { c.MongoURI = "http://localhost" }, wantErr: "invalid MongoDB URI"},
		{name: "empty database", env: "dev", mutate: func(c *AppConfig) { c.MongoDatabase = "" }, wantErr: "mongo_database"},
		{name: "empty secret", env: "dev", mutate: func(c *AppConfig) { c.SecretKey = "" }, wantErr: "secret_key must not be empty"},
		{name: "weak secret in dev", env: "dev", mutate: func(c *AppConfig) { c.SecretKey = "short" }},
		{name: "weak secret in prod", env: "prod", mutate: func(c *AppConfig) { c.SecretKey = "short" }, wantErr: "too weak"},
		{name: "zero ttl", env: "dev", mutate: func(c *AppConfig) { c.AccessTokenExpire = 0 }, wantErr: "access_token_expire"},
		{name: "negative rate limit", env: "dev", mutate: func(c *AppConfig) { c.LoginRateLimit = -1 }, wantErr: "login_rate_limit"},
		{name: "rate limit without window", env: "dev", mutate: func(c *AppConfig) { c.LoginRateWindow = 0 }, wantErr: "login_rate_window"},
		{name: "rate limit disabled ignores window", env: "dev", mutate: func(c *AppConfig) {
			c.LoginRateLimit = 0
			c.LoginRateWindow = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)

			err := ValidateConfig(&config.CoreConfig{Env: tt.env}, cfg, zap.NewNop())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateConfig() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateConfig() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateConfig() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestOAuthCredentials_MapsAllProviders(t *testing.T) {
	cfg := validAppConfig()
	cfg.MetaAppID = "meta-id"
	cfg.MetaAppSecret = "meta-secret"
	cfg.MetaAPIVersion = "v19.0"
	cfg.GoogleAdsClientID = "g-id"
	cfg.GoogleAdsClientSecret = "g-secret"
	cfg.LinkedInClientID = "li-id"
	cfg.LinkedInClientSecret = "li-secret"

	c := oauthCredentials(cfg)
	if c.MetaAppID != "meta-id" || c.MetaAppSecret != "meta-secret" || c.MetaAPIVersion != "v19.0" {
		t.Errorf("meta credentials not mapped: %+v", c)
	}
	if c.GoogleClientID != "g-id" || c.GoogleClientSecret != "g-secret" {
		t.Errorf("google credentials not mapped: %+v", c)
	}
	if c.LinkedInClientID != "li-id" || c.LinkedInClientSecret != "li-secret" {
		t.Errorf("linkedin credentials not mapped: %+v", c)
	}
}
