// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	adaccountsfeature "github.com/ashishmicrocom/adPatterns/internal/app/features/adaccounts"
	authapifeature "github.com/ashishmicrocom/adPatterns/internal/app/features/authapi"
	campaignsfeature "github.com/ashishmicrocom/adPatterns/internal/app/features/campaigns"
	healthfeature "github.com/ashishmicrocom/adPatterns/internal/app/features/health"
	suggestionsfeature "github.com/ashishmicrocom/adPatterns/internal/app/features/suggestions"
	userstore "github.com/ashishmicrocom/adPatterns/internal/app/store/users"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/apicors"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/jsonutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/metrics"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/reqlog"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/tokens"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestTimeout bounds every handler; the slowest path is the campaign
// summary aggregation.
const requestTimeout = 30 * time.Second

// BuildHandler constructs the root HTTP handler.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed.
//
// Layout:
//
//	/                      welcome message
//	/health[/ready|/live]  probes
//	/metrics               Prometheus scrape
//	/api/auth              register, login, profile
//	/api/ad-accounts       linked ad accounts (bearer)
//	/api/campaigns         campaigns (bearer)
//	/api/*                 ad-copy suggestions and dataset stats (public)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	issuer := tokens.NewIssuer(appCfg.SecretKey, appCfg.AccessTokenExpire)
	authMw := auth.NewMiddleware(issuer, userstore.NewFetcher(db, logger), logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.Recoverer)
	r.Use(reqlog.Middleware(reqlog.Config{
		Logger:     logger,
		QuietPaths: reqlog.DefaultQuietPaths,
		TrustProxy: appCfg.TrustProxy,
	}))
	r.Use(metrics.InstrumentHandler)
	r.Use(chimw.Timeout(requestTimeout))

	// CORS must run before auth so preflight requests are answered.
	r.Use(apicors.Middleware(appCfg.AllowedOrigins))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Set before any Mount so sub-routers inherit them.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonutil.NotFound(w, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		jsonutil.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// ─────────────────────────────────────────────────────────────────────────────
	// Probes & metrics
	// ─────────────────────────────────────────────────────────────────────────────

	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.AppVersion, logger)
	r.Get("/", healthHandler.Root)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// ─────────────────────────────────────────────────────────────────────────────
	// API
	// ─────────────────────────────────────────────────────────────────────────────

	authHandler := authapifeature.NewHandler(db, issuer, logger)
	accountsHandler := adaccountsfeature.NewHandler(db,
		adaccountsfeature.NewConnector(adaccountsfeature.ProviderConfigs(oauthCredentials(appCfg))),
		logger)
	campaignsHandler := campaignsfeature.NewHandler(db, logger)
	suggestionsHandler := suggestionsfeature.NewHandler(appCfg.DatasetPath, logger)

	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", authapifeature.Routes(authHandler, authMw, authapifeature.LoginLimit{
			Requests:   appCfg.LoginRateLimit,
			Window:     appCfg.LoginRateWindow,
			TrustProxy: appCfg.TrustProxy,
		}))
		api.Mount("/ad-accounts", adaccountsfeature.Routes(accountsHandler, authMw))
		api.Mount("/campaigns", campaignsfeature.Routes(campaignsHandler, authMw))

		// Public suggestion endpoints live directly under /api.
		api.Mount("/", suggestionsfeature.Routes(suggestionsHandler))
	})

	logger.Info("routes built",
		zap.Strings("allowed_origins", appCfg.AllowedOrigins),
		zap.Int("login_rate_limit", appCfg.LoginRateLimit),
		zap.Duration("token_ttl", issuer.TTL()))

	return r, nil
}
