// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"sort"

	"github.com/ashishmicrocom/adPatterns/internal/app/features/adaccounts"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/timeouts"
	"github.com/ashishmicrocom/adPatterns/internal/domain/adcopy"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after the database is ready and before requests are
// served. It only reports on optional inputs: a missing dataset or an
// unconfigured OAuth provider degrades a feature but never aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short: appCfg.DBTimeoutShort,
		Long:  appCfg.DBTimeoutLong,
	})
	logger.Info("handler timeouts",
		zap.Duration("ping", timeouts.Ping()),
		zap.Duration("short", timeouts.Short()),
		zap.Duration("long", timeouts.Long()))

	reportDataset(appCfg.DatasetPath, logger)

	providers := make([]string, 0, 3)
	for platform := range adaccounts.ProviderConfigs(oauthCredentials(appCfg)) {
		providers = append(providers, platform)
	}
	sort.Strings(providers)
	logger.Info("ad account OAuth providers",
		zap.Strings("configured", providers))

	return nil
}

func reportDataset(path string, logger *zap.Logger) {
	svc := adcopy.NewService(path)
	stats, err := svc.Stats()
	switch {
	case errors.Is(err, adcopy.ErrNotFound), errors.Is(err, adcopy.ErrEmpty):
		logger.Warn("ad-copy dataset unavailable; suggestions will use the mock bundle",
			zap.String("path", svc.Path()),
			zap.Error(err))
	case err != nil:
		logger.Warn("ad-copy dataset unreadable",
			zap.String("path", svc.Path()),
			zap.Error(err))
	default:
		logger.Info("ad-copy dataset found",
			zap.String("path", svc.Path()),
			zap.Int("rows", stats.TotalRows),
			zap.Int("categories", len(stats.Categories)))
	}
}

func oauthCredentials(appCfg AppConfig) adaccounts.Credentials {
	return adaccounts.Credentials{
		MetaAppID:            appCfg.MetaAppID,
		MetaAppSecret:        appCfg.MetaAppSecret,
		MetaAPIVersion:       appCfg.MetaAPIVersion,
		GoogleClientID:       appCfg.GoogleAdsClientID,
		GoogleClientSecret:   appCfg.GoogleAdsClientSecret,
		LinkedInClientID:     appCfg.LinkedInClientID,
		LinkedInClientSecret: appCfg.LinkedInClientSecret,
	}
}
