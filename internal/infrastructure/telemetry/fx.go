// Package telemetry contains anomaly reporting and pipeline metrics
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/yourusername/telegram-archive-bot/config"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
)

// Module provides telemetry for fx dependency injection
var Module = fx.Module("telemetry",
	fx.Provide(provideTelemetry),
	fx.Invoke(registerMetricsServer),
)

// provideTelemetry creates the telemetry sink from config
func provideTelemetry(lc fx.Lifecycle, cfg *config.TelemetryConfig, logger zerolog.Logger) (deps.Telemetry, error) {
	t, err := New(cfg.SentryDSN, logger)
	if err != nil {
		return nil, err
	}

	if t.sentryEnabled {
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				sentry.Flush(2 * time.Second)
				return nil
			},
		})
	}

	return t, nil
}

// registerMetricsServer serves prometheus metrics when a port is configured
func registerMetricsServer(lc fx.Lifecycle, cfg *config.TelemetryConfig, logger zerolog.Logger) {
	if cfg.MetricsPort == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: mux,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				logger.Info().Str("port", cfg.MetricsPort).Msg("Metrics server started")
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error().Err(err).Msg("Metrics server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
