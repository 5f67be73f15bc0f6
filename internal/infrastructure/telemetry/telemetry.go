// Package telemetry contains anomaly reporting and pipeline metrics
package telemetry

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Telemetry reports anomalies and counts pipeline events
type Telemetry struct {
	logger        zerolog.Logger
	sentryEnabled bool

	filesArchived     prometheus.Counter
	duplicatesSkipped prometheus.Counter
	anomalies         prometheus.Counter
}

// New creates the telemetry sink. When dsn is non-empty anomalies are also
// forwarded to sentry.
func New(dsn string, logger zerolog.Logger) (*Telemetry, error) {
	t := &Telemetry{
		logger: logger.With().Str("component", "telemetry").Logger(),
		filesArchived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "archive_files_total",
			Help: "Total number of successfully archived files",
		}),
		duplicatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "archive_duplicates_skipped_total",
			Help: "Total number of skipped duplicate files",
		}),
		anomalies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "archive_anomalies_total",
			Help: "Total number of reported anomalies",
		}),
	}

	if dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			return nil, err
		}
		t.sentryEnabled = true
		t.logger.Info().Msg("Sentry anomaly forwarding enabled")
	}

	return t, nil
}

// ReportAnomaly logs the irregularity, counts it and forwards it to sentry
// when configured
func (t *Telemetry) ReportAnomaly(_ context.Context, message string, fields map[string]string) {
	event := t.logger.Warn()
	for k, v := range fields {
		event = event.Str(k, v)
	}
	event.Msg(message)

	t.anomalies.Inc()

	if t.sentryEnabled {
		sentry.WithScope(func(scope *sentry.Scope) {
			for k, v := range fields {
				scope.SetTag(k, v)
			}
			sentry.CaptureMessage(message)
		})
	}
}

// FileArchived counts one successfully archived file
func (t *Telemetry) FileArchived() {
	t.filesArchived.Inc()
}

// DuplicateSkipped counts one skipped duplicate
func (t *Telemetry) DuplicateSkipped() {
	t.duplicatesSkipped.Inc()
}
