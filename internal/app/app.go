// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/yourusername/telegram-archive-bot/config"
	"github.com/yourusername/telegram-archive-bot/internal/domain"
	"github.com/yourusername/telegram-archive-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, database, telegram bot, telemetry, bundler)
		infrastructure.Module,

		// Domain (archive pipeline)
		domain.Module,
	)
}
