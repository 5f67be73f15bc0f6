// Package archive contains the archive domain module
package archive

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/yourusername/telegram-archive-bot/config"
	telegramDelivery "github.com/yourusername/telegram-archive-bot/internal/domain/archive/delivery/telegram"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/export"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/pathing"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/repository/postgres"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/usecase/buissines"
	"github.com/yourusername/telegram-archive-bot/internal/infrastructure/telegram"
)

// Module provides archive domain components for fx dependency injection
var Module = fx.Module("archive",
	// Repository
	fx.Provide(postgres.NewSubscriberRepository),
	fx.Provide(postgres.NewFileRepository),

	// Pathing and export
	fx.Provide(providePathResolver),
	fx.Provide(provideExporter),

	// UseCase
	fx.Provide(provideUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(provideRouter),

	// Register routes and command menu
	fx.Invoke(registerRoutes),
)

// providePathResolver creates the path resolver rooted at the archive dir
func providePathResolver(cfg *config.ArchiveConfig) *pathing.Resolver {
	return pathing.NewResolver(cfg.Root)
}

// provideExporter creates the volume exporter
func provideExporter(cfg *config.ArchiveConfig, bundler deps.Bundler, logger zerolog.Logger) *export.Exporter {
	return export.NewExporter(cfg.Root, bundler, logger)
}

// provideUseCase creates the archive use case
func provideUseCase(
	subscribers deps.SubscriberRepository,
	files deps.FileRepository,
	downloader deps.FileDownloader,
	telemetry deps.Telemetry,
	resolver *pathing.Resolver,
	exporter *export.Exporter,
	cfg *config.ArchiveConfig,
	logger zerolog.Logger,
) *buissines.UseCase {
	return buissines.NewUseCase(
		subscribers,
		files,
		downloader,
		telemetry,
		resolver,
		exporter,
		cfg.VolumeSize,
		logger.With().Str("component", "archive-usecase").Logger(),
	)
}

// provideTelegramHandlers creates Telegram handlers with the raw bot
func provideTelegramHandlers(
	uc *buissines.UseCase,
	bot *telegram.Bot,
	history deps.HistorySource,
	telemetry deps.Telemetry,
	logger zerolog.Logger,
) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), history, telemetry, logger.With().Str("component", "telegram-delivery").Logger())
}

// provideRouter creates the Telegram router
func provideRouter(handlers *telegramDelivery.Handlers, logger zerolog.Logger) *telegramDelivery.Router {
	return telegramDelivery.NewRouter(handlers, logger)
}

// registerRoutes registers handlers on the bot and publishes the command menu
func registerRoutes(lc fx.Lifecycle, router *telegramDelivery.Router, bot *telegram.Bot, logger zerolog.Logger) {
	router.RegisterRoutes(bot.Raw())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := router.RegisterMenu(ctx, bot.Raw()); err != nil {
				// menu registration is cosmetic, a failure must not block startup
				logger.Warn().Err(err).Msg("Failed to publish command menu")
			}
			return nil
		},
	})
}
