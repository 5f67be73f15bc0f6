// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/yourusername/telegram-archive-bot/internal/infrastructure/bundler"
	"github.com/yourusername/telegram-archive-bot/internal/infrastructure/database"
	"github.com/yourusername/telegram-archive-bot/internal/infrastructure/logger"
	"github.com/yourusername/telegram-archive-bot/internal/infrastructure/telegram"
	"github.com/yourusername/telegram-archive-bot/internal/infrastructure/telemetry"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	telegram.Module,
	telemetry.Module,
	bundler.Module,
)
