// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	archive.Module,
)
