// Package bundler contains the volume bundling infrastructure
package bundler

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
)

// Module provides the bundler for fx dependency injection
var Module = fx.Module("bundler",
	fx.Provide(provideBundler),
)

// provideBundler creates the tar.gz volume bundler
func provideBundler(logger zerolog.Logger) deps.Bundler {
	return NewTarGzBundler(logger)
}
