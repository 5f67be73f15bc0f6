// Package export bundles a conversation's archive into size-capped volumes
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/consts"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
)

// Exporter stages export volumes under <root>/zips/<name>/. It performs no
// network IO and no cleanup: the caller uploads the volumes and removes
// the staging directory afterwards.
type Exporter struct {
	root    string
	bundler deps.Bundler
	logger  zerolog.Logger
}

// NewExporter creates an exporter rooted at the archive directory
func NewExporter(root string, bundler deps.Bundler, logger zerolog.Logger) *Exporter {
	return &Exporter{root: root, bundler: bundler, logger: logger}
}

// StagingDir returns the staging directory for one subscriber's export
func (e *Exporter) StagingDir(subscriber *entities.Subscriber) string {
	return filepath.Join(e.root, consts.StagingDirName, subscriber.Name)
}

// Export bundles sourceDir into sequential volumes of at most volumeSize
// bytes each and returns their paths in ascending sequence order.
func (e *Exporter) Export(ctx context.Context, subscriber *entities.Subscriber, sourceDir string, volumeSize int64) ([]string, error) {
	staging := e.StagingDir(subscriber)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	e.logger.Info().
		Str("chat", subscriber.Name).
		Str("source", sourceDir).
		Int64("volume_size", volumeSize).
		Msg("Bundling chat archive")

	// the bundler already returns volumes in creation order; re-sorting
	// lexicographically would misorder sequences past the %03d width
	volumes, err := e.bundler.Split(ctx, sourceDir, staging, subscriber.Name, volumeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to bundle archive: %w", err)
	}

	e.logger.Info().
		Str("chat", subscriber.Name).
		Int("volumes", len(volumes)).
		Msg("Bundling finished")

	return volumes, nil
}
