package telegram

import (
	"context"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
	archiveerrors "github.com/yourusername/telegram-archive-bot/internal/domain/archive/errors"
)

// HistorySource serves conversation history. The Bot API exposes no way to
// read past messages, so every request fails with
// ErrHistoryScanUnsupported; an MTProto-based transport could serve it.
type HistorySource struct{}

// NewHistorySource creates a new history source
func NewHistorySource() *HistorySource {
	return &HistorySource{}
}

// History implements deps.HistorySource
func (s *HistorySource) History(_ context.Context, _ int64) (deps.HistoryIterator, error) {
	return nil, archiveerrors.ErrHistoryScanUnsupported
}
