// Package deps contains interface definitions for the archive domain dependencies
package deps

import (
	"context"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/dto"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
)

// SubscriberRepository defines data access for subscribers
type SubscriberRepository interface {
	// GetOrCreate looks a subscriber up by its composite key and inserts
	// one with default configuration on miss. Lookup and insert run in a
	// single transaction; repeated calls for the same key never create
	// duplicates.
	GetOrCreate(ctx context.Context, key entities.ChatKey, defaultName string) (*entities.Subscriber, error)

	// Get returns the subscriber for the key, or a NotFoundError
	Get(ctx context.Context, key entities.ChatKey) (*entities.Subscriber, error)

	// Save persists subscriber configuration changes
	Save(ctx context.Context, subscriber *entities.Subscriber) error

	// NameTaken reports whether another subscriber already uses the name
	NameTaken(ctx context.Context, name string, excluding entities.ChatKey) (bool, error)
}

// FileRepository defines data access for file records
type FileRepository interface {
	// Exists reports whether a record for this remote file already exists
	// in the conversation
	Exists(ctx context.Context, key entities.ChatKey, remoteFileID string) (bool, error)

	// Create persists a new record. A second record for the same
	// (chat, remote file) pair violates the uniqueness constraint and
	// fails with an error, never a silent overwrite.
	Create(ctx context.Context, record *entities.FileRecord) error

	// MarkSucceeded flips the record's success flag after the transport
	// confirmed the transfer
	MarkSucceeded(ctx context.Context, record *entities.FileRecord) error

	// DeleteAllFor removes every record of one conversation
	DeleteAllFor(ctx context.Context, key entities.ChatKey) error
}

// FileDownloader performs the actual byte transfer of a remote file to a
// local destination path
type FileDownloader interface {
	// Download fetches the remote file into destPath. A throttled
	// transport surfaces as *retry.RateLimitError.
	Download(ctx context.Context, remoteFileID string, destPath string) error
}

// HistoryIterator walks a conversation's message history oldest-first.
// Next returns io.EOF when the history is exhausted.
type HistoryIterator interface {
	Next(ctx context.Context) (*dto.IncomingMessage, error)
}

// HistorySource opens history iterators for conversations
type HistorySource interface {
	// History returns an iterator over the chat's past messages, or
	// ErrHistoryScanUnsupported when the transport cannot read history
	History(ctx context.Context, chatID int64) (HistoryIterator, error)
}

// Bundler is the external primitive producing size-capped sequential
// volumes from a directory
type Bundler interface {
	// Split bundles sourceDir into volumes named baseName.<ext>.NNN under
	// stagingDir, each at most volumeSize bytes, and returns them in
	// ascending sequence order.
	Split(ctx context.Context, sourceDir, stagingDir, baseName string, volumeSize int64) ([]string, error)
}

// Telemetry is the sink for anomalies and pipeline counters
type Telemetry interface {
	// ReportAnomaly records a noteworthy irregularity (unresolvable
	// identities, escape attempts, unexpected failures)
	ReportAnomaly(ctx context.Context, message string, fields map[string]string)

	// FileArchived counts one successfully archived file
	FileArchived()

	// DuplicateSkipped counts one skipped duplicate
	DuplicateSkipped()
}
