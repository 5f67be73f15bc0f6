// Package buissines contains business logic for the archive domain
package buissines

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/classify"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/consts"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/dto"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
	archiveerrors "github.com/yourusername/telegram-archive-bot/internal/domain/archive/errors"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/export"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/identity"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/pathing"
	"github.com/yourusername/telegram-archive-bot/pkg/retry"
)

// UseCase contains business logic for the archive pipeline
type UseCase struct {
	subscribers deps.SubscriberRepository
	files       deps.FileRepository
	downloader  deps.FileDownloader
	telemetry   deps.Telemetry
	resolver    *pathing.Resolver
	exporter    *export.Exporter
	volumeSize  int64
	logger      zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	subscribers deps.SubscriberRepository,
	files deps.FileRepository,
	downloader deps.FileDownloader,
	telemetry deps.Telemetry,
	resolver *pathing.Resolver,
	exporter *export.Exporter,
	volumeSize int64,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		subscribers: subscribers,
		files:       files,
		downloader:  downloader,
		telemetry:   telemetry,
		resolver:    resolver,
		exporter:    exporter,
		volumeSize:  volumeSize,
		logger:      logger,
	}
}

// Subscriber resolves the peer and returns its subscriber, creating one
// with defaults on first interaction
func (uc *UseCase) Subscriber(ctx context.Context, peer dto.Peer) (*entities.Subscriber, error) {
	key, err := identity.Resolve(peer)
	if err != nil {
		uc.telemetry.ReportAnomaly(ctx, "unresolvable peer identity", map[string]string{
			"peer_kind": string(peer.Kind),
			"peer_id":   strconv.FormatInt(peer.ID, 10),
		})
		return nil, err
	}
	return uc.subscribers.GetOrCreate(ctx, key, key.ChatID)
}

// Ingest runs one message through the archival pipeline. Returned notices
// are only shown to the user when the subscriber is verbose; a nil error
// with a non-archived status means the message was dropped on purpose.
func (uc *UseCase) Ingest(ctx context.Context, msg *dto.IncomingMessage) (*dto.IngestResult, error) {
	key, err := identity.Resolve(msg.Peer)
	if err != nil {
		uc.telemetry.ReportAnomaly(ctx, "unresolvable peer identity", map[string]string{
			"peer_kind":  string(msg.Peer.Kind),
			"peer_id":    strconv.FormatInt(msg.Peer.ID, 10),
			"message_id": strconv.Itoa(msg.MessageID),
		})
		return &dto.IngestResult{Status: dto.StatusRejected}, nil
	}

	subscriber, err := uc.subscribers.GetOrCreate(ctx, key, key.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriber: %w", err)
	}

	// Never re-ingest volumes we exported and uploaded ourselves, or every
	// scan/zip round trip would double the archive.
	if msg.FromSelf && msg.Media != nil && consts.IsVolumeName(msg.Media.FileName) {
		return &dto.IngestResult{Status: dto.StatusOwnVolumeSkipped}, nil
	}

	sender := uc.effectiveSender(subscriber, msg)

	decision := classify.Classify(subscriber, msg, sender)
	if !decision.Accept {
		result := &dto.IngestResult{Status: dto.StatusRejected}
		if subscriber.Verbose {
			result.Notice = decision.Notice
		}
		return result, nil
	}

	exists, err := uc.files.Exists(ctx, key, msg.Media.RemoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate file: %w", err)
	}
	if exists {
		uc.telemetry.DuplicateSkipped()
		return &dto.IngestResult{Status: dto.StatusDuplicateFile}, nil
	}

	resolution, err := uc.resolver.Resolve(subscriber, sender.DisplayName(), msg.Media)
	if errors.Is(err, archiveerrors.ErrDuplicateName) {
		uc.telemetry.DuplicateSkipped()
		uc.telemetry.ReportAnomaly(ctx, "file name already exists", map[string]string{
			"chat":      subscriber.Name,
			"file_name": resolution.FileName,
			"user":      sender.DisplayName(),
		})
		result := &dto.IngestResult{Status: dto.StatusDuplicateName}
		if subscriber.Verbose {
			result.Notice = fmt.Sprintf("File with name %s already exists.", resolution.FileName)
		}
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file path: %w", err)
	}

	record := &entities.FileRecord{
		ChatID:       key.ChatID,
		ChatKind:     key.ChatKind,
		RemoteFileID: msg.Media.RemoteID,
		MessageID:    msg.MessageID,
		SenderID:     sender.ID,
		MediaKind:    msg.Media.Kind,
		FileName:     resolution.FileName,
		FilePath:     resolution.Path,
	}
	if err := uc.files.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	err = retry.Do(ctx, uc.logger, func(ctx context.Context) error {
		return uc.downloader.Download(ctx, msg.Media.RemoteID, resolution.Path)
	})
	if err != nil {
		// The record stays with success=false, a detectable state. Retry
		// is caller-driven.
		uc.logger.Error().
			Err(err).
			Str("chat", subscriber.Name).
			Str("file", resolution.FileName).
			Msg("Download failed")
		uc.telemetry.ReportAnomaly(ctx, "download failed", map[string]string{
			"chat":      subscriber.Name,
			"file_name": resolution.FileName,
			"error":     err.Error(),
		})
		return &dto.IngestResult{Status: dto.StatusDownloadFailed, Record: record}, nil
	}

	if err := uc.files.MarkSucceeded(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to mark file record: %w", err)
	}

	uc.telemetry.FileArchived()
	uc.logger.Info().
		Str("chat", subscriber.Name).
		Str("file", resolution.FileName).
		Str("kind", string(msg.Media.Kind)).
		Msg("File archived")

	return &dto.IngestResult{Status: dto.StatusArchived, Record: record}, nil
}

// effectiveSender picks the identity a file is attributed to. Forwarded
// messages use the original sender; when the origin is unaddressable the
// file is still archived under a placeholder named after the conversation.
// Channel posts carry no addressable author and get the same placeholder.
func (uc *UseCase) effectiveSender(subscriber *entities.Subscriber, msg *dto.IncomingMessage) dto.Sender {
	switch {
	case msg.Forwarded && msg.Origin != nil:
		return *msg.Origin
	case msg.Forwarded:
		return dto.NewPlaceholderSender(subscriber.Name)
	case msg.Peer.Kind == dto.PeerKindChannel && msg.Sender.ID == 0:
		return dto.NewPlaceholderSender(subscriber.Name)
	default:
		return msg.Sender
	}
}

// ScanChat walks a conversation's history strictly in sequence, awaiting
// each download before the next. Interrupting and re-running it is safe:
// already archived files are skipped by the duplicate guard.
func (uc *UseCase) ScanChat(ctx context.Context, iter deps.HistoryIterator) (archived int, err error) {
	for {
		msg, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			return archived, nil
		}
		if err != nil {
			return archived, fmt.Errorf("failed to read chat history: %w", err)
		}

		result, err := uc.Ingest(ctx, msg)
		if err != nil {
			return archived, err
		}
		if result.Status == dto.StatusArchived {
			archived++
		}
	}
}

// Export bundles the subscriber's archive directory into size-capped
// volumes and returns their paths plus the staging directory the caller
// must remove after uploading.
func (uc *UseCase) Export(ctx context.Context, subscriber *entities.Subscriber) (volumes []string, stagingDir string, err error) {
	sourceDir := uc.resolver.ChatDir(subscriber.Name)
	if _, err := os.Stat(sourceDir); os.IsNotExist(err) {
		return nil, "", archiveerrors.ErrNoFilesYet
	}

	volumes, err = uc.exporter.Export(ctx, subscriber, sourceDir, uc.volumeSize)
	if err != nil {
		return nil, "", err
	}
	return volumes, uc.exporter.StagingDir(subscriber), nil
}

// Rename changes the subscriber's name and moves its archive directory.
// Escape attempts are rejected without touching the subscriber and
// reported as security-relevant anomalies.
func (uc *UseCase) Rename(ctx context.Context, subscriber *entities.Subscriber, newName string) error {
	if err := uc.resolver.ValidateName(newName); err != nil {
		uc.telemetry.ReportAnomaly(ctx, "user tried to escape directory", map[string]string{
			"chat":     subscriber.Name,
			"new_name": newName,
		})
		return err
	}

	taken, err := uc.subscribers.NameTaken(ctx, newName, subscriber.Key())
	if err != nil {
		return fmt.Errorf("failed to check name uniqueness: %w", err)
	}
	if taken {
		return archiveerrors.ErrNameTaken
	}

	oldDir := uc.resolver.ChatDir(subscriber.Name)
	newDir := uc.resolver.ChatDir(newName)
	if oldDir == newDir {
		return nil
	}

	subscriber.Name = newName
	if err := uc.subscribers.Save(ctx, subscriber); err != nil {
		return fmt.Errorf("failed to save subscriber: %w", err)
	}

	if _, err := os.Stat(oldDir); err == nil {
		if err := os.Rename(oldDir, newDir); err != nil {
			return fmt.Errorf("failed to move archive directory: %w", err)
		}
	}

	return nil
}

// ClearHistory deletes every file record of the conversation and removes
// its archive directory
func (uc *UseCase) ClearHistory(ctx context.Context, subscriber *entities.Subscriber) error {
	if err := uc.files.DeleteAllFor(ctx, subscriber.Key()); err != nil {
		return fmt.Errorf("failed to delete file records: %w", err)
	}

	chatDir := uc.resolver.ChatDir(subscriber.Name)
	if err := os.RemoveAll(chatDir); err != nil {
		return fmt.Errorf("failed to remove archive directory: %w", err)
	}

	return nil
}

// SetActive toggles ingestion for the conversation
func (uc *UseCase) SetActive(ctx context.Context, subscriber *entities.Subscriber, active bool) error {
	subscriber.Active = active
	return uc.subscribers.Save(ctx, subscriber)
}

// SetVerbose toggles user-visible notices for rejected and duplicate files
func (uc *UseCase) SetVerbose(ctx context.Context, subscriber *entities.Subscriber, verbose bool) error {
	subscriber.Verbose = verbose
	return uc.subscribers.Save(ctx, subscriber)
}

// SetAllowDuplicates toggles the duplicate-name policy
func (uc *UseCase) SetAllowDuplicates(ctx context.Context, subscriber *entities.Subscriber, allow bool) error {
	subscriber.AllowDuplicates = allow
	return uc.subscribers.Save(ctx, subscriber)
}

// SetSortByUser toggles per-sender sharding for subsequent files
func (uc *UseCase) SetSortByUser(ctx context.Context, subscriber *entities.Subscriber, sort bool) error {
	subscriber.SortByUser = sort
	return uc.subscribers.Save(ctx, subscriber)
}

// SetAcceptedMedia stores the accepted media kinds, ignoring unknown tags,
// and returns what is now accepted
func (uc *UseCase) SetAcceptedMedia(ctx context.Context, subscriber *entities.Subscriber, tags []string) ([]entities.MediaKind, error) {
	kinds := make([]entities.MediaKind, 0, len(tags))
	for _, tag := range tags {
		if kind, ok := entities.ParseMediaKind(tag); ok {
			kinds = append(kinds, kind)
		}
	}

	subscriber.SetAcceptedKinds(kinds)
	if err := uc.subscribers.Save(ctx, subscriber); err != nil {
		return nil, err
	}
	return subscriber.AcceptedKinds(), nil
}

// Info returns the current settings of the conversation
func (uc *UseCase) Info(subscriber *entities.Subscriber) *dto.SubscriberInfo {
	return &dto.SubscriberInfo{
		Name:            subscriber.Name,
		Active:          subscriber.Active,
		AcceptedMedia:   subscriber.AcceptedKinds(),
		Verbose:         subscriber.Verbose,
		AllowDuplicates: subscriber.AllowDuplicates,
		SortByUser:      subscriber.SortByUser,
	}
}
