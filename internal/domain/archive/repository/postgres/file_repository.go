package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
	archiveerrors "github.com/yourusername/telegram-archive-bot/internal/domain/archive/errors"
)

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file record repository
func NewFileRepository(db *gorm.DB) deps.FileRepository {
	return &fileRepository{db: db}
}

// Exists reports whether a record for this remote file already exists in
// the conversation
func (r *fileRepository) Exists(ctx context.Context, key entities.ChatKey, remoteFileID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.FileRecord{}).
		Where("chat_id = ? AND chat_kind = ? AND remote_file_id = ?", key.ChatID, key.ChatKind, remoteFileID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists a new file record. A uniqueness violation means the
// duplicate guard was bypassed upstream, which is a caller bug: it fails
// loudly instead of overwriting.
func (r *fileRepository) Create(ctx context.Context, record *entities.FileRecord) error {
	err := r.db.WithContext(ctx).Create(record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: chat %s, remote file %s",
			archiveerrors.ErrDuplicateRecord, record.ChatID, record.RemoteFileID)
	}
	return err
}

// MarkSucceeded flips the record's success flag once the transport
// confirmed the transfer
func (r *fileRepository) MarkSucceeded(ctx context.Context, record *entities.FileRecord) error {
	record.Success = true
	return r.db.WithContext(ctx).
		Model(record).
		Update("success", true).Error
}

// DeleteAllFor removes every record of one conversation
func (r *fileRepository) DeleteAllFor(ctx context.Context, key entities.ChatKey) error {
	return r.db.WithContext(ctx).
		Where("chat_id = ? AND chat_kind = ?", key.ChatID, key.ChatKind).
		Delete(&entities.FileRecord{}).Error
}
