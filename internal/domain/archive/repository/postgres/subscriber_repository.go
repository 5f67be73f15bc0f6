package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
	pkgerrors "github.com/yourusername/telegram-archive-bot/pkg/errors"
)

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *gorm.DB) deps.SubscriberRepository {
	return &subscriberRepository{db: db}
}

// GetOrCreate looks up a subscriber by composite key, inserting defaults on
// miss. Lookup and insert share one transaction so repeated calls for the
// same key never create duplicates.
func (r *subscriberRepository) GetOrCreate(ctx context.Context, key entities.ChatKey, defaultName string) (*entities.Subscriber, error) {
	var subscriber entities.Subscriber

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("chat_id = ? AND chat_kind = ?", key.ChatID, key.ChatKind).
			First(&subscriber).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			subscriber = *entities.NewSubscriber(key, defaultName)
			return tx.Create(&subscriber).Error
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &subscriber, nil
}

// Get returns the subscriber for the key
func (r *subscriberRepository) Get(ctx context.Context, key entities.ChatKey) (*entities.Subscriber, error) {
	var subscriber entities.Subscriber
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND chat_kind = ?", key.ChatID, key.ChatKind).
		First(&subscriber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NewNotFoundError("subscriber not found")
	}
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// Save persists subscriber configuration changes
func (r *subscriberRepository) Save(ctx context.Context, subscriber *entities.Subscriber) error {
	return r.db.WithContext(ctx).Save(subscriber).Error
}

// NameTaken reports whether another subscriber already uses the name
func (r *subscriberRepository) NameTaken(ctx context.Context, name string, excluding entities.ChatKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Subscriber{}).
		Where("name = ?", name).
		Not("chat_id = ? AND chat_kind = ?", excluding.ChatID, excluding.ChatKind).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
