// Package entities contains domain entities
package entities

import (
	"sort"
	"strings"
	"time"
)

// ChatKind classifies a conversation
type ChatKind string

const (
	ChatKindUser    ChatKind = "user"
	ChatKindGroup   ChatKind = "group"
	ChatKindChannel ChatKind = "channel"
)

// MediaKind is the closed set of attachment categories
type MediaKind string

const (
	MediaKindDocument MediaKind = "document"
	MediaKindPhoto    MediaKind = "photo"
	MediaKindSticker  MediaKind = "sticker"
)

// PossibleMedia lists every media kind a subscriber may accept
var PossibleMedia = []MediaKind{MediaKindDocument, MediaKindPhoto, MediaKindSticker}

// ParseMediaKind maps a user-supplied tag onto the closed set
func ParseMediaKind(s string) (MediaKind, bool) {
	kind := MediaKind(strings.ToLower(strings.TrimSpace(s)))
	for _, possible := range PossibleMedia {
		if kind == possible {
			return kind, true
		}
	}
	return "", false
}

// ChatKey is the composite identity of one conversation
type ChatKey struct {
	ChatID   string
	ChatKind ChatKind
}

// Subscriber is the persisted configuration and state for one monitored
// conversation.
type Subscriber struct {
	ChatID          string   `gorm:"primaryKey;size:128"`
	ChatKind        ChatKind `gorm:"primaryKey;size:16"`
	Name            string   `gorm:"uniqueIndex;not null;size:255"`
	Active          bool     `gorm:"not null;default:false"`
	AcceptedMedia   string   `gorm:"not null;default:'document'"`
	AllowDuplicates bool     `gorm:"not null;default:true"`
	SortByUser      bool     `gorm:"not null;default:true"`
	Verbose         bool     `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Files []FileRecord `gorm:"foreignKey:ChatID,ChatKind;references:ChatID,ChatKind"`
}

// NewSubscriber creates a subscriber with default configuration. The name
// defaults to the chat id until the user picks one.
func NewSubscriber(key ChatKey, name string) *Subscriber {
	if name == "" {
		name = key.ChatID
	}
	return &Subscriber{
		ChatID:          key.ChatID,
		ChatKind:        key.ChatKind,
		Name:            name,
		Active:          false,
		AcceptedMedia:   string(MediaKindDocument),
		AllowDuplicates: true,
		SortByUser:      true,
		Verbose:         false,
	}
}

// Key returns the composite chat identity
func (s *Subscriber) Key() ChatKey {
	return ChatKey{ChatID: s.ChatID, ChatKind: s.ChatKind}
}

// Accepts reports whether the given media kind is accepted.
// An empty accepted set accepts nothing.
func (s *Subscriber) Accepts(kind MediaKind) bool {
	for _, accepted := range strings.Fields(s.AcceptedMedia) {
		if MediaKind(accepted) == kind {
			return true
		}
	}
	return false
}

// AcceptedKinds returns the accepted media kinds in stored order
func (s *Subscriber) AcceptedKinds() []MediaKind {
	fields := strings.Fields(s.AcceptedMedia)
	kinds := make([]MediaKind, 0, len(fields))
	for _, field := range fields {
		kinds = append(kinds, MediaKind(field))
	}
	return kinds
}

// SetAcceptedKinds stores the accepted media kinds, deduplicated and sorted
func (s *Subscriber) SetAcceptedKinds(kinds []MediaKind) {
	seen := make(map[MediaKind]struct{}, len(kinds))
	unique := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		unique = append(unique, string(kind))
	}
	sort.Strings(unique)
	s.AcceptedMedia = strings.Join(unique, " ")
}

// FileRecord is the persisted metadata row for one archived attachment.
// (ChatID, ChatKind, RemoteFileID) is unique; Success flips to true only
// after the transport confirmed the byte transfer.
type FileRecord struct {
	ID           uint      `gorm:"primaryKey"`
	ChatID       string    `gorm:"uniqueIndex:idx_file_remote;not null;size:128"`
	ChatKind     ChatKind  `gorm:"uniqueIndex:idx_file_remote;not null;size:16"`
	RemoteFileID string    `gorm:"uniqueIndex:idx_file_remote;not null;size:255"`
	MessageID    int       `gorm:"not null"`
	SenderID     int64     `gorm:"not null"`
	MediaKind    MediaKind `gorm:"not null;size:16"`
	FileName     string    `gorm:"not null;size:255"`
	FilePath     string    `gorm:"not null;size:1024"`
	Success      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Key returns the owning conversation's composite identity
func (f *FileRecord) Key() ChatKey {
	return ChatKey{ChatID: f.ChatID, ChatKind: f.ChatKind}
}
