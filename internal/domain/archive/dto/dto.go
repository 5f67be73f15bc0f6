// Package dto contains data transfer objects for the archive domain
package dto

import (
	"strconv"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
)

// PeerKind is the transport-level shape of a conversation
type PeerKind string

const (
	PeerKindPrivate    PeerKind = "private"
	PeerKindGroup      PeerKind = "group"
	PeerKindSupergroup PeerKind = "supergroup"
	PeerKindChannel    PeerKind = "channel"
)

// Peer references one conversation as the transport sees it
type Peer struct {
	Kind PeerKind
	// ID is the transport-provided conversation identifier. For private
	// chats it is the other participant's user id.
	ID int64
	// SenderID is the id of the message sender; for private chats it is
	// the second participant used to synthesize a stable chat id.
	SenderID int64
}

// Sender is a resolved message sender
type Sender struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	// Placeholder marks a synthetic identity substituted when the real
	// sender has no addressable profile (e.g. a broadcast channel).
	Placeholder bool
}

// DisplayName picks any human-readable name, falling back to the id
func (s Sender) DisplayName() string {
	switch {
	case s.Username != "":
		return s.Username
	case s.FirstName != "":
		return s.FirstName
	case s.LastName != "":
		return s.LastName
	default:
		return strconv.FormatInt(s.ID, 10)
	}
}

// NewPlaceholderSender derives a generic identity from the conversation
// name, so files from unaddressable senders are still archived.
func NewPlaceholderSender(chatName string) Sender {
	return Sender{Username: chatName, Placeholder: true}
}

// MediaDescriptor describes one attachment carried by a message
type MediaDescriptor struct {
	Kind entities.MediaKind
	// RemoteID is the transport's stable identifier for the underlying file
	RemoteID string
	// FileName is the explicit name attribute, empty when the transport
	// provides none (photos)
	FileName string
}

// IncomingMessage is one transport message entering the pipeline
type IncomingMessage struct {
	Peer      Peer
	MessageID int
	Sender    Sender
	// Media is nil for plain text messages
	Media *MediaDescriptor
	// Forwarded marks a message forwarded from another conversation;
	// Origin carries the original sender when the transport could resolve
	// one, nil otherwise.
	Forwarded bool
	Origin    *Sender
	// FromSelf marks messages sent by the bot's own identity
	FromSelf bool
}

// IngestStatus describes what the pipeline did with one message
type IngestStatus string

const (
	StatusArchived         IngestStatus = "archived"
	StatusRejected         IngestStatus = "rejected"
	StatusDuplicateFile    IngestStatus = "duplicate_file"
	StatusDuplicateName    IngestStatus = "duplicate_name"
	StatusOwnVolumeSkipped IngestStatus = "own_volume_skipped"
	StatusDownloadFailed   IngestStatus = "download_failed"
)

// IngestResult is the outcome of processing one message. Notice carries a
// user-visible text which the delivery layer sends only when the
// subscriber is verbose.
type IngestResult struct {
	Status IngestStatus
	Notice string
	Record *entities.FileRecord
}

// SubscriberInfo is the data rendered by the /info command
type SubscriberInfo struct {
	Name            string
	Active          bool
	AcceptedMedia   []entities.MediaKind
	Verbose         bool
	AllowDuplicates bool
	SortByUser      bool
}
