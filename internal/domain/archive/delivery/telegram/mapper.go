package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/dto"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
)

// peerFrom maps a Telegram chat onto a transport peer. For private chats
// selfID is passed as the second participant so the synthesized chat id
// stays stable regardless of who wrote first.
func peerFrom(msg *models.Message, selfID int64) dto.Peer {
	peer := dto.Peer{ID: msg.Chat.ID}

	switch msg.Chat.Type {
	case models.ChatTypePrivate:
		peer.Kind = dto.PeerKindPrivate
		peer.SenderID = selfID
	case models.ChatTypeGroup:
		peer.Kind = dto.PeerKindGroup
	case models.ChatTypeSupergroup:
		peer.Kind = dto.PeerKindSupergroup
	case models.ChatTypeChannel:
		peer.Kind = dto.PeerKindChannel
	default:
		peer.Kind = dto.PeerKind(msg.Chat.Type)
	}

	return peer
}

// senderFrom maps a Telegram user onto a domain sender
func senderFrom(user *models.User) dto.Sender {
	if user == nil {
		return dto.Sender{}
	}
	return dto.Sender{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// mediaFrom extracts the attachment of a message, nil for plain text.
// Photos carry no file name attribute; the largest size variant is used.
func mediaFrom(msg *models.Message) *dto.MediaDescriptor {
	switch {
	case msg.Document != nil:
		return &dto.MediaDescriptor{
			Kind:     entities.MediaKindDocument,
			RemoteID: msg.Document.FileID,
			FileName: msg.Document.FileName,
		}
	case len(msg.Photo) > 0:
		largest := msg.Photo[len(msg.Photo)-1]
		return &dto.MediaDescriptor{
			Kind:     entities.MediaKindPhoto,
			RemoteID: largest.FileID,
		}
	case msg.Sticker != nil:
		return &dto.MediaDescriptor{
			Kind:     entities.MediaKindSticker,
			RemoteID: msg.Sticker.FileID,
		}
	default:
		return nil
	}
}

// originFrom resolves the forward origin of a message. Channel and
// anonymous-chat origins are unaddressable and map to a nil sender.
func originFrom(msg *models.Message) (forwarded bool, origin *dto.Sender) {
	if msg.ForwardOrigin == nil {
		return false, nil
	}

	switch msg.ForwardOrigin.Type {
	case models.MessageOriginTypeUser:
		sender := senderFrom(&msg.ForwardOrigin.MessageOriginUser.SenderUser)
		return true, &sender
	case models.MessageOriginTypeHiddenUser:
		// privacy-hidden users expose a name but no id, which is still
		// enough identity to archive under
		sender := dto.Sender{
			Username:    msg.ForwardOrigin.MessageOriginHiddenUser.SenderUserName,
			Placeholder: true,
		}
		return true, &sender
	default:
		return true, nil
	}
}

// messageFrom assembles the pipeline message for one update
func messageFrom(msg *models.Message, selfID int64) *dto.IncomingMessage {
	forwarded, origin := originFrom(msg)

	return &dto.IncomingMessage{
		Peer:      peerFrom(msg, selfID),
		MessageID: msg.ID,
		Sender:    senderFrom(msg.From),
		Media:     mediaFrom(msg),
		Forwarded: forwarded,
		Origin:    origin,
		FromSelf:  msg.From != nil && msg.From.ID == selfID,
	}
}
