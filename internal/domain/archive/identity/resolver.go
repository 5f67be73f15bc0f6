// Package identity normalizes transport peer references into stable chat identities
package identity

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/dto"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
	archiveerrors "github.com/yourusername/telegram-archive-bot/internal/domain/archive/errors"
)

// Resolve maps a transport peer reference onto a stable (chat id, chat kind)
// pair. Direct messages get a synthesized identifier because the transport
// has no stable shared id for a one-to-one conversation: the two
// participant ids are sorted lexicographically and joined, so the same
// pair resolves identically regardless of who initiated.
func Resolve(peer dto.Peer) (entities.ChatKey, error) {
	switch peer.Kind {
	case dto.PeerKindPrivate:
		ids := []string{
			strconv.FormatInt(peer.ID, 10),
			strconv.FormatInt(peer.SenderID, 10),
		}
		sort.Strings(ids)
		return entities.ChatKey{
			ChatID:   strings.Join(ids, "_"),
			ChatKind: entities.ChatKindUser,
		}, nil

	case dto.PeerKindGroup, dto.PeerKindSupergroup:
		return entities.ChatKey{
			ChatID:   strconv.FormatInt(peer.ID, 10),
			ChatKind: entities.ChatKindGroup,
		}, nil

	case dto.PeerKindChannel:
		return entities.ChatKey{
			ChatID:   strconv.FormatInt(peer.ID, 10),
			ChatKind: entities.ChatKindChannel,
		}, nil

	default:
		return entities.ChatKey{}, archiveerrors.ErrUnresolvableIdentity
	}
}
