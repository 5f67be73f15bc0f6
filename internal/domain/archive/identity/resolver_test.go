package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/dto"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
	archiveerrors "github.com/yourusername/telegram-archive-bot/internal/domain/archive/errors"
)

func TestResolvePrivateChatIsSymmetric(t *testing.T) {
	initiatedByA, err := Resolve(dto.Peer{Kind: dto.PeerKindPrivate, ID: 42, SenderID: 7})
	require.NoError(t, err)

	initiatedByB, err := Resolve(dto.Peer{Kind: dto.PeerKindPrivate, ID: 7, SenderID: 42})
	require.NoError(t, err)

	assert.Equal(t, initiatedByA, initiatedByB)
	assert.Equal(t, entities.ChatKindUser, initiatedByA.ChatKind)
	assert.Equal(t, "42_7", initiatedByA.ChatID)
}

func TestResolvePrivateChatSortsLexicographically(t *testing.T) {
	key, err := Resolve(dto.Peer{Kind: dto.PeerKindPrivate, ID: 100, SenderID: 20})
	require.NoError(t, err)

	// "100" sorts before "20" as a string
	assert.Equal(t, "100_20", key.ChatID)
}

func TestResolveGroupKinds(t *testing.T) {
	group, err := Resolve(dto.Peer{Kind: dto.PeerKindGroup, ID: -100})
	require.NoError(t, err)
	assert.Equal(t, entities.ChatKey{ChatID: "-100", ChatKind: entities.ChatKindGroup}, group)

	supergroup, err := Resolve(dto.Peer{Kind: dto.PeerKindSupergroup, ID: -200})
	require.NoError(t, err)
	assert.Equal(t, entities.ChatKindGroup, supergroup.ChatKind)

	channel, err := Resolve(dto.Peer{Kind: dto.PeerKindChannel, ID: -300})
	require.NoError(t, err)
	assert.Equal(t, entities.ChatKey{ChatID: "-300", ChatKind: entities.ChatKindChannel}, channel)
}

func TestResolveUnknownPeerFails(t *testing.T) {
	_, err := Resolve(dto.Peer{Kind: "bogus", ID: 1})
	require.ErrorIs(t, err, archiveerrors.ErrUnresolvableIdentity)
}
