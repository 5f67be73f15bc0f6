package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/dto"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
)

func activeSubscriber(accepted string) *entities.Subscriber {
	sub := entities.NewSubscriber(entities.ChatKey{ChatID: "1", ChatKind: entities.ChatKindGroup}, "holiday")
	sub.Active = true
	sub.AcceptedMedia = accepted
	return sub
}

func documentMessage() *dto.IncomingMessage {
	return &dto.IncomingMessage{
		MessageID: 10,
		Media:     &dto.MediaDescriptor{Kind: entities.MediaKindDocument, RemoteID: "f1", FileName: "a.pdf"},
	}
}

func TestRejectsInactiveSubscriber(t *testing.T) {
	sub := activeSubscriber("document")
	sub.Active = false

	decision := Classify(sub, documentMessage(), dto.Sender{ID: 5})
	assert.False(t, decision.Accept)
	assert.Empty(t, decision.Notice)
}

func TestRejectsMessageWithoutMedia(t *testing.T) {
	msg := documentMessage()
	msg.Media = nil

	decision := Classify(activeSubscriber("document"), msg, dto.Sender{ID: 5})
	assert.False(t, decision.Accept)
}

func TestRejectsUnresolvedSender(t *testing.T) {
	decision := Classify(activeSubscriber("document"), documentMessage(), dto.Sender{})
	assert.False(t, decision.Accept)
}

func TestAcceptsNameOnlySender(t *testing.T) {
	// forwards from privacy-hidden users expose a name but no id
	hidden := dto.Sender{Username: "ghost"}

	decision := Classify(activeSubscriber("document"), documentMessage(), hidden)
	assert.True(t, decision.Accept)
}

func TestAcceptsPlaceholderSender(t *testing.T) {
	placeholder := dto.NewPlaceholderSender("holiday")

	decision := Classify(activeSubscriber("document"), documentMessage(), placeholder)
	assert.True(t, decision.Accept)
}

func TestRejectsUnacceptedKind(t *testing.T) {
	msg := documentMessage()
	msg.Media.Kind = entities.MediaKindSticker

	decision := Classify(activeSubscriber("document"), msg, dto.Sender{ID: 5})
	assert.False(t, decision.Accept)
	assert.Empty(t, decision.Notice)
}

func TestCompressedPhotoProducesAdvisoryNotice(t *testing.T) {
	msg := documentMessage()
	msg.Media.Kind = entities.MediaKindPhoto
	msg.Media.FileName = ""

	decision := Classify(activeSubscriber("document"), msg, dto.Sender{ID: 5, Username: "anna"})
	assert.False(t, decision.Accept)
	assert.Contains(t, decision.Notice, "uncompressed")
	assert.Contains(t, decision.Notice, "@anna")
}

func TestAcceptsPhotoWhenConfigured(t *testing.T) {
	msg := documentMessage()
	msg.Media.Kind = entities.MediaKindPhoto

	decision := Classify(activeSubscriber("document photo"), msg, dto.Sender{ID: 5})
	assert.True(t, decision.Accept)
	assert.Empty(t, decision.Notice)
}

func TestEmptyAcceptedSetAcceptsNothing(t *testing.T) {
	decision := Classify(activeSubscriber(""), documentMessage(), dto.Sender{ID: 5})
	assert.False(t, decision.Accept)
}
