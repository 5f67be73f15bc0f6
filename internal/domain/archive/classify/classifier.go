// Package classify decides whether an incoming message should be archived
package classify

import (
	"fmt"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/dto"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
)

// Decision is the classification outcome. Notice is an advisory,
// user-visible text the caller may emit before rejecting; it never
// overrides Accept.
type Decision struct {
	Accept bool
	Notice string
}

// Classify checks subscriber configuration and the resolved sender against
// the message. The sender passed in is the forward origin for forwarded
// messages, or a placeholder identity when the origin is unaddressable.
func Classify(subscriber *entities.Subscriber, msg *dto.IncomingMessage, sender dto.Sender) Decision {
	if !subscriber.Active {
		return Decision{}
	}

	if msg.Media == nil {
		return Decision{}
	}

	if !resolved(sender) {
		return Decision{}
	}

	if !subscriber.Accepts(msg.Media.Kind) {
		// Compressed photos get an advisory nudge towards uncompressed
		// uploads, gated on verbosity by the caller.
		if msg.Media.Kind == entities.MediaKindPhoto {
			return Decision{
				Notice: fmt.Sprintf("Please send uncompressed files @%s :(.", sender.DisplayName()),
			}
		}
		return Decision{}
	}

	return Decision{Accept: true}
}

// resolved reports whether the sender carries enough identity to attribute
// a file to: an id, any name, or a substituted placeholder.
func resolved(sender dto.Sender) bool {
	return sender.ID != 0 || sender.Placeholder || sender.Username != ""
}
