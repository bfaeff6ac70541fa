package messenger

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/fathercli/internal/domain"
)

// Handler receives inbound chat events for a subscription.
type Handler func(ev domain.ChatEvent)

// Subscription identifies one registered Handler.
type Subscription uuid.UUID

// ChatSession abstracts an authenticated chat session with remote peers.
// Implementations handle the wire protocol; the interface is protocol-agnostic.
type ChatSession interface {
	// SendText sends a plain text message to peer.
	SendText(ctx context.Context, peer, text string) error

	// Click presses an inline button on one of peer's messages, sending data as
	// the callback payload. The remote side answers by editing that message.
	Click(ctx context.Context, peer string, messageID int, data []byte) error

	// Subscribe registers h for events of the given kind coming from peer.
	Subscribe(kind domain.EventKind, peer string, h Handler) Subscription

	// Unsubscribe removes a subscription. Unknown subscriptions are ignored.
	Unsubscribe(sub Subscription)
}
