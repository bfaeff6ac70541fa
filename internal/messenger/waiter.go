package messenger

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/fathercli/internal/domain"
)

// Predicate selects the event a wait is interested in.
type Predicate func(ev domain.ChatEvent) bool

// Action is the side effect expected to make the remote peer emit the awaited event.
type Action func(ctx context.Context) error

// Waiter turns the asynchronous event stream of a ChatSession into ordered
// request/response exchanges with a single peer. A Waiter serves one
// conversation; waits on it must not interleave.
type Waiter struct {
	session ChatSession
	peer    string
}

// NewWaiter creates a Waiter talking to peer over session.
func NewWaiter(session ChatSession, peer string) *Waiter {
	return &Waiter{session: session, peer: peer}
}

// Peer returns the peer the Waiter talks to.
func (w *Waiter) Peer() string {
	return w.peer
}

// Await registers a one-shot listener for the next event of kind satisfying
// match, then runs action, then blocks until the listener fires. The listener
// is registered before the action runs so the caused event cannot be missed,
// and it is removed before Await returns.
//
// There is no per-event timeout: Await returns early only when ctx is done.
func (w *Waiter) Await(ctx context.Context, kind domain.EventKind, match Predicate, action Action) (domain.ChatEvent, error) {
	result := make(chan domain.ChatEvent, 1)
	var fired atomic.Bool

	sub := w.session.Subscribe(kind, w.peer, func(ev domain.ChatEvent) {
		if match != nil && !match(ev) {
			return
		}
		if fired.CompareAndSwap(false, true) {
			result <- ev
		}
	})
	defer w.session.Unsubscribe(sub)

	if err := action(ctx); err != nil {
		return domain.ChatEvent{}, fmt.Errorf("messenger.Waiter.Await: %w: %w", domain.ErrTransport, err)
	}

	select {
	case ev := <-result:
		log.Debug().Str("peer", w.peer).Str("kind", string(kind)).Int("message_id", ev.MessageID).Msg("event captured")
		return ev, nil
	case <-ctx.Done():
		return domain.ChatEvent{}, fmt.Errorf("messenger.Waiter.Await: %w", ctx.Err())
	}
}

// Send sends text to the peer and waits for its next incoming message.
func (w *Waiter) Send(ctx context.Context, text string) (domain.ChatEvent, error) {
	return w.Await(ctx, domain.EventNewMessage, incoming, func(ctx context.Context) error {
		return w.session.SendText(ctx, w.peer, text)
	})
}

// Click presses a button on messageID with data as payload and waits for the
// peer to edit that same message.
func (w *Waiter) Click(ctx context.Context, messageID int, data []byte) (domain.ChatEvent, error) {
	return w.Await(ctx, domain.EventMessageEdited, sameMessage(messageID), func(ctx context.Context) error {
		return w.session.Click(ctx, w.peer, messageID, data)
	})
}

func incoming(ev domain.ChatEvent) bool {
	return !ev.Outgoing
}

func sameMessage(id int) Predicate {
	return func(ev domain.ChatEvent) bool {
		return ev.MessageID == id
	}
}
