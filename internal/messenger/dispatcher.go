package messenger

import (
	"cmp"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/fathercli/internal/domain"
)

type subscription struct {
	kind    domain.EventKind
	peer    string
	handler Handler
	seq     uint64
}

// Dispatcher is the in-process subscription registry behind a ChatSession.
// Transports embed it and feed inbound events to Publish.
type Dispatcher struct {
	mu   sync.RWMutex
	subs map[Subscription]subscription
	seq  uint64
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subs: make(map[Subscription]subscription),
	}
}

// Subscribe registers h for events of kind from peer.
func (d *Dispatcher) Subscribe(kind domain.EventKind, peer string, h Handler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	id := Subscription(uuid.New())
	d.subs[id] = subscription{kind: kind, peer: peer, handler: h, seq: d.seq}
	return id
}

// Unsubscribe removes a subscription.
func (d *Dispatcher) Unsubscribe(sub Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.subs, sub)
}

// Len returns the number of active subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.subs)
}

// Publish delivers ev to every subscription registered for its kind and peer,
// oldest first. Handlers run outside the lock so they may unsubscribe.
func (d *Dispatcher) Publish(ev domain.ChatEvent) {
	d.mu.RLock()
	matched := make([]subscription, 0, 1)
	for _, s := range d.subs {
		if s.kind == ev.Kind && s.peer == ev.Peer {
			matched = append(matched, s)
		}
	}
	d.mu.RUnlock()

	if len(matched) == 0 {
		log.Debug().Str("kind", string(ev.Kind)).Str("peer", ev.Peer).Int("message_id", ev.MessageID).Msg("event dropped: no subscriber")
		return
	}

	slices.SortFunc(matched, func(a, b subscription) int { return cmp.Compare(a.seq, b.seq) })
	for _, s := range matched {
		s.handler(ev)
	}
}
