package telegram

import (
	"context"
	"fmt"
	"sync"

	"github.com/gotd/td/tg"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/gosuda/fathercli/internal/domain"
	"github.com/gosuda/fathercli/internal/messenger"
)

// TelegramAPI abstracts the subset of the MTProto API used by Session.
// This allows testing without a live connection.
type TelegramAPI interface {
	ResolvePeer(ctx context.Context, username string) (userID int64, peer tg.InputPeerClass, err error)
	SendText(ctx context.Context, peer tg.InputPeerClass, text string) error
	PressButton(ctx context.Context, peer tg.InputPeerClass, messageID int, data []byte) error
}

type knownPeer struct {
	userID int64
	input  tg.InputPeerClass
}

// Session implements messenger.ChatSession on top of a Telegram user account.
// Only peers added with ResolvePeer can be talked to or produce events.
type Session struct {
	*messenger.Dispatcher

	api     TelegramAPI
	limiter *rate.Limiter

	mu     sync.RWMutex
	peers  map[string]knownPeer
	byUser map[int64]string
}

// Compile-time interface check.
var _ messenger.ChatSession = (*Session)(nil) //nolint:gochecknoglobals // compile-time check

// NewSession creates a Session issuing requests through api, throttled by limiter.
func NewSession(api TelegramAPI, limiter *rate.Limiter) *Session {
	return &Session{
		Dispatcher: messenger.NewDispatcher(),
		api:        api,
		limiter:    limiter,
		peers:      make(map[string]knownPeer),
		byUser:     make(map[int64]string),
	}
}

// ResolvePeer looks up username and makes it addressable by that name.
func (s *Session) ResolvePeer(ctx context.Context, username string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram.Session.ResolvePeer: %w", err)
	}
	userID, input, err := s.api.ResolvePeer(ctx, username)
	if err != nil {
		return fmt.Errorf("telegram.Session.ResolvePeer: %s: %w", username, err)
	}

	s.mu.Lock()
	s.peers[username] = knownPeer{userID: userID, input: input}
	s.byUser[userID] = username
	s.mu.Unlock()

	log.Debug().Str("peer", username).Int64("user_id", userID).Msg("peer resolved")
	return nil
}

// SendText sends a text message to a resolved peer.
func (s *Session) SendText(ctx context.Context, peer, text string) error {
	p, err := s.peer(peer)
	if err != nil {
		return fmt.Errorf("telegram.Session.SendText: %w", err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram.Session.SendText: %w", err)
	}
	if err := s.api.SendText(ctx, p.input, text); err != nil {
		return fmt.Errorf("telegram.Session.SendText: %w", err)
	}
	return nil
}

// Click presses an inline button on a message of a resolved peer.
func (s *Session) Click(ctx context.Context, peer string, messageID int, data []byte) error {
	p, err := s.peer(peer)
	if err != nil {
		return fmt.Errorf("telegram.Session.Click: %w", err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram.Session.Click: %w", err)
	}
	if err := s.api.PressButton(ctx, p.input, messageID, data); err != nil {
		return fmt.Errorf("telegram.Session.Click: %w", err)
	}
	return nil
}

// Register wires the session to the update dispatcher of a client.
func (s *Session) Register(d tg.UpdateDispatcher) {
	d.OnNewMessage(s.HandleNewMessage)
	d.OnEditMessage(s.HandleEditMessage)
}

// HandleNewMessage publishes new private messages from known peers.
func (s *Session) HandleNewMessage(_ context.Context, _ tg.Entities, u *tg.UpdateNewMessage) error {
	s.publish(domain.EventNewMessage, u.Message)
	return nil
}

// HandleEditMessage publishes edits of private messages from known peers.
func (s *Session) HandleEditMessage(_ context.Context, _ tg.Entities, u *tg.UpdateEditMessage) error {
	s.publish(domain.EventMessageEdited, u.Message)
	return nil
}

func (s *Session) publish(kind domain.EventKind, msg tg.MessageClass) {
	m, ok := msg.(*tg.Message)
	if !ok {
		return
	}
	user, ok := m.PeerID.(*tg.PeerUser)
	if !ok {
		return
	}

	s.mu.RLock()
	name, known := s.byUser[user.UserID]
	s.mu.RUnlock()
	if !known {
		return
	}

	s.Publish(toEvent(kind, name, m))
}

func (s *Session) peer(name string) (knownPeer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.peers[name]
	if !ok {
		return knownPeer{}, fmt.Errorf("peer %q not resolved", name)
	}
	return p, nil
}
