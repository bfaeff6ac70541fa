// Package messengertest provides a scripted in-memory messenger.ChatSession.
package messengertest

import (
	"bytes"
	"context"
	"sync"

	"github.com/gosuda/fathercli/internal/domain"
	"github.com/gosuda/fathercli/internal/messenger"
)

// Click records one button press.
type Click struct {
	Peer      string
	MessageID int
	Data      []byte
}

// Session is a messenger.ChatSession whose remote side is played by OnText and
// OnClick. Replies are published from a separate goroutine, in order, after
// the triggering call has been recorded.
type Session struct {
	*messenger.Dispatcher

	// OnText returns the events the remote peer emits in reply to text.
	OnText func(peer, text string) []domain.ChatEvent
	// OnClick returns the events the remote peer emits when a button is pressed.
	OnClick func(peer string, messageID int, data []byte) []domain.ChatEvent

	SendErr  error
	ClickErr error

	mu     sync.Mutex
	texts  []string
	clicks []Click
	wg     sync.WaitGroup
}

var _ messenger.ChatSession = (*Session)(nil) //nolint:gochecknoglobals // compile-time check

// NewSession creates a Session with no scripted replies.
func NewSession() *Session {
	return &Session{Dispatcher: messenger.NewDispatcher()}
}

// SendText records text and publishes the scripted reply.
func (s *Session) SendText(_ context.Context, peer, text string) error {
	if s.SendErr != nil {
		return s.SendErr
	}

	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.mu.Unlock()

	if s.OnText != nil {
		s.deliver(s.OnText(peer, text))
	}
	return nil
}

// Click records the press and publishes the scripted reply.
func (s *Session) Click(_ context.Context, peer string, messageID int, data []byte) error {
	if s.ClickErr != nil {
		return s.ClickErr
	}

	s.mu.Lock()
	s.clicks = append(s.clicks, Click{Peer: peer, MessageID: messageID, Data: bytes.Clone(data)})
	s.mu.Unlock()

	if s.OnClick != nil {
		s.deliver(s.OnClick(peer, messageID, data))
	}
	return nil
}

// Texts returns every text sent so far.
func (s *Session) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.texts...)
}

// Clicks returns every button press so far.
func (s *Session) Clicks() []Click {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Click(nil), s.clicks...)
}

// Wait blocks until every scripted reply has been published.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) deliver(events []domain.ChatEvent) {
	if len(events) == 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for _, ev := range events {
			s.Publish(ev)
		}
	}()
}
