package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gotd/td/session"
	tdclient "github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/updates"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Options configures Connect.
type Options struct {
	APIID       int
	APIHash     string
	SessionPath string
	Peer        string
	RateLimit   float64
	RateBurst   int
	// Auth performs interactive login when the stored session is not authorized.
	Auth auth.UserAuthenticator
}

// Connect opens an authenticated Telegram session, resolves opts.Peer and runs
// fn with a ready Session. The connection is closed when fn returns.
func Connect(ctx context.Context, opts Options, fn func(ctx context.Context, s *Session) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dispatcher := tg.NewUpdateDispatcher()
	gaps := updates.New(updates.Config{Handler: dispatcher})
	client := tdclient.NewClient(opts.APIID, opts.APIHash, tdclient.Options{
		SessionStorage: &session.FileStorage{Path: opts.SessionPath},
		UpdateHandler:  gaps,
	})

	done := make(chan error, 1)
	var started atomic.Bool

	runErr := client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(opts.Auth, auth.SendCodeOptions{})
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("auth: %w", err)
		}

		self, err := client.Self(ctx)
		if err != nil {
			return fmt.Errorf("self: %w", err)
		}
		log.Debug().Int64("user_id", self.ID).Str("username", self.Username).Msg("logged in")

		api := client.API()
		s := NewSession(newMTProtoAPI(api), rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst))
		s.Register(dispatcher)

		return gaps.Run(ctx, api, self.ID, updates.AuthOptions{
			OnStart: func(ctx context.Context) {
				started.Store(true)
				go func() {
					defer cancel()
					if err := s.ResolvePeer(ctx, opts.Peer); err != nil {
						done <- err
						return
					}
					done <- fn(ctx, s)
				}()
			},
		})
	})

	// Unblocks fn if the connection ended before it did.
	cancel()

	if started.Load() {
		if err := <-done; err != nil {
			return fmt.Errorf("telegram.Connect: %w", err)
		}
		return nil
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("telegram.Connect: %w", runErr)
	}
	return nil
}

// mtprotoAPI implements TelegramAPI with a gotd client.
type mtprotoAPI struct {
	raw    *tg.Client
	sender *message.Sender
}

func newMTProtoAPI(raw *tg.Client) *mtprotoAPI {
	return &mtprotoAPI{raw: raw, sender: message.NewSender(raw)}
}

func (a *mtprotoAPI) ResolvePeer(ctx context.Context, username string) (int64, tg.InputPeerClass, error) {
	peer, err := a.sender.Resolve(username).AsInputPeer(ctx)
	if err != nil {
		return 0, nil, err
	}
	user, ok := peer.(*tg.InputPeerUser)
	if !ok {
		return 0, nil, fmt.Errorf("%s is not a user", username)
	}
	return user.UserID, user, nil
}

func (a *mtprotoAPI) SendText(ctx context.Context, peer tg.InputPeerClass, text string) error {
	_, err := a.sender.To(peer).Text(ctx, text)
	return err
}

// PressButton sends the callback query. Bots that answer slowly make the call
// fail with BOT_RESPONSE_TIMEOUT even though the message edit still follows,
// so that error is ignored.
func (a *mtprotoAPI) PressButton(ctx context.Context, peer tg.InputPeerClass, messageID int, data []byte) error {
	_, err := a.raw.MessagesGetBotCallbackAnswer(ctx, &tg.MessagesGetBotCallbackAnswerRequest{
		Peer:  peer,
		MsgID: messageID,
		Data:  data,
	})
	if tgerr.Is(err, "BOT_RESPONSE_TIMEOUT") {
		log.Debug().Int("message_id", messageID).Msg("callback answer timed out")
		return nil
	}
	return err
}
