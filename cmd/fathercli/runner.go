package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/fathercli/internal/botfather"
	"github.com/gosuda/fathercli/internal/config"
	"github.com/gosuda/fathercli/internal/domain"
)

var errNoCredentials = errors.New("please configure API ID and hash by running with --api 12345:1a2b3c4d5e6f") //nolint:gochecknoglobals // sentinel error

// connectFunc opens a session with the administrative bot and runs fn with it.
type connectFunc func(ctx context.Context, state *config.State, phone string, fn func(ctx context.Context, c *botfather.Client) error) error

type options struct {
	api      string
	reload   bool
	list     bool
	create   string
	token    string
	newToken string
	phone    string
}

func (o options) needsSession() bool {
	return o.reload || o.list || o.create != "" || o.token != "" || o.newToken != ""
}

// runner executes one command line against the persisted state.
type runner struct {
	state   *config.State
	connect connectFunc
	timeout time.Duration
	out     io.Writer
}

func (r *runner) run(ctx context.Context, opts options) error {
	if opts.api != "" {
		if err := r.state.SetCredentials(opts.api); err != nil {
			return err
		}
		if err := r.state.Persist(); err != nil {
			return err
		}
		log.Info().Int("api_id", r.state.APIID).Str("path", r.state.Path()).Msg("credentials saved")
	}
	if !r.state.HasCredentials() {
		return errNoCredentials
	}
	if !opts.needsSession() {
		return nil
	}

	// The flow timeout covers the bot dialogue only, not interactive login.
	return r.connect(ctx, r.state, opts.phone, func(ctx context.Context, c *botfather.Client) error {
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}
		return r.session(ctx, c, opts)
	})
}

func (r *runner) session(ctx context.Context, c *botfather.Client, opts options) error {
	if opts.reload || (opts.list && len(r.state.Bots) == 0) {
		if err := r.reload(ctx, c); err != nil {
			return err
		}
	}

	if opts.list {
		r.printBots()
	}

	if opts.create != "" {
		token, err := c.CreateBot(ctx, opts.create)
		if err != nil {
			return describe(err)
		}
		fmt.Fprintln(r.out, token)
	}

	if query, revoke := opts.tokenQuery(); query != "" {
		if len(r.state.Bots) == 0 {
			if err := r.reload(ctx, c); err != nil {
				return err
			}
		}
		botID, err := botfather.FindBot(r.state.Bots, query)
		if err != nil {
			return describe(err)
		}
		token, err := c.GetToken(ctx, botID, revoke)
		if err != nil {
			return describe(err)
		}
		fmt.Fprintln(r.out, token)
	}

	return nil
}

func (o options) tokenQuery() (query string, revoke bool) {
	if o.newToken != "" {
		return o.newToken, true
	}
	return o.token, false
}

func (r *runner) reload(ctx context.Context, c *botfather.Client) error {
	bots, err := c.LoadDirectory(ctx)
	if err != nil {
		return describe(err)
	}
	r.state.SetBots(bots)
	return r.state.Persist()
}

func (r *runner) printBots() {
	pad := 0
	for _, b := range r.state.Bots {
		pad = max(pad, len(b.Username)+1)
	}
	for _, b := range r.state.Bots {
		fmt.Fprintf(r.out, "%-*s ID:%d\n", pad, "@"+b.Username, b.ID)
	}
	fmt.Fprintf(r.out, "Total: %d\n", len(r.state.Bots))
}

// describe prefixes flow errors with a hint for the operator.
func describe(err error) error {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		return fmt.Errorf("you must delete older bots before creating a new one: %w", err)
	case errors.Is(err, domain.ErrInvalidBotName):
		return fmt.Errorf(`you must specify your bot name as "Bot Name@username": %w`, err)
	case errors.Is(err, domain.ErrTokenCreationFailed):
		return fmt.Errorf("bot created but failed to retrieve token: %w", err)
	case errors.Is(err, domain.ErrBotNotFound):
		return fmt.Errorf("no such bot (try --reload): %w", err)
	case errors.Is(err, domain.ErrTokenNotFound):
		return fmt.Errorf("failed to retrieve token: %w", err)
	default:
		return err
	}
}
