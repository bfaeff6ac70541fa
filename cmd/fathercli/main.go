package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/fathercli/internal/botfather"
	"github.com/gosuda/fathercli/internal/config"
	"github.com/gosuda/fathercli/internal/messenger"
	"github.com/gosuda/fathercli/internal/messenger/telegram"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)

	state, err := config.LoadState(cfg.StatePath)
	if err != nil {
		return err
	}

	cmd := newRootCmd(&runner{
		state:   state,
		connect: telegramConnector(cfg),
		timeout: cfg.FlowTimeout,
		out:     os.Stdout,
	})
	return cmd.ExecuteContext(ctx)
}

// setupLogging configures the global zerolog logger. Logs go to stderr so
// that stdout carries only listings and tokens.
func setupLogging(cfg config.LogConfig) {
	zerolog.SetGlobalLevel(cfg.Level)
	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// telegramConnector opens a real Telegram session for each command run.
func telegramConnector(cfg *config.Config) connectFunc {
	return func(ctx context.Context, state *config.State, phone string, fn func(ctx context.Context, c *botfather.Client) error) error {
		if phone == "" {
			phone = cfg.Telegram.Phone
		}
		opts := telegram.Options{
			APIID:       state.APIID,
			APIHash:     state.APIHash,
			SessionPath: cfg.Telegram.SessionPath,
			Peer:        cfg.Telegram.Peer,
			RateLimit:   cfg.Telegram.RateLimit,
			RateBurst:   cfg.Telegram.RateBurst,
			Auth:        telegram.NewTerminalAuth(phone),
		}
		return telegram.Connect(ctx, opts, func(ctx context.Context, s *telegram.Session) error {
			return fn(ctx, botfather.NewClient(messenger.NewWaiter(s, cfg.Telegram.Peer)))
		})
	}
}
