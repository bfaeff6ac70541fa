// Package botfather drives the conversational grammar of Telegram's
// administrative bot: paginated bot listing, token retrieval and bot creation.
package botfather

import (
	"github.com/gosuda/fathercli/internal/messenger"
)

// DefaultPeer is the username of the administrative bot.
const DefaultPeer = "BotFather"

// Grammar holds the fixed strings the administrative bot uses in its replies.
type Grammar struct {
	ListCommand   string // opens the owned-bots menu
	NewBotCommand string // starts the creation dialogue
	LeafSigil     string // prefix of buttons naming an owned bot
	NextGlyph     string // text of the "next page" button
	NoBotsText    string // reply prefix when the operator owns no bots
	QuotaText     string // reply prefix when no more bots may be created
}

// DefaultGrammar returns the grammar spoken by @BotFather.
func DefaultGrammar() Grammar {
	return Grammar{
		ListCommand:   "/mybots",
		NewBotCommand: "/newbot",
		LeafSigil:     "@",
		NextGlyph:     "»",
		NoBotsText:    "You have currently no bots",
		QuotaText:     "That I cannot do.",
	}
}

// Client runs conversation flows against the administrative bot. Flows on one
// Client must run one at a time.
type Client struct {
	waiter  *messenger.Waiter
	grammar Grammar
}

// Option configures optional Client parameters.
type Option func(*Client)

// WithGrammar overrides the reply grammar.
func WithGrammar(g Grammar) Option {
	return func(c *Client) {
		c.grammar = g
	}
}

// NewClient creates a Client on top of waiter.
func NewClient(waiter *messenger.Waiter, opts ...Option) *Client {
	c := &Client{
		waiter:  waiter,
		grammar: DefaultGrammar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
