package botfather

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/fathercli/internal/domain"
)

// Paginate sends command and walks the resulting button menu page by page,
// yielding every leaf button in row-major, page order. Pages are fetched by
// clicking the next-page button, which makes the bot edit the same message.
//
// Each call starts a fresh traversal. The sequence ends on the first page
// without a next-page button; a bot that always offers one never ends it.
// A transport failure is yielded once as the final element.
func (c *Client) Paginate(ctx context.Context, command string) iter.Seq2[domain.Button, error] {
	return func(yield func(domain.Button, error) bool) {
		page, err := c.waiter.Send(ctx, command)
		if err != nil {
			yield(domain.Button{}, fmt.Errorf("botfather.Client.Paginate: open %q: %w", command, err))
			return
		}
		if c.isEmptyMenu(page) {
			log.Debug().Str("command", command).Msg("menu is empty")
			return
		}

		pages := 1
		for {
			next, ok := c.scanPage(page, yield)
			if !ok {
				return
			}
			if next == nil {
				log.Debug().Str("command", command).Int("pages", pages).Msg("menu exhausted")
				return
			}

			page, err = c.waiter.Click(ctx, page.MessageID, next.Data)
			if err != nil {
				yield(domain.Button{}, fmt.Errorf("botfather.Client.Paginate: page %d: %w", pages+1, err))
				return
			}
			pages++
		}
	}
}

// scanPage yields the leaf buttons of page and returns its next-page button,
// if any. ok is false when the consumer stopped the iteration.
func (c *Client) scanPage(page domain.ChatEvent, yield func(domain.Button, error) bool) (next *domain.Button, ok bool) {
	for _, row := range page.Buttons {
		for _, b := range row {
			b.MessageID = page.MessageID
			switch {
			case strings.HasPrefix(b.Text, c.grammar.LeafSigil):
				if !yield(b, nil) {
					return nil, false
				}
			case b.Text == c.grammar.NextGlyph:
				next = &b
			}
		}
	}
	return next, true
}

func (c *Client) isEmptyMenu(page domain.ChatEvent) bool {
	return strings.HasPrefix(page.Text, c.grammar.NoBotsText) || !page.HasButtons()
}
