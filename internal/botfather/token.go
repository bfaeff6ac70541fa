package botfather

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/fathercli/internal/domain"
)

// GetToken opens the settings of bot botID and returns its API token. With
// revoke set the current token is revoked first and the new one is returned;
// the revocation is issued at most once per call.
func (c *Client) GetToken(ctx context.Context, botID int64, revoke bool) (string, error) {
	menu, err := c.openBotMenu(ctx, botID)
	if err != nil {
		return "", fmt.Errorf("botfather.Client.GetToken: %w", err)
	}

	screen, err := c.waiter.Click(ctx, menu.MessageID, domain.TokenPath(botID))
	if err != nil {
		return "", fmt.Errorf("botfather.Client.GetToken: token screen: %w", err)
	}

	if revoke {
		log.Info().Int64("bot_id", botID).Msg("revoking token")
		screen, err = c.waiter.Click(ctx, screen.MessageID, domain.RevokePath(botID))
		if err != nil {
			return "", fmt.Errorf("botfather.Client.GetToken: revoke: %w", err)
		}
	}

	token, ok := screen.Code()
	if !ok {
		return "", fmt.Errorf("botfather.Client.GetToken: bot %d: %w", botID, domain.ErrTokenNotFound)
	}
	return token, nil
}

// openBotMenu walks the bot listing until the leaf for botID, clicks it and
// returns the resulting settings submenu.
func (c *Client) openBotMenu(ctx context.Context, botID int64) (domain.ChatEvent, error) {
	for b, err := range c.Paginate(ctx, c.grammar.ListCommand) {
		if err != nil {
			return domain.ChatEvent{}, err
		}

		id, parseErr := domain.ParseBotID(b.Data)
		if parseErr != nil || id != botID {
			continue
		}

		menu, clickErr := c.waiter.Click(ctx, b.MessageID, b.Data)
		if clickErr != nil {
			return domain.ChatEvent{}, fmt.Errorf("open bot %d: %w", botID, clickErr)
		}
		return menu, nil
	}
	return domain.ChatEvent{}, fmt.Errorf("bot %d: %w", botID, domain.ErrBotNotFound)
}
