package botfather

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/fathercli/internal/domain"
)

// ParseCreateSpec splits "Display Name@username" into its trimmed parts and
// appends "bot" to the username when it does not already end with it.
func ParseCreateSpec(spec string) (name, username string, err error) {
	if strings.Count(spec, "@") != 1 {
		return "", "", fmt.Errorf("botfather.ParseCreateSpec: want \"Bot Name@username\", got %q: %w", spec, domain.ErrInvalidBotName)
	}

	name, username, _ = strings.Cut(spec, "@")
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	if name == "" || username == "" {
		return "", "", fmt.Errorf("botfather.ParseCreateSpec: empty name or username in %q: %w", spec, domain.ErrInvalidBotName)
	}

	if !strings.HasSuffix(strings.ToLower(username), "bot") {
		username += "bot"
	}
	return name, username, nil
}

// CreateBot runs the new-bot dialogue for spec ("Display Name@username") and
// returns the token of the created bot. Nothing is sent when spec is invalid.
func (c *Client) CreateBot(ctx context.Context, spec string) (string, error) {
	name, username, err := ParseCreateSpec(spec)
	if err != nil {
		return "", err
	}

	reply, err := c.waiter.Send(ctx, c.grammar.NewBotCommand)
	if err != nil {
		return "", fmt.Errorf("botfather.Client.CreateBot: start: %w", err)
	}
	if strings.HasPrefix(reply.Text, c.grammar.QuotaText) {
		return "", fmt.Errorf("botfather.Client.CreateBot: %w", domain.ErrQuotaExceeded)
	}

	if _, err = c.waiter.Send(ctx, name); err != nil {
		return "", fmt.Errorf("botfather.Client.CreateBot: send name: %w", err)
	}

	log.Debug().Str("name", name).Str("username", username).Msg("choosing username")
	reply, err = c.waiter.Send(ctx, username)
	if err != nil {
		return "", fmt.Errorf("botfather.Client.CreateBot: send username: %w", err)
	}

	token, ok := reply.Code()
	if !ok {
		return "", fmt.Errorf("botfather.Client.CreateBot: reply %q: %w", firstLine(reply.Text), domain.ErrTokenCreationFailed)
	}
	return token, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
