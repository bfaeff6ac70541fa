package botfather

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/fathercli/internal/domain"
)

// LoadDirectory lists every bot the operator owns, in the order the
// administrative bot shows them. When the menu repeats an id the last
// occurrence wins.
func (c *Client) LoadDirectory(ctx context.Context) ([]domain.BotRecord, error) {
	var records []domain.BotRecord
	index := make(map[int64]int)

	for b, err := range c.Paginate(ctx, c.grammar.ListCommand) {
		if err != nil {
			return nil, fmt.Errorf("botfather.Client.LoadDirectory: %w", err)
		}

		rec, err := c.record(b)
		if err != nil {
			log.Warn().Err(err).Str("button", b.Text).Msg("skipping unparsable bot button")
			continue
		}

		if i, seen := index[rec.ID]; seen {
			log.Warn().Int64("bot_id", rec.ID).Str("previous", records[i].Username).Str("username", rec.Username).Msg("duplicate bot id in menu")
			records[i] = rec
			continue
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}

	log.Debug().Int("bots", len(records)).Msg("directory loaded")
	return records, nil
}

func (c *Client) record(b domain.Button) (domain.BotRecord, error) {
	id, err := domain.ParseBotID(b.Data)
	if err != nil {
		return domain.BotRecord{}, err
	}
	username := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(b.Text), c.grammar.LeafSigil))
	return domain.BotRecord{ID: id, Username: username}, nil
}

// FindBot resolves query against records by normalized username or by
// literal numeric id. The first matching record wins.
func FindBot(records []domain.BotRecord, query string) (int64, error) {
	q := domain.NormalizeUsername(query)
	for _, r := range records {
		if q == strconv.FormatInt(r.ID, 10) || q == domain.NormalizeUsername(r.Username) {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("botfather.FindBot: %q: %w", query, domain.ErrBotNotFound)
}
