package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BotRecord is one bot owned by the operator as listed by the administrative bot.
type BotRecord struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UnmarshalJSON accepts both the object form {"id":1,"username":"x_bot"} and
// the legacy pair form [1, "@x_bot"] written by earlier state files.
func (r *BotRecord) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		type plain BotRecord
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("domain.BotRecord.UnmarshalJSON: %w", err)
		}
		*r = BotRecord(p)
		return nil
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("domain.BotRecord.UnmarshalJSON: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("domain.BotRecord.UnmarshalJSON: want [id, username], got %d elements", len(pair))
	}

	var (
		id   int64
		name string
	)
	if err := json.Unmarshal(pair[0], &id); err != nil {
		return fmt.Errorf("domain.BotRecord.UnmarshalJSON: id: %w", err)
	}
	if err := json.Unmarshal(pair[1], &name); err != nil {
		return fmt.Errorf("domain.BotRecord.UnmarshalJSON: username: %w", err)
	}
	r.ID = id
	r.Username = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "@"))
	return nil
}

// botPathPrefix is the first segment of every per-bot callback payload.
var botPathPrefix = []byte("bots/") //nolint:gochecknoglobals // constant byte prefix

// ParseBotID extracts the numeric bot id from a callback payload such as
// "bots/12345" or "bots/12345/tokn". Segments after the id are ignored.
func ParseBotID(data []byte) (int64, error) {
	rest, ok := bytes.CutPrefix(data, botPathPrefix)
	if !ok {
		// Tolerate other prefixes: the id is the segment after the first separator.
		i := bytes.IndexByte(data, '/')
		if i < 0 {
			return 0, fmt.Errorf("domain.ParseBotID: no path separator in %q", data)
		}
		rest = data[i+1:]
	}
	if i := bytes.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}

	id, err := strconv.ParseInt(string(rest), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("domain.ParseBotID: %q: %w", data, err)
	}
	return id, nil
}

// TokenPath returns the callback payload that opens a bot's token screen.
func TokenPath(botID int64) []byte {
	return []byte("bots/" + strconv.FormatInt(botID, 10) + "/tokn")
}

// RevokePath returns the callback payload that revokes a bot's current token.
func RevokePath(botID int64) []byte {
	return append(TokenPath(botID), "/revoke"...)
}

// NormalizeUsername folds a username or lookup query to a comparable form:
// lower case, no "@" or whitespace, and without a trailing "_bot" or "bot".
func NormalizeUsername(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '@' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)

	if trimmed, ok := strings.CutSuffix(s, "_bot"); ok {
		return trimmed
	}
	return strings.TrimSuffix(s, "bot")
}
