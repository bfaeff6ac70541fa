package telegram

import (
	"unicode/utf16"

	"github.com/gotd/td/tg"

	"github.com/gosuda/fathercli/internal/domain"
)

func toEvent(kind domain.EventKind, peer string, m *tg.Message) domain.ChatEvent {
	return domain.ChatEvent{
		Kind:      kind,
		Peer:      peer,
		MessageID: m.ID,
		Outgoing:  m.Out,
		Text:      m.Message,
		Buttons:   toButtons(m.ID, m.ReplyMarkup),
		Entities:  toEntities(m.Message, m.Entities),
	}
}

// toButtons flattens an inline keyboard. Buttons without callback data keep
// their text so the grid layout is preserved.
func toButtons(messageID int, markup tg.ReplyMarkupClass) [][]domain.Button {
	inline, ok := markup.(*tg.ReplyInlineMarkup)
	if !ok {
		return nil
	}

	rows := make([][]domain.Button, 0, len(inline.Rows))
	for _, row := range inline.Rows {
		buttons := make([]domain.Button, 0, len(row.Buttons))
		for _, b := range row.Buttons {
			btn := domain.Button{Text: b.GetText(), MessageID: messageID}
			if cb, ok := b.(*tg.KeyboardButtonCallback); ok {
				btn.Data = cb.Data
			}
			buttons = append(buttons, btn)
		}
		rows = append(rows, buttons)
	}
	return rows
}

// toEntities resolves entity offsets, which Telegram counts in UTF-16 code
// units, to the covered text.
func toEntities(text string, entities []tg.MessageEntityClass) []domain.Entity {
	if len(entities) == 0 {
		return nil
	}

	units := utf16.Encode([]rune(text))
	out := make([]domain.Entity, 0, len(entities))
	for _, e := range entities {
		start, end := e.GetOffset(), e.GetOffset()+e.GetLength()
		if start < 0 || end > len(units) || start > end {
			continue
		}
		out = append(out, domain.Entity{
			Kind: entityKind(e),
			Text: string(utf16.Decode(units[start:end])),
		})
	}
	return out
}

func entityKind(e tg.MessageEntityClass) domain.EntityKind {
	switch e.(type) {
	case *tg.MessageEntityCode:
		return domain.EntityCode
	case *tg.MessageEntityPre:
		return domain.EntityPre
	case *tg.MessageEntityBold:
		return domain.EntityBold
	case *tg.MessageEntityURL:
		return domain.EntityURL
	case *tg.MessageEntityMention:
		return domain.EntityMention
	default:
		return domain.EntityOther
	}
}
