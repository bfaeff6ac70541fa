package domain

// EventKind distinguishes the inbound chat events the flows correlate on.
type EventKind string

const (
	EventNewMessage    EventKind = "new_message"
	EventMessageEdited EventKind = "message_edited"
)

// EntityKind is the formatting type of an annotated span of message text.
type EntityKind string

const (
	EntityCode    EntityKind = "code"
	EntityPre     EntityKind = "pre"
	EntityBold    EntityKind = "bold"
	EntityURL     EntityKind = "url"
	EntityMention EntityKind = "mention"
	EntityOther   EntityKind = "other"
)

// Entity is a formatted span of a message together with the text it covers.
type Entity struct {
	Kind EntityKind
	Text string
}

// Button is an inline keyboard button attached to a message. Data is the
// opaque callback payload the remote bot interprets when the button is clicked.
type Button struct {
	Text      string
	Data      []byte
	MessageID int
}

// ChatEvent is one inbound unit from the chat transport.
type ChatEvent struct {
	Kind      EventKind
	Peer      string
	MessageID int
	Outgoing  bool
	Text      string
	Buttons   [][]Button
	Entities  []Entity
}

// Code returns the text of the first code span in the event.
func (e ChatEvent) Code() (string, bool) {
	for _, ent := range e.Entities {
		if ent.Kind == EntityCode {
			return ent.Text, true
		}
	}
	return "", false
}

// HasButtons reports whether the message carries at least one button.
func (e ChatEvent) HasButtons() bool {
	for _, row := range e.Buttons {
		if len(row) > 0 {
			return true
		}
	}
	return false
}
