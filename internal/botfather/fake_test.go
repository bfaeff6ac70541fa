package botfather_test

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gosuda/fathercli/internal/botfather"
	"github.com/gosuda/fathercli/internal/domain"
	"github.com/gosuda/fathercli/internal/messenger"
	"github.com/gosuda/fathercli/internal/messenger/messengertest"
)

// fakeFather plays the administrative bot on top of a messengertest.Session.
type fakeFather struct {
	mu sync.Mutex

	bots    []domain.BotRecord
	perPage int
	tokens  map[int64]string

	noTokenSpan  bool
	quotaReached bool
	takenName    bool

	nextMsgID   int
	revocations int
	createStage int
}

func newFakeFather(bots []domain.BotRecord, perPage int) (*fakeFather, *messengertest.Session, *botfather.Client) {
	f := &fakeFather{
		bots:      bots,
		perPage:   perPage,
		tokens:    make(map[int64]string),
		nextMsgID: 100,
	}
	for _, b := range bots {
		f.tokens[b.ID] = fmt.Sprintf("%d:TOKEN-%s", b.ID, b.Username)
	}

	session := messengertest.NewSession()
	session.OnText = f.onText
	session.OnClick = f.onClick

	client := botfather.NewClient(messenger.NewWaiter(session, botfather.DefaultPeer))
	return f, session, client
}

func (f *fakeFather) onText(peer, text string) []domain.ChatEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case text == "/mybots":
		if len(f.bots) == 0 {
			return []domain.ChatEvent{f.message(peer, "You have currently no bots.")}
		}
		ev := f.message(peer, "Choose a bot from the list below:")
		ev.Buttons = f.page(0)
		return []domain.ChatEvent{ev}

	case text == "/newbot":
		if f.quotaReached {
			return []domain.ChatEvent{f.message(peer, "That I cannot do. You come to me asking for more than 20 bots.")}
		}
		f.createStage = 1
		return []domain.ChatEvent{f.message(peer, "Alright, a new bot. How are we going to call it?")}

	case f.createStage == 1:
		f.createStage = 2
		return []domain.ChatEvent{f.message(peer, "Good. Now let's choose a username for your bot.")}

	case f.createStage == 2:
		f.createStage = 0
		if f.takenName {
			return []domain.ChatEvent{f.message(peer, "Sorry, this username is already taken.\nPlease try something different.")}
		}
		ev := f.message(peer, "Done! Congratulations on your new bot.\nUse this token to access the HTTP API:\n999:NEWTOKEN")
		if !f.noTokenSpan {
			ev.Entities = []domain.Entity{{Kind: domain.EntityCode, Text: "999:NEWTOKEN"}}
		}
		return []domain.ChatEvent{ev}
	}
	return []domain.ChatEvent{f.message(peer, "Unrecognized command.")}
}

func (f *fakeFather) onClick(peer string, messageID int, data []byte) []domain.ChatEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	ev := domain.ChatEvent{Kind: domain.EventMessageEdited, Peer: peer, MessageID: messageID}
	path := string(data)

	if n, ok := strings.CutPrefix(path, "page:"); ok {
		i, _ := strconv.Atoi(n)
		ev.Text = "Choose a bot from the list below:"
		ev.Buttons = f.page(i)
		return []domain.ChatEvent{ev}
	}

	id, err := domain.ParseBotID(data)
	if err != nil {
		return nil
	}
	switch {
	case strings.HasSuffix(path, "/tokn/revoke"):
		f.revocations++
		f.tokens[id] = fmt.Sprintf("%d:REVOKED-%d", id, f.revocations)
		ev.Text = "Your token was replaced with a new one."
		f.tokenEntities(&ev, id)
	case strings.HasSuffix(path, "/tokn"):
		ev.Text = "Here is the token for your bot."
		f.tokenEntities(&ev, id)
		ev.Buttons = [][]domain.Button{{{Text: "Revoke current token", Data: domain.RevokePath(id)}}}
	default:
		ev.Text = fmt.Sprintf("Here it is: bot %d. What do you want to do with the bot?", id)
		ev.Buttons = [][]domain.Button{
			{{Text: "API Token", Data: domain.TokenPath(id)}, {Text: "Edit Bot", Data: []byte(path + "/edit")}},
			{{Text: "« Back to Bots List", Data: []byte("bots")}},
		}
	}
	return []domain.ChatEvent{ev}
}

func (f *fakeFather) tokenEntities(ev *domain.ChatEvent, id int64) {
	if f.noTokenSpan {
		return
	}
	ev.Entities = []domain.Entity{
		{Kind: domain.EntityMention, Text: "@botfather"},
		{Kind: domain.EntityCode, Text: f.tokens[id]},
	}
}

func (f *fakeFather) message(peer, text string) domain.ChatEvent {
	f.nextMsgID++
	return domain.ChatEvent{Kind: domain.EventNewMessage, Peer: peer, MessageID: f.nextMsgID, Text: text}
}

// page renders page i of the bot list: two leaves per row, then navigation.
func (f *fakeFather) page(i int) [][]domain.Button {
	start := i * f.perPage
	end := min(start+f.perPage, len(f.bots))

	var rows [][]domain.Button
	var row []domain.Button
	for _, b := range f.bots[start:end] {
		row = append(row, domain.Button{Text: "@" + b.Username, Data: []byte(fmt.Sprintf("bots/%d", b.ID))})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []domain.Button
	if i > 0 {
		nav = append(nav, domain.Button{Text: "«", Data: []byte(fmt.Sprintf("page:%d", i-1))})
	}
	if end < len(f.bots) {
		nav = append(nav, domain.Button{Text: "»", Data: []byte(fmt.Sprintf("page:%d", i+1))})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return rows
}

func (f *fakeFather) token(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.tokens[id]
}

func makeBots(n int) []domain.BotRecord {
	bots := make([]domain.BotRecord, 0, n)
	for i := range n {
		bots = append(bots, domain.BotRecord{ID: int64(1000 + i), Username: fmt.Sprintf("bot_%02d_bot", i)})
	}
	return bots
}

func clickedPaths(session *messengertest.Session) []string {
	var paths []string
	for _, c := range session.Clicks() {
		paths = append(paths, string(c.Data))
	}
	return paths
}
