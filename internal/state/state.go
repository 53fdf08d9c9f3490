// Package state holds the live, process-wide view of chats, messages, and
// attachments: rebuilt from the store at startup and written through to it
// on every mutation. The UI layer only ever reads from here and issues
// high-level intents; the ingest engine feeds it inbound notifications.
package state

import (
	"sort"
	"sync"
	"time"

	"github.com/ikidd/vgmms/internal/bus"
	"github.com/ikidd/vgmms/internal/modem"
	"github.com/ikidd/vgmms/internal/store"
	"github.com/ikidd/vgmms/internal/types"
	"go.uber.org/zap"
)

// chatEntry is the mirror's record of one known chat.
type chatEntry struct {
	chat types.Chat
	last *store.LastMessage
}

// State is the reconciled in-memory mirror of the store. All access is
// serialized by one coarse reader/writer lock; store I/O happens while the
// exclusive lock is held, which is fine at interactive messaging rates.
type State struct {
	mu     sync.RWMutex
	db     *store.DB
	sender modem.Sender
	bus    *bus.Bus
	logger *zap.Logger

	self    types.Number
	country types.Country
	modemID string

	openChats   []types.Chat
	currentPage int
	chats       map[string]*chatEntry
	messages    *timeline
	attachments map[types.AttachmentID]types.Attachment

	nextMessageID    types.MessageID
	nextAttachmentID types.AttachmentID

	attachmentDir string
	now           func() time.Time
}

// Params collects everything Load needs. Sender and Bus may be nil (sends
// then fail locally; no events are published).
type Params struct {
	DB            *store.DB
	Sender        modem.Sender
	Bus           *bus.Bus
	Logger        *zap.Logger
	Self          types.Number
	Country       types.Country
	ModemID       string
	AttachmentDir string
}

// Load rebuilds the mirror by replaying the store: id counters from the
// stored maxima, the full message timeline, the attachment index, and the
// chat list with its open-tab ordering. Individually malformed rows are
// logged and skipped; store-level failures are fatal.
func Load(p Params) (*State, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &State{
		db:            p.DB,
		sender:        p.Sender,
		bus:           p.Bus,
		logger:        logger,
		self:          p.Self,
		country:       p.Country,
		modemID:       p.ModemID,
		currentPage:   -1,
		chats:         make(map[string]*chatEntry),
		messages:      newTimeline(),
		attachmentDir: p.AttachmentDir,
		now:           time.Now,
	}

	var err error
	if s.nextMessageID, err = p.DB.NextMessageID(); err != nil {
		return nil, err
	}
	if s.nextAttachmentID, err = p.DB.NextAttachmentID(); err != nil {
		return nil, err
	}

	msgs, rowErrs, err := p.DB.AllMessages()
	if err != nil {
		return nil, err
	}
	for _, e := range rowErrs {
		logger.Error("skipping message row", zap.Error(e))
	}
	for i := range msgs {
		s.messages.insert(msgs[i].ID, &msgs[i].Message)
	}

	atts, rowErrs, err := p.DB.AllAttachments()
	if err != nil {
		return nil, err
	}
	for _, e := range rowErrs {
		logger.Error("skipping attachment row", zap.Error(e))
	}
	s.attachments = atts

	chats, rowErrs, err := p.DB.AllChats()
	if err != nil {
		return nil, err
	}
	for _, e := range rowErrs {
		logger.Error("skipping chat row", zap.Error(e))
	}
	for _, rec := range chats {
		if rec.TabID >= 0 {
			// Rebuild tab order from persisted indices, padding any gaps
			// left by a corrupted store with empty placeholders.
			for len(s.openChats) <= rec.TabID {
				s.openChats = append(s.openChats, types.Chat{})
			}
			s.openChats[rec.TabID] = rec.Chat
		}
		s.chats[rec.Chat.Key()] = &chatEntry{chat: rec.Chat, last: rec.Last}
	}
	if len(s.openChats) > 0 {
		s.currentPage = 0
	}

	logger.Info("state loaded",
		zap.Int("messages", s.messages.len()),
		zap.Int("chats", len(s.chats)),
		zap.Int("open_tabs", len(s.openChats)),
		zap.Int("attachments", len(s.attachments)))
	return s, nil
}

func (s *State) publish(kind string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{Kind: kind, Timestamp: s.now(), Payload: payload})
}

// NextMessageID returns the current message id counter, then increments it.
func (s *State) NextMessageID() types.MessageID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextMessageIDLocked()
}

func (s *State) nextMessageIDLocked() types.MessageID {
	id := s.nextMessageID
	s.nextMessageID.Increment()
	return id
}

// NextAttachmentID returns the current attachment id counter, then
// increments it.
func (s *State) NextAttachmentID() types.AttachmentID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextAttachmentIDLocked()
}

func (s *State) nextAttachmentIDLocked() types.AttachmentID {
	id := s.nextAttachmentID
	s.nextAttachmentID++
	return id
}

// Self returns the local subscriber number.
func (s *State) Self() types.Number {
	return s.self
}

// Country returns the local subscriber's country context.
func (s *State) Country() types.Country {
	return s.country
}

// CurrentPage returns the focused tab index, -1 when no tab is open.
func (s *State) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPage
}

// OpenChats returns the ordered open-tab list.
func (s *State) OpenChats() []types.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Chat, len(s.openChats))
	copy(out, s.openChats)
	return out
}

// Message looks up a message by id.
func (s *State) Message(id types.MessageID) (types.MessageInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages.get(id)
	if !ok {
		return types.MessageInfo{}, false
	}
	return *msg, true
}

// Attachment looks up attachment metadata by id. A miss is a recoverable
// display fault, not store corruption.
func (s *State) Attachment(id types.AttachmentID) (types.Attachment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	att, ok := s.attachments[id]
	return att, ok
}

// ChatMessage pairs a message with its id for timeline reads.
type ChatMessage struct {
	ID      types.MessageID
	Message types.MessageInfo
}

// ChatMessages returns the timeline of one chat, oldest first.
func (s *State) ChatMessages(chat types.Chat) []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ChatMessage
	s.messages.each(func(id types.MessageID, msg *types.MessageInfo) {
		if chat.Equal(types.Chat{Numbers: msg.Chat}) {
			out = append(out, ChatMessage{ID: id, Message: *msg})
		}
	})
	return out
}

// ChatSummary is one chat-picker row: the chat and its last-message pointer.
type ChatSummary struct {
	Chat types.Chat
	Last *store.LastMessage
}

// Summaries lists every known chat, most recently active first; chats that
// have never seen a message sort last.
func (s *State) Summaries() []ChatSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChatSummary, 0, len(s.chats))
	for _, entry := range s.chats {
		summary := ChatSummary{Chat: entry.chat}
		if entry.last != nil {
			last := *entry.last
			summary.Last = &last
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i].Last, out[j].Last
		switch {
		case li == nil && lj == nil:
			return out[i].Chat.Key() < out[j].Chat.Key()
		case li == nil:
			return false
		case lj == nil:
			return true
		case li.Time != lj.Time:
			return li.Time > lj.Time
		default:
			return lj.ID.Less(li.ID)
		}
	})
	return out
}
