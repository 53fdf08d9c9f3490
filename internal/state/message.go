package state

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ikidd/vgmms/internal/store"
	"github.com/ikidd/vgmms/internal/types"
	"go.uber.org/zap"
)

// AddMessage is the canonical write path for every new message, whatever
// its origin: it upserts the owning chat, writes through to the store, and
// then inserts into the mirror. A store failure is logged and the mirror
// insert still proceeds; the store stays the durability layer and the
// mirror is rebuilt from it on restart.
func (s *State) AddMessage(id types.MessageID, msg *types.MessageInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addMessageLocked(id, msg)
}

func (s *State) addMessageLocked(id types.MessageID, msg *types.MessageInfo) {
	chat := types.Chat{Numbers: msg.Chat}
	key := chat.Key()
	if entry, ok := s.chats[key]; ok {
		entry.last = &store.LastMessage{Time: msg.Time, ID: id}
	} else {
		// Freshly created chats carry no last-message pointer until their
		// next insert; the store row gets the pointer either way.
		if err := s.db.InsertChat(chat, store.ClosedTab); err != nil {
			s.logger.Error("error saving chat", zap.Error(err), zap.String("chat", key))
		}
		s.chats[key] = &chatEntry{chat: chat}
	}

	if err := s.db.InsertMessage(id, msg); err != nil {
		s.logger.Error("error saving message", zap.Error(err), zap.Stringer("id", id))
	}
	s.messages.insert(id, msg)
	s.publish("message.added", map[string]string{"id": id.String(), "chat": key})
}

// SendMessage commits a draft: attachments get fresh ids and persisted
// metadata, the message is appended with status Sending, and the outbound
// collaborator is invoked fire-and-forget. Delivery confirmation arrives
// later as a status-update notification. A no-op on an empty draft.
func (s *State) SendMessage(chat types.Chat, drafts []types.DraftItem) {
	if len(drafts) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	contents := make([]types.MessageItem, 0, len(drafts))
	for _, d := range drafts {
		switch d.Kind {
		case types.DraftText:
			contents = append(contents, types.TextItem(d.Text))
		case types.DraftAttachment:
			att, err := s.materializeDraft(d.Attachment)
			if err != nil {
				s.logger.Error("error materializing attachment", zap.Error(err), zap.String("name", d.Attachment.Name))
				continue
			}
			id := s.nextAttachmentIDLocked()
			if err := s.db.InsertAttachment(id, att); err != nil {
				s.logger.Error("error saving attachment", zap.Error(err), zap.Uint64("id", uint64(id)))
			}
			s.attachments[id] = *att
			contents = append(contents, types.AttachmentItem(id))
		}
	}
	if len(contents) == 0 {
		return
	}

	msg := &types.MessageInfo{
		Sender:   s.self,
		Chat:     chat.Numbers,
		Time:     uint64(s.now().Unix()),
		Contents: contents,
		Status:   types.StatusSending,
	}

	// The local append does not wait on the transport: send failures are
	// logged and the message stays Sending until a notification resolves it.
	if s.sender != nil {
		if err := s.sender.Send(context.Background(), s.modemID, msg, s.attachments); err != nil {
			s.logger.Error("error sending message", zap.Error(err))
		}
	} else {
		s.logger.Warn("no sender configured, message not transmitted")
	}

	s.addMessageLocked(s.nextMessageIDLocked(), msg)
}

// materializeDraft turns a drafted attachment into persisted metadata,
// spilling inline data to a file in the attachment dir.
func (s *State) materializeDraft(d *types.DraftedAttachment) (*types.Attachment, error) {
	if d.Data == nil {
		return &types.Attachment{
			Name:     d.Name,
			MimeType: d.MimeType,
			Path:     d.Path,
			Start:    d.Start,
			Len:      d.Len,
		}, nil
	}

	path := filepath.Join(s.attachmentDir, uuid.NewString())
	if err := os.WriteFile(path, d.Data, 0600); err != nil {
		return nil, err
	}
	return &types.Attachment{
		Name:     d.Name,
		MimeType: d.MimeType,
		Path:     path,
		Start:    0,
		Len:      uint64(len(d.Data)),
	}, nil
}

// DeleteMessage removes a message from both store and mirror. Attachments
// it referenced are deliberately left behind.
func (s *State) DeleteMessage(id types.MessageID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.DeleteMessage(id); err != nil {
		s.logger.Error("error deleting message", zap.Error(err), zap.Stringer("id", id))
	}
	s.messages.remove(id)
	s.publish("message.removed", map[string]string{"id": id.String()})
}
