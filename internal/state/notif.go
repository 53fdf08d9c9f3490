package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/ikidd/vgmms/internal/modem"
	"github.com/ikidd/vgmms/internal/types"
	"go.uber.org/zap"
)

// parseDate parses the transport's RFC3339 timestamp. mmsd sometimes emits
// numeric zone offsets without the colon ("+0000"); when the strict parse
// rejects the string, the colon is reinserted and parsing retried.
func parseDate(date string) (uint64, error) {
	t, err := time.Parse(time.RFC3339, date)
	if err == nil {
		return uint64(t.Unix()), nil
	}
	if len(date) > 3 {
		repaired := date[:len(date)-2] + ":" + date[len(date)-2:]
		if t, err2 := time.Parse(time.RFC3339, repaired); err2 == nil {
			return uint64(t.Unix()), nil
		}
	}
	return 0, err
}

// HandleNotification reconciles one inbound telephony event into the store
// and mirror. Malformed notifications are logged and dropped; nothing here
// is fatal.
func (s *State) HandleNotification(n modem.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch n := n.(type) {
	case modem.StatusUpdate:
		s.handleStatusUpdate(n)
	case modem.MMSReceived:
		s.handleMMS(n)
	case modem.SMSReceived:
		s.handleSMS(n)
	default:
		s.logger.Warn("unknown notification", zap.String("type", fmt.Sprintf("%T", n)))
	}
}

// handleStatusUpdate overwrites an existing message's status. An unknown id
// is logged and dropped; a bare status update never fabricates a message.
func (s *State) handleStatusUpdate(n modem.StatusUpdate) {
	msg, ok := s.messages.get(n.ID)
	if !ok {
		s.logger.Warn("cannot find message to update status", zap.Stringer("id", n.ID))
		return
	}
	if !msg.Status.CanTransition(n.Status) {
		s.logger.Warn("irregular status transition",
			zap.Stringer("id", n.ID),
			zap.Stringer("from", msg.Status),
			zap.Stringer("to", n.Status))
	}
	msg.Status = n.Status
	if err := s.db.UpdateMessageStatus(n.ID, n.Status); err != nil {
		s.logger.Error("error saving message status", zap.Error(err), zap.Stringer("id", n.ID))
	}
	s.publish("message.status", map[string]string{"id": n.ID.String(), "status": n.Status.String()})
}

func (s *State) handleMMS(n modem.MMSReceived) {
	msgTime, err := parseDate(n.Date)
	if err != nil {
		s.logger.Error("cannot parse timestamp", zap.String("date", n.Date), zap.Error(err))
		return
	}

	// Plain-text parts are inlined into the lead text span; everything else
	// becomes a stored attachment with a freshly allocated id. A text part
	// whose file cannot be read falls back to being kept as an attachment.
	var text strings.Builder
	var contents []types.MessageItem
	for _, part := range n.Parts {
		att := types.Attachment{
			Name:     part.Name,
			MimeType: part.MimeType,
			Path:     part.Path,
			Start:    part.Start,
			Len:      part.Len,
		}
		if strings.HasPrefix(part.MimeType, "text/plain") {
			if data, err := att.ReadData(); err == nil {
				text.WriteString(strings.ToValidUTF8(string(data), "�"))
				continue
			} else {
				s.logger.Warn("cannot inline text part", zap.Error(err), zap.String("name", part.Name))
			}
		}

		id := s.nextAttachmentIDLocked()
		if err := s.db.InsertAttachment(id, &att); err != nil {
			s.logger.Error("error saving attachment", zap.Error(err), zap.Uint64("id", uint64(id)))
		}
		s.attachments[id] = att
		contents = append(contents, types.AttachmentItem(id))
	}
	contents = append([]types.MessageItem{types.TextItem(text.String())}, contents...)

	sender, ok := types.Normalize(n.Sender, s.country)
	if !ok {
		s.logger.Error("cannot parse number", zap.String("sender", n.Sender))
		return
	}
	nums := []types.Number{sender}
	for _, r := range n.Recipients {
		if num, ok := types.Normalize(r, s.country); ok {
			nums = append(nums, num)
		}
	}
	chat := types.NewChat(nums)

	msg := &types.MessageInfo{
		Sender:   sender,
		Chat:     chat.Numbers,
		Time:     msgTime,
		Contents: contents,
		Status:   types.StatusReceived,
	}
	s.logger.Info("inserting mms", zap.Stringer("id", n.ID), zap.String("chat", chat.Key()))
	s.addMessageLocked(n.ID, msg)
}

func (s *State) handleSMS(n modem.SMSReceived) {
	msgTime, err := parseDate(n.Date)
	if err != nil {
		s.logger.Error("cannot parse timestamp", zap.String("date", n.Date), zap.Error(err))
		return
	}
	sender, ok := types.Normalize(n.Sender, s.country)
	if !ok {
		s.logger.Error("cannot parse number", zap.String("sender", n.Sender))
		return
	}
	chat := types.NewChat([]types.Number{sender, s.self})

	id := s.nextMessageIDLocked()
	msg := &types.MessageInfo{
		Sender:   sender,
		Chat:     chat.Numbers,
		Time:     msgTime,
		Contents: []types.MessageItem{types.TextItem(n.Text)},
		Status:   types.StatusReceived,
	}
	s.logger.Info("inserting sms", zap.Stringer("id", id), zap.String("chat", chat.Key()))
	s.addMessageLocked(id, msg)
}
