package types

import "fmt"

// MessageStatus tracks a message through its lifecycle. The integer values
// are the on-disk encoding and must not be reordered.
type MessageStatus int

const (
	StatusReceived MessageStatus = iota
	StatusDraft
	StatusSending
	StatusSent
	StatusFailed
)

// validStatusTransitions defines the allowed status changes after a message
// has been committed. Received is terminal; Draft never reaches the store
// (a draft is consumed into Sending or discarded).
var validStatusTransitions = map[MessageStatus][]MessageStatus{
	StatusSending: {StatusSent, StatusFailed},
}

// CanTransition reports whether a committed message may move from s to next.
func (s MessageStatus) CanTransition(next MessageStatus) bool {
	for _, allowed := range validStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s MessageStatus) String() string {
	switch s {
	case StatusReceived:
		return "received"
	case StatusDraft:
		return "draft"
	case StatusSending:
		return "sending"
	case StatusSent:
		return "sent"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// StatusFromInt validates an on-disk status value.
func StatusFromInt(v int) (MessageStatus, error) {
	if v < int(StatusReceived) || v > int(StatusFailed) {
		return 0, fmt.Errorf("invalid message status %d", v)
	}
	return MessageStatus(v), nil
}

// ItemKind discriminates committed message content items.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemAttachment
)

// MessageItem is one committed content unit: inline text or a reference to
// a persisted attachment.
type MessageItem struct {
	Kind       ItemKind
	Text       string
	Attachment AttachmentID
}

// TextItem builds an inline text item.
func TextItem(s string) MessageItem {
	return MessageItem{Kind: ItemText, Text: s}
}

// AttachmentItem builds an attachment reference item.
func AttachmentItem(id AttachmentID) MessageItem {
	return MessageItem{Kind: ItemAttachment, Attachment: id}
}

// DraftKind discriminates pre-commit draft items.
type DraftKind int

const (
	DraftText DraftKind = iota
	DraftAttachment
)

// DraftItem is pre-commit message content: text, or a fully materialized
// attachment that has not been assigned an id yet.
type DraftItem struct {
	Kind       DraftKind
	Text       string
	Attachment *DraftedAttachment
}

// DraftedAttachment carries attachment content authored locally. Either
// Data holds the bytes inline (spilled to disk at commit) or Path/Start/Len
// reference an existing file range.
type DraftedAttachment struct {
	Name     string
	MimeType string
	Data     []byte
	Path     string
	Start    uint64
	Len      uint64
}

// MessageInfo is a committed message. Chat is the full sorted participant
// list, stored per-message for append-only durability even though it is
// redundant with the owning Chat.
type MessageInfo struct {
	Sender   Number
	Chat     []Number
	Time     uint64
	Contents []MessageItem
	Status   MessageStatus
}
