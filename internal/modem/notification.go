// Package modem defines the telephony collaborator boundary: the shapes of
// inbound notifications and the interfaces the core invokes for outbound
// sends and SIM queries. Wire implementations (ofono over DBus) live outside
// the core.
package modem

import (
	"context"

	"github.com/ikidd/vgmms/internal/types"
)

// Part describes one attachment of an inbound MMS: metadata plus a byte
// range within a file the telephony stack already wrote to disk.
type Part struct {
	Name     string
	MimeType string
	Path     string
	Start    uint64
	Len      uint64
}

// Notification is one inbound telephony event.
type Notification interface {
	isNotification()
}

// StatusUpdate reports the delivery outcome of a previously sent message.
type StatusUpdate struct {
	ID     types.MessageID
	Status types.MessageStatus
}

// MMSReceived announces a multimedia message. Date is the transport's
// ISO-ish timestamp string, passed through verbatim; sender and recipients
// are raw numeral strings needing normalization.
type MMSReceived struct {
	ID         types.MessageID
	Date       string
	Subject    string
	Sender     string
	Recipients []string
	Parts      []Part
	SMIL       string
}

// SMSReceived announces a plain text message.
type SMSReceived struct {
	Text   string
	Date   string
	Sender string
}

func (StatusUpdate) isNotification() {}
func (MMSReceived) isNotification()  {}
func (SMSReceived) isNotification()  {}

// Sender delivers an outbound message over the telephony bus. Single
// recipient with a lone text item goes out as SMS, everything else as MMS.
// Failures are reported once; the core does not retry.
type Sender interface {
	Send(ctx context.Context, modemID string, msg *types.MessageInfo, attachments map[types.AttachmentID]types.Attachment) error
}

// SIM answers subscriber queries, used once at startup when the config does
// not pin the local number.
type SIM interface {
	SubscriberNumber(ctx context.Context, modemID string) (string, error)
}
