package bus

import "time"

// Event is a domain event published on the bus. Kinds are dotted names:
// "modem.notification" for inbound telephony events, "message.added",
// "message.status", "chat.opened", "chat.closed" for state mutations the
// UI layer renders from.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
