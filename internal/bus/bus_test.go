package bus

import (
	"testing"
	"time"
)

func TestPublishMatchesPrefix(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("message.", 4)
	defer unsub()

	b.Publish(Event{Kind: "message.added"})
	b.Publish(Event{Kind: "chat.opened"})
	b.Publish(Event{Kind: "message.status"})

	got := drain(ch)
	if len(got) != 2 {
		t.Fatalf("received %d events, want 2", len(got))
	}
	if got[0].Kind != "message.added" || got[1].Kind != "message.status" {
		t.Errorf("kinds = [%s %s]", got[0].Kind, got[1].Kind)
	}
}

func TestEmptyPrefixMatchesAll(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("", 4)
	defer unsub()

	b.Publish(Event{Kind: "message.added"})
	b.Publish(Event{Kind: "chat.closed"})

	if got := drain(ch); len(got) != 2 {
		t.Errorf("received %d events, want 2", len(got))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("modem.", 4)

	b.Publish(Event{Kind: "modem.notification"})
	unsub()
	b.Publish(Event{Kind: "modem.notification"})

	if got := drain(ch); len(got) != 1 {
		t.Errorf("received %d events, want 1", len(got))
	}
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("modem.", 1)
	defer unsub()

	done := make(chan struct{})
	go func() {
		b.Publish(Event{Kind: "modem.notification"})
		b.Publish(Event{Kind: "modem.notification"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	if got := drain(ch); len(got) != 1 {
		t.Errorf("received %d events, want 1 (overflow dropped)", len(got))
	}
}

func TestMultipleSubscribers(t *testing.T) {
	b := New()
	a, unsubA := b.Subscribe("message.", 4)
	defer unsubA()
	c, unsubC := b.Subscribe("message.added", 4)
	defer unsubC()

	b.Publish(Event{Kind: "message.added", Payload: "p"})

	for name, ch := range map[string]<-chan Event{"broad": a, "narrow": c} {
		got := drain(ch)
		if len(got) != 1 {
			t.Errorf("%s subscriber received %d events, want 1", name, len(got))
			continue
		}
		if got[0].Payload != "p" {
			t.Errorf("%s payload = %v", name, got[0].Payload)
		}
	}
}

func drain(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case evt := <-ch:
			out = append(out, evt)
		default:
			return out
		}
	}
}
