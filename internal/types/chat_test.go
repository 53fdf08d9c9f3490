package types

import (
	"reflect"
	"testing"
)

func TestNewChatSortsAndDedupes(t *testing.T) {
	chat := NewChat([]Number{15551230003, 15551230001, 15551230002, 15551230001})
	want := []Number{15551230001, 15551230002, 15551230003}
	if !reflect.DeepEqual(chat.Numbers, want) {
		t.Errorf("Numbers = %v, want %v", chat.Numbers, want)
	}
}

func TestChatEqualIsStructural(t *testing.T) {
	a := NewChat([]Number{15551230001, 15551230002})
	b := NewChat([]Number{15551230002, 15551230001})
	if !a.Equal(b) {
		t.Error("chats with the same number set should be equal")
	}
	c := NewChat([]Number{15551230001})
	if a.Equal(c) {
		t.Error("chats with different number sets should differ")
	}
}

func TestChatDisplayName(t *testing.T) {
	self := Number(15551230001)
	chat := NewChat([]Number{15551230002, self, 15551230003})
	if got := chat.DisplayName(self); got != "+15551230002, +15551230003" {
		t.Errorf("DisplayName = %q", got)
	}
}

func TestChatKeyStable(t *testing.T) {
	a := NewChat([]Number{15551230002, 15551230001})
	b := NewChat([]Number{15551230001, 15551230002})
	if a.Key() != b.Key() {
		t.Errorf("keys differ for equal chats: %q vs %q", a.Key(), b.Key())
	}
}

func TestStatusTransitions(t *testing.T) {
	if !StatusSending.CanTransition(StatusSent) {
		t.Error("Sending -> Sent should be allowed")
	}
	if !StatusSending.CanTransition(StatusFailed) {
		t.Error("Sending -> Failed should be allowed")
	}
	if StatusReceived.CanTransition(StatusSent) {
		t.Error("Received is terminal")
	}
	if StatusSent.CanTransition(StatusSending) {
		t.Error("Sent must not revert to Sending")
	}
}

func TestStatusFromInt(t *testing.T) {
	if _, err := StatusFromInt(99); err == nil {
		t.Error("expected error for out-of-range status")
	}
	st, err := StatusFromInt(0)
	if err != nil || st != StatusReceived {
		t.Errorf("StatusFromInt(0) = (%v, %v), want Received", st, err)
	}
}
