package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ikidd/vgmms/internal/bus"
	"github.com/ikidd/vgmms/internal/modem"
	"github.com/ikidd/vgmms/internal/state"
	"github.com/ikidd/vgmms/internal/store"
	"github.com/ikidd/vgmms/internal/types"
)

func testEngine(t *testing.T) (*Engine, *state.State, *bus.Bus) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	b := bus.New()
	st, err := state.Load(state.Params{
		DB:            db,
		Bus:           b,
		Self:          types.Number(15551230001),
		Country:       types.Country{CallingCode: "1"},
		AttachmentDir: t.TempDir(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return New(st, b, nil), st, b
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestEngineDeliversNotification(t *testing.T) {
	e, st, b := testEngine(t)
	e.Start(context.Background())
	defer e.Stop()

	b.Publish(bus.Event{
		Kind:      "modem.notification",
		Timestamp: time.Now(),
		Payload: modem.SMSReceived{
			Text:   "via the bus",
			Date:   "2020-05-19T19:28:05Z",
			Sender: "+15551230002",
		},
	})

	waitFor(t, func() bool { return len(st.Summaries()) == 1 })
}

func TestEngineDropsForeignPayload(t *testing.T) {
	e, st, b := testEngine(t)
	e.Start(context.Background())
	defer e.Stop()

	b.Publish(bus.Event{Kind: "modem.noise", Payload: "not a notification"})
	b.Publish(bus.Event{
		Kind: "modem.notification",
		Payload: modem.SMSReceived{
			Text:   "still works",
			Date:   "2020-05-19T19:28:05Z",
			Sender: "+15551230002",
		},
	})

	// The bad payload is dropped without stalling the pump.
	waitFor(t, func() bool { return len(st.Summaries()) == 1 })
}

func TestEngineStop(t *testing.T) {
	e, st, b := testEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e.Start(ctx)
	e.Stop()

	// Give the pump a moment to wind down, then verify it no longer drains.
	time.Sleep(20 * time.Millisecond)
	b.Publish(bus.Event{
		Kind: "modem.notification",
		Payload: modem.SMSReceived{
			Text:   "after stop",
			Date:   "2020-05-19T19:28:05Z",
			Sender: "+15551230002",
		},
	})
	time.Sleep(50 * time.Millisecond)
	if len(st.Summaries()) != 0 {
		t.Error("engine processed an event after Stop")
	}
}
