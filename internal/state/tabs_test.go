package state

import (
	"testing"

	"github.com/ikidd/vgmms/internal/types"
)

func TestOpenChatAddsSelfAndFocuses(t *testing.T) {
	s := testState(t)

	pos := s.OpenChat([]types.Number{testPeer})
	if pos != 0 {
		t.Fatalf("first open at tab %d, want 0", pos)
	}
	if s.CurrentPage() != 0 {
		t.Errorf("CurrentPage = %d, want 0", s.CurrentPage())
	}

	open := s.OpenChats()
	want := types.NewChat([]types.Number{testSelf, testPeer})
	if len(open) != 1 || !open[0].Equal(want) {
		t.Errorf("OpenChats = %v, want [%v]", open, want.Numbers)
	}
}

func TestOpenChatTrivial(t *testing.T) {
	s := testState(t)

	if pos := s.OpenChat([]types.Number{testSelf}); pos != -1 {
		t.Errorf("self-only chat opened at %d, want -1", pos)
	}
	if pos := s.OpenChat(nil); pos != -1 {
		t.Errorf("empty chat opened at %d, want -1", pos)
	}
	if len(s.OpenChats()) != 0 {
		t.Errorf("trivial opens left tabs: %v", s.OpenChats())
	}
}

func TestOpenChatAlreadyOpenFocuses(t *testing.T) {
	s := testState(t)
	s.OpenChat([]types.Number{testPeer})
	s.OpenChat([]types.Number{testPeer2})

	if got := s.CurrentPage(); got != 1 {
		t.Fatalf("CurrentPage = %d, want 1", got)
	}
	// Re-opening the first chat focuses its existing tab, no new tab.
	if pos := s.OpenChat([]types.Number{testPeer}); pos != 0 {
		t.Errorf("re-open at tab %d, want 0", pos)
	}
	if len(s.OpenChats()) != 2 {
		t.Errorf("re-open grew the tab list: %v", s.OpenChats())
	}
}

func TestOpenChatInsertsAfterFocus(t *testing.T) {
	s := testState(t)
	s.OpenChat([]types.Number{testPeer})
	s.OpenChat([]types.Number{testPeer2})
	s.SelectPage(0)

	// A new chat opens immediately after the focused tab, pushing later
	// tabs right.
	pos := s.OpenChat([]types.Number{types.Number(15551230004)})
	if pos != 1 {
		t.Fatalf("opened at tab %d, want 1", pos)
	}

	open := s.OpenChats()
	if len(open) != 3 {
		t.Fatalf("got %d tabs, want 3", len(open))
	}
	if !open[0].Equal(types.NewChat([]types.Number{testSelf, testPeer})) {
		t.Errorf("tab 0 = %v", open[0].Numbers)
	}
	if !open[1].Equal(types.NewChat([]types.Number{testSelf, 15551230004})) {
		t.Errorf("tab 1 = %v", open[1].Numbers)
	}
	if !open[2].Equal(types.NewChat([]types.Number{testSelf, testPeer2})) {
		t.Errorf("tab 2 = %v", open[2].Numbers)
	}
}

func TestCloseCurrentChatCompactsTabs(t *testing.T) {
	db := testStore(t)
	s := loadState(t, db, nil)
	s.OpenChat([]types.Number{testPeer})
	s.OpenChat([]types.Number{testPeer2})
	s.OpenChat([]types.Number{types.Number(15551230004)})
	s.SelectPage(1)

	s.CloseCurrentChat()

	open := s.OpenChats()
	if len(open) != 2 {
		t.Fatalf("got %d tabs, want 2", len(open))
	}
	if s.CurrentPage() != 1 {
		t.Errorf("CurrentPage = %d, want 1", s.CurrentPage())
	}

	// Positions stay a contiguous run in the store too.
	reloaded := loadState(t, db, nil)
	ropen := reloaded.OpenChats()
	if len(ropen) != 2 {
		t.Fatalf("reloaded %d tabs, want 2", len(ropen))
	}
	for i := range open {
		if !ropen[i].Equal(open[i]) {
			t.Errorf("reloaded tab %d = %v, want %v", i, ropen[i].Numbers, open[i].Numbers)
		}
	}
}

func TestCloseLastTab(t *testing.T) {
	s := testState(t)
	s.OpenChat([]types.Number{testPeer})

	s.CloseCurrentChat()

	if len(s.OpenChats()) != 0 {
		t.Errorf("tabs remain: %v", s.OpenChats())
	}
	if s.CurrentPage() != -1 {
		t.Errorf("CurrentPage = %d, want -1", s.CurrentPage())
	}

	// Closing with nothing open is a no-op.
	s.CloseCurrentChat()
	if s.CurrentPage() != -1 {
		t.Errorf("CurrentPage after redundant close = %d, want -1", s.CurrentPage())
	}
}

func TestClosedChatKeepsHistory(t *testing.T) {
	s := testState(t)
	s.OpenChat([]types.Number{testPeer})
	chat := types.NewChat([]types.Number{testSelf, testPeer})
	s.AddMessage(mid(1), receivedText(testPeer, chat, 100, "kept"))

	s.CloseCurrentChat()

	if len(s.ChatMessages(chat)) != 1 {
		t.Error("closing the tab lost the chat's messages")
	}
	if len(s.Summaries()) != 1 {
		t.Error("closed chat vanished from summaries")
	}
}

func TestOpenTabsSurviveReload(t *testing.T) {
	db := testStore(t)
	s := loadState(t, db, nil)
	s.OpenChat([]types.Number{testPeer})
	s.OpenChat([]types.Number{testPeer2})

	reloaded := loadState(t, db, nil)
	open := reloaded.OpenChats()
	if len(open) != 2 {
		t.Fatalf("reloaded %d tabs, want 2", len(open))
	}
	if !open[0].Equal(types.NewChat([]types.Number{testSelf, testPeer})) {
		t.Errorf("tab 0 = %v", open[0].Numbers)
	}
	if !open[1].Equal(types.NewChat([]types.Number{testSelf, testPeer2})) {
		t.Errorf("tab 1 = %v", open[1].Numbers)
	}
	if reloaded.CurrentPage() != 0 {
		t.Errorf("reloaded CurrentPage = %d, want 0", reloaded.CurrentPage())
	}
}

func TestSelectPageBounds(t *testing.T) {
	s := testState(t)
	s.OpenChat([]types.Number{testPeer})

	s.SelectPage(5)
	if s.CurrentPage() != 0 {
		t.Errorf("out-of-range select changed page to %d", s.CurrentPage())
	}
	s.SelectPage(-1)
	if s.CurrentPage() != -1 {
		t.Errorf("SelectPage(-1) gave %d", s.CurrentPage())
	}
}
