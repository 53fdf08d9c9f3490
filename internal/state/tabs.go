package state

import (
	"github.com/ikidd/vgmms/internal/types"
	"go.uber.org/zap"
)

// OpenChat opens a tab for the given participants, creating the chat if it
// is unseen. The local number is always added and the set is sorted, so
// chat identity stays canonical. Opening an already-open chat just focuses
// its tab. Returns the focused tab index, -1 when the chat was trivial
// (nobody but the local user).
func (s *State) OpenChat(numbers []types.Number) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	nums := make([]types.Number, 0, len(numbers)+1)
	nums = append(nums, numbers...)
	if !containsNumber(nums, s.self) {
		nums = append(nums, s.self)
	}
	chat := types.NewChat(nums)
	if len(chat.Numbers) < 2 {
		return -1
	}

	if len(s.openChats) == 0 {
		s.currentPage = -1
	}
	for i, c := range s.openChats {
		if c.Equal(chat) {
			s.currentPage = i
			return i
		}
	}

	s.currentPage++
	pos := s.currentPage

	key := chat.Key()
	if _, known := s.chats[key]; !known {
		s.chats[key] = &chatEntry{chat: chat}
	}
	// OpenChat upserts the chat row and shifts later tabs right by one in
	// one transaction, covering both the known-but-closed and unseen cases.
	if err := s.db.OpenChat(chat, pos); err != nil {
		s.logger.Error("error saving chat state", zap.Error(err), zap.String("chat", key))
	}

	s.openChats = append(s.openChats, types.Chat{})
	copy(s.openChats[pos+1:], s.openChats[pos:])
	s.openChats[pos] = chat

	s.publish("chat.opened", map[string]string{"chat": key})
	return pos
}

// CloseCurrentChat closes the focused tab. The chat record survives with no
// tab position; remaining tabs are renumbered so open positions stay a
// contiguous run from zero.
func (s *State) CloseCurrentChat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.openChats) == 0 {
		s.currentPage = -1
	}
	if s.currentPage < 0 {
		return
	}

	pos := s.currentPage
	chat := s.openChats[pos]
	s.openChats = append(s.openChats[:pos], s.openChats[pos+1:]...)

	if err := s.db.CloseChat(chat); err != nil {
		s.logger.Error("error saving chat state", zap.Error(err), zap.String("chat", chat.Key()))
	}
	// Ascending order keeps tab_id unique while the run compacts left.
	for i := pos; i < len(s.openChats); i++ {
		if err := s.db.SetChatTab(s.openChats[i], i); err != nil {
			s.logger.Error("error saving chat state", zap.Error(err), zap.String("chat", s.openChats[i].Key()))
		}
	}

	if s.currentPage >= len(s.openChats) {
		s.currentPage--
	}
	s.publish("chat.closed", map[string]string{"chat": chat.Key()})
}

// SelectPage focuses an open tab.
func (s *State) SelectPage(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < -1 || i >= len(s.openChats) {
		return
	}
	s.currentPage = i
}

func containsNumber(nums []types.Number, n types.Number) bool {
	for _, m := range nums {
		if m == n {
			return true
		}
	}
	return false
}
