package state

import (
	"sort"

	"github.com/ikidd/vgmms/internal/types"
)

// timeline is the message map kept iterable in id order. Inbound MMS ids
// are assigned by the network and can land out of local allocation order,
// so insertion keeps a sorted key slice alongside the map.
type timeline struct {
	byID  map[types.MessageID]*types.MessageInfo
	order []types.MessageID
}

func newTimeline() *timeline {
	return &timeline{byID: make(map[types.MessageID]*types.MessageInfo)}
}

func (t *timeline) insert(id types.MessageID, msg *types.MessageInfo) {
	if _, exists := t.byID[id]; !exists {
		i := sort.Search(len(t.order), func(i int) bool { return !t.order[i].Less(id) })
		t.order = append(t.order, types.MessageID{})
		copy(t.order[i+1:], t.order[i:])
		t.order[i] = id
	}
	t.byID[id] = msg
}

func (t *timeline) get(id types.MessageID) (*types.MessageInfo, bool) {
	msg, ok := t.byID[id]
	return msg, ok
}

func (t *timeline) remove(id types.MessageID) {
	if _, ok := t.byID[id]; !ok {
		return
	}
	delete(t.byID, id)
	i := sort.Search(len(t.order), func(i int) bool { return !t.order[i].Less(id) })
	if i < len(t.order) && t.order[i] == id {
		t.order = append(t.order[:i], t.order[i+1:]...)
	}
}

func (t *timeline) len() int {
	return len(t.byID)
}

// each visits messages oldest-first.
func (t *timeline) each(fn func(id types.MessageID, msg *types.MessageInfo)) {
	for _, id := range t.order {
		fn(id, t.byID[id])
	}
}
