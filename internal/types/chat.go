package types

import (
	"sort"
	"strings"
)

// Chat identifies a conversation by its sorted set of participant numbers.
// Identity is structural: two chats are the same iff their number vectors
// are equal. An active chat always includes the local user's own number.
type Chat struct {
	Numbers []Number
}

// NewChat builds a chat from participants, sorting and deduplicating.
func NewChat(numbers []Number) Chat {
	nums := make([]Number, len(numbers))
	copy(nums, numbers)
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	out := nums[:0]
	var prev Number
	for i, n := range nums {
		if i > 0 && n == prev {
			continue
		}
		out = append(out, n)
		prev = n
	}
	return Chat{Numbers: out}
}

// Equal reports structural equality.
func (c Chat) Equal(other Chat) bool {
	if len(c.Numbers) != len(other.Numbers) {
		return false
	}
	for i, n := range c.Numbers {
		if n != other.Numbers[i] {
			return false
		}
	}
	return true
}

// Contains reports whether n participates in the chat.
func (c Chat) Contains(n Number) bool {
	for _, m := range c.Numbers {
		if m == n {
			return true
		}
	}
	return false
}

// Key returns a stable map key for the chat.
func (c Chat) Key() string {
	parts := make([]string, len(c.Numbers))
	for i, n := range c.Numbers {
		parts[i] = n.String()
	}
	return strings.Join(parts, ",")
}

// DisplayName joins every participant except self, for tab labels and the
// chat picker.
func (c Chat) DisplayName(self Number) string {
	var parts []string
	for _, n := range c.Numbers {
		if n == self {
			continue
		}
		parts = append(parts, n.String())
	}
	return strings.Join(parts, ", ")
}
