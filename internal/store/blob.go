package store

import (
	"encoding/binary"
	"fmt"

	"github.com/ikidd/vgmms/internal/types"
)

// On-disk blob layouts. Participant lists are fixed-width little-endian
// 64-bit numbers concatenated in sorted order; message ids are the raw
// 20 bytes. Explicit encoding, never in-memory reinterpretation.

const numberWidth = 8

// encodeNumbers serializes a sorted participant list for the chats.numbers
// and messages.chat columns.
func encodeNumbers(nums []types.Number) []byte {
	buf := make([]byte, len(nums)*numberWidth)
	for i, n := range nums {
		binary.LittleEndian.PutUint64(buf[i*numberWidth:], uint64(n))
	}
	return buf
}

// decodeNumbers parses a participant list blob.
func decodeNumbers(b []byte) ([]types.Number, error) {
	if len(b)%numberWidth != 0 {
		return nil, fmt.Errorf("number list blob has %d bytes, not a multiple of %d", len(b), numberWidth)
	}
	nums := make([]types.Number, len(b)/numberWidth)
	for i := range nums {
		nums[i] = types.Number(binary.LittleEndian.Uint64(b[i*numberWidth:]))
	}
	return nums, nil
}
