package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// MessageID is a 20-byte big-endian unsigned integer. Byte-lexicographic
// ordering equals numeric ordering, so SQLite's max() over the id BLOB
// column yields the numerically largest id.
type MessageID [20]byte

// Increment adds one, carrying leftward on byte overflow. Wraps silently at
// the 160-bit boundary.
func (id *MessageID) Increment() {
	for i := len(id) - 1; i >= 0; i-- {
		id[i]++
		if id[i] != 0 {
			return
		}
	}
}

// Compare returns -1, 0 or 1 ordering ids numerically.
func (id MessageID) Compare(other MessageID) int {
	return bytes.Compare(id[:], other[:])
}

// Less reports whether id orders before other.
func (id MessageID) Less(other MessageID) bool {
	return id.Compare(other) < 0
}

// IsZero reports whether id is all zero bytes.
func (id MessageID) IsZero() bool {
	return id == MessageID{}
}

// String renders the id as 40 hex digits.
func (id MessageID) String() string {
	return hex.EncodeToString(id[:])
}

// ParseMessageID decodes a 40-hex-digit message id.
func ParseMessageID(s string) (MessageID, error) {
	var id MessageID
	if hex.DecodedLen(len(s)) != len(id) {
		return id, fmt.Errorf("message id: want %d hex digits, got %d", hex.EncodedLen(len(id)), len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("message id: %w", err)
	}
	return id, nil
}

// MessageIDFromBytes copies a raw 20-byte id.
func MessageIDFromBytes(b []byte) (MessageID, error) {
	var id MessageID
	if len(b) != len(id) {
		return id, fmt.Errorf("message id: want %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

// AttachmentID is a store-unique 64-bit attachment identifier.
type AttachmentID uint64
