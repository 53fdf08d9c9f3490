package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Message contents are stored as a single tagged blob:
//
//	't' <utf8 text> 0x00
//	'a' <8-byte little-endian attachment id>
//
// Text must not contain NUL; that is the format's one limitation.

// ErrBadContents marks an undecodable contents blob.
var ErrBadContents = errors.New("malformed message contents")

const (
	tagText       = 't'
	tagAttachment = 'a'
)

// EncodeContents serializes a content item sequence into the tagged blob.
func EncodeContents(items []MessageItem) ([]byte, error) {
	var buf bytes.Buffer
	for _, item := range items {
		switch item.Kind {
		case ItemText:
			if bytes.IndexByte([]byte(item.Text), 0) >= 0 {
				return nil, fmt.Errorf("message text contains NUL byte")
			}
			buf.WriteByte(tagText)
			buf.WriteString(item.Text)
			buf.WriteByte(0)
		case ItemAttachment:
			buf.WriteByte(tagAttachment)
			var le [8]byte
			binary.LittleEndian.PutUint64(le[:], uint64(item.Attachment))
			buf.Write(le[:])
		default:
			return nil, fmt.Errorf("unknown content item kind %d", item.Kind)
		}
	}
	return buf.Bytes(), nil
}

// DecodeContents parses a tagged contents blob back into items. Corruption
// is reported as an error wrapping ErrBadContents, never a panic.
func DecodeContents(data []byte) ([]MessageItem, error) {
	var items []MessageItem
	i := 0
	for i < len(data) {
		tag := data[i]
		i++
		switch tag {
		case tagText:
			end := bytes.IndexByte(data[i:], 0)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated text run at offset %d", ErrBadContents, i-1)
			}
			text := data[i : i+end]
			if !utf8.Valid(text) {
				return nil, fmt.Errorf("%w: text run at offset %d is not valid UTF-8", ErrBadContents, i-1)
			}
			items = append(items, TextItem(string(text)))
			i += end + 1
		case tagAttachment:
			if len(data)-i < 8 {
				return nil, fmt.Errorf("%w: truncated attachment id at offset %d", ErrBadContents, i-1)
			}
			id := binary.LittleEndian.Uint64(data[i : i+8])
			items = append(items, AttachmentItem(AttachmentID(id)))
			i += 8
		default:
			return nil, fmt.Errorf("%w: unknown tag 0x%02x at offset %d", ErrBadContents, tag, i-1)
		}
	}
	return items, nil
}
