package types

import (
	"errors"
	"reflect"
	"testing"
)

func TestContentsRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		items []MessageItem
	}{
		{"empty", nil},
		{"single text", []MessageItem{TextItem("hello")}},
		{"empty text", []MessageItem{TextItem("")}},
		{"single attachment", []MessageItem{AttachmentItem(4)}},
		{"mixed", []MessageItem{TextItem("see attached"), AttachmentItem(12), TextItem("and this"), AttachmentItem(13)}},
		{"unicode", []MessageItem{TextItem("héllo wörld 😀")}},
		{"adjacent attachments", []MessageItem{AttachmentItem(1), AttachmentItem(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeContents(tt.items)
			if err != nil {
				t.Fatal(err)
			}
			decoded, err := DecodeContents(encoded)
			if err != nil {
				t.Fatal(err)
			}
			if len(tt.items) == 0 && len(decoded) == 0 {
				return
			}
			if !reflect.DeepEqual(decoded, tt.items) {
				t.Errorf("decode(encode(%v)) = %v", tt.items, decoded)
			}
		})
	}
}

func TestEncodeRejectsNUL(t *testing.T) {
	if _, err := EncodeContents([]MessageItem{TextItem("bad\x00text")}); err == nil {
		t.Error("expected error for text containing NUL")
	}
}

func TestDecodeWireFormat(t *testing.T) {
	// 't' "hello" NUL, then 'a' with id 4 little-endian.
	data := []byte{'t', 'h', 'e', 'l', 'l', 'o', 0, 'a', 4, 0, 0, 0, 0, 0, 0, 0}
	items, err := DecodeContents(data)
	if err != nil {
		t.Fatal(err)
	}
	want := []MessageItem{TextItem("hello"), AttachmentItem(4)}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("decoded %v, want %v", items, want)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"unknown tag", []byte{'x', 1, 2, 3}},
		{"unterminated text", []byte{'t', 'h', 'i'}},
		{"truncated attachment id", []byte{'a', 1, 2, 3}},
		{"invalid utf8", []byte{'t', 0xff, 0xfe, 0}},
		{"trailing garbage tag", []byte{'t', 'o', 'k', 0, 'q'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeContents(tt.data)
			if err == nil {
				t.Fatal("expected decode error")
			}
			if !errors.Is(err, ErrBadContents) {
				t.Errorf("error %v does not wrap ErrBadContents", err)
			}
		})
	}
}
