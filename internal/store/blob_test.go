package store

import (
	"reflect"
	"testing"

	"github.com/ikidd/vgmms/internal/types"
)

func TestNumberBlobRoundTrip(t *testing.T) {
	nums := []types.Number{15551230001, 15551230002, 41411}
	decoded, err := decodeNumbers(encodeNumbers(nums))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, nums) {
		t.Errorf("round trip = %v, want %v", decoded, nums)
	}
}

func TestNumberBlobFixedWidth(t *testing.T) {
	blob := encodeNumbers([]types.Number{1, 2})
	if len(blob) != 16 {
		t.Errorf("blob length = %d, want 16", len(blob))
	}
	// Little-endian, so the first byte of each word is the low byte.
	if blob[0] != 1 || blob[8] != 2 {
		t.Errorf("unexpected layout: % x", blob)
	}
}

func TestDecodeNumbersBadLength(t *testing.T) {
	if _, err := decodeNumbers(make([]byte, 12)); err == nil {
		t.Error("expected error for blob not a multiple of 8 bytes")
	}
}

func TestDecodeNumbersEmpty(t *testing.T) {
	nums, err := decodeNumbers(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(nums) != 0 {
		t.Errorf("got %d numbers from empty blob", len(nums))
	}
}
