package types

import (
	"fmt"

	"golang.org/x/exp/mmap"
)

// Attachment is persisted metadata pointing at a contiguous byte range of a
// file on disk. The bytes themselves are never copied into the store.
type Attachment struct {
	Name     string
	MimeType string
	Path     string
	Start    uint64
	Len      uint64
}

// AttachmentReadError reports a failure to read an attachment's backing
// file, e.g. because it was moved or deleted. It is surfaced for display
// and never treated as store corruption.
type AttachmentReadError struct {
	Path string
	Err  error
}

func (e *AttachmentReadError) Error() string {
	return fmt.Sprintf("read attachment %s: %v", e.Path, e.Err)
}

func (e *AttachmentReadError) Unwrap() error {
	return e.Err
}

// ReadData reads the attachment's byte range through a scoped read-only
// memory mapping, so large MMS parts are never buffered beyond the access.
func (a *Attachment) ReadData() ([]byte, error) {
	r, err := mmap.Open(a.Path)
	if err != nil {
		return nil, &AttachmentReadError{Path: a.Path, Err: err}
	}
	defer func() { _ = r.Close() }()

	if a.Start+a.Len > uint64(r.Len()) {
		return nil, &AttachmentReadError{
			Path: a.Path,
			Err:  fmt.Errorf("range %d+%d exceeds file size %d", a.Start, a.Len, r.Len()),
		}
	}

	buf := make([]byte, a.Len)
	if _, err := r.ReadAt(buf, int64(a.Start)); err != nil {
		return nil, &AttachmentReadError{Path: a.Path, Err: err}
	}
	return buf, nil
}
