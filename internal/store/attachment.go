package store

import (
	"fmt"

	"github.com/ikidd/vgmms/internal/types"
)

// InsertAttachment stores attachment metadata and its file-range pointer.
// The bytes themselves stay on disk.
func (db *DB) InsertAttachment(id types.AttachmentID, att *types.Attachment) error {
	_, err := db.Exec(`
		INSERT INTO attachments (id, name, mime_type, path, start, len)
		VALUES (?, ?, ?, ?, ?, ?)`,
		int64(id), []byte(att.Name), att.MimeType, []byte(att.Path), int64(att.Start), int64(att.Len))
	if err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

// AllAttachments streams the attachment table into a map for the startup
// rebuild, skipping malformed rows.
func (db *DB) AllAttachments() (map[types.AttachmentID]types.Attachment, []error, error) {
	rows, err := db.Query(`SELECT id, name, mime_type, path, start, len FROM attachments`)
	if err != nil {
		return nil, nil, fmt.Errorf("query attachments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	atts := make(map[types.AttachmentID]types.Attachment)
	var rowErrs []error
	for rows.Next() {
		var id, start, length int64
		var name, path []byte
		var mimeType string
		if err := rows.Scan(&id, &name, &mimeType, &path, &start, &length); err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("scan attachment: %w", err))
			continue
		}
		atts[types.AttachmentID(id)] = types.Attachment{
			Name:     string(name),
			MimeType: mimeType,
			Path:     string(path),
			Start:    uint64(start),
			Len:      uint64(length),
		}
	}
	return atts, rowErrs, rows.Err()
}
