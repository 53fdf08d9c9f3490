package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ikidd/vgmms/internal/types"
)

// MessageRecord is one decoded row of the messages table.
type MessageRecord struct {
	ID      types.MessageID
	Message types.MessageInfo
}

// InsertMessage durably appends a message and updates the owning chat's
// last-message pointer in the same transaction. A message is never visible
// without its pointer update, or vice versa.
func (db *DB) InsertMessage(id types.MessageID, msg *types.MessageInfo) error {
	contents, err := types.EncodeContents(msg.Contents)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	chatBlob := encodeNumbers(msg.Chat)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO messages (id, sender, chat, time, contents, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id[:], int64(msg.Sender), chatBlob, int64(msg.Time), contents, int(msg.Status)); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	if _, err := tx.Exec(`UPDATE chats SET last_msg_id = ? WHERE numbers = ?`,
		id[:], chatBlob); err != nil {
		return fmt.Errorf("insert message: update last pointer: %w", err)
	}
	return tx.Commit()
}

// UpdateMessageStatus overwrites a message's status column.
func (db *DB) UpdateMessageStatus(id types.MessageID, status types.MessageStatus) error {
	_, err := db.Exec(`UPDATE messages SET status = ? WHERE id = ?`, int(status), id[:])
	if err != nil {
		return fmt.Errorf("update message status: %w", err)
	}
	return nil
}

// DeleteMessage removes a message row. Attachments referenced by the message
// are left in place; they are metadata pointing at user files, not owned
// blobs.
func (db *DB) DeleteMessage(id types.MessageID) error {
	_, err := db.Exec(`DELETE FROM messages WHERE id = ?`, id[:])
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// NextMessageID reads the current maximum message id and returns it
// incremented once. An empty table yields the zero id incremented once.
func (db *DB) NextMessageID() (types.MessageID, error) {
	var blob []byte
	err := db.QueryRow(`SELECT max(id) FROM messages`).Scan(&blob)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return types.MessageID{}, fmt.Errorf("next message id: %w", err)
	}

	var id types.MessageID
	if len(blob) > 0 {
		if id, err = types.MessageIDFromBytes(blob); err != nil {
			return types.MessageID{}, fmt.Errorf("next message id: %w", err)
		}
	}
	id.Increment()
	return id, nil
}

// NextAttachmentID reads the current maximum attachment id plus one,
// defaulting to 1 on an empty table.
func (db *DB) NextAttachmentID() (types.AttachmentID, error) {
	var max sql.NullInt64
	err := db.QueryRow(`SELECT max(id) FROM attachments`).Scan(&max)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("next attachment id: %w", err)
	}
	if !max.Valid {
		return 1, nil
	}
	return types.AttachmentID(max.Int64) + 1, nil
}

// AllMessages streams the full message table ordered by time, for the
// startup rebuild. Rows that fail to decode are returned as row errors so
// the caller can log and skip them instead of aborting the load.
func (db *DB) AllMessages() ([]MessageRecord, []error, error) {
	rows, err := db.Query(`SELECT id, sender, chat, time, contents, status FROM messages ORDER BY time`)
	if err != nil {
		return nil, nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []MessageRecord
	var rowErrs []error
	for rows.Next() {
		var idBlob, chatBlob, contentsBlob []byte
		var sender, msgTime, status int64
		if err := rows.Scan(&idBlob, &sender, &chatBlob, &msgTime, &contentsBlob, &status); err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("scan message: %w", err))
			continue
		}

		id, err := types.MessageIDFromBytes(idBlob)
		if err != nil {
			rowErrs = append(rowErrs, err)
			continue
		}
		chat, err := decodeNumbers(chatBlob)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("message %s: chat: %w", id, err))
			continue
		}
		contents, err := types.DecodeContents(contentsBlob)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("message %s: %w", id, err))
			continue
		}
		st, err := types.StatusFromInt(int(status))
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("message %s: %w", id, err))
			continue
		}

		records = append(records, MessageRecord{
			ID: id,
			Message: types.MessageInfo{
				Sender:   types.Number(sender),
				Chat:     chat,
				Time:     uint64(msgTime),
				Contents: contents,
				Status:   st,
			},
		})
	}
	return records, rowErrs, rows.Err()
}
