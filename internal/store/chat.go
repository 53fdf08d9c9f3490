package store

import (
	"database/sql"
	"fmt"

	"github.com/ikidd/vgmms/internal/types"
)

// ClosedTab is the tab position reported for chats without an open tab.
const ClosedTab = -1

// LastMessage is a chat's last-message pointer: timestamp plus message id.
type LastMessage struct {
	Time uint64
	ID   types.MessageID
}

// ChatRecord is one row of the chats table joined with its last message.
type ChatRecord struct {
	Chat  types.Chat
	TabID int
	Last  *LastMessage
}

func tabValue(tabID int) any {
	if tabID < 0 {
		return nil
	}
	return tabID
}

// InsertChat creates a chat row with no last-message pointer. tabID < 0
// records the chat as closed.
func (db *DB) InsertChat(chat types.Chat, tabID int) error {
	_, err := db.Exec(`INSERT INTO chats (numbers, tab_id, last_msg_id) VALUES (?, ?, NULL)`,
		encodeNumbers(chat.Numbers), tabValue(tabID))
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

// OpenChat places a chat at tab position tabID, shifting every open tab at
// that position or later right by one. The whole move is transactional.
func (db *DB) OpenChat(chat types.Chat, tabID int) error {
	if tabID < 0 {
		return fmt.Errorf("open chat: invalid tab position %d", tabID)
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("open chat: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// tab_id is UNIQUE and SQLite checks the constraint per updated row, so
	// shift through a disjoint negative range: t -> -(t+2) -> t+1.
	if _, err := tx.Exec(`UPDATE chats SET tab_id = -(tab_id + 2) WHERE tab_id >= ?`, tabID); err != nil {
		return fmt.Errorf("open chat: shift tabs: %w", err)
	}
	if _, err := tx.Exec(`UPDATE chats SET tab_id = -tab_id - 1 WHERE tab_id <= -2`); err != nil {
		return fmt.Errorf("open chat: shift tabs: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO chats (numbers, tab_id, last_msg_id) VALUES (?, ?, NULL)
		ON CONFLICT(numbers) DO UPDATE SET tab_id = excluded.tab_id`,
		encodeNumbers(chat.Numbers), tabID); err != nil {
		return fmt.Errorf("open chat: %w", err)
	}
	return tx.Commit()
}

// SetChatTab moves an existing chat to tab position tabID without shifting
// other tabs. tabID < 0 closes it.
func (db *DB) SetChatTab(chat types.Chat, tabID int) error {
	_, err := db.Exec(`UPDATE chats SET tab_id = ? WHERE numbers = ?`,
		tabValue(tabID), encodeNumbers(chat.Numbers))
	if err != nil {
		return fmt.Errorf("set chat tab: %w", err)
	}
	return nil
}

// CloseChat clears a chat's tab position. The chat row itself is kept.
func (db *DB) CloseChat(chat types.Chat) error {
	_, err := db.Exec(`UPDATE chats SET tab_id = NULL WHERE numbers = ?`,
		encodeNumbers(chat.Numbers))
	if err != nil {
		return fmt.Errorf("close chat: %w", err)
	}
	return nil
}

// AllChats streams every chat with its open-tab position (ClosedTab when
// closed) and last-message pointer, ordered by tab. Individually malformed
// rows are returned separately so the caller can log and skip them.
func (db *DB) AllChats() ([]ChatRecord, []error, error) {
	rows, err := db.Query(`
		SELECT chats.numbers, chats.tab_id, chats.last_msg_id, messages.time
		FROM chats LEFT JOIN messages ON chats.last_msg_id = messages.id
		ORDER BY chats.tab_id`)
	if err != nil {
		return nil, nil, fmt.Errorf("query chats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ChatRecord
	var rowErrs []error
	for rows.Next() {
		var numbersBlob, lastIDBlob []byte
		var tabID, msgTime sql.NullInt64
		if err := rows.Scan(&numbersBlob, &tabID, &lastIDBlob, &msgTime); err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("scan chat: %w", err))
			continue
		}

		numbers, err := decodeNumbers(numbersBlob)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("chat numbers: %w", err))
			continue
		}

		rec := ChatRecord{Chat: types.Chat{Numbers: numbers}, TabID: ClosedTab}
		if tabID.Valid {
			rec.TabID = int(tabID.Int64)
		}
		if len(lastIDBlob) > 0 && msgTime.Valid {
			id, err := types.MessageIDFromBytes(lastIDBlob)
			if err == nil {
				rec.Last = &LastMessage{Time: uint64(msgTime.Int64), ID: id}
			}
		}
		records = append(records, rec)
	}
	return records, rowErrs, rows.Err()
}
