package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the journal in a single SQLite file
type SQLiteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (or creates) the journal at path and applies its schema
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgOpenJournal, err)
	}
	// a single writer avoids SQLITE_BUSY between concurrent publishers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf(ErrMsgOpenJournal, err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf(ErrMsgMigrateJournal, err)
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS journal (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			event_type   TEXT NOT NULL,
			character_id TEXT,
			payload      TEXT NOT NULL,
			metadata     TEXT,
			occurred_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_occurred ON journal(occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_character ON journal(character_id, occurred_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Append implements Repository
func (r *SQLiteRepository) Append(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf(ErrMsgAppendEntry, err)
	}
	var metadata sql.NullString
	if len(entry.Metadata) > 0 {
		b, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf(ErrMsgAppendEntry, err)
		}
		metadata = sql.NullString{String: string(b), Valid: true}
	}
	var characterID sql.NullString
	if entry.CharacterID != nil {
		characterID = sql.NullString{String: *entry.CharacterID, Valid: true}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO journal (event_type, character_id, payload, metadata, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		entry.EventType, characterID, string(payload), metadata, entry.OccurredAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf(ErrMsgAppendEntry, err)
	}
	return nil
}

// Entries implements Repository
func (r *SQLiteRepository) Entries(ctx context.Context, filter Filter) ([]Entry, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.CharacterID != nil {
		where = append(where, "character_id = ?")
		args = append(args, *filter.CharacterID)
	}
	if filter.EventType != nil {
		where = append(where, "event_type = ?")
		args = append(args, *filter.EventType)
	}
	if filter.Since != nil {
		where = append(where, "occurred_at >= ?")
		args = append(args, filter.Since.UTC().UnixNano())
	}
	if filter.Until != nil {
		where = append(where, "occurred_at < ?")
		args = append(args, filter.Until.UTC().UnixNano())
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT id, event_type, character_id, payload, metadata, occurred_at FROM journal`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryEntries, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			characterID sql.NullString
			payload     string
			metadata    sql.NullString
			occurred    int64
		)
		if err := rows.Scan(&e.ID, &e.EventType, &characterID, &payload, &metadata, &occurred); err != nil {
			return nil, fmt.Errorf(ErrMsgQueryEntries, err)
		}
		if characterID.Valid {
			id := characterID.String
			e.CharacterID = &id
		}
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, fmt.Errorf(ErrMsgQueryEntries, err)
		}
		if metadata.Valid {
			if err := json.Unmarshal([]byte(metadata.String), &e.Metadata); err != nil {
				return nil, fmt.Errorf(ErrMsgQueryEntries, err)
			}
		}
		e.OccurredAt = time.Unix(0, occurred).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(ErrMsgQueryEntries, err)
	}
	return entries, nil
}

// DeleteBefore implements Repository
func (r *SQLiteRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, err := r.db.ExecContext(ctx, `DELETE FROM journal WHERE occurred_at < ?`, cutoff.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf(ErrMsgDeleteEntries, err)
	}
	return res.RowsAffected()
}
