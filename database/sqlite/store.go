// Package sqlite provides an embedded ledger store for single-process use.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/combiner/core/ledger"
	"github.com/siherrmann/combiner/model"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS combinations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	rid TEXT NOT NULL,
	label TEXT NOT NULL UNIQUE,
	count INTEGER NOT NULL DEFAULT 1 CHECK (count >= 1),
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_combinations_count ON combinations (count DESC, label);

CREATE TABLE IF NOT EXISTS activity_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	rid TEXT NOT NULL,
	type TEXT NOT NULL,
	label TEXT NOT NULL,
	ancestors TEXT NOT NULL DEFAULT '[]',
	count INTEGER NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_events_label ON activity_events (label, created_at DESC);
`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is a SQLite-backed ledger store and activity sink
type Store struct {
	sqlDB *sql.DB
}

var (
	_ ledger.Store        = (*Store)(nil)
	_ ledger.ActivitySink = (*Store)(nil)
)

// Open opens a SQLite store at the provided path and creates the schema.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer, and an in-memory database exists per connection
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// DB returns the underlying sql.DB instance.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// InsertCombination creates the record for label with count 1
func (s *Store) InsertCombination(ctx context.Context, label string) (*model.CombinationRecord, error) {
	now := toMillis(time.Now())
	row := s.sqlDB.QueryRowContext(ctx, `
INSERT INTO combinations (rid, label, count, created_at, updated_at)
VALUES (?, ?, 1, ?, ?)
RETURNING id, rid, label, count, created_at, updated_at
`,
		uuid.NewString(),
		label,
		now,
		now,
	)

	record, err := scanCombination(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrDuplicateCombination
		}
		return nil, fmt.Errorf("insert combination: %w", err)
	}
	return record, nil
}

// SelectCombinationByLabel returns the record for label, nil if there is none
func (s *Store) SelectCombinationByLabel(ctx context.Context, label string) (*model.CombinationRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, rid, label, count, created_at, updated_at
FROM combinations
WHERE label = ?
`, label)

	record, err := scanCombination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select combination: %w", err)
	}
	return record, nil
}

// IncrementCombinationCount adds one to the count of record id
func (s *Store) IncrementCombinationCount(ctx context.Context, id int64) (*model.CombinationRecord, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
UPDATE combinations
SET count = count + 1, updated_at = ?
WHERE id = ?
RETURNING id, rid, label, count, created_at, updated_at
`,
		toMillis(time.Now()),
		id,
	)

	record, err := scanCombination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("increment combination: %w", err)
	}
	return record, nil
}

// SelectTopCombinations returns up to limit records by descending count.
// A non-positive limit returns all records.
func (s *Store) SelectTopCombinations(ctx context.Context, limit int) ([]*model.CombinationRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, rid, label, count, created_at, updated_at
FROM combinations
ORDER BY count DESC, label ASC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("select top combinations: %w", err)
	}
	defer rows.Close()

	var records []*model.CombinationRecord
	for rows.Next() {
		record, err := scanCombination(rows)
		if err != nil {
			return nil, fmt.Errorf("scan combination: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate combinations: %w", err)
	}
	return records, nil
}

// InsertActivityEvent stores event and sets its ID, RID and CreatedAt
func (s *Store) InsertActivityEvent(ctx context.Context, event *model.ActivityEvent) error {
	ancestors := event.Ancestors
	if ancestors == nil {
		ancestors = []string{}
	}
	encodedAncestors, err := json.Marshal(ancestors)
	if err != nil {
		return fmt.Errorf("marshal ancestors: %w", err)
	}
	encodedMetadata, err := event.Metadata.Marshal()
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	rid := uuid.New()
	createdAt := time.Now().UTC()
	row := s.sqlDB.QueryRowContext(ctx, `
INSERT INTO activity_events (rid, type, label, ancestors, count, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`,
		rid.String(),
		string(event.Type),
		event.Label,
		string(encodedAncestors),
		event.Count,
		string(encodedMetadata),
		toMillis(createdAt),
	)
	if err := row.Scan(&event.ID); err != nil {
		return fmt.Errorf("insert activity event: %w", err)
	}

	event.RID = rid
	event.CreatedAt = fromMillis(toMillis(createdAt))
	return nil
}

// SelectActivityEventsByLabel returns the newest events of label first
func (s *Store) SelectActivityEventsByLabel(ctx context.Context, label string, limit int) ([]*model.ActivityEvent, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, rid, type, label, ancestors, count, metadata, created_at
FROM activity_events
WHERE label = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`, label, limit)
	if err != nil {
		return nil, fmt.Errorf("select activity events: %w", err)
	}
	defer rows.Close()

	var events []*model.ActivityEvent
	for rows.Next() {
		var (
			event     model.ActivityEvent
			rid       string
			eventType string
			ancestors string
			createdAt int64
		)
		if err := rows.Scan(&event.ID, &rid, &eventType, &event.Label, &ancestors, &event.Count, &event.Metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		if err := json.Unmarshal([]byte(ancestors), &event.Ancestors); err != nil {
			return nil, fmt.Errorf("unmarshal ancestors: %w", err)
		}
		event.RID, err = uuid.Parse(rid)
		if err != nil {
			return nil, fmt.Errorf("parse rid: %w", err)
		}
		event.Type = model.EventType(eventType)
		event.CreatedAt = fromMillis(createdAt)
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity events: %w", err)
	}
	return events, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCombination(row scanner) (*model.CombinationRecord, error) {
	var (
		record    model.CombinationRecord
		rid       string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&record.ID, &rid, &record.Label, &record.Count, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(rid)
	if err != nil {
		return nil, fmt.Errorf("parse rid: %w", err)
	}
	record.RID = parsed
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return &record, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
