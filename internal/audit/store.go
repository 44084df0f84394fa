package audit

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jinftw64/dicomweb-pacs/internal/config"
)

// Event kinds recorded by the gateway.
const (
	KindFind      = "find"
	KindRetrieve  = "retrieve"
	KindTranscode = "transcode"
)

// Event is one recorded gateway operation. Purely observational; losing an
// event never fails the request that produced it.
type Event struct {
	ID             int64
	Time           time.Time
	Kind           string
	Level          string
	StudyUID       string
	SeriesUID      string
	ObjectUID      string
	TransferSyntax string
	CacheHit       bool
	DurationMS     int64
	Outcome        string
}

// Store persists audit events in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL,
    kind TEXT NOT NULL,
    level TEXT NOT NULL DEFAULT '',
    study_uid TEXT NOT NULL DEFAULT '',
    series_uid TEXT NOT NULL DEFAULT '',
    object_uid TEXT NOT NULL DEFAULT '',
    transfer_syntax TEXT NOT NULL DEFAULT '',
    cache_hit INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    outcome TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events(created_at);
`

// Open initializes or connects to the audit database in the log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "audit.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply audit schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Record inserts one event.
func (s *Store) Record(ctx context.Context, evt Event) error {
	if s == nil || s.db == nil {
		return nil
	}
	when := evt.Time
	if when.IsZero() {
		when = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events (
            created_at, kind, level, study_uid, series_uid, object_uid,
            transfer_syntax, cache_hit, duration_ms, outcome
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		when.UTC().Format(time.RFC3339Nano),
		evt.Kind,
		evt.Level,
		evt.StudyUID,
		evt.SeriesUID,
		evt.ObjectUID,
		evt.TransferSyntax,
		boolToInt(evt.CacheHit),
		evt.DurationMS,
		evt.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, kind, level, study_uid, series_uid, object_uid,
                transfer_syntax, cache_hit, duration_ms, outcome
           FROM audit_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var evt Event
		var createdAt string
		var cacheHit int
		if err := rows.Scan(&evt.ID, &createdAt, &evt.Kind, &evt.Level,
			&evt.StudyUID, &evt.SeriesUID, &evt.ObjectUID,
			&evt.TransferSyntax, &cacheHit, &evt.DurationMS, &evt.Outcome); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			evt.Time = parsed
		}
		evt.CacheHit = cacheHit != 0
		events = append(events, evt)
	}
	return events, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
