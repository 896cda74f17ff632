// Package history persists the append-only interaction journal: one record
// per utterance with its timestamp, raw text, intent kind and outcome line.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/ports"
)

// SQLiteStore persists the journal in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the journal database. An empty path
// means ~/.vshell/history/history.db. When the database cannot be opened the
// store degrades to the JSONL FileStore next to it.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(userHome(), ".vshell", "history", "history.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		text TEXT,
		intent TEXT,
		outcome TEXT
	);`)
	return err
}

// Save appends one record.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	if s.db == nil {
		return s.fallback().Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO interactions (timestamp, text, intent, outcome) VALUES (?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339),
		record.Text,
		string(record.Intent),
		record.Outcome,
	)
	return err
}

// Recent returns the newest n entries in chronological order (oldest of the
// requested window first).
func (s *SQLiteStore) Recent(n int) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return s.fallback().Recent(n)
	}
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.Query(`SELECT timestamp, text, intent, outcome FROM interactions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts, intent string
		if err := rows.Scan(&ts, &rec.Text, &intent, &rec.Outcome); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Intent = domain.IntentKind(intent)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Rows came newest-first; flip to chronological.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Clear truncates the journal.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback().Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM interactions`)
	return err
}

// Path returns the database path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) fallback() *FileStore {
	return &FileStore{path: s.path + ".jsonl"}
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
