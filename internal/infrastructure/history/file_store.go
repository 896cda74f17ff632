package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/ports"
)

// FileStore appends journal records to a JSONL file. Used directly in tests
// and as the degraded mode when SQLite is unavailable.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a JSONL-backed journal at path (default
// ~/.vshell/history/history.jsonl when empty).
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = filepath.Join(userHome(), ".vshell", "history", "history.jsonl")
	}
	return &FileStore{path: path}
}

// Save implements ports.HistoryRepository.
func (f *FileStore) Save(record domain.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = file.Write(append(raw, '\n'))
	return err
}

// Recent implements ports.HistoryRepository.
func (f *FileStore) Recent(n int) ([]domain.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n <= 0 {
		n = 10
	}
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var records []domain.HistoryRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec domain.HistoryRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}

// Clear implements ports.HistoryRepository.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, nil, 0o644)
}

var _ ports.HistoryRepository = (*FileStore)(nil)
