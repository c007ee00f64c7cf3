package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"ai-quiz-service/internal/domain"
)

// FileHistoryStore is a HistoryStore that survives restarts: it loads a JSON
// snapshot on open and rewrites it after every Record.
type FileHistoryStore struct {
	*HistoryStore
	path string

	writeMu sync.Mutex
}

// OpenFileHistoryStore loads the snapshot at path. A missing file starts an empty history.
func OpenFileHistoryStore(path string) (*FileHistoryStore, error) {
	if path == "" {
		return nil, fmt.Errorf("history file path is empty")
	}

	var results []domain.QuizResult
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read history file: %w", err)
	case len(bytes.TrimSpace(data)) > 0:
		if err := json.Unmarshal(data, &results); err != nil {
			return nil, fmt.Errorf("decode history file %s: %w", path, err)
		}
	}

	return &FileHistoryStore{HistoryStore: NewHistoryStoreFrom(results), path: path}, nil
}

func (s *FileHistoryStore) Record(ctx context.Context, result domain.QuizResult) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.HistoryStore.Record(ctx, result); err != nil {
		return err
	}
	results, err := s.HistoryStore.List(ctx)
	if err != nil {
		return err
	}
	return s.snapshot(results)
}

// snapshot replaces the file via rename so readers never see a partial write.
func (s *FileHistoryStore) snapshot(results []domain.QuizResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create history snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write history snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write history snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
