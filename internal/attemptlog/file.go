package attemptlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/balenascatcher/bilge-simulasyon/internal/logger"
	"github.com/balenascatcher/bilge-simulasyon/internal/model"
)

// FileStore keeps the whole log as one JSON array on disk, the layout
// the original student_logs.json used. All appends run under a single
// mutex: the read-existing/append/rewrite sequence must never
// interleave. The rewrite goes through a temp file and rename so the
// file stays a parseable collection even if a write dies halfway.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		log:  logger.Get(),
	}
}

func (s *FileStore) Append(ctx context.Context, attempt model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := s.readAll()
	attempts = append(attempts, attempt)

	data, err := json.MarshalIndent(attempts, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal attempt log: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".attempts-*")
	if err != nil {
		return fmt.Errorf("failed to create temp log file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write attempt log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp log file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace attempt log: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context, assignment string) ([]model.Attempt, error) {
	s.mu.Lock()
	attempts := s.readAll()
	s.mu.Unlock()

	if assignment == "" {
		return attempts, nil
	}

	filtered := make([]model.Attempt, 0, len(attempts))
	for _, a := range attempts {
		if a.Assignment == assignment {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// readAll treats a missing, unreadable or corrupt log file as empty.
// Losing the ability to read history must not block new attempts from
// being recorded.
func (s *FileStore) readAll() []model.Attempt {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("Attempt log unreadable, starting empty")
		}
		return nil
	}

	var attempts []model.Attempt
	if err := json.Unmarshal(data, &attempts); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("Attempt log corrupt, starting empty")
		return nil
	}
	return attempts
}
