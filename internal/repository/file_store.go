package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/domain"
)

// FileStore keeps the ledger document in a flat JSON file.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the document location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document. Missing or unreadable files yield the empty state.
func (s *FileStore) Load(ctx context.Context) (domain.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("no ledger file yet; starting empty", zap.String("path", s.path))
		} else {
			s.logger.Warn("unreadable ledger file; starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return domain.EmptyState(), nil
	}
	return decodeOrEmpty(data, s.logger, s.path), nil
}

// Save overwrites the document by writing a temp file and renaming it over
// the original, so a crash never leaves a half-written file behind.
func (s *FileStore) Save(ctx context.Context, state domain.State) error {
	data, err := EncodeDocument(state)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace ledger file: %w", err)
	}

	s.logger.Debug("ledger saved", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}

// Ping checks that the document directory exists.
func (s *FileStore) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
