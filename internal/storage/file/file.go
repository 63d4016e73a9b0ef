// Package file stores each user's ledger as a JSON document named
// <user>_data.json inside a data directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/storage"
)

type Store struct {
	dir string
}

var _ storage.Repository = (*Store)(nil)

// New creates the data directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the snapshot file for userID.
func (s *Store) Path(userID string) (string, error) {
	id, err := storage.NormalizeUserID(userID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+"_data.json"), nil
}

func (s *Store) Load(ctx context.Context, userID string) (core.Ledger, error) {
	path, err := s.Path(userID)
	if err != nil {
		return core.NewLedger(), err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.NewLedger(), nil
	}
	if err != nil {
		return core.NewLedger(), fmt.Errorf("read %s: %w", path, err)
	}
	l, err := storage.DecodeSnapshot(data)
	if err != nil {
		return l, fmt.Errorf("load %s: %w", path, err)
	}
	slog.DebugContext(ctx, "Ledger loaded from file", "path", path)
	return l, nil
}

// Save writes the snapshot to a temporary file and renames it into place.
func (s *Store) Save(ctx context.Context, userID string, l core.Ledger) error {
	path, err := s.Path(userID)
	if err != nil {
		return err
	}
	data, err := storage.EncodeSnapshot(l)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	slog.DebugContext(ctx, "Ledger saved to file", "path", path)
	return nil
}
