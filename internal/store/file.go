package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/intake/internal/domain"
)

// FileStore writes each session to <dir>/session_<id>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file a session is stored in.
func (f *FileStore) Path(sessionID string) string {
	return filepath.Join(f.dir, documentName(sessionID))
}

func (f *FileStore) Load(_ context.Context, sessionID string) (*domain.State, error) {
	if err := checkID(sessionID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", documentName(sessionID), err)
	}
	return Decode(data)
}

// Save writes to a temporary file and renames it over the old document.
func (f *FileStore) Save(_ context.Context, sessionID string, state *domain.State) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, documentName(sessionID)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path(sessionID)); err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, sessionID string) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	err := os.Remove(f.Path(sessionID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing document: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
