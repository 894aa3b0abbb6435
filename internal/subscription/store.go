package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Key is the record name used by every store.
const Key = "subscription"

// ErrNotFound is returned when no record has been saved yet.
var ErrNotFound = errors.New("subscription: record not found")

// Store persists the subscription record.
type Store interface {
	Load(ctx context.Context) (Status, error)
	Save(ctx context.Context, status Status) error
}

// FileStore keeps the record as a JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore stores the record at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted record if present.
func (s *FileStore) Load(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Status{}, ErrNotFound
		}
		return Status{}, fmt.Errorf("subscription: read %s: %w", s.path, err)
	}
	return decode(data)
}

// Save writes the record through a temp file and rename so a crash leaves
// either the old or the new record.
func (s *FileStore) Save(ctx context.Context, status Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("subscription: ensure dir: %w", err)
	}
	encoded, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("subscription: encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".subscription-*.json")
	if err != nil {
		return fmt.Errorf("subscription: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(encoded, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("subscription: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("subscription: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("subscription: replace %s: %w", s.path, err)
	}
	return nil
}

func decode(data []byte) (Status, error) {
	var status Status
	if err := json.Unmarshal(data, &status); err != nil {
		return Status{}, fmt.Errorf("subscription: decode: %w", err)
	}
	return status, nil
}
