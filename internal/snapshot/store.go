package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotExist marks a snapshot that has never been written.
var ErrNotExist = errors.New("snapshot does not exist")

// Store persists named tables and, alongside them, the small high-water
// marks the freshness check depends on.
type Store interface {
	Write(name string, data []byte) error
	// Read returns the persisted bytes for name. Absent snapshots are
	// reported with ErrNotExist so callers can tell them from IO faults.
	Read(name string) ([]byte, error)

	WriteMark(name string, mark int64) error
	// ReadMark returns the stored high-water mark. An absent or
	// unreadable mark reads as zero, meaning "never stored".
	ReadMark(name string) int64
}

// FileStore keeps each table as a JSON file in a cache directory, with a
// sidecar file per freshness mark.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Write(name string, data []byte) error {
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", name, err)
	}

	return nil
}

func (s *FileStore) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("snapshot %s: %w", name, ErrNotExist)
		}

		return nil, fmt.Errorf("reading snapshot %s: %w", name, err)
	}

	return data, nil
}

type markFile struct {
	MaxTransactionStored int64 `json:"max_transaction_stored"`
}

func (s *FileStore) WriteMark(name string, mark int64) error {
	data, err := json.Marshal(markFile{MaxTransactionStored: mark})
	if err != nil {
		return fmt.Errorf("encoding mark %s: %w", name, err)
	}

	if err := os.WriteFile(s.markPath(name), data, 0o644); err != nil {
		return fmt.Errorf("writing mark %s: %w", name, err)
	}

	return nil
}

func (s *FileStore) ReadMark(name string) int64 {
	data, err := os.ReadFile(s.markPath(name))
	if err != nil {
		return 0
	}

	var m markFile
	if err := json.Unmarshal(data, &m); err != nil {
		return 0
	}

	return m.MaxTransactionStored
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) markPath(name string) string {
	return filepath.Join(s.dir, name+"_check.json")
}
