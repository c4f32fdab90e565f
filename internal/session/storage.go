package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/avdeyev/zmx/internal/shared"
)

// Storage is the single persistence adapter for session state.
//
// The original web client kept tokens in two inconsistently synced stores
// (cookies and local storage); here exactly one backend owns the persisted
// session and implementations are swappable.
type Storage interface {
	// Load returns the persisted session, or nil when none exists.
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

const sessionFileName = "session.json"

// FileStorage persists the session as a JSON file, mode 0600.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage rooted at dir. An empty dir selects
// the default state directory (~/.zmx).
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		home, err := shared.HomeDir()
		if err != nil {
			return nil, err
		}
		dir = home
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &FileStorage{path: filepath.Join(dir, sessionFileName)}, nil
}

// Path returns the session file location.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionCorrupt, err)
	}

	return &sess, nil
}

func (f *FileStorage) Save(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

func (f *FileStorage) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStorage keeps the session in memory. Used by tests and as a
// fallback when no state directory is available.
type MemoryStorage struct {
	sess *Session
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (*Session, error) {
	if m.sess == nil {
		return nil, nil
	}
	copied := *m.sess
	return &copied, nil
}

func (m *MemoryStorage) Save(sess *Session) error {
	copied := *sess
	m.sess = &copied
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.sess = nil
	return nil
}
