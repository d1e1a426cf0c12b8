package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/marquee/internal/catalog"
)

// ErrNoSession is returned when no usable session is persisted: the file is
// missing, unreadable, corrupt or holds an expired token.
var ErrNoSession = errors.New("no persisted session")

// Session is the persisted token and user pair.
type Session struct {
	Token   string       `toml:"token"`
	User    catalog.User `toml:"user"`
	SavedAt time.Time    `toml:"saved_at"`
}

// Store persists a Session between runs.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// FileStore keeps the session in a TOML file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path. A leading ~ is expanded.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the resolved session file path.
func (s *FileStore) Path() string {
	resolved, err := expandPath(s.path)
	if err != nil {
		return s.path
	}
	return resolved
}

// Load reads the session. Any failure is reported as ErrNoSession wrapping
// the cause.
func (s *FileStore) Load() (Session, error) {
	resolved, err := expandPath(s.path)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	var sess Session
	if err := toml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("%w: parse %s: %v", ErrNoSession, resolved, err)
	}
	sess.Token = strings.TrimSpace(sess.Token)
	if sess.Token == "" {
		return Session{}, fmt.Errorf("%w: empty token", ErrNoSession)
	}
	return sess, nil
}

// Save writes sess, creating parent directories as needed.
func (s *FileStore) Save(sess Session) error {
	resolved, err := expandPath(s.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := toml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (s *FileStore) Clear() error {
	resolved, err := expandPath(s.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
