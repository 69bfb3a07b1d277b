package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"github.com/upca/personnel-console/internal/core/access"
)

const (
	// TokenKey holds the "is authenticated" marker, never a token.
	TokenKey = "upca_token"
	// UserKey holds the identity as a JSON object.
	UserKey = "upca_user"

	authenticatedMarker = "authenticated"
)

// Store is durable storage for the session identity. Load returns nil when
// nothing usable is stored.
type Store interface {
	Load() (*User, error)
	Save(u User) error
	Clear() error
}

// FileStore keeps the two session keys in a JSON file through viper.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) viper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	v.SetConfigPermissions(0o600)
	return v
}

func (s *FileStore) Load() (*User, error) {
	v := s.viper()
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return decode(v.GetString(TokenKey), v.GetString(UserKey))
}

func (s *FileStore) Save(u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	v := s.viper()
	v.Set(TokenKey, authenticatedMarker)
	v.Set(UserKey, string(raw))
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the two keys in memory. Used by tests and by callers
// that do not want a session to outlive the process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Load() (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decode(s.values[TokenKey], s.values[UserKey])
}

func (s *MemoryStore) Save(u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[TokenKey] = authenticatedMarker
	s.values[UserKey] = string(raw)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.values)
	return nil
}

// Set writes a raw key. Tests use it to plant corrupt or partial state.
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// decode requires both the marker and a complete identity.
func decode(marker, rawUser string) (*User, error) {
	if marker != authenticatedMarker || rawUser == "" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	if u.ID == "" || u.Email == "" {
		return nil, errors.New("stored user is incomplete")
	}
	if _, err := access.ParseRole(string(u.Role)); err != nil {
		return nil, fmt.Errorf("stored user: %w", err)
	}
	return &u, nil
}
