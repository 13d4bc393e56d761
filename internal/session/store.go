// ABOUTME: Durable bearer-token storage for the marketplace session
// ABOUTME: Stores the token under a fixed key in the XDG config directory

package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TokenKey is the fixed storage key the token is persisted under
const TokenKey = "auth_token"

// Store is the token lifecycle used by the auth state machine and the HTTP client
type Store interface {
	// Token returns the persisted token; ok is false when there is none
	Token() (token string, ok bool)
	SetToken(token string) error
	ClearToken() error
	// IsAuthenticated is a local check only; the token is not validated
	IsAuthenticated() bool
}

// FileStore persists the token as JSON in a config directory
type FileStore struct {
	configDir string
	mu        sync.Mutex
}

type sessionData struct {
	Token   string    `json:"auth_token"`
	SavedAt time.Time `json:"saved_at"`
}

// NewFileStore creates a token store rooted at configDir
func NewFileStore(configDir string) *FileStore {
	return &FileStore{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following the XDG base directory layout
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "freelancehub")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "freelancehub")
}

// path returns the session file location
func (s *FileStore) path() string {
	return filepath.Join(s.configDir, "session.json")
}

// Token reads the persisted token. Any storage failure reads as "no token".
func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.configDir == "" {
		return "", false
	}

	data, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return "", false
	}
	if err != nil {
		slog.Warn("Token storage unreadable, treating as signed out", "error", err)
		return "", false
	}

	var sd sessionData
	if err := json.Unmarshal(data, &sd); err != nil {
		slog.Warn("Token storage corrupt, treating as signed out", "error", err)
		return "", false
	}
	if sd.Token == "" {
		return "", false
	}
	return sd.Token, true
}

// SetToken replaces the persisted token. An empty token clears it.
func (s *FileStore) SetToken(token string) error {
	if token == "" {
		return s.ClearToken()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.configDir == "" {
		return errors.New("no config directory for token storage")
	}
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sessionData{Token: token, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so a crash never leaves a half-written token
	tmp, err := os.CreateTemp(s.configDir, "session-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path())
}

// ClearToken removes the persisted token
func (s *FileStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.configDir == "" {
		return nil
	}
	err := os.Remove(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// IsAuthenticated reports whether a token is currently persisted
func (s *FileStore) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// MemoryStore keeps the token in process memory only
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates an in-memory store, optionally pre-seeded
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) ClearToken() error {
	return m.SetToken("")
}

func (m *MemoryStore) IsAuthenticated() bool {
	_, ok := m.Token()
	return ok
}
