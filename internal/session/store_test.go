// ABOUTME: Tests for token storage
// ABOUTME: Validates persistence across instances, clearing, and corrupt storage handling

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestFileStore_EmptyDir(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, ok := s.Token(); ok {
		t.Error("expected no token in fresh directory")
	}
	if s.IsAuthenticated() {
		t.Error("expected IsAuthenticated false without token")
	}
}

func TestFileStore_SurvivesReload(t *testing.T) {
	dir := t.TempDir()
	if err := NewFileStore(dir).SetToken("tok-123"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}

	// A new instance simulates a process restart
	reloaded := NewFileStore(dir)
	token, ok := reloaded.Token()
	if !ok || token != "tok-123" {
		t.Errorf("expected tok-123 after reload, got %q (ok=%t)", token, ok)
	}
	if !reloaded.IsAuthenticated() {
		t.Error("expected IsAuthenticated true")
	}
}

func TestFileStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	if err := s.SetToken("secret"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600, got %o", perm)
	}
}

func TestFileStore_Clear(t *testing.T) {
	s := NewFileStore(t.TempDir())
	s.SetToken("tok")

	if err := s.ClearToken(); err != nil {
		t.Fatalf("ClearToken() error: %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Error("expected token cleared")
	}
	// Clearing twice is fine
	if err := s.ClearToken(); err != nil {
		t.Errorf("second ClearToken() error: %v", err)
	}
}

func TestFileStore_ReplaceToken(t *testing.T) {
	s := NewFileStore(t.TempDir())
	s.SetToken("first")
	s.SetToken("second")

	if token, _ := s.Token(); token != "second" {
		t.Errorf("expected second, got %s", token)
	}
}

func TestFileStore_SetEmptyClears(t *testing.T) {
	s := NewFileStore(t.TempDir())
	s.SetToken("tok")
	s.SetToken("")

	if s.IsAuthenticated() {
		t.Error("expected empty token to clear storage")
	}
}

func TestFileStore_CorruptFileReadsAsNoToken(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "session.json"), []byte("not json"), 0600)

	s := NewFileStore(dir)
	if _, ok := s.Token(); ok {
		t.Error("expected corrupt storage to read as no token")
	}
}

func TestFileStore_NoConfigDir(t *testing.T) {
	s := NewFileStore("")

	if _, ok := s.Token(); ok {
		t.Error("expected no token without config dir")
	}
	if err := s.SetToken("tok"); err == nil {
		t.Error("expected SetToken to fail without config dir")
	}
	if err := s.ClearToken(); err != nil {
		t.Errorf("ClearToken() without dir should be a no-op, got %v", err)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	if got := DefaultConfigDir(); got != "/tmp/xdg/freelancehub" {
		t.Errorf("expected /tmp/xdg/freelancehub, got %s", got)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore("")
	if m.IsAuthenticated() {
		t.Error("expected empty memory store to be unauthenticated")
	}
	m.SetToken("abc")
	if tok, ok := m.Token(); !ok || tok != "abc" {
		t.Errorf("expected abc, got %q", tok)
	}
	m.ClearToken()
	if m.IsAuthenticated() {
		t.Error("expected cleared")
	}
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"expired jwt", signed(t, now.Add(-time.Hour)), true},
		{"valid jwt", signed(t, now.Add(time.Hour)), false},
		{"opaque token", "opaque-token-value", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expired(tt.token, now); got != tt.want {
				t.Errorf("Expired() = %t, want %t", got, tt.want)
			}
		})
	}
}
