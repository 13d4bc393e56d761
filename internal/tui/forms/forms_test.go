// ABOUTME: Tests for the login, register and post forms
// ABOUTME: Checks validation helpers and cancel handling

package forms

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestForm_EscCancels(t *testing.T) {
	f := NewLogin("")
	f.Init()

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command on esc")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}

func TestForm_ViewShowsError(t *testing.T) {
	f := NewLogin("ada@example.com")
	f.Init()
	f.SetError("Invalid credentials")

	if !strings.Contains(f.View(), "Invalid credentials") {
		t.Error("expected error message in view")
	}
}

func TestForms_Render(t *testing.T) {
	for name, f := range map[string]*Form{
		"login":    NewLogin(""),
		"register": NewRegister(),
		"post":     NewPost(),
	} {
		f.Init()
		if f.View() == "" {
			t.Errorf("%s: expected non-empty view", name)
		}
	}
}

func TestRequired(t *testing.T) {
	check := required("Password is required")
	if err := check("  "); err == nil || err.Error() != "Password is required" {
		t.Errorf("expected required error, got %v", err)
	}
	if err := check("pw"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
