package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vango-dev/statesync/internal/demo"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, store *demo.MemoryStore) Model {
	t.Helper()
	mode, err := demo.NewDeveloperMode(context.Background(), store,
		demo.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mode.Dispose)
	return New(mode)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func TestModelKeys(t *testing.T) {
	tests := []struct {
		name       string
		initial    bool
		keys       []string
		wantShown  bool
		wantActual bool
		wantPrompt bool
	}{
		{"toggle opens prompt", false, []string{" "}, true, false, true},
		{"confirm commits", false, []string{" ", "y"}, true, true, false},
		{"cancel rolls back", false, []string{" ", "n"}, false, false, false},
		{"esc rolls back", true, []string{" ", "esc"}, true, true, false},
		{"toggle back closes prompt", false, []string{" ", " "}, false, false, false},
		{"confirm without prompt is ignored", false, []string{"y"}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, newModel(t, demo.NewMemoryStore(tt.initial)), tt.keys...)
			st := m.mode.State()
			if st.Shown != tt.wantShown || st.Actual != tt.wantActual || st.Prompt != tt.wantPrompt {
				t.Errorf("state = %+v, want shown=%v actual=%v prompt=%v",
					st, tt.wantShown, tt.wantActual, tt.wantPrompt)
			}
			if m.err != nil {
				t.Errorf("unexpected error: %v", m.err)
			}
		})
	}
}

func TestModelSaveErrorShown(t *testing.T) {
	store := demo.NewMemoryStore(false)
	store.FailNext(errors.New("disk full"))
	m := press(t, newModel(t, store), " ", "y")

	if m.err == nil {
		t.Fatal("expected save error to be kept for display")
	}
	if st := m.mode.State(); st.Shown || st.Actual {
		t.Errorf("failed save should roll back: %+v", st)
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Errorf("view should show the error")
	}
}

func TestModelQuit(t *testing.T) {
	m := newModel(t, demo.NewMemoryStore(false))
	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q should quit")
	}
	if next.(Model).View() != "" {
		t.Errorf("view should be empty after quitting")
	}
}

func TestModelView(t *testing.T) {
	m := newModel(t, demo.NewMemoryStore(false))
	if v := m.View(); !strings.Contains(v, "off") || strings.Contains(v, "confirm  [n]") {
		t.Errorf("initial view = %q", v)
	}

	m = press(t, m, " ")
	v := m.View()
	for _, want := range []string{"Enable developer mode?", "[y] confirm"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q: %q", want, v)
		}
	}
}

func TestApplyRunsOnUpdate(t *testing.T) {
	m := newModel(t, demo.NewMemoryStore(false))
	ran := false
	m.Update(Apply(func() { ran = true }))
	if !ran {
		t.Errorf("Apply message should run its function")
	}
}

func TestModelBackgroundSaveErrorShown(t *testing.T) {
	store := demo.NewMemoryStore(false)
	store.FailNext(errors.New("disk full"))
	queued := make(chan func(), 1)
	mode, err := demo.NewDeveloperMode(context.Background(), store,
		demo.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		demo.WithDispatch(func(fn func()) error {
			queued <- fn
			return nil
		}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mode.Dispose)

	m := press(t, New(mode), " ", "y")
	if m.err != nil {
		t.Fatalf("background save should not report synchronously: %v", m.err)
	}
	next, _ := m.Update(Apply(<-queued))
	m = next.(Model)

	if st := m.mode.State(); st.Shown || st.Error != "disk full" {
		t.Errorf("state after failed background save = %+v", st)
	}
	if !strings.Contains(m.View(), "save failed: disk full") {
		t.Errorf("view should show the background save error")
	}
}
