// Package tui is a terminal frontend for the developer mode switch.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vango-dev/statesync/internal/demo"
)

// applyMsg carries work dispatched from a background save back onto the
// update loop.
type applyMsg struct {
	fn func()
}

// Apply wraps fn in a message that Model runs inside Update.
func Apply(fn func()) tea.Msg {
	return applyMsg{fn: fn}
}

// Model is the bubbletea model.
type Model struct {
	mode     *demo.DeveloperMode
	err      error
	quitting bool
}

// New creates a Model over mode.
func New(mode *demo.DeveloperMode) Model {
	return Model{mode: mode}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case applyMsg:
		msg.fn()
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case " ", "enter":
		if m.mode.State().Saving {
			return m, nil
		}
		m.mode.Toggle()
	case "y":
		m.err = ignoreNoPrompt(m.mode.Confirm())
	case "n", "esc":
		m.err = ignoreNoPrompt(m.mode.Cancel())
	}
	return m, nil
}

func ignoreNoPrompt(err error) error {
	if errors.Is(err, demo.ErrNoPrompt) {
		return nil
	}
	return err
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.mode.State()

	var b strings.Builder
	b.WriteString(styleTitle.Render("Developer mode"))
	b.WriteString("\n\n")
	b.WriteString(switchView(st))
	b.WriteString("  ")
	b.WriteString(statusStyle(st).Render(st.Status()))
	b.WriteString("\n")

	if st.Prompt {
		b.WriteString("\n")
		question := "Enable developer mode?"
		if !st.Target {
			question = "Disable developer mode?"
		}
		b.WriteString(stylePrompt.Render(question + "  [y] confirm  [n] cancel"))
		b.WriteString("\n")
	}
	switch {
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(styleError.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	case st.Error != "":
		b.WriteString("\n")
		b.WriteString(styleError.Render("save failed: " + st.Error))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleHelp.Render("space toggle · y confirm · n cancel · q quit"))
	return styleFrame.Render(b.String())
}

func switchView(st demo.State) string {
	if st.Shown {
		return styleOn.Render("[■ on ]")
	}
	return styleOff.Render("[ off □]")
}

func statusStyle(st demo.State) lipgloss.Style {
	switch {
	case st.Pending() || st.Saving:
		return stylePending
	case st.Actual:
		return styleOn
	default:
		return styleOff
	}
}

// Run loads the switch from store and runs the TUI until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, store demo.FlagStore, logger *slog.Logger) error {
	var prog *tea.Program
	dispatch := func(fn func()) error {
		if prog == nil {
			return errors.New("tui: program not started")
		}
		prog.Send(Apply(fn))
		return nil
	}

	mode, err := demo.NewDeveloperMode(ctx, store,
		demo.WithLogger(logger),
		demo.WithDispatch(dispatch),
	)
	if err != nil {
		return err
	}
	defer mode.Dispose()

	prog = tea.NewProgram(New(mode), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
