// Package tui implements the interactive history browser. It is a pure
// consumer of the history store's public operations: every mutation goes
// through the store so the dirty-signal path persists it.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clipvault/clipvault/internal/history"
)

// Copier writes a chosen entry's text back to the system clipboard.
type Copier interface {
	WriteText(text string) error
}

const (
	previewWidth  = 64
	flashDuration = 2 * time.Second
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	pinStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	flashStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
)

type flashExpiredMsg struct{}

// Model is the Bubble Tea model for the history browser.
type Model struct {
	store  *history.Store
	copier Copier

	entries []history.Entry
	cursor  int
	flash   string
	width   int
	height  int
}

// NewModel creates a browser over the given store and clipboard writer.
func NewModel(store *history.Store, copier Copier) Model {
	return Model{
		store:   store,
		copier:  copier,
		entries: store.Snapshot().Entries,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case flashExpiredMsg:
		m.flash = ""
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "g", "home":
		m.cursor = 0

	case "G", "end":
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}

	case "enter":
		if e, ok := m.selected(); ok {
			if err := m.copier.WriteText(e.Text); err != nil {
				return m.withFlash(fmt.Sprintf("copy failed: %v", err))
			}
			return m.withFlash("copied to clipboard")
		}

	case "p":
		if e, ok := m.selected(); ok {
			m.store.TogglePin(e.ID)
			m.refresh()
			return m.withFlash("pin toggled")
		}

	case "d":
		if e, ok := m.selected(); ok {
			m.store.DeleteItem(e.ID)
			m.refresh()
			return m.withFlash("entry deleted")
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	s := titleStyle.Render("clipvault") + "\n\n"

	if len(m.entries) == 0 {
		s += dimStyle.Render("history is empty") + "\n"
	}

	for i, e := range m.entries {
		cursor := "  "
		line := formatLine(e)
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
			line = selectedStyle.Render(line)
		}
		s += cursor + line + "\n"
	}

	if m.flash != "" {
		s += "\n" + flashStyle.Render(m.flash)
	}

	s += helpBarStyle.Render("\nenter copy · p pin · d delete · j/k move · q quit")
	return s
}

// Entries returns the current display list (for tests).
func (m Model) Entries() []history.Entry {
	return m.entries
}

// Cursor returns the current cursor position (for tests).
func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) selected() (history.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return history.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *Model) refresh() {
	m.entries = m.store.Snapshot().Entries
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) withFlash(text string) (tea.Model, tea.Cmd) {
	m.flash = text
	return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{}
	})
}

// formatLine renders one entry as "pin age preview".
func formatLine(e history.Entry) string {
	marker := "  "
	if e.Pinned {
		marker = pinStyle.Render("★ ")
	}

	preview := e.Text
	if len(preview) > previewWidth {
		preview = preview[:previewWidth-3] + "..."
	}

	return marker + preview + " " + dimStyle.Render(age(e.RecordedAt))
}

// age renders a compact relative timestamp.
func age(at time.Time) string {
	d := time.Since(at)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
