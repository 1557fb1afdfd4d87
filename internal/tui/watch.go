// Package tui provides the interactive watch dashboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/patchtools/patchlint/internal/output"
)

// maxResults bounds the in-memory result list.
const maxResults = 200

// ResultMsg delivers one re-check result to the dashboard.
type ResultMsg struct {
	Report output.FileReport
}

// WatcherDoneMsg signals that the file watcher has stopped.
type WatcherDoneMsg struct{}

// KeyMap defines the keybindings for the watch dashboard.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Clear key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	okBadge       = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failedBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
)

type result struct {
	report output.FileReport
	at     time.Time
}

// WatchModel is the Bubble Tea model for the watch dashboard.
type WatchModel struct {
	dir    string
	keyMap KeyMap

	width  int
	height int

	// results are ordered newest first.
	results  []result
	selected int

	passed int
	failed int
	done   bool
}

// NewWatchModel creates a dashboard for the given directory.
func NewWatchModel(dir string) WatchModel {
	return WatchModel{
		dir:    dir,
		keyMap: DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m WatchModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ResultMsg:
		m.results = append([]result{{report: msg.Report, at: time.Now()}}, m.results...)
		if len(m.results) > maxResults {
			m.results = m.results[:maxResults]
		}
		if msg.Report.OK {
			m.passed++
		} else {
			m.failed++
		}
		if m.selected >= len(m.results) {
			m.selected = len(m.results) - 1
		}
		return m, nil

	case WatcherDoneMsg:
		m.done = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keyMap.Down):
			if m.selected < len(m.results)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keyMap.Clear):
			m.results = nil
			m.selected = 0
			m.passed = 0
			m.failed = 0
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m WatchModel) View() string {
	var b strings.Builder

	status := fmt.Sprintf("%s  %s",
		okBadge.Render(fmt.Sprintf("%d passed", m.passed)),
		failedBadge.Render(fmt.Sprintf("%d failed", m.failed)))
	if m.done {
		status += dimStyle.Render("  (watcher stopped)")
	}
	b.WriteString(titleStyle.Render("patchlint watch") + dimStyle.Render("  "+m.dir) + "\n")
	b.WriteString(status + "\n\n")

	if len(m.results) == 0 {
		b.WriteString(dimStyle.Render("Waiting for patch files to change...") + "\n")
	}

	visible := m.visibleRows()
	for i, r := range m.results {
		if i >= visible {
			b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(m.results)-visible)) + "\n")
			break
		}
		b.WriteString(m.renderRow(i, r) + "\n")
	}

	b.WriteString("\n" + m.helpView())
	return b.String()
}

func (m WatchModel) renderRow(i int, r result) string {
	badge := okBadge.Render("OK    ")
	if !r.report.OK {
		badge = failedBadge.Render("FAILED")
	}
	detail := r.report.Subject
	if !r.report.OK && len(r.report.Errors) > 0 {
		detail = r.report.Errors[0]
	}
	line := fmt.Sprintf("%s  %s  %s  %s",
		dimStyle.Render(r.at.Format("15:04:05")),
		badge,
		r.report.Filename,
		detail)
	if m.width > 0 && lipgloss.Width(line) > m.width {
		line = line[:m.width]
	}
	if i == m.selected {
		return selectedStyle.Render(line)
	}
	return line
}

func (m WatchModel) visibleRows() int {
	// Header, status, blank, blank, help.
	reserved := 5
	if m.height <= reserved {
		return maxResults
	}
	return m.height - reserved
}

func (m WatchModel) helpView() string {
	parts := []string{}
	for _, b := range []key.Binding{m.keyMap.Up, m.keyMap.Down, m.keyMap.Clear, m.keyMap.Quit} {
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return dimStyle.Render(strings.Join(parts, "  •  "))
}
