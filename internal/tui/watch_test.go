package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/patchtools/patchlint/internal/output"
)

func sendResult(t *testing.T, m WatchModel, rep output.FileReport) WatchModel {
	t.Helper()
	next, _ := m.Update(ResultMsg{Report: rep})
	return next.(WatchModel)
}

func TestWatchModel_Results(t *testing.T) {
	m := NewWatchModel("patches")

	m = sendResult(t, m, output.FileReport{Filename: "a.patch", OK: true, Subject: "sample: a"})
	m = sendResult(t, m, output.FileReport{Filename: "b.patch", Errors: []string{"boom"}})

	if m.passed != 1 || m.failed != 1 {
		t.Errorf("passed=%d failed=%d", m.passed, m.failed)
	}
	if len(m.results) != 2 {
		t.Fatalf("len(results) = %d", len(m.results))
	}
	// Newest first.
	if m.results[0].report.Filename != "b.patch" {
		t.Errorf("results[0] = %+v", m.results[0].report)
	}
}

func TestWatchModel_CapsResults(t *testing.T) {
	m := NewWatchModel("patches")
	for i := 0; i < maxResults+10; i++ {
		m = sendResult(t, m, output.FileReport{Filename: "x.patch", OK: true})
	}
	if len(m.results) != maxResults {
		t.Errorf("len(results) = %d, want %d", len(m.results), maxResults)
	}
}

func TestWatchModel_Keys(t *testing.T) {
	m := NewWatchModel("patches")
	m = sendResult(t, m, output.FileReport{Filename: "a.patch", OK: true})
	m = sendResult(t, m, output.FileReport{Filename: "b.patch", OK: true})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(WatchModel)
	if m.selected != 1 {
		t.Errorf("selected = %d after down", m.selected)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = next.(WatchModel)
	if m.selected != 0 {
		t.Errorf("selected = %d after up", m.selected)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = next.(WatchModel)
	if len(m.results) != 0 || m.passed != 0 || m.failed != 0 {
		t.Errorf("clear left %d results, passed=%d failed=%d", len(m.results), m.passed, m.failed)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("quit command did not produce tea.QuitMsg")
	}
}

func TestWatchModel_View(t *testing.T) {
	m := NewWatchModel("patches")

	view := m.View()
	if !strings.Contains(view, "Waiting for patch files") {
		t.Errorf("empty view = %q", view)
	}

	m = sendResult(t, m, output.FileReport{Filename: "a.patch", Errors: []string{"no parsed lines"}})
	next, _ := m.Update(WatcherDoneMsg{})
	m = next.(WatchModel)

	view = m.View()
	if !strings.Contains(view, "a.patch") || !strings.Contains(view, "no parsed lines") {
		t.Errorf("view missing result row: %q", view)
	}
	if !strings.Contains(view, "watcher stopped") {
		t.Errorf("view missing done marker: %q", view)
	}
}
