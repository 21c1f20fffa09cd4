package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/appengine-ltd/under-the-shadow/internal/game"
	"github.com/appengine-ltd/under-the-shadow/internal/save"
)

func testRun(t *testing.T) *game.RunState {
	t.Helper()
	run, err := game.NewRunState(game.RunConfig{Seed: 11})
	if err != nil {
		t.Fatalf("new run state: %v", err)
	}
	return &run
}

func testModel(t *testing.T) runModel {
	t.Helper()
	return newRunModel(AppConfig{Version: "test", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, testRun(t))
}

func press(t *testing.T, m runModel, keys ...string) runModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(runModel)
	}
	return m
}

func TestKeysDriveTheWeek(t *testing.T) {
	m := testModel(t)

	m = press(t, m, "b")
	if m.run.Phase != game.PhaseActions {
		t.Fatalf("expected actions phase after choosing, got %s", m.run.Phase)
	}
	m = press(t, m, "3", "6")
	if m.run.Stats.TotalDailyEvents != 2 {
		t.Fatalf("expected two daily events, got %d", m.run.Stats.TotalDailyEvents)
	}
	m = press(t, m, "e")
	if !m.run.Settling {
		t.Fatalf("expected settlement after e")
	}
	if m.run.PendingNPC != nil {
		m = press(t, m, "r")
	}
	m = press(t, m, "n")
	if m.run.Week != 2 || m.run.Phase != game.PhaseStory {
		t.Fatalf("expected week 2 story, got week %d %s", m.run.Week, m.run.Phase)
	}
}

func TestKeyCommandIgnoresOtherPhases(t *testing.T) {
	run := testRun(t)
	if got := keyCommand(run, "1"); got != "" {
		t.Fatalf("expected no daily action during the story, got %q", got)
	}
	if got := keyCommand(run, "a"); got != "choose a" {
		t.Fatalf("expected choose a, got %q", got)
	}
	if got := keyCommand(run, "i"); got != "inventory" {
		t.Fatalf("expected inventory in any phase, got %q", got)
	}
}

func TestTypedCommandGoesThroughParser(t *testing.T) {
	m := testModel(t)
	m = press(t, m, ":", "pick", " ", "option", " ", "c", "enter")
	if m.run.Phase != game.PhaseActions {
		t.Fatalf("expected typed choice to apply, got %s", m.run.Phase)
	}
	if m.typing {
		t.Fatalf("expected input mode to close after enter")
	}

	m = press(t, m, ":", "ex", "enter")
	last := m.messages[len(m.messages)-1]
	if !strings.Contains(last, "Did you mean") {
		t.Fatalf("expected clarify prompt, got %q", last)
	}
}

func TestBackspaceRemovesWholeRune(t *testing.T) {
	m := testModel(t)
	m = press(t, m, ":", "café", "backspace")
	if m.input != "caf" {
		t.Fatalf("expected %q, got %q", "caf", m.input)
	}
	m = press(t, m, "水", "backspace", "backspace")
	if m.input != "ca" || !utf8.ValidString(m.input) {
		t.Fatalf("expected valid %q, got %q", "ca", m.input)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	m := testModel(t)
	for i := 0; i < historyLines*2; i++ {
		m.push("line")
	}
	if len(m.messages) != historyLines {
		t.Fatalf("expected %d lines, got %d", historyLines, len(m.messages))
	}
}

func TestViewShowsMetersAndStory(t *testing.T) {
	m := testModel(t)
	view := m.View()
	for _, want := range []string{"UNDER THE SHADOW", "Week 1 of 45", "stamina", "$500", "[a]"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestMeterBar(t *testing.T) {
	bar := meterBar(50, 100, 10)
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Fatalf("expected half bar, got %q", bar)
	}
	if got := meterBar(500, 100, 4); strings.Count(got, "█") != 4 {
		t.Fatalf("expected full bar when over max, got %q", got)
	}
}

type memoryStore struct {
	files map[int]save.File
}

func (s *memoryStore) Save(_ context.Context, slot int, f save.File) error {
	s.files[slot] = f
	return nil
}

func (s *memoryStore) Load(_ context.Context, slot int) (save.File, error) {
	f, ok := s.files[slot]
	if !ok {
		return save.File{}, save.ErrSlotNotFound
	}
	return f, nil
}

func (s *memoryStore) List(context.Context) ([]save.Summary, error) { return nil, nil }
func (s *memoryStore) Close() error                                 { return nil }

func TestSaveCommandWritesSlot(t *testing.T) {
	store := &memoryStore{files: map[int]save.File{}}
	m := newRunModel(AppConfig{Store: store, Slot: 2}, testRun(t))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(runModel)
	if cmd == nil || !m.busy {
		t.Fatalf("expected a save command while busy")
	}
	next, _ = m.Update(cmd())
	m = next.(runModel)
	if m.busy || !strings.Contains(m.status, "slot 2") {
		t.Fatalf("expected saved status, got %q", m.status)
	}
	if store.files[2].RunID != m.run.RunID {
		t.Fatalf("expected slot 2 to hold the run")
	}
}
