package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/appengine-ltd/under-the-shadow/internal/game"
	"github.com/appengine-ltd/under-the-shadow/internal/parser"
	"github.com/appengine-ltd/under-the-shadow/internal/save"
)

type AppConfig struct {
	Version string
	Store   save.Store
	Slot    int
	Logger  *slog.Logger
}

type App struct {
	cfg AppConfig
	run *game.RunState
}

func NewApp(cfg AppConfig, run *game.RunState) *App {
	return &App{cfg: cfg, run: run}
}

func (a *App) Run() error {
	m := newRunModel(a.cfg, a.run)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// --- Styles (dusk amber) ---
var (
	amber       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	brightAmber = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dim         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	danger      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	border      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	panel       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("3")).Padding(0, 1)
)

const historyLines = 8

type runModel struct {
	cfg    AppConfig
	run    *game.RunState
	parser *parser.Parser

	typing   bool
	input    string
	messages []string
	status   string
	busy     bool
}

func newRunModel(cfg AppConfig, run *game.RunState) runModel {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	m := runModel{cfg: cfg, run: run, parser: parser.New()}
	m.push(fmt.Sprintf("Week %d begins.", run.Week))
	return m
}

func (m runModel) Init() tea.Cmd {
	return nil
}

type savedMsg struct {
	slot int
	err  error
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.typing {
			return m.updateTyping(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case ":", "/":
			m.typing = true
			m.input = ""
			return m, nil
		case "ctrl+s":
			return m.startSave()
		}
		if command := keyCommand(m.run, msg.String()); command != "" {
			m.execute(command)
		}
	case savedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Save failed: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Saved to slot %d.", msg.slot)
	}
	return m, nil
}

func (m runModel) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.typing = false
		m.input = ""
	case tea.KeyEnter:
		raw := m.input
		m.typing = false
		m.input = ""
		m.submit(raw)
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.input)
			m.input = m.input[:len(m.input)-size]
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// submit runs free text through the parser and then the run.
func (m *runModel) submit(raw string) {
	intent := m.parser.Parse(parser.ContextFor(m.run), raw)
	if intent.Clarify != nil {
		prompt := intent.Clarify.Prompt
		if len(intent.Clarify.Options) > 0 {
			opts := make([]string, 0, len(intent.Clarify.Options))
			for _, opt := range intent.Clarify.Options {
				opts = append(opts, parser.IntentToCommandString(opt))
			}
			prompt += " " + strings.Join(opts, " | ")
		}
		m.push(prompt)
		return
	}
	m.execute(parser.IntentToCommandString(intent))
}

func (m *runModel) execute(command string) {
	res := m.run.ExecuteRunCommand(command)
	if !res.Handled {
		m.push(fmt.Sprintf("Unknown command: %s", command))
		return
	}
	if res.Message != "" {
		m.push(res.Message)
	}
	if res.Result.Ending != nil {
		m.cfg.Logger.Info("run ended", "run", m.run.RunID, "week", m.run.Week, "ending", res.Result.Ending.ID)
	}
}

func (m runModel) startSave() (tea.Model, tea.Cmd) {
	if m.cfg.Store == nil {
		m.status = "No save store configured."
		return m, nil
	}
	m.busy = true
	m.status = "Saving…"
	file := save.NewFile(m.run, time.Now())
	return m, saveCmd(m.cfg.Store, m.cfg.Slot, file)
}

func saveCmd(store save.Store, slot int, file save.File) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return savedMsg{slot: slot, err: store.Save(ctx, slot, file)}
	}
}

func (m *runModel) push(line string) {
	for _, l := range strings.Split(strings.TrimSpace(line), "\n") {
		m.messages = append(m.messages, l)
	}
	if over := len(m.messages) - historyLines; over > 0 {
		m.messages = m.messages[over:]
	}
}

// keyCommand maps single keys onto run commands for the current phase.
func keyCommand(run *game.RunState, key string) string {
	switch run.Phase {
	case game.PhaseStory:
		switch key {
		case "a", "b", "c":
			return "choose " + key
		}
	case game.PhaseActions:
		if run.Settling {
			switch key {
			case "h":
				return "assist"
			case "r":
				return "refuse"
			case "n", "enter":
				return "next"
			}
			return ""
		}
		switch key {
		case "1":
			return "exercise"
		case "2":
			return "cook"
		case "3":
			return "drink"
		case "4":
			return "cat"
		case "5":
			return "read"
		case "6":
			return "rest"
		case "s":
			return "explore suburb"
		case "c":
			return "explore city"
		case "m":
			return "explore mall"
		case "w":
			return "work"
		case "e":
			return "end"
		}
	case game.PhaseEnded:
		if key == "R" {
			return "restart"
		}
	}
	switch key {
	case "i":
		return "inventory"
	case "?":
		return "help"
	}
	return ""
}
