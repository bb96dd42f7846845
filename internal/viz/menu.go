package viz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/algoviz/internal/catalog"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/playback"
)

const (
	stateMenu = iota
	statePresets
	statePlayer
)

const defaultPreset = "(config)"

type menu struct {
	state, cursor int
	cat           *catalog.Catalog
	cfg           *config.Config
	logger        *slog.Logger
	clock         playback.Clock
	algorithms    []string
	selected      string
	presets       []string
	player        Player
	ctl           *playback.Controller
	runs          int
	err           error
}

// NewMenu builds the algorithm picker. cfg is the base configuration every
// preset is applied on top of.
func NewMenu(cat *catalog.Catalog, cfg *config.Config, logger *slog.Logger) *menu {
	return &menu{
		cat:        cat,
		cfg:        cfg,
		logger:     logger,
		clock:      playback.RealClock{},
		algorithms: cat.List(),
	}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.player.width = msg.Width
		return m, nil
	default:
		if m.state == statePlayer {
			next, cmd := m.player.Update(msg)
			m.player = next.(Player)
			return m, cmd
		}
	}
	return m, nil
}

func (m menu) handleKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case statePresets:
		return m.presetKey(msg)
	case statePlayer:
		if msg.String() == "esc" {
			m.stop()
			m.state, m.cursor = statePresets, 0
			return m, nil
		}
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.stop()
		}
		next, cmd := m.player.handleKey(msg)
		m.player = next
		return m, cmd
	}
	return m, nil
}

func (m menu) menuKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.algorithms)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.algorithms) == 0 {
			return m, nil
		}
		m.selected = m.algorithms[m.cursor]
		m.presets = append([]string{defaultPreset}, config.ListPresets(m.selected)...)
		m.state, m.cursor, m.err = statePresets, 0, nil
	}
	return m, nil
}

func (m menu) presetKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state, m.cursor = stateMenu, 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start(m.presets[m.cursor])
	}
	return m, nil
}

// start generates the selected trace and hands the screen to a player.
func (m menu) start(preset string) (menu, tea.Cmd) {
	cfg := *m.cfg
	cfg.Algorithm = m.selected
	if preset != defaultPreset {
		if p := config.GetPreset(m.selected, preset); p != nil {
			cfg.Apply(p)
		}
	}

	store, err := m.cat.Generate(context.Background(), m.selected, &cfg)
	if err != nil {
		m.err = err
		m.logger.Error("generate failed", "algorithm", m.selected, "preset", preset, "err", err)
		return m, nil
	}
	ctl, err := playback.New(store,
		playback.WithClock(m.clock),
		playback.WithDelays(cfg.Delays()),
		playback.WithSpeed(cfg.PlaybackSpeed()),
		playback.WithLogger(m.logger),
	)
	if err != nil {
		m.err = err
		return m, nil
	}

	title := m.selected
	if e, ok := m.cat.Lookup(m.selected); ok {
		title = e.Title
	}
	m.runs++
	m.ctl = ctl
	m.player = NewPlayer(ctl, store, title)
	m.player.id = m.runs
	m.state, m.err = statePlayer, nil
	m.logger.Info("playback started", "algorithm", m.selected, "preset", preset, "steps", store.Len())
	return m, m.player.Init()
}

func (m *menu) stop() {
	if m.ctl != nil {
		m.ctl.Close()
		m.ctl = nil
	}
}

func (m menu) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case statePresets:
		return m.viewPresets()
	case statePlayer:
		return m.player.View()
	}
	return ""
}

func (m menu) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle.Render("ALGOVIZ") + "\n    " + subtle.Render("step through classic algorithms") + "\n    " + subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.algorithms {
		desc := ""
		if e, ok := m.cat.Lookup(name); ok {
			desc = e.Description
		}
		b.WriteString("    " + menuRow(i == m.cursor, fmt.Sprintf("%-14s", name), desc) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m menu) viewPresets() string {
	var b strings.Builder
	title := m.selected
	if e, ok := m.cat.Lookup(m.selected); ok {
		title = e.Title
	}
	b.WriteString("\n\n    " + headerStyle.Render(strings.ToUpper(title)) + "\n    " + subtle.Render("choose an input") + "\n    " + subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		b.WriteString("    " + menuRow(i == m.cursor, fmt.Sprintf("%-14s", name), "") + "\n")
	}
	if m.err != nil {
		b.WriteString("\n    " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "play", "esc", "back", "q", "quit") + "\n")
	return b.String()
}

func menuRow(active bool, name, desc string) string {
	if active {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true).Render("▸ ") +
			lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(name) + "  " +
			lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Render(desc)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render("  "+name) + "  " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(desc)
}

// RunInteractive opens the algorithm menu full-screen.
func RunInteractive(cat *catalog.Catalog, cfg *config.Config, logger *slog.Logger) error {
	final, err := tea.NewProgram(*NewMenu(cat, cfg, logger), tea.WithAltScreen()).Run()
	if m, ok := final.(menu); ok {
		m.stop()
	}
	return err
}
