package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/algoviz/internal/console"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/playback"
	"github.com/san-kum/algoviz/internal/trace"
)

const (
	frameRate   = time.Second / 30
	seekPercent = 10
)

type frameMsg struct{ id int }

// Player is the bubbletea model for one playback session. It polls the
// controller every frame instead of subscribing, so the tea loop never
// blocks on a controller callback.
type Player struct {
	ctl        *playback.Controller
	title      string
	view       playback.View
	chart      []float64
	chartField string
	theme      int
	help       bool
	width      int
	id         int
}

func NewPlayer(ctl *playback.Controller, store *trace.Store, title string) Player {
	field := metrics.ChartField(store.Algorithm())
	p := Player{
		ctl:        ctl,
		title:      title,
		chartField: field,
		width:      80,
	}
	if field != "" {
		p.chart = metrics.Timeline(store, field)
	}
	p.view = ctl.View()
	return p
}

func (p Player) frame() tea.Cmd {
	id := p.id
	return tea.Tick(frameRate, func(time.Time) tea.Msg { return frameMsg{id: id} })
}

func (p Player) Init() tea.Cmd { return p.frame() }

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case frameMsg:
		if msg.id != p.id {
			return p, nil
		}
		p.view = p.ctl.View()
		return p, p.frame()
	}
	return p, nil
}

func (p Player) handleKey(msg tea.KeyMsg) (Player, tea.Cmd) {
	v := p.view
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case " ":
		if v.State == playback.Running {
			p.ctl.Pause()
		} else {
			p.ctl.Run()
		}
	case "n", "right", "l":
		p.ctl.Step()
	case "p", "left", "h":
		p.ctl.StepBack()
	case "r":
		p.ctl.Reset()
	case "1":
		p.ctl.SetSpeed(playback.Slow)
	case "2":
		p.ctl.SetSpeed(playback.Normal)
	case "3":
		p.ctl.SetSpeed(playback.Fast)
	case "+", "=":
		p.ctl.SetSpeed(v.Speed.Faster())
	case "-", "_":
		p.ctl.SetSpeed(v.Speed.Slower())
	case "g", "home":
		p.ctl.GoToStep(0)
	case "G", "end":
		p.ctl.GoToStep(v.Length - 1)
	case "]":
		p.ctl.Seek(slider(v) + seekPercent)
	case "[":
		p.ctl.Seek(slider(v) - seekPercent)
	case "t":
		p.theme = (p.theme + 1) % len(Themes)
	case "?":
		p.help = !p.help
	default:
		return p, nil
	}
	p.view = p.ctl.View()
	return p, nil
}

// slider is the cursor position as a percentage of the seekable range.
func slider(v playback.View) float64 {
	if v.Length < 2 || v.Cursor < 0 {
		return 0
	}
	return float64(v.Cursor) / float64(v.Length-1) * 100
}

func (p Player) View() string {
	th := Themes[p.theme]
	v := p.view
	if p.help {
		return p.viewHelp(th)
	}

	var b strings.Builder
	b.WriteString("\n" + GradientText(strings.ToUpper(p.title), th.Primary, th.Highlight) + "  " + statusBadge(v.State) + "\n")
	b.WriteString(subtle.Render(fmt.Sprintf("step %d / %d   speed %s   theme %s", v.Cursor+1, v.Length, v.Speed.Label(), th.Name)) + "\n")
	b.WriteString(ProgressBar(v.Progress, 40, th) + subtle.Render(fmt.Sprintf(" %5.1f%%", v.Progress)) + "\n\n")

	b.WriteString(RenderStep(v.Algorithm, v.Step, th) + "\n\n")
	if v.Step != nil {
		b.WriteString(th.style(th.Text).Render(console.Narrate(v.Algorithm, *v.Step)) + "\n")
		if chart := Chart(p.chart, v.Cursor, p.chartField); chart != "" {
			b.WriteString("\n" + th.style(th.Visited).Render(chart) + "\n")
		}
	}
	b.WriteString("\n" + separator(min(p.width, 60)) + "\n")
	b.WriteString(keyHints("space", "run/pause", "n/p", "step", "r", "reset", "1-3", "speed", "?", "help", "q", "quit") + "\n")
	return panelStyle.Render(b.String())
}

func (p Player) viewHelp(th Theme) string {
	rows := [][2]string{
		{"space", "run or pause"},
		{"n / →", "step forward"},
		{"p / ←", "step back"},
		{"r", "reset to idle"},
		{"1 2 3", "slow, normal, fast"},
		{"+ / -", "faster / slower"},
		{"g / G", "first / last step"},
		{"[ / ]", "seek 10% back / ahead"},
		{"t", "cycle theme"},
		{"?", "close help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("KEYS") + "\n\n")
	for _, r := range rows {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-8s", r[0])) + th.style(th.Text).Render(r[1]) + "\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Primary).
		Padding(1, 3).
		Render(b.String())
}

// RunPlayer runs a full-screen player over ctl until the user quits.
func RunPlayer(ctl *playback.Controller, store *trace.Store, title string) error {
	_, err := tea.NewProgram(NewPlayer(ctl, store, title), tea.WithAltScreen()).Run()
	return err
}
