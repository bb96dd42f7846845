package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/algoviz/internal/playback"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00cccc"))
	subtle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00aaaa"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))

	statusStyles = map[playback.State]lipgloss.Style{
		playback.Idle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#888899")),
		playback.Running:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		playback.Paused:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		playback.Completed: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff")),
	}
)

func statusBadge(s playback.State) string {
	return statusStyles[s].Render(strings.ToUpper(s.String()))
}

// ProgressBar renders percent (0 to 100) as a bar of the given width.
func ProgressBar(percent float64, width int, th Theme) string {
	filled := min(max(int(percent/100*float64(width)), 0), width)
	return th.style(th.Primary).Render(strings.Repeat("█", filled)) +
		th.style(th.Muted).Render(strings.Repeat("░", width-filled))
}

// keyHints renders "key action" pairs on one line.
func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(subtle.Render("  "))
		}
		b.WriteString(keyStyle.Render(pairs[i]) + subtle.Render(" "+pairs[i+1]))
	}
	return b.String()
}

func separator(width int) string {
	mid := width / 2
	return subtle.Render(strings.Repeat("─", max(mid-3, 0)) + " ◆ " + strings.Repeat("─", max(width-mid-3, 0)))
}

// GradientText colors each rune along a linear blend of two hex colors.
func GradientText(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	fr, fg, fb := parseHex(string(from))
	tr, tg, tb := parseHex(string(to))

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(hexColor(lerp(fr, tr, t), lerp(fg, tg, t), lerp(fb, tb, t)))
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}
	return b.String()
}

func lerp(a, b int, t float64) int { return a + int(t*float64(b-a)) }

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return min(max(v, 0), 255) }
	s := strconv.FormatUint(uint64(clamp(r)<<16|clamp(g)<<8|clamp(b)), 16)
	return "#" + strings.Repeat("0", 6-len(s)) + s
}
