package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"
	"github.com/san-kum/algoviz/internal/console"
	"github.com/san-kum/algoviz/internal/trace"
)

const (
	canvasWidth  = 48
	canvasHeight = 14
	barWidth     = 40
)

// RenderStep draws s the way algorithm's view shows it. A nil step
// renders the idle placeholder.
func RenderStep(algorithm string, s *trace.Step, th Theme) string {
	if s == nil {
		return th.style(th.Muted).Render("press space to start, n to step")
	}
	switch algorithm {
	case "merge":
		return renderMerge(s.Payload, th)
	case "knight":
		return renderKnight(s.Payload, th)
	case "closest-pair":
		return renderClosest(s.Payload, th)
	case "bubble":
		return renderBubble(s.Kind, s.Payload, th)
	}
	return th.style(th.Text).Render(string(s.Kind))
}

func renderMerge(p trace.Payload, th Theme) string {
	heap, _ := p.Ints("heap")
	sel, _ := p.Ints("selected")
	inserted, hasInserted := p.Int("inserted")
	total, _ := p.Int("totalCost")

	boxes := lo.Map(heap, func(size int, _ int) string {
		c := th.Primary
		if hasInserted && size == inserted {
			c = th.Success
		}
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Foreground(th.Text).
			Padding(0, 1).
			Render(fmt.Sprint(size))
	})
	if len(boxes) == 0 {
		boxes = []string{th.style(th.Muted).Render("(empty)")}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Heap") + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...) + "\n")
	if len(sel) == 2 {
		b.WriteString(th.style(th.Highlight).Render(fmt.Sprintf("selected %d + %d", sel[0], sel[1])) + "\n")
	}
	b.WriteString(labelStyle.Render("Total") + valueStyle.Render(fmt.Sprint(total)) + "\n")

	if hist := console.History(p); len(hist) > 0 {
		b.WriteString("\n" + headerStyle.Render("Merges") + "\n")
		for _, line := range hist {
			b.WriteString(th.style(th.Visited).Render(line) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderKnight(p trace.Payload, th Theme) string {
	board, _ := p.Grid("board")
	pos, hasPos := p.Cell("position")
	undone, hasUndone := p.Cell("undone")
	count, _ := p.Int("count")
	size, _ := p.Int("size")

	var b strings.Builder
	for r, row := range board {
		for c, v := range row {
			here := trace.Cell{Row: r, Col: c}
			cell := fmt.Sprintf("%3d", v)
			switch {
			case hasPos && here == pos:
				b.WriteString(th.style(th.Highlight).Bold(true).Render(cell))
			case hasUndone && here == undone:
				b.WriteString(th.style(th.Warning).Render("  ×"))
			case v > 0:
				b.WriteString(th.style(th.Visited).Render(cell))
			default:
				b.WriteString(th.style(th.Muted).Render("  ·"))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Visited") + valueStyle.Render(fmt.Sprintf("%d / %d", count, size*size)))
	return b.String()
}

func renderClosest(p trace.Payload, th Theme) string {
	pts, _ := p.Points("points")
	if len(pts) == 0 {
		return th.style(th.Muted).Render("(no points)")
	}
	pair, hasPair := p.Pair("pair")
	best, hasBest := p.Pair("best")

	pairs := th.style(th.Highlight)
	c := NewCanvas(canvasWidth, canvasHeight)
	proj := NewProjector(
		lo.Map(pts, func(pt trace.Point, _ int) float64 { return pt.X }),
		lo.Map(pts, func(pt trace.Point, _ int) float64 { return pt.Y }),
		c, 2,
	)
	line := func(pr trace.Pair) {
		x0, y0 := proj.Project(pts[pr[0]].X, pts[pr[0]].Y)
		x1, y1 := proj.Project(pts[pr[1]].X, pts[pr[1]].Y)
		c.DrawLine(x0, y0, x1, y1)
	}
	if hasPair {
		line(pair)
	}
	if hasBest {
		line(best)
	}
	for _, pt := range pts {
		x, y := proj.Project(pt.X, pt.Y)
		c.DrawDot(x, y, 1)
	}

	var b strings.Builder
	b.WriteString(th.style(th.Primary).Render(strings.TrimRight(c.String(), "\n")) + "\n")
	labels := lo.Map(pts, func(pt trace.Point, _ int) string {
		return fmt.Sprintf("%s(%g,%g)", pt.Label, pt.X, pt.Y)
	})
	b.WriteString(th.style(th.Muted).Render(strings.Join(labels, " ")) + "\n")
	if hasPair {
		d, _ := p.Float("distance")
		b.WriteString(labelStyle.Render("Current") + valueStyle.Render(fmt.Sprintf("%s-%s  %.2f", pts[pair[0]].Label, pts[pair[1]].Label, d)) + "\n")
	}
	if hasBest {
		d, _ := p.Float("bestDistance")
		b.WriteString(labelStyle.Render("Best") + pairs.Render(fmt.Sprintf("%s-%s  %.2f", pts[best[0]].Label, pts[best[1]].Label, d)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBubble(kind trace.Kind, p trace.Payload, th Theme) string {
	values, _ := p.Ints("values")
	if len(values) == 0 {
		return th.style(th.Muted).Render("(no values)")
	}
	var active trace.Pair
	hasActive := false
	if pr, ok := p.Pair("compared"); ok {
		active, hasActive = pr, true
	}
	if pr, ok := p.Pair("swapped"); ok {
		active, hasActive = pr, true
	}

	peak := max(lo.Max(values), 1)
	var b strings.Builder
	for i, v := range values {
		n := max(v*barWidth/peak, 0)
		color := th.Primary
		switch {
		case hasActive && (i == active[0] || i == active[1]):
			color = th.Highlight
			if kind == trace.KindSwap {
				color = th.Warning
			}
		case kind == trace.KindComplete:
			color = th.Success
		}
		b.WriteString(fmt.Sprintf("%4d ", v))
		b.WriteString(th.style(color).Render(strings.Repeat("▇", n)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Chart plots the first upto+1 values of series as a small line graph.
func Chart(series []float64, upto int, caption string) string {
	if upto < 0 || len(series) == 0 {
		return ""
	}
	data := series[:min(upto+1, len(series))]
	if len(data) < 2 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(5),
		asciigraph.Width(barWidth),
		asciigraph.Caption(caption),
	)
}
