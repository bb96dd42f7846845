package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/algoviz/internal/trace"
)

const (
	svgBackground = "#0a0a0a"
	svgAccent     = "#00d7ff"
	svgHighlight  = "#ffaf00"
	svgDim        = "#3a3a3a"
	svgText       = "#d0d0d0"
)

// StepToSVG draws the payload of s. Steps carrying a board, points or a
// list of values are supported; anything else yields an empty string.
func StepToSVG(s trace.Step, width, height int) string {
	p := s.Payload
	if board, ok := p.Grid("board"); ok {
		pos, hasPos := p.Cell("position")
		return BoardToSVG(board, pos, hasPos, width)
	}
	if pts, ok := p.Points("points"); ok {
		best, _ := p.Pair("best")
		if !p.Has("best") {
			best = trace.Pair{-1, -1}
		}
		return PointsToSVG(pts, best, width, height)
	}
	for _, field := range []string{"values", "heap"} {
		if vals, ok := p.Ints(field); ok {
			hl := highlights(p)
			return BarsToSVG(vals, hl, width, height)
		}
	}
	return ""
}

func highlights(p trace.Payload) map[int]bool {
	hl := make(map[int]bool)
	for _, field := range []string{"compared", "swapped"} {
		if pr, ok := p.Pair(field); ok {
			hl[pr[0]], hl[pr[1]] = true, true
		}
	}
	return hl
}

func svgHeader(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, svgBackground)
}

// BarsToSVG draws one bar per value, highlighted indices in a second color.
func BarsToSVG(values []int, highlight map[int]bool, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	maxVal := 1
	for _, v := range values {
		maxVal = max(maxVal, v)
	}

	var sb strings.Builder
	svgHeader(&sb, width, height)

	slot := float64(width) / float64(len(values))
	barW := slot * 0.8
	for i, v := range values {
		h := float64(v) / float64(maxVal) * float64(height-20)
		x := float64(i)*slot + (slot-barW)/2
		y := float64(height) - h
		fill := svgAccent
		if highlight[i] {
			fill = svgHighlight
		}
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x, y, barW, h, fill)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="10" text-anchor="middle">%d</text>
`, x+barW/2, y-4, svgText, v)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// BoardToSVG draws an n×n board with each square's visit order.
func BoardToSVG(board [][]int, pos trace.Cell, hasPos bool, size int) string {
	n := len(board)
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	svgHeader(&sb, size, size)

	cell := float64(size) / float64(n)
	for r, row := range board {
		for c, v := range row {
			fill := svgDim
			switch {
			case hasPos && pos.Row == r && pos.Col == c:
				fill = svgHighlight
			case v > 0:
				fill = svgAccent
			}
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>
`, float64(c)*cell, float64(r)*cell, cell, cell, fill, svgBackground)
			if v > 0 {
				fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="%.0f" text-anchor="middle">%d</text>
`, float64(c)*cell+cell/2, float64(r)*cell+cell*0.6, svgBackground, cell*0.35, v)
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PointsToSVG plots labelled points scaled to fit, joining the best pair.
func PointsToSVG(points []trace.Point, best trace.Pair, width, height int) string {
	if len(points) == 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(p trace.Point) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	svgHeader(&sb, width, height)

	if best[0] >= 0 && best[1] < len(points) && best[0] != best[1] {
		x1, y1 := project(points[best[0]])
		x2, y2 := project(points[best[1]])
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, x1, y1, x2, y2, svgHighlight)
	}
	for i, p := range points {
		x, y := project(p)
		fill := svgAccent
		if i == best[0] || i == best[1] {
			fill = svgHighlight
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, x, y, fill)
		if p.Label != "" {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="11">%s</text>
`, x+6, y-6, svgText, html.EscapeString(p.Label))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
