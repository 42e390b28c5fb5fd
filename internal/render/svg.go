package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const svgBackground = "#0a0a0a"

// SVG records primitives as SVG elements.
type SVG struct {
	width, height float64
	body          strings.Builder
}

func NewSVG(width, height float64) *SVG {
	return &SVG{width: width, height: height}
}

func (s *SVG) Size() (float64, float64) { return s.width, s.height }

func (s *SVG) Resize(w, h float64) {
	s.width, s.height = w, h
	s.Clear()
}

func (s *SVG) Clear() { s.body.Reset() }

func (s *SVG) Line(a, b mgl64.Vec2, color string) {
	fmt.Fprintf(&s.body, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, a.X(), a.Y(), b.X(), b.Y(), attr(color))
}

func (s *SVG) Polygon(pts []mgl64.Vec2, p Paint) {
	if len(pts) == 0 {
		return
	}
	s.body.WriteString(`<polygon points="`)
	for i, q := range pts {
		if i > 0 {
			s.body.WriteByte(' ')
		}
		fmt.Fprintf(&s.body, "%.1f,%.1f", q.X(), q.Y())
	}
	fmt.Fprintf(&s.body, `" %s/>
`, paint(p))
}

func (s *SVG) Rect(min, max mgl64.Vec2, p Paint) {
	fmt.Fprintf(&s.body, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>
`, min.X(), min.Y(), max.X()-min.X(), max.Y()-min.Y(), paint(p))
}

func (s *SVG) Text(at mgl64.Vec2, text string, color string, align Align) {
	anchor := "start"
	if align == AlignCenter {
		anchor = "middle"
	}
	fmt.Fprintf(&s.body, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12" text-anchor="%s">%s</text>
`, at.X(), at.Y(), attr(color), anchor, html.EscapeString(text))
}

// String returns the complete SVG document.
func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.width, s.height, s.width, s.height, svgBackground)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>")
	return sb.String()
}

func paint(p Paint) string {
	fill, stroke := p.Fill, p.Stroke
	if fill == "" {
		fill = "none"
	}
	if stroke == "" {
		stroke = "none"
	}
	w := p.Width
	if w <= 0 {
		w = 1
	}
	return fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%.1f"`, attr(fill), attr(stroke), w)
}

func attr(s string) string {
	if s == "" {
		return "none"
	}
	return html.EscapeString(s)
}

// Series is one sampled curve for PlotSVG.
type Series struct {
	X, Y []float64
}

// PlotSVG draws a series as a polyline fitted into width x height with 10%
// padding. It returns "" for fewer than two points.
func PlotSVG(series Series, width, height int, strokeColor string) string {
	n := min(len(series.X), len(series.Y))
	if n < 2 {
		return ""
	}

	minX, maxX := series.X[0], series.X[0]
	minY, maxY := series.Y[0], series.Y[0]
	for i := 0; i < n; i++ {
		minX, maxX = min(minX, series.X[i]), max(maxX, series.X[i])
		minY, maxY = min(minY, series.Y[i]), max(maxY, series.Y[i])
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
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, svgBackground, attr(strokeColor))

	for i := 0; i < n; i++ {
		x := (series.X[i] - minX) / rangeX * float64(width)
		y := float64(height) - (series.Y[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
