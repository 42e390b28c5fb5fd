package render

import "github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"

const (
	SpringColor   = "#9ca3af"
	defaultStroke = "#e5e7eb"
)

// World draws every visible body outline and every spring. It does not
// clear the surface.
func World(s Surface, w engine.World) {
	for _, b := range w.Bodies() {
		style := b.Style()
		if style.Hidden {
			continue
		}
		stroke := style.Stroke
		if stroke == "" {
			stroke = defaultStroke
		}
		s.Polygon(b.Vertices(), Paint{Fill: style.Fill, Stroke: stroke, Width: 1})
	}
	for _, c := range w.Constraints() {
		a, b := c.Endpoints()
		s.Line(a, b, SpringColor)
	}
}
