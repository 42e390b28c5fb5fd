// Package render draws simulation frames onto 2D surfaces. Coordinates are
// canvas pixels with y down.
package render

import "github.com/go-gl/mathgl/mgl64"

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Paint describes how a primitive is drawn. Empty colors are not drawn.
type Paint struct {
	Fill   string
	Stroke string
	Width  float64
}

// Surface is a drawing target sized in canvas pixels.
type Surface interface {
	Size() (w, h float64)
	Resize(w, h float64)
	Clear()
	Line(a, b mgl64.Vec2, color string)
	Polygon(pts []mgl64.Vec2, p Paint)
	Rect(min, max mgl64.Vec2, p Paint)
	Text(at mgl64.Vec2, s string, color string, align Align)
}

// rectPoints returns the corners of an axis-aligned rectangle.
func rectPoints(min, max mgl64.Vec2) []mgl64.Vec2 {
	return []mgl64.Vec2{min, {max.X(), min.Y()}, max, {min.X(), max.Y()}}
}
