// Package coords maps scenario world coordinates (y up, arbitrary origin,
// scenario units) to canvas coordinates (y down, origin top-left, pixels).
//
// The world origin sits horizontally centered and at HorizonRatio of the
// canvas height, leaving room below it for the ground. One scale factor,
// derived from the scene's bounding extent by [ComputeScale], is applied to
// every position and length of a run.
package coords

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
)

const (
	HorizonRatio = 0.7

	// Margin is subtracted from each canvas dimension before fitting.
	Margin = 100.0

	// MinSceneSize is the smallest half extent a scene is fitted to, so a
	// single small object is not blown up to fill the canvas.
	MinSceneSize = 5.0

	MaxScale = 50.0
	MinScale = 5.0
)

// Mapper is the world to canvas transform for one run.
type Mapper struct {
	Width  float64
	Height float64
	Scale  float64
}

func New(width, height, scale float64) Mapper {
	return Mapper{Width: width, Height: height, Scale: scale}
}

// ToCanvas maps a world point to canvas pixels.
func (m Mapper) ToCanvas(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		m.Width/2 + p.X()*m.Scale,
		m.Height*HorizonRatio - p.Y()*m.Scale,
	}
}

// ToWorld is the inverse of ToCanvas.
func (m Mapper) ToWorld(c mgl64.Vec2) mgl64.Vec2 {
	if m.Scale == 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{
		(c.X() - m.Width/2) / m.Scale,
		(m.Height*HorizonRatio - c.Y()) / m.Scale,
	}
}

// Length scales a world length to pixels.
func (m Mapper) Length(l float64) float64 {
	return l * m.Scale
}

// Vector scales a world vector to a canvas displacement, flipping y.
func (m Mapper) Vector(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{v.X() * m.Scale, -v.Y() * m.Scale}
}

// Extent returns the half extents of the smallest origin-centered box that
// contains every object and environment of sc.
func Extent(sc *scenario.Scenario) (maxX, maxY float64) {
	if sc == nil {
		return 0, 0
	}
	for _, o := range sc.Objects {
		hx, hy := objectHalfExtent(o)
		maxX = math.Max(maxX, math.Abs(o.Position.X)+hx)
		maxY = math.Max(maxY, math.Abs(o.Position.Y)+hy)
	}
	for _, e := range sc.Environments {
		pos, hx, hy, ok := scenario.Extent(e)
		if !ok {
			continue
		}
		maxX = math.Max(maxX, math.Abs(pos.X)+hx)
		maxY = math.Max(maxY, math.Abs(pos.Y)+hy)
	}
	return maxX, maxY
}

// ComputeScale fits the scene extent into a width x height canvas.
//
// The result is min(scaleX, scaleY, MaxScale) floored at MinScale, so a
// scene too large for the canvas is drawn at MinScale and may clip.
func ComputeScale(sc *scenario.Scenario, width, height float64) float64 {
	maxX, maxY := Extent(sc)
	return ScaleForExtent(maxX, maxY, width, height)
}

func ScaleForExtent(maxX, maxY, width, height float64) float64 {
	scaleX := (width - Margin) / (2 * math.Max(maxX, MinSceneSize))
	scaleY := (height - Margin) / (2 * math.Max(maxY, MinSceneSize))
	return math.Max(math.Min(math.Min(scaleX, scaleY), MaxScale), MinScale)
}

func objectHalfExtent(o scenario.Object) (float64, float64) {
	if o.Radius != nil {
		return *o.Radius, *o.Radius
	}
	var hx, hy float64
	if o.Width != nil {
		hx = *o.Width / 2
	}
	if o.Height != nil {
		hy = *o.Height / 2
	}
	return hx, hy
}
