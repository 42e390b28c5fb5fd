package engine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is one of Circle, RegularPolygon, Rectangle, Trapezoid or Vertices.
// All dimensions are in pixels.
type Shape interface {
	shape()
}

type Circle struct {
	Radius float64
}

type RegularPolygon struct {
	Sides  int
	Radius float64
}

type Rectangle struct {
	Width  float64
	Height float64
}

// Trapezoid has its long side at the bottom. Slope is the horizontal inset
// of each top corner as a fraction of Width and must be below 0.5.
type Trapezoid struct {
	Width  float64
	Height float64
	Slope  float64
}

// Vertices is a free outline relative to the body position.
type Vertices struct {
	Points []mgl64.Vec2
}

func (Circle) shape()         {}
func (RegularPolygon) shape() {}
func (Rectangle) shape()      {}
func (Trapezoid) shape()      {}
func (Vertices) shape()       {}

// CircleSegments is the number of edges used to outline a circle.
const CircleSegments = 24

// MaxPolygonSides bounds the outline of a regular polygon.
const MaxPolygonSides = 64

// MaxTrapezoidSlope keeps the top edge of a trapezoid from vanishing.
const MaxTrapezoidSlope = 0.49

// Outline returns the shape as a counter-clockwise (on screen) polygon
// centered on its area centroid.
func Outline(s Shape) ([]mgl64.Vec2, error) {
	var pts []mgl64.Vec2
	switch v := s.(type) {
	case Circle:
		if !(v.Radius > 0) {
			return nil, fmt.Errorf("%w: circle radius %v", ErrInvalidShape, v.Radius)
		}
		pts = ring(CircleSegments, v.Radius)
	case RegularPolygon:
		if v.Sides < 3 || v.Sides > MaxPolygonSides || !(v.Radius > 0) {
			return nil, fmt.Errorf("%w: polygon sides %d radius %v", ErrInvalidShape, v.Sides, v.Radius)
		}
		pts = ring(v.Sides, v.Radius)
	case Rectangle:
		if !(v.Width > 0) || !(v.Height > 0) {
			return nil, fmt.Errorf("%w: rectangle %vx%v", ErrInvalidShape, v.Width, v.Height)
		}
		hw, hh := v.Width/2, v.Height/2
		pts = []mgl64.Vec2{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	case Trapezoid:
		if !(v.Width > 0) || !(v.Height > 0) {
			return nil, fmt.Errorf("%w: trapezoid %vx%v", ErrInvalidShape, v.Width, v.Height)
		}
		slope := math.Max(0, math.Min(v.Slope, MaxTrapezoidSlope))
		inset := slope * v.Width
		pts = []mgl64.Vec2{
			{0, 0},
			{inset, -v.Height},
			{v.Width - inset, -v.Height},
			{v.Width, 0},
		}
	case Vertices:
		if len(v.Points) < 3 {
			return nil, fmt.Errorf("%w: %d vertices", ErrInvalidShape, len(v.Points))
		}
		pts = append([]mgl64.Vec2(nil), v.Points...)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidShape, s)
	}

	area, c := centroid(pts)
	if math.Abs(area) < 1e-9 {
		return nil, ErrDegenerateShape
	}
	for i := range pts {
		pts[i] = pts[i].Sub(c)
	}
	return pts, nil
}

// Area returns the unsigned area enclosed by a polygon.
func Area(pts []mgl64.Vec2) float64 {
	a, _ := centroid(pts)
	return math.Abs(a)
}

func ring(n int, r float64) []mgl64.Vec2 {
	theta := 2 * math.Pi / float64(n)
	offset := theta / 2
	pts := make([]mgl64.Vec2, n)
	for i := range pts {
		a := offset + float64(i)*theta
		pts[i] = mgl64.Vec2{r * math.Cos(a), r * math.Sin(a)}
	}
	return pts
}

// centroid returns the signed area and area centroid of a simple polygon.
func centroid(pts []mgl64.Vec2) (float64, mgl64.Vec2) {
	var a, cx, cy float64
	n := len(pts)
	for i := 0; i < n; i++ {
		p, q := pts[i], pts[(i+1)%n]
		cross := p.X()*q.Y() - q.X()*p.Y()
		a += cross
		cx += (p.X() + q.X()) * cross
		cy += (p.Y() + q.Y()) * cross
	}
	a /= 2
	if a == 0 {
		return 0, mgl64.Vec2{}
	}
	return a, mgl64.Vec2{cx / (6 * a), cy / (6 * a)}
}

// transform rotates local points by angle and translates them to pos.
func transform(local []mgl64.Vec2, pos mgl64.Vec2, angle float64) []mgl64.Vec2 {
	rot := mgl64.Rotate2D(angle)
	out := make([]mgl64.Vec2, len(local))
	for i, p := range local {
		out[i] = rot.Mul2x1(p).Add(pos)
	}
	return out
}

func bounds(pts []mgl64.Vec2) (mgl64.Vec2, mgl64.Vec2) {
	if len(pts) == 0 {
		return mgl64.Vec2{}, mgl64.Vec2{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = mgl64.Vec2{math.Min(lo.X(), p.X()), math.Min(lo.Y(), p.Y())}
		hi = mgl64.Vec2{math.Max(hi.X(), p.X()), math.Max(hi.Y(), p.Y())}
	}
	return lo, hi
}
