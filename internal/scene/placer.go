package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
)

const (
	// MinObjectSize is the smallest pixel dimension of a dynamic body.
	MinObjectSize = 10.0

	DefaultMass           = 1.0
	DefaultTrapezoidSlope = 0.25
	ObjectFriction        = 0.1
	ObjectRestitution     = 0.0
)

var (
	// ErrMissingShapeParam indicates an object without the parameters its
	// shape needs.
	ErrMissingShapeParam = errors.New("scene: missing shape parameter")

	// ErrUnknownShape indicates an object shape tag that is not recognized.
	ErrUnknownShape = errors.New("scene: unknown shape")

	// ErrNoSurface indicates onCliff or onIncline with nothing to rest on.
	ErrNoSurface = errors.New("scene: no surface to place on")
)

// Palette cycles fill colors for objects without a style.
var Palette = []string{"#ef4444", "#3b82f6", "#22c55e", "#eab308", "#a855f7", "#f97316", "#14b8a6", "#ec4899"}

// Placed is one dynamic body created from an object record.
type Placed struct {
	ID     string
	Object scenario.Object
	Body   engine.Body

	// HalfExtent is the unrotated half width and half height in pixels.
	HalfExtent mgl64.Vec2
}

// Index maps object ids to their bodies.
type Index map[string]engine.Body

// NewIndex indexes placed objects by id. A later duplicate id wins.
func NewIndex(placed []Placed) Index {
	idx := make(Index, len(placed))
	for _, p := range placed {
		idx[p.ID] = p.Body
	}
	return idx
}

func (idx Index) Body(id string) (engine.Body, bool) {
	b, ok := idx[id]
	return b, ok
}

// Objects creates a dynamic body for every object that has a usable shape.
// Objects that cannot be built are reported and skipped.
func (b *Builder) Objects(objs []scenario.Object) []Placed {
	placed := make([]Placed, 0, len(objs))
	for i, o := range objs {
		p, err := b.place(o, i)
		if err != nil {
			b.report.Report(o.ID, err)
			continue
		}
		placed = append(placed, p)
	}
	return placed
}

func (b *Builder) place(o scenario.Object, index int) (Placed, error) {
	shape, half, err := b.shape(o)
	if err != nil {
		return Placed{}, err
	}

	pos := b.mapper.ToCanvas(o.Position.Vec2())
	angle := 0.0

	switch {
	case o.OnIncline:
		if len(b.layout.Inclines) == 0 {
			b.report.Report(o.ID, fmt.Errorf("%w: onIncline without an incline", ErrNoSurface))
			break
		}
		l := b.layout.Inclines[0]
		pos = l.PointAt(o.InclinePositionRatio).Add(l.Normal.Mul(half.Y()))
		angle = l.Angle
	case o.OnCliff:
		if len(b.layout.Cliffs) == 0 {
			b.report.Report(o.ID, fmt.Errorf("%w: onCliff without a cliff", ErrNoSurface))
			break
		}
		pos = cliffTop(b.layout.Cliffs[0], half)
	}

	mass, ok := o.BodyMass()
	if !ok {
		mass = DefaultMass
	}

	body, err := b.world.AddBody(engine.BodyDef{
		Label:       o.ID,
		Position:    pos,
		Angle:       angle,
		Shape:       shape,
		Mass:        mass,
		Friction:    ObjectFriction,
		Restitution: ObjectRestitution,
		Style:       objectStyle(o, index),
	})
	if err != nil {
		return Placed{}, err
	}
	return Placed{ID: o.ID, Object: o, Body: body, HalfExtent: half}, nil
}

// cliffTop rests a footprint on the cliff top at the edge it drops from.
// A cliff anchored to the ground's right edge drops toward the ground on
// its left side.
func cliffTop(c BlockLayout, half mgl64.Vec2) mgl64.Vec2 {
	x := c.Right - half.X()
	if c.Edge == scenario.EdgeRight {
		x = c.Left + half.X()
	}
	return mgl64.Vec2{x, c.Top - half.Y()}
}

// shape converts the object's dimensions to a pixel shape and its half
// extents.
func (b *Builder) shape(o scenario.Object) (engine.Shape, mgl64.Vec2, error) {
	px := func(v float64) float64 {
		return math.Max(b.mapper.Length(v), MinObjectSize)
	}
	missing := func(what string) error {
		return fmt.Errorf("%w: %s needs %s", ErrMissingShapeParam, o.Shape, what)
	}

	switch o.Shape {
	case scenario.ShapeCircle:
		if !positive(o.Radius) {
			return nil, mgl64.Vec2{}, missing("radius")
		}
		r := px(*o.Radius)
		return engine.Circle{Radius: r}, mgl64.Vec2{r, r}, nil

	case scenario.ShapePolygon:
		if o.Sides == nil || *o.Sides < 3 || !positive(o.Radius) {
			return nil, mgl64.Vec2{}, missing("sides and radius")
		}
		if *o.Sides > engine.MaxPolygonSides {
			return nil, mgl64.Vec2{}, missing(fmt.Sprintf("at most %d sides", engine.MaxPolygonSides))
		}
		r := px(*o.Radius)
		return engine.RegularPolygon{Sides: *o.Sides, Radius: r}, mgl64.Vec2{r, r}, nil

	case scenario.ShapeRectangle:
		if !positive(o.Width) || !positive(o.Height) {
			return nil, mgl64.Vec2{}, missing("width and height")
		}
		w, h := px(*o.Width), px(*o.Height)
		return engine.Rectangle{Width: w, Height: h}, mgl64.Vec2{w / 2, h / 2}, nil

	case scenario.ShapeTrapezoid:
		if !positive(o.Width) || !positive(o.Height) {
			return nil, mgl64.Vec2{}, missing("width and height")
		}
		slope := DefaultTrapezoidSlope
		if o.Slope != nil && *o.Slope >= 0 {
			slope = math.Min(*o.Slope, engine.MaxTrapezoidSlope)
		}
		w, h := px(*o.Width), px(*o.Height)
		return engine.Trapezoid{Width: w, Height: h, Slope: slope}, mgl64.Vec2{w / 2, h / 2}, nil

	case scenario.ShapeFromVertices:
		if len(o.Vertices) < 3 {
			return nil, mgl64.Vec2{}, missing("at least 3 vertices")
		}
		pts := make([]mgl64.Vec2, len(o.Vertices))
		for i, v := range o.Vertices {
			pts[i] = b.mapper.Vector(v.Vec2())
		}
		outline, err := engine.Outline(engine.Vertices{Points: pts})
		if err != nil {
			return nil, mgl64.Vec2{}, err
		}
		var hx, hy float64
		for _, p := range outline {
			hx = math.Max(hx, math.Abs(p.X()))
			hy = math.Max(hy, math.Abs(p.Y()))
		}
		return engine.Vertices{Points: pts}, mgl64.Vec2{hx, hy}, nil
	}
	return nil, mgl64.Vec2{}, fmt.Errorf("%w: %q", ErrUnknownShape, o.Shape)
}

func objectStyle(o scenario.Object, index int) engine.Style {
	s := engine.Style{Fill: Palette[index%len(Palette)], Stroke: "#111827"}
	if o.Color != "" {
		s.Fill = o.Color
	}
	if o.Style != nil {
		if o.Style.Fill != "" {
			s.Fill = o.Style.Fill
		}
		if o.Style.Stroke != "" {
			s.Stroke = o.Style.Stroke
		}
	}
	return s
}

func positive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0)
}
