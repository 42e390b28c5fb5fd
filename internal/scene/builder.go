// Package scene turns scenario environments and objects into engine bodies.
//
// Environments are built first, in scenario order, into a [Layout] that
// records where each feature ended up on the canvas. Objects are then
// placed against that layout so that they can rest on a cliff top or on an
// incline surface.
//
// Placement rules:
//
//   - The first ground is the anchor. Inclines, cliffs and walls rest on
//     its top surface; without a ground they use their own mapped Y.
//   - A cliff or wall with edge "right" has its left side flush with the
//     ground's right side; "left" mirrors this. Any other edge, or no
//     ground, uses the mapped X.
//   - An incline whose leg is on the right is mirrored so its high end is
//     on the right. The leg strut always stands under the high end.
//   - Two hidden static walls just outside the canvas keep dynamic bodies
//     on screen.
//
// Missing or invalid environment fields fall back to the Default*
// constants. Nothing here returns an error: content that cannot be built
// is reported to the diagnostics sink and skipped.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/coords"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/diag"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
)

// Fallbacks in scenario units unless noted.
const (
	DefaultGroundWidth      = 20.0
	DefaultGroundFriction   = 0.5
	DefaultInclineAngle     = 30.0 // degrees
	DefaultInclineLength    = 5.0
	DefaultInclineThickness = 0.2
	DefaultInclineFriction  = 0.3
	DefaultLegThickness     = 0.2
	DefaultCliffWidth       = 2.0
	DefaultCliffHeight      = 3.0
	DefaultWallWidth        = 0.5
	DefaultWallHeight       = 3.0

	// GroundThickness is in pixels and does not scale.
	GroundThickness = 20.0

	// BoundaryThickness is the pixel width of the hidden containment walls.
	BoundaryThickness = 50.0

	// MinFeatureSize is the smallest pixel dimension of a static feature.
	MinFeatureSize = 2.0

	ReflectiveRestitution = 1.0
	WallRestitution       = 0.1
)

// Environment colors.
const (
	GroundColor  = "#4b5563"
	InclineColor = "#8b5a2b"
	LegColor     = "#6b4423"
	CliffColor   = "#78716c"
	WallColor    = "#9ca3af"
)

type GroundLayout struct {
	ID        string
	Center    mgl64.Vec2
	Width     float64
	Thickness float64
	Top       float64
	Left      float64
	Right     float64
}

// InclineLayout describes an incline's center line.
type InclineLayout struct {
	ID        string
	Angle     float64 // body rotation, radians, clockwise on screen
	Center    mgl64.Vec2
	Length    float64
	Thickness float64
	LegSide   string

	// Low and High are the ends of the center line; Normal is the unit
	// normal pointing up on screen.
	Low    mgl64.Vec2
	High   mgl64.Vec2
	Normal mgl64.Vec2
}

// PointAt returns the point on the center line at ratio in [0,1], where 0
// is the low end.
func (l InclineLayout) PointAt(ratio float64) mgl64.Vec2 {
	return l.Low.Add(l.High.Sub(l.Low).Mul(ratio))
}

type BlockLayout struct {
	ID     string
	Edge   string
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

func (b BlockLayout) Center() mgl64.Vec2 {
	return mgl64.Vec2{(b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2}
}

// Layout is where the environment ended up, cached for object placement.
type Layout struct {
	Ground   *GroundLayout
	Inclines []InclineLayout
	Cliffs   []BlockLayout
	Walls    []BlockLayout
}

// Builder constructs static and dynamic bodies for one run.
type Builder struct {
	world  engine.World
	mapper coords.Mapper
	report diag.Reporter
	layout Layout
}

func NewBuilder(w engine.World, m coords.Mapper, sink diag.Sink) *Builder {
	return &Builder{
		world:  w,
		mapper: m,
		report: diag.Reporter{Component: "scene", Sink: sink},
	}
}

func (b *Builder) Layout() Layout {
	return b.layout
}

// Environment builds every environment in order, then the containment
// walls, and returns the resulting layout.
func (b *Builder) Environment(envs []scenario.Environment) Layout {
	for _, e := range envs {
		switch v := e.(type) {
		case scenario.Ground:
			b.ground(v)
		case scenario.Incline:
			b.incline(v)
		case scenario.Cliff:
			b.cliff(v)
		case scenario.Wall:
			b.wall(v)
		case scenario.UnknownEnvironment:
			if v.Err != nil {
				b.report.Reportf(v.ID, "malformed %q environment skipped: %v", v.Tag, v.Err)
			} else {
				b.report.Reportf(v.ID, "unknown environment type %q skipped", v.Tag)
			}
		default:
			b.report.Reportf("", "unsupported environment %T skipped", e)
		}
	}
	b.boundaries()
	return b.layout
}

func (b *Builder) ground(g scenario.Ground) {
	width := b.size(g.Width, DefaultGroundWidth)
	center := b.mapper.ToCanvas(g.Position.Vec2())

	_, err := b.world.AddBody(engine.BodyDef{
		Label:    label(g.ID, "ground"),
		Position: center,
		Shape:    engine.Rectangle{Width: width, Height: GroundThickness},
		Static:   true,
		Friction: g.Friction.Or(DefaultGroundFriction),
		Style:    engine.Style{Fill: GroundColor},
	})
	if err != nil {
		b.report.Report(g.ID, err)
		return
	}
	if b.layout.Ground != nil {
		return
	}
	b.layout.Ground = &GroundLayout{
		ID:        g.ID,
		Center:    center,
		Width:     width,
		Thickness: GroundThickness,
		Top:       center.Y() - GroundThickness/2,
		Left:      center.X() - width/2,
		Right:     center.X() + width/2,
	}
}

// base returns the Y a feature rests on: the anchor ground's top, or the
// feature's own mapped Y.
func (b *Builder) base(mapped mgl64.Vec2) float64 {
	if b.layout.Ground != nil {
		return b.layout.Ground.Top
	}
	return mapped.Y()
}

func (b *Builder) incline(in scenario.Incline) {
	deg := DefaultInclineAngle
	if in.Angle != nil && *in.Angle > 0 && *in.Angle < 90 {
		deg = *in.Angle
	}
	a := deg * math.Pi / 180
	length := b.size(in.Length, DefaultInclineLength)
	thickness := b.size(in.Thickness, DefaultInclineThickness)
	legSide := in.LegSide()

	theta := a
	if legSide == scenario.EdgeRight {
		theta = math.Pi - a
	}

	mapped := b.mapper.ToCanvas(in.Position.Vec2())
	half := length / 2
	base := b.base(mapped)
	center := mgl64.Vec2{mapped.X(), base - half*math.Sin(a)}

	_, err := b.world.AddBody(engine.BodyDef{
		Label:    label(in.ID, "incline"),
		Position: center,
		Angle:    theta,
		Shape:    engine.Rectangle{Width: length, Height: thickness},
		Static:   true,
		Friction: in.Friction.Or(DefaultInclineFriction),
		Style:    engine.Style{Fill: InclineColor},
	})
	if err != nil {
		b.report.Report(in.ID, err)
		return
	}

	dir := mgl64.Vec2{math.Cos(theta), math.Sin(theta)}
	p1, p2 := center.Sub(dir.Mul(half)), center.Add(dir.Mul(half))
	low, high := p1, p2
	if p2.Y() > p1.Y() {
		low, high = p2, p1
	}
	normal := mgl64.Vec2{dir.Y(), -dir.X()}
	if normal.Y() > 0 {
		normal = normal.Mul(-1)
	}

	layout := InclineLayout{
		ID:        in.ID,
		Angle:     theta,
		Center:    center,
		Length:    length,
		Thickness: thickness,
		LegSide:   legSide,
		Low:       low,
		High:      high,
		Normal:    normal,
	}
	b.layout.Inclines = append(b.layout.Inclines, layout)

	if in.Leg != nil {
		b.leg(in, layout, base)
	}
}

// leg stands a strut under the high end, from the base up to the center
// line, kept inside the incline's horizontal span.
func (b *Builder) leg(in scenario.Incline, l InclineLayout, base float64) {
	thickness := b.size(in.Leg.Thickness, DefaultLegThickness)
	height := base - l.High.Y()
	if height < MinFeatureSize {
		return
	}
	x := l.High.X() - thickness/2
	if l.High.X() < l.Low.X() {
		x = l.High.X() + thickness/2
	}
	_, err := b.world.AddBody(engine.BodyDef{
		Label:    label(in.ID, "incline") + "-leg",
		Position: mgl64.Vec2{x, base - height/2},
		Shape:    engine.Rectangle{Width: thickness, Height: height},
		Static:   true,
		Style:    engine.Style{Fill: LegColor},
	})
	if err != nil {
		b.report.Report(in.ID, err)
	}
}

// block anchors a cliff or wall: bottom on the base, horizontal position
// flush with a ground edge or at the mapped X.
func (b *Builder) block(pos scenario.Vector, width, height float64, edge string) BlockLayout {
	mapped := b.mapper.ToCanvas(pos.Vec2())
	bottom := b.base(mapped)

	cx := mapped.X()
	if g := b.layout.Ground; g != nil {
		switch edge {
		case scenario.EdgeRight:
			cx = g.Right + width/2
		case scenario.EdgeLeft:
			cx = g.Left - width/2
		}
	}
	return BlockLayout{
		Edge:   edge,
		Left:   cx - width/2,
		Right:  cx + width/2,
		Top:    bottom - height,
		Bottom: bottom,
	}
}

func (b *Builder) cliff(c scenario.Cliff) {
	width := b.size(c.Width, DefaultCliffWidth)
	height := b.size(c.Height, DefaultCliffHeight)
	l := b.block(c.Position, width, height, c.Edge)
	l.ID = c.ID

	_, err := b.world.AddBody(engine.BodyDef{
		Label:    label(c.ID, "cliff"),
		Position: l.Center(),
		Shape:    engine.Rectangle{Width: width, Height: height},
		Static:   true,
		Friction: DefaultGroundFriction,
		Style:    engine.Style{Fill: CliffColor},
	})
	if err != nil {
		b.report.Report(c.ID, err)
		return
	}
	b.layout.Cliffs = append(b.layout.Cliffs, l)
}

func (b *Builder) wall(w scenario.Wall) {
	width := b.size(w.Width, DefaultWallWidth)
	height := b.size(w.Height, DefaultWallHeight)
	l := b.block(w.Position, width, height, w.Edge)
	l.ID = w.ID

	restitution := WallRestitution
	if w.IsReflective {
		restitution = ReflectiveRestitution
	}
	_, err := b.world.AddBody(engine.BodyDef{
		Label:       label(w.ID, "wall"),
		Position:    l.Center(),
		Shape:       engine.Rectangle{Width: width, Height: height},
		Static:      true,
		Restitution: restitution,
		Style:       engine.Style{Fill: WallColor},
	})
	if err != nil {
		b.report.Report(w.ID, err)
		return
	}
	b.layout.Walls = append(b.layout.Walls, l)
}

// boundaries adds the hidden walls just outside the left and right canvas
// edges.
func (b *Builder) boundaries() {
	w, h := b.mapper.Width, b.mapper.Height
	for i, x := range []float64{-BoundaryThickness / 2, w + BoundaryThickness/2} {
		_, err := b.world.AddBody(engine.BodyDef{
			Label:    []string{"boundary-left", "boundary-right"}[i],
			Position: mgl64.Vec2{x, h / 2},
			Shape:    engine.Rectangle{Width: BoundaryThickness, Height: math.Max(h, MinFeatureSize)},
			Static:   true,
			Style:    engine.Style{Hidden: true},
		})
		if err != nil {
			b.report.Report("boundary", err)
		}
	}
}

// size scales a dimension to pixels, substituting def for a missing or
// non-positive value.
func (b *Builder) size(v *float64, def float64) float64 {
	s := def
	if v != nil && *v > 0 && !math.IsInf(*v, 0) {
		s = *v
	}
	return math.Max(b.mapper.Length(s), MinFeatureSize)
}

func label(id, kind string) string {
	if id != "" {
		return id
	}
	return kind
}
