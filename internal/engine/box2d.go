package engine

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultPixelsPerMeter = 30.0

	velocityIterations = 8
	positionIterations = 3

	// defaultDensity applies to dynamic bodies created without a mass.
	defaultDensity = 1.0
)

// Box2DWorld implements World on top of github.com/ByteArena/box2d.
//
// Springs are realized as a Hooke plus damping force pair applied before
// every solver step rather than as solver joints.
type Box2DWorld struct {
	b2        *box2d.B2World
	ppm       float64
	gravity   mgl64.Vec2
	timeScale float64
	elapsed   float64
	closed    bool

	bodies  []*box2dBody
	springs []*spring

	hooks  []stepHook
	nextID int
}

type stepHook struct {
	id int
	fn func(dt float64)
}

func NewBox2DWorld(pixelsPerMeter float64) *Box2DWorld {
	if !(pixelsPerMeter > 0) {
		pixelsPerMeter = DefaultPixelsPerMeter
	}
	b2 := box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	return &Box2DWorld{
		b2:        &b2,
		ppm:       pixelsPerMeter,
		timeScale: 1,
	}
}

func (w *Box2DWorld) PixelsPerMeter() float64 {
	return w.ppm
}

func (w *Box2DWorld) toB2(p mgl64.Vec2) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(p.X()/w.ppm, -p.Y()/w.ppm)
}

func (w *Box2DWorld) fromB2(p box2d.B2Vec2) mgl64.Vec2 {
	return mgl64.Vec2{p.X * w.ppm, -p.Y * w.ppm}
}

func (w *Box2DWorld) AddBody(def BodyDef) (b Body, err error) {
	if w.closed {
		return nil, ErrClosed
	}

	// box2d asserts on degenerate geometry; turn that into an error
	// and leave no half-built body behind.
	var created *box2d.B2Body
	defer func() {
		if r := recover(); r != nil {
			if created != nil {
				w.b2.DestroyBody(created)
			}
			b, err = nil, fmt.Errorf("%w: %v", ErrDegenerateShape, r)
		}
	}()

	outline, err := Outline(def.Shape)
	if err != nil {
		return nil, err
	}

	parts, err := w.fixtureShapes(def.Shape, outline)
	if err != nil {
		return nil, err
	}

	bd := box2d.MakeB2BodyDef()
	if def.Static {
		bd.Type = box2d.B2BodyType.B2_staticBody
	} else {
		bd.Type = box2d.B2BodyType.B2_dynamicBody
	}
	bd.Position = w.toB2(def.Position)
	bd.Angle = -def.Angle
	bd.AllowSleep = false
	bd.UserData = def.Label

	density := 0.0
	if !def.Static {
		density = defaultDensity
		if def.Mass > 0 {
			density = def.Mass / (Area(outline) / (w.ppm * w.ppm))
		}
	}

	created = w.b2.CreateBody(&bd)
	for _, shape := range parts {
		fd := box2d.MakeB2FixtureDef()
		fd.Shape = shape
		fd.Density = density
		fd.Friction = def.Friction
		fd.Restitution = def.Restitution
		created.CreateFixtureFromDef(&fd)
	}

	body := &box2dBody{
		w:       w,
		b:       created,
		label:   def.Label,
		static:  def.Static,
		style:   def.Style,
		outline: outline,
	}
	w.bodies = append(w.bodies, body)
	return body, nil
}

// fixtureShapes converts a centered pixel outline into box2d shapes in
// meters. Outlines that are concave or exceed the vertex limit are split
// into triangles.
func (w *Box2DWorld) fixtureShapes(s Shape, outline []mgl64.Vec2) ([]box2d.B2ShapeInterface, error) {
	if c, ok := s.(Circle); ok {
		shape := box2d.NewB2CircleShape()
		shape.M_radius = c.Radius / w.ppm
		return []box2d.B2ShapeInterface{shape}, nil
	}

	var polys [][]mgl64.Vec2
	switch {
	case convex(outline) && len(outline) <= box2d.B2_maxPolygonVertices:
		polys = [][]mgl64.Vec2{outline}
	case convex(outline):
		for i := range outline {
			polys = append(polys, []mgl64.Vec2{{0, 0}, outline[i], outline[(i+1)%len(outline)]})
		}
	default:
		polys = triangulate(outline)
	}

	minArea := 4 * box2d.B2_linearSlop * box2d.B2_linearSlop * w.ppm * w.ppm
	shapes := make([]box2d.B2ShapeInterface, 0, len(polys))
	for _, poly := range polys {
		if Area(poly) < minArea {
			continue
		}
		vs := make([]box2d.B2Vec2, len(poly))
		for i, p := range poly {
			vs[i] = box2d.MakeB2Vec2(p.X()/w.ppm, -p.Y()/w.ppm)
		}
		shape := box2d.NewB2PolygonShape()
		shape.Set(vs, len(vs))
		shapes = append(shapes, shape)
	}
	if len(shapes) == 0 {
		return nil, ErrDegenerateShape
	}
	return shapes, nil
}

func (w *Box2DWorld) AddSpring(def SpringDef) (Constraint, error) {
	if w.closed {
		return nil, ErrClosed
	}
	a, ok := def.A.(*box2dBody)
	if !ok || a.w != w || a.removed {
		return nil, ErrForeignBody
	}
	s := &spring{
		label:     def.Label,
		a:         a,
		stiffness: def.Stiffness,
		damping:   def.Damping,
	}
	switch {
	case def.B != nil:
		b, ok := def.B.(*box2dBody)
		if !ok || b.w != w || b.removed {
			return nil, ErrForeignBody
		}
		s.b = b
	case def.Anchor != nil:
		s.anchor = *def.Anchor
	default:
		return nil, ErrNoEndpoint
	}
	s.rest = def.RestLength
	if s.rest < 0 {
		s.rest = s.Length()
	}
	w.springs = append(w.springs, s)
	return s, nil
}

func (w *Box2DWorld) RemoveBody(b Body) error {
	bb, ok := b.(*box2dBody)
	if !ok || bb.w != w {
		return ErrForeignBody
	}
	if bb.removed {
		return nil
	}
	for i, cur := range w.bodies {
		if cur == bb {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	kept := w.springs[:0]
	for _, s := range w.springs {
		if s.a != bb && s.b != bb {
			kept = append(kept, s)
		}
	}
	w.springs = kept
	w.b2.DestroyBody(bb.b)
	bb.removed = true
	return nil
}

func (w *Box2DWorld) Bodies() []Body {
	out := make([]Body, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b
	}
	return out
}

func (w *Box2DWorld) Constraints() []Constraint {
	out := make([]Constraint, len(w.springs))
	for i, s := range w.springs {
		out[i] = s
	}
	return out
}

func (w *Box2DWorld) BodyCount() int { return len(w.bodies) }
func (w *Box2DWorld) ConstraintCount() int { return len(w.springs) }

func (w *Box2DWorld) Clear() {
	for _, b := range w.bodies {
		w.b2.DestroyBody(b.b)
		b.removed = true
	}
	w.bodies = nil
	w.springs = nil
	w.elapsed = 0
}

func (w *Box2DWorld) SetGravity(g mgl64.Vec2) {
	w.gravity = g
	w.b2.SetGravity(box2d.MakeB2Vec2(g.X()/w.ppm, -g.Y()/w.ppm))
}

func (w *Box2DWorld) Gravity() mgl64.Vec2 {
	return w.gravity
}

func (w *Box2DWorld) SetTimeScale(s float64) {
	if s < 0 {
		s = 0
	}
	w.timeScale = s
}

func (w *Box2DWorld) TimeScale() float64 {
	return w.timeScale
}

func (w *Box2DWorld) BeforeStep(fn func(dt float64)) func() {
	w.nextID++
	id := w.nextID
	w.hooks = append(w.hooks, stepHook{id: id, fn: fn})
	return func() {
		for i, h := range w.hooks {
			if h.id == id {
				w.hooks = append(w.hooks[:i:i], w.hooks[i+1:]...)
				return
			}
		}
	}
}

func (w *Box2DWorld) Step(dt float64) {
	if w.closed {
		return
	}
	dt *= w.timeScale
	if dt <= 0 {
		return
	}
	hooks := append([]stepHook(nil), w.hooks...)
	for _, h := range hooks {
		h.fn(dt)
	}
	for _, s := range w.springs {
		s.apply()
	}
	w.b2.Step(dt, velocityIterations, positionIterations)
	w.elapsed += dt
}

func (w *Box2DWorld) Time() float64 {
	return w.elapsed
}

func (w *Box2DWorld) Close() error {
	if w.closed {
		return nil
	}
	w.Clear()
	w.hooks = nil
	w.closed = true
	return nil
}

type box2dBody struct {
	w       *Box2DWorld
	b       *box2d.B2Body
	label   string
	static  bool
	style   Style
	outline []mgl64.Vec2
	removed bool
}

func (b *box2dBody) Label() string { return b.label }
func (b *box2dBody) Static() bool { return b.static }
func (b *box2dBody) Style() Style { return b.style }

func (b *box2dBody) Position() mgl64.Vec2 {
	return b.w.fromB2(b.b.GetPosition())
}

func (b *box2dBody) Angle() float64 {
	return -b.b.GetAngle()
}

func (b *box2dBody) Velocity() mgl64.Vec2 {
	return b.w.fromB2(b.b.GetLinearVelocity())
}

func (b *box2dBody) AngularVelocity() float64 {
	return -b.b.GetAngularVelocity()
}

func (b *box2dBody) Mass() float64 {
	return b.b.GetMass()
}

func (b *box2dBody) Vertices() []mgl64.Vec2 {
	return transform(b.outline, b.Position(), b.Angle())
}

func (b *box2dBody) Bounds() (mgl64.Vec2, mgl64.Vec2) {
	return bounds(b.Vertices())
}

func (b *box2dBody) SetPosition(p mgl64.Vec2) {
	b.b.SetTransform(b.w.toB2(p), b.b.GetAngle())
}

func (b *box2dBody) SetVelocity(v mgl64.Vec2) {
	b.b.SetLinearVelocity(b.w.toB2(v))
}

func (b *box2dBody) SetAngularVelocity(w float64) {
	b.b.SetAngularVelocity(-w)
}

func (b *box2dBody) SetAngle(a float64) {
	b.b.SetTransform(b.b.GetPosition(), -a)
}

func (b *box2dBody) ApplyForce(f mgl64.Vec2) {
	if b.static || b.removed {
		return
	}
	// kg·px/s² to newtons is the same conversion as px to m
	b.b.ApplyForceToCenter(b.w.toB2(f), true)
}

type spring struct {
	label     string
	a, b      *box2dBody
	anchor    mgl64.Vec2
	rest      float64
	stiffness float64
	damping   float64
}

func (s *spring) Label() string { return s.label }
func (s *spring) RestLength() float64 { return s.rest }
func (s *spring) Stiffness() float64 { return s.stiffness }
func (s *spring) Damping() float64 { return s.damping }

func (s *spring) Endpoints() (mgl64.Vec2, mgl64.Vec2) {
	if s.b != nil {
		return s.a.Position(), s.b.Position()
	}
	return s.a.Position(), s.anchor
}

func (s *spring) Length() float64 {
	pa, pb := s.Endpoints()
	return pb.Sub(pa).Len()
}

// apply pulls the endpoints toward the rest length with F = k·x + c·v,
// where v is the relative velocity along the spring axis.
func (s *spring) apply() {
	pa, pb := s.Endpoints()
	d := pb.Sub(pa)
	l := d.Len()
	if l < 1e-9 {
		return
	}
	u := d.Mul(1 / l)

	va := s.a.Velocity()
	var vb mgl64.Vec2
	if s.b != nil {
		vb = s.b.Velocity()
	}
	rel := vb.Sub(va).Dot(u)

	f := s.stiffness*(l-s.rest) + s.damping*rel
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	s.a.ApplyForce(u.Mul(f))
	if s.b != nil {
		s.b.ApplyForce(u.Mul(-f))
	}
}

// convex reports whether a polygon turns the same way at every vertex.
func convex(pts []mgl64.Vec2) bool {
	n := len(pts)
	sign := 0
	for i := 0; i < n; i++ {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		cross := (b.X()-a.X())*(c.Y()-b.Y()) - (b.Y()-a.Y())*(c.X()-b.X())
		switch {
		case cross > 1e-12:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < -1e-12:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}

// triangulate splits a simple polygon into triangles by ear clipping.
func triangulate(pts []mgl64.Vec2) [][]mgl64.Vec2 {
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	orient := 1.0
	if a, _ := centroid(pts); a < 0 {
		orient = -1
	}

	var tris [][]mgl64.Vec2
	for guard := 0; len(idx) > 3 && guard < len(pts)*len(pts); guard++ {
		clipped := false
		for i := range idx {
			ip, ic, in := idx[(i+len(idx)-1)%len(idx)], idx[i], idx[(i+1)%len(idx)]
			a, b, c := pts[ip], pts[ic], pts[in]
			if orient*cross(a, b, c) <= 0 {
				continue
			}
			ear := true
			for _, j := range idx {
				if j == ip || j == ic || j == in {
					continue
				}
				if inTriangle(pts[j], a, b, c, orient) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}
			tris = append(tris, []mgl64.Vec2{a, b, c})
			idx = append(idx[:i:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break
		}
	}
	if len(idx) == 3 {
		tris = append(tris, []mgl64.Vec2{pts[idx[0]], pts[idx[1]], pts[idx[2]]})
	}
	return tris
}

func cross(a, b, c mgl64.Vec2) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())
}

func inTriangle(p, a, b, c mgl64.Vec2, orient float64) bool {
	return orient*cross(a, b, p) >= 0 && orient*cross(b, c, p) >= 0 && orient*cross(c, a, p) >= 0
}
