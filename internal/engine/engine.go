// Package engine is the rigid-body capability set the simulation is built on,
// and its Box2D-backed implementation.
//
// Every quantity crossing this API is in canvas units: positions and
// lengths in pixels with y pointing down, velocities in px/s, angles in
// radians clockwise on screen, forces in kg·px/s². Implementations convert
// to whatever their solver uses internally.
//
// Step hooks registered with [World.BeforeStep] run once per step, in
// registration order, before springs are applied and the solver advances.
// The returned function unregisters the hook; there is no other way to
// cancel it.
package engine

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrInvalidShape indicates shape parameters that cannot produce a body.
	ErrInvalidShape = errors.New("engine: invalid shape parameters")

	// ErrDegenerateShape indicates an outline with no usable area.
	ErrDegenerateShape = errors.New("engine: degenerate shape")

	// ErrForeignBody indicates a body that was not created by this world.
	ErrForeignBody = errors.New("engine: body belongs to another world")

	// ErrNoEndpoint indicates a spring with neither a second body nor an anchor.
	ErrNoEndpoint = errors.New("engine: spring has no second endpoint")

	// ErrClosed indicates use of a world after Close.
	ErrClosed = errors.New("engine: world closed")
)

// Style is an opaque render hint stored with a body.
type Style struct {
	Fill   string
	Stroke string
	Hidden bool
}

type BodyDef struct {
	Label       string
	Position    mgl64.Vec2
	Angle       float64
	Shape       Shape
	Static      bool
	Mass        float64
	Friction    float64
	Restitution float64
	Style       Style
}

// SpringDef connects A to B, or to the fixed point Anchor when B is nil.
// RestLength < 0 means the distance between the endpoints at creation.
type SpringDef struct {
	Label      string
	A          Body
	B          Body
	Anchor     *mgl64.Vec2
	Stiffness  float64
	Damping    float64
	RestLength float64
}

type Body interface {
	Label() string
	Position() mgl64.Vec2
	Angle() float64
	Velocity() mgl64.Vec2
	AngularVelocity() float64
	Mass() float64
	Static() bool
	Style() Style

	// Vertices returns the body outline in canvas coordinates.
	Vertices() []mgl64.Vec2
	Bounds() (min, max mgl64.Vec2)

	SetPosition(p mgl64.Vec2)
	SetVelocity(v mgl64.Vec2)
	SetAngularVelocity(w float64)
	SetAngle(a float64)

	// ApplyForce adds a force at the center of mass for the next step only.
	ApplyForce(f mgl64.Vec2)
}

type Constraint interface {
	Label() string
	Endpoints() (a, b mgl64.Vec2)
	Length() float64
	RestLength() float64
	Stiffness() float64
	Damping() float64
}

type World interface {
	AddBody(def BodyDef) (Body, error)
	AddSpring(def SpringDef) (Constraint, error)
	RemoveBody(b Body) error
	Bodies() []Body
	Constraints() []Constraint
	BodyCount() int
	ConstraintCount() int

	// Clear removes every body and constraint and rewinds the clock.
	Clear()

	SetGravity(g mgl64.Vec2)
	Gravity() mgl64.Vec2
	SetTimeScale(s float64)
	TimeScale() float64

	BeforeStep(fn func(dt float64)) (unsubscribe func())

	// Step advances the world by dt scaled by the time scale.
	Step(dt float64)

	// Time is the scaled simulated time since the last Clear.
	Time() float64

	Close() error
}
