// Package interact turns scenario interactions into engine constraints.
// Springs are simulated; every other interaction kind is reported.
package interact

import (
	"errors"
	"fmt"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/coords"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/diag"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
)

var (
	ErrNotImplemented = errors.New("interact: kind not implemented")
	ErrUnknown        = errors.New("interact: unknown interaction type")
	ErrNoObject       = errors.New("interact: object not found")
	ErrNoEndpoint     = errors.New("interact: spring has neither objectB nor vertex")
)

// Bodies resolves object ids to placed bodies.
type Bodies interface {
	Body(id string) (engine.Body, bool)
}

type Builder struct {
	world  engine.World
	mapper coords.Mapper
	report diag.Reporter
}

func NewBuilder(w engine.World, m coords.Mapper, sink diag.Sink) *Builder {
	return &Builder{
		world:  w,
		mapper: m,
		report: diag.Reporter{Component: "interact", Sink: sink},
	}
}

// Apply creates a constraint for every spring that resolves and returns
// them in input order.
func (b *Builder) Apply(bodies Bodies, interactions []scenario.Interaction) []engine.Constraint {
	var out []engine.Constraint
	for _, in := range interactions {
		switch v := in.(type) {
		case scenario.SpringForce:
			c, err := b.spring(bodies, v)
			if err != nil {
				b.report.Report(springLabel(v), err)
				continue
			}
			out = append(out, c)
		case scenario.UnknownInteraction:
			if v.Err != nil {
				b.report.Reportf(v.Tag, "malformed interaction skipped: %v", v.Err)
				continue
			}
			b.report.Report(v.Tag, fmt.Errorf("%w %q", ErrUnknown, v.Tag))
		case scenario.Collision, scenario.FrictionInteraction, scenario.Gravity,
			scenario.Tension, scenario.NormalForce, scenario.DragForce,
			scenario.ElectroStatic, scenario.MagneticForce, scenario.Buoyancy:
			b.report.Report(in.InteractionType(), ErrNotImplemented)
		default:
			b.report.Report(in.InteractionType(), fmt.Errorf("%w %T", ErrUnknown, in))
		}
	}
	return out
}

func (b *Builder) spring(bodies Bodies, s scenario.SpringForce) (engine.Constraint, error) {
	a, ok := bodies.Body(s.ObjectA)
	if !ok {
		return nil, fmt.Errorf("%w: objectA %q", ErrNoObject, s.ObjectA)
	}
	def := engine.SpringDef{
		Label:      springLabel(s),
		A:          a,
		Stiffness:  float64(s.SpringConstant),
		Damping:    float64(s.DampingCoefficient),
		RestLength: -1,
	}
	if s.RestLength != nil && *s.RestLength >= 0 {
		def.RestLength = b.mapper.Length(float64(*s.RestLength))
	}

	switch {
	case s.ObjectB != "":
		other, ok := bodies.Body(s.ObjectB)
		if !ok {
			return nil, fmt.Errorf("%w: objectB %q", ErrNoObject, s.ObjectB)
		}
		def.B = other
	case s.Vertex != nil:
		p := b.mapper.ToCanvas(s.Vertex.Vec2())
		def.Anchor = &p
	default:
		return nil, ErrNoEndpoint
	}
	return b.world.AddSpring(def)
}

func springLabel(s scenario.SpringForce) string {
	if s.ID != "" {
		return s.ID
	}
	return "spring-" + s.ObjectA
}
