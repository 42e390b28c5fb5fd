// Package motion sets the initial kinematic state of placed bodies from the
// scenario's motion records.
package motion

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/coords"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/diag"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/oscillator"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
)

var (
	// ErrNotImplemented marks motion kinds that are recognized but have no
	// effect yet.
	ErrNotImplemented = errors.New("motion: kind not implemented")

	// ErrUnknownMotion indicates an unrecognized motion tag.
	ErrUnknownMotion = errors.New("motion: unknown motion type")

	// ErrNoObject indicates a motion whose object reference does not
	// resolve to a placed body.
	ErrNoObject = errors.New("motion: object not found")
)

// Bodies resolves object ids to placed bodies.
type Bodies interface {
	Body(id string) (engine.Body, bool)
}

type Applier struct {
	mapper      coords.Mapper
	oscillators *oscillator.Registry
	report      diag.Reporter
}

func NewApplier(m coords.Mapper, oscillators *oscillator.Registry, sink diag.Sink) *Applier {
	return &Applier{
		mapper:      m,
		oscillators: oscillators,
		report:      diag.Reporter{Component: "motion", Sink: sink},
	}
}

// Apply dispatches every motion onto the body it references. Motions that
// cannot be applied are reported and leave their body untouched.
func (a *Applier) Apply(bodies Bodies, motions []scenario.Motion) {
	for _, m := range motions {
		ref := m.ObjectRef()
		if u, ok := m.(scenario.UnknownMotion); ok {
			if u.Err != nil {
				a.report.Reportf(ref, "malformed %q motion skipped: %v", u.Tag, u.Err)
			} else {
				a.report.Report(ref, fmt.Errorf("%w %q", ErrUnknownMotion, u.Tag))
			}
			continue
		}
		body, ok := bodies.Body(ref)
		if !ok {
			a.report.Report(ref, fmt.Errorf("%w: %s motion references %q", ErrNoObject, m.MotionType(), ref))
			continue
		}
		if err := a.apply(body, m); err != nil {
			a.report.Report(ref, err)
		}
	}
}

func (a *Applier) apply(body engine.Body, m scenario.Motion) error {
	switch v := m.(type) {
	case scenario.Linear:
		body.SetVelocity(a.velocity(v.VelocityAt(float64(v.Time))))
	case scenario.Projectile2D:
		body.SetVelocity(a.velocity(v.VelocityAt(float64(v.Time))))
	case scenario.CombinedTransRot:
		body.SetVelocity(a.velocity(v.Translation.InitialVelocity))
		if angle := float64(v.Rotation.InitialAngle); angle != 0 {
			body.SetAngle(-angle)
		}
		body.SetAngularVelocity(-float64(v.Rotation.InitialAngularVelocity))
	case scenario.DampedOscillation:
		body.SetVelocity(a.velocity(v.InitialVelocity))
		a.oscillate(body, v)
	case scenario.Relative:
		body.SetVelocity(a.velocity(v.Velocity()))
	case scenario.Projectile3D, scenario.Resistive, scenario.Rotational,
		scenario.SimpleHarmonic, scenario.UniformCircular:
		return fmt.Errorf("%w: %s", ErrNotImplemented, m.MotionType())
	default:
		return fmt.Errorf("%w %q", ErrUnknownMotion, m.MotionType())
	}
	return nil
}

// velocity maps a world velocity (units/s, y up) to canvas px/s.
func (a *Applier) velocity(v scenario.Vector) mgl64.Vec2 {
	return a.mapper.Vector(v.Vec2())
}

func (a *Applier) oscillate(body engine.Body, v scenario.DampedOscillation) {
	if a.oscillators == nil {
		return
	}
	mass := float64(v.Mass)
	if mass <= 0 {
		mass = body.Mass()
	}
	a.oscillators.Register(oscillator.Record{
		ID:           body.Label(),
		Body:         body,
		Mass:         mass,
		Stiffness:    float64(v.SpringConstant),
		Damping:      float64(v.DampingCoefficient),
		EquilibriumY: body.Position().Y() - a.mapper.Length(float64(v.InitialDisplacement)),
	})
}
