package motion

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/coords"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/diag"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/oscillator"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scene"
)

const tol = 1e-6

func setup(t *testing.T, scale float64) (*Applier, scene.Index, *oscillator.Registry, *diag.Collector) {
	t.Helper()
	w := engine.NewBox2DWorld(30)
	t.Cleanup(func() { w.Close() })
	body, err := w.AddBody(engine.BodyDef{
		Label:    "box",
		Position: mgl64.Vec2{400, 300},
		Shape:    engine.Rectangle{Width: 30, Height: 30},
		Mass:     2,
	})
	if err != nil {
		t.Fatal(err)
	}
	reg := oscillator.NewRegistry()
	c := diag.NewCollector()
	return NewApplier(coords.New(800, 600, scale), reg, c), scene.Index{"box": body}, reg, c
}

func near(a, b mgl64.Vec2) bool {
	return a.Sub(b).Len() < 1e-3
}

func TestLinearVelocity(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		m     scenario.Motion
		want  mgl64.Vec2
	}{
		{
			name:  "velocity at time with y flipped",
			scale: 1,
			m: scenario.Linear{
				Ref: scenario.Ref{ObjectID: "box"},
				Kinematics: scenario.Kinematics{
					InitialVelocity: scenario.Vector{X: 2, Y: 3},
					Acceleration:    scenario.Vector{Y: -1},
					Time:            2,
				},
			},
			want: mgl64.Vec2{2, -1},
		},
		{
			name:  "scaled to pixels",
			scale: 10,
			m: scenario.Projectile2D{
				Ref:        scenario.Ref{Object: "box"},
				Kinematics: scenario.Kinematics{InitialVelocity: scenario.Vector{X: 1, Y: 2}},
			},
			want: mgl64.Vec2{10, -20},
		},
		{
			name:  "relative prefers explicit velocity",
			scale: 1,
			m: scenario.Relative{
				Ref:              scenario.Ref{ObjectID: "box"},
				ObjectVelocity:   scenario.Vector{X: 5},
				RelativeVelocity: &scenario.Vector{X: 3, Y: 1},
			},
			want: mgl64.Vec2{3, -1},
		},
		{
			name:  "relative from frame difference",
			scale: 1,
			m: scenario.Relative{
				Ref:                    scenario.Ref{ObjectID: "box"},
				ObjectVelocity:         scenario.Vector{X: 5, Y: 2},
				ReferenceFrameVelocity: scenario.Vector{X: 1},
			},
			want: mgl64.Vec2{4, -2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, bodies, _, c := setup(t, tt.scale)
			a.Apply(bodies, []scenario.Motion{tt.m})
			if got := bodies["box"].Velocity(); !near(got, tt.want) {
				t.Errorf("velocity %v, want %v", got, tt.want)
			}
			if c.Len() != 0 {
				t.Errorf("unexpected diagnostics %v", c.All())
			}
		})
	}
}

func TestCombinedSetsSpin(t *testing.T) {
	a, bodies, _, _ := setup(t, 1)
	a.Apply(bodies, []scenario.Motion{scenario.CombinedTransRot{
		Ref:         scenario.Ref{ObjectID: "box"},
		Translation: scenario.Translation{InitialVelocity: scenario.Vector{X: 1}},
		Rotation:    scenario.Rotation{InitialAngularVelocity: 2},
	}})
	body := bodies["box"]
	if math.Abs(body.AngularVelocity()+2) > tol {
		t.Errorf("angular velocity %v, want -2", body.AngularVelocity())
	}
	if !near(body.Velocity(), mgl64.Vec2{1, 0}) {
		t.Errorf("velocity %v", body.Velocity())
	}
}

func TestDampedOscillationRegisters(t *testing.T) {
	a, bodies, reg, _ := setup(t, 10)
	a.Apply(bodies, []scenario.Motion{scenario.DampedOscillation{
		Ref:                 scenario.Ref{ObjectID: "box"},
		Mass:                2,
		SpringConstant:      8,
		DampingCoefficient:  0.5,
		InitialDisplacement: 1.5,
	}})
	rec, ok := reg.Get("box")
	if !ok {
		t.Fatal("oscillator not registered")
	}
	if rec.EquilibriumY != 300-15 || rec.Stiffness != 8 || rec.Damping != 0.5 || rec.Mass != 2 {
		t.Errorf("record %+v", rec)
	}

	a.Apply(bodies, []scenario.Motion{scenario.DampedOscillation{Ref: scenario.Ref{ObjectID: "box"}, SpringConstant: 1}})
	rec, _ = reg.Get("box")
	if reg.Len() != 1 || math.Abs(rec.Mass-2) > 1e-3 {
		t.Errorf("re-registration should replace and fall back to body mass: %+v", rec)
	}
}

func TestApplyDiagnostics(t *testing.T) {
	a, bodies, _, c := setup(t, 1)
	a.Apply(bodies, []scenario.Motion{
		scenario.Linear{Ref: scenario.Ref{ObjectID: "ghost"}},
		scenario.UniformCircular{Ref: scenario.Ref{ObjectID: "box"}},
		scenario.UnknownMotion{Ref: scenario.Ref{ObjectID: "box"}, Tag: "warp"},
	})
	all := c.All()
	if len(all) != 3 {
		t.Fatalf("diagnostics %v", all)
	}
	if !errors.Is(all[0], ErrNoObject) || !errors.Is(all[1], ErrNotImplemented) || !errors.Is(all[2], ErrUnknownMotion) {
		t.Errorf("diagnostics %v", all)
	}
	if v := bodies["box"].Velocity(); v.Len() != 0 {
		t.Errorf("body should be untouched, velocity %v", v)
	}
}
