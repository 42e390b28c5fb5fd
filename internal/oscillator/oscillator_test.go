package oscillator

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
)

func TestForce(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		y    float64
		vy   float64
		want float64
	}{
		{"at rest at equilibrium", Record{Stiffness: 10, Damping: 1, EquilibriumY: 50}, 50, 0, 0},
		{"below equilibrium", Record{Stiffness: 10, EquilibriumY: 50}, 60, 0, -100},
		{"above equilibrium", Record{Stiffness: 10, EquilibriumY: 50}, 40, 0, 100},
		{"damping only", Record{Stiffness: 10, Damping: 2, EquilibriumY: 50}, 50, 3, -6},
		{"combined", Record{Stiffness: 4, Damping: 0.5, EquilibriumY: 0}, 2, -2, -7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Force(tt.rec, tt.y, tt.vy); got != tt.want {
				t.Errorf("Force = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(Record{ID: "a", Stiffness: 1})
	r.Register(Record{ID: "b", Stiffness: 2})
	r.Register(Record{ID: "a", Stiffness: 3})

	if r.Len() != 2 {
		t.Fatalf("len %d", r.Len())
	}
	if rec, ok := r.Get("a"); !ok || rec.Stiffness != 3 {
		t.Errorf("re-register should replace: %+v", rec)
	}
	r.Clear()
	if r.Len() != 0 {
		t.Error("clear left records")
	}
	if _, ok := r.Get("b"); ok {
		t.Error("clear left index entries")
	}
}

func TestStepDrivesBody(t *testing.T) {
	w := engine.NewBox2DWorld(30)
	defer w.Close()

	body, err := w.AddBody(engine.BodyDef{Label: "m", Position: mgl64.Vec2{0, 100}, Shape: engine.Rectangle{Width: 20, Height: 20}, Mass: 1})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRegistry()
	r.Register(Record{ID: "m", Body: body, Mass: 1, Stiffness: 10, EquilibriumY: 50})
	w.BeforeStep(r.Step)

	w.Step(0.01)
	// F = -10*50 = -500, a = -500 px/s²
	if v := body.Velocity().Y(); math.Abs(v+5) > 1e-3 {
		t.Errorf("vy after one step %v, want -5", v)
	}
}

func TestStepDecays(t *testing.T) {
	w := engine.NewBox2DWorld(30)
	defer w.Close()

	body, _ := w.AddBody(engine.BodyDef{Position: mgl64.Vec2{0, 80}, Shape: engine.Circle{Radius: 5}, Mass: 0.5})
	r := NewRegistry()
	r.Register(Record{ID: "m", Body: body, Mass: 0.5, Stiffness: 20, Damping: 0.5, EquilibriumY: 50})
	w.BeforeStep(r.Step)

	peak := func(steps int) float64 {
		var m float64
		for i := 0; i < steps; i++ {
			w.Step(1.0 / 120)
			m = math.Max(m, math.Abs(body.Position().Y()-50))
		}
		return m
	}
	first := peak(240)
	later := peak(240)
	if later >= first {
		t.Errorf("amplitude did not decay: %v then %v", first, later)
	}
	if first > 30+1e-6 {
		t.Errorf("amplitude grew past the initial displacement: %v", first)
	}
}
