package coords

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
)

func TestMapperRoundTrip(t *testing.T) {
	m := New(800, 600, 25)

	origin := m.ToCanvas(mgl64.Vec2{0, 0})
	if origin.X() != 400 || origin.Y() != 420 {
		t.Errorf("origin mapped to %v", origin)
	}

	p := m.ToCanvas(mgl64.Vec2{2, 1})
	if p.X() != 450 || p.Y() != 395 {
		t.Errorf("(2,1) mapped to %v", p)
	}

	tests := []mgl64.Vec2{{0, 0}, {-3.5, 2}, {10, -4}}
	for _, w := range tests {
		back := m.ToWorld(m.ToCanvas(w))
		if !back.ApproxEqualThreshold(w, 1e-9) {
			t.Errorf("round trip %v -> %v", w, back)
		}
	}

	if d := m.Vector(mgl64.Vec2{1, 1}); d.X() != 25 || d.Y() != -25 {
		t.Errorf("vector flip: %v", d)
	}
}

func TestComputeScaleSmallScene(t *testing.T) {
	// a tiny scene is fitted to MinSceneSize, then capped at MaxScale
	sc := &scenario.Scenario{Objects: []scenario.Object{{ID: "a", Position: scenario.Vector{X: 1}}}}
	got := ComputeScale(sc, 800, 600)
	want := math.Min((600-Margin)/(2*MinSceneSize), MaxScale)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if s := ComputeScale(nil, 800, 600); s != want {
		t.Errorf("nil scenario scale %v", s)
	}
}

func TestComputeScaleMonotonic(t *testing.T) {
	prev := math.Inf(1)
	for extent := 1.0; extent < 500; extent *= 1.5 {
		w := extent * 2
		sc := &scenario.Scenario{Objects: []scenario.Object{{ID: "a", Width: &w}}}
		s := ComputeScale(sc, 1024, 768)
		if s > prev {
			t.Fatalf("scale grew from %v to %v at extent %v", prev, s, extent)
		}
		if s < MinScale || s > MaxScale {
			t.Fatalf("scale %v outside clamp", s)
		}
		prev = s
	}
}

func TestComputeScaleLargeSceneFloors(t *testing.T) {
	// geometrically this scene needs a scale below MinScale; it is floored
	s := ScaleForExtent(10000, 10000, 800, 600)
	if s != MinScale {
		t.Errorf("got %v, want MinScale", s)
	}
}

func TestExtent(t *testing.T) {
	r := 0.5
	gw := 10.0
	sc := &scenario.Scenario{
		Objects: []scenario.Object{
			{ID: "ball", Position: scenario.Vector{X: -3, Y: 2}, Radius: &r},
		},
		Environments: []scenario.Environment{
			scenario.Ground{Width: &gw},
			scenario.UnknownEnvironment{Tag: "pulley"},
		},
	}
	x, y := Extent(sc)
	if x != 5 || y != 2.5 {
		t.Errorf("extent = %v, %v", x, y)
	}
}
