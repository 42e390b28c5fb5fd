package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Abs(b))
}

func TestOutline(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		n     int
		area  float64
	}{
		{"rectangle", Rectangle{Width: 40, Height: 20}, 4, 800},
		{"trapezoid", Trapezoid{Width: 40, Height: 20, Slope: 0.25}, 4, 600},
		{"hexagon", RegularPolygon{Sides: 6, Radius: 10}, 6, 1.5 * math.Sqrt(3) * 100},
		{"circle", Circle{Radius: 10}, CircleSegments, 0},
		{"triangle", Vertices{Points: []mgl64.Vec2{{0, 0}, {30, 0}, {0, 30}}}, 3, 450},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, err := Outline(tt.shape)
			if err != nil {
				t.Fatalf("outline: %v", err)
			}
			if len(pts) != tt.n {
				t.Errorf("got %d points, want %d", len(pts), tt.n)
			}
			if tt.area > 0 && !near(Area(pts), tt.area) {
				t.Errorf("area %v, want %v", Area(pts), tt.area)
			}
			_, c := centroid(pts)
			if c.Len() > eps {
				t.Errorf("outline not centered: centroid %v", c)
			}
		})
	}
}

func TestOutlineInvalid(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		err   error
	}{
		{"zero radius", Circle{}, ErrInvalidShape},
		{"two sides", RegularPolygon{Sides: 2, Radius: 5}, ErrInvalidShape},
		{"too many sides", RegularPolygon{Sides: MaxPolygonSides + 1, Radius: 5}, ErrInvalidShape},
		{"flat rectangle", Rectangle{Width: 10}, ErrInvalidShape},
		{"nan trapezoid", Trapezoid{Width: math.NaN(), Height: 1}, ErrInvalidShape},
		{"two vertices", Vertices{Points: []mgl64.Vec2{{0, 0}, {1, 1}}}, ErrInvalidShape},
		{"collinear", Vertices{Points: []mgl64.Vec2{{0, 0}, {1, 1}, {2, 2}}}, ErrDegenerateShape},
		{"nil", nil, ErrInvalidShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Outline(tt.shape); !errors.Is(err, tt.err) {
				t.Errorf("got %v, want %v", err, tt.err)
			}
		})
	}
}

func TestAddBody(t *testing.T) {
	w := NewBox2DWorld(30)
	defer w.Close()

	b, err := w.AddBody(BodyDef{
		Label:    "box",
		Position: mgl64.Vec2{120, 240},
		Angle:    0.3,
		Shape:    Rectangle{Width: 60, Height: 30},
		Mass:     4,
	})
	if err != nil {
		t.Fatalf("add body: %v", err)
	}
	if p := b.Position(); !near(p.X(), 120) || !near(p.Y(), 240) {
		t.Errorf("position %v", p)
	}
	if !near(b.Angle(), 0.3) {
		t.Errorf("angle %v", b.Angle())
	}
	if !near(b.Mass(), 4) {
		t.Errorf("mass %v, want 4", b.Mass())
	}
	if b.Label() != "box" || b.Static() {
		t.Errorf("unexpected body %s static=%v", b.Label(), b.Static())
	}

	lo, hi := b.Bounds()
	if lo.X() >= 120 || hi.X() <= 120 || lo.Y() >= 240 || hi.Y() <= 240 {
		t.Errorf("bounds %v %v do not contain center", lo, hi)
	}

	ground, err := w.AddBody(BodyDef{Position: mgl64.Vec2{0, 400}, Shape: Rectangle{Width: 800, Height: 20}, Static: true})
	if err != nil {
		t.Fatalf("add ground: %v", err)
	}
	if ground.Mass() != 0 {
		t.Errorf("static mass %v", ground.Mass())
	}
	if w.BodyCount() != 2 {
		t.Errorf("body count %d", w.BodyCount())
	}
}

func TestAddBodySplitsLargeAndConcaveOutlines(t *testing.T) {
	w := NewBox2DWorld(30)
	defer w.Close()

	tests := []struct {
		name  string
		shape Shape
	}{
		{"dodecagon", RegularPolygon{Sides: 12, Radius: 30}},
		{"l-shape", Vertices{Points: []mgl64.Vec2{{0, 0}, {60, 0}, {60, 20}, {20, 20}, {20, 60}, {0, 60}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := w.AddBody(BodyDef{Position: mgl64.Vec2{100, 100}, Shape: tt.shape, Mass: 2})
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			if math.Abs(b.Mass()-2) > 1e-3 {
				t.Errorf("mass %v, want 2", b.Mass())
			}
		})
	}
}

func TestStepScalesTime(t *testing.T) {
	w := NewBox2DWorld(30)
	defer w.Close()

	b, err := w.AddBody(BodyDef{Position: mgl64.Vec2{0, 0}, Shape: Circle{Radius: 10}, Mass: 1})
	if err != nil {
		t.Fatal(err)
	}
	b.SetVelocity(mgl64.Vec2{60, -30})
	if v := b.Velocity(); !near(v.X(), 60) || !near(v.Y(), -30) {
		t.Fatalf("velocity round trip %v", v)
	}

	w.SetTimeScale(0.5)
	w.Step(1.0 / 60)
	if !near(w.Time(), 1.0/120) {
		t.Errorf("time %v", w.Time())
	}
	if p := b.Position(); !near(p.X(), 0.5) || !near(p.Y(), -0.25) {
		t.Errorf("position after step %v", p)
	}

	w.SetTimeScale(0)
	w.Step(1.0 / 60)
	if !near(w.Time(), 1.0/120) {
		t.Error("zero time scale should not advance")
	}
}

func TestApplyForce(t *testing.T) {
	w := NewBox2DWorld(30)
	defer w.Close()

	b, err := w.AddBody(BodyDef{Shape: Rectangle{Width: 30, Height: 30}, Mass: 2})
	if err != nil {
		t.Fatal(err)
	}
	dt := 0.1
	b.ApplyForce(mgl64.Vec2{40, -20})
	w.Step(dt)
	// a = F/m in px/s²
	if v := b.Velocity(); math.Abs(v.X()-2) > 1e-3 || math.Abs(v.Y()+1) > 1e-3 {
		t.Errorf("velocity after force %v", v)
	}
	w.Step(dt)
	if v := b.Velocity(); math.Abs(v.X()-2) > 1e-3 {
		t.Errorf("force should not persist across steps, v=%v", v)
	}
}

func TestAngularVelocitySign(t *testing.T) {
	w := NewBox2DWorld(30)
	defer w.Close()

	b, _ := w.AddBody(BodyDef{Shape: Rectangle{Width: 30, Height: 30}, Mass: 1})
	b.SetAngularVelocity(2)
	if !near(b.AngularVelocity(), 2) {
		t.Errorf("angular velocity %v", b.AngularVelocity())
	}
	w.Step(0.1)
	if !near(b.Angle(), 0.2) {
		t.Errorf("angle %v, want 0.2", b.Angle())
	}
}

func TestBeforeStepHooks(t *testing.T) {
	w := NewBox2DWorld(30)
	defer w.Close()

	var calls []string
	unA := w.BeforeStep(func(float64) { calls = append(calls, "a") })
	w.BeforeStep(func(dt float64) {
		calls = append(calls, "b")
		if !near(dt, 0.025) {
			t.Errorf("hook dt %v", dt)
		}
	})
	w.SetTimeScale(0.5)
	w.Step(0.05)
	unA()
	unA()
	w.Step(0.05)

	want := []string{"a", "b", "b"}
	if len(calls) != len(want) {
		t.Fatalf("calls %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls %v, want %v", calls, want)
		}
	}
}

func TestSprings(t *testing.T) {
	w := NewBox2DWorld(30)
	defer w.Close()

	a, _ := w.AddBody(BodyDef{Label: "a", Position: mgl64.Vec2{0, 0}, Shape: Circle{Radius: 5}, Mass: 1})
	b, _ := w.AddBody(BodyDef{Label: "b", Position: mgl64.Vec2{100, 0}, Shape: Circle{Radius: 5}, Mass: 1})

	s, err := w.AddSpring(SpringDef{A: a, B: b, Stiffness: 10, RestLength: 50})
	if err != nil {
		t.Fatalf("add spring: %v", err)
	}
	if !near(s.Length(), 100) || s.RestLength() != 50 {
		t.Errorf("length %v rest %v", s.Length(), s.RestLength())
	}

	w.Step(0.01)
	if a.Velocity().X() <= 0 || b.Velocity().X() >= 0 {
		t.Errorf("stretched spring should pull bodies together: va=%v vb=%v", a.Velocity(), b.Velocity())
	}

	anchor := mgl64.Vec2{0, -60}
	s2, err := w.AddSpring(SpringDef{A: a, Anchor: &anchor, Stiffness: 1, RestLength: -1})
	if err != nil {
		t.Fatalf("anchored spring: %v", err)
	}
	if !near(s2.RestLength(), s2.Length()) {
		t.Errorf("negative rest length should default to current length")
	}

	if _, err := w.AddSpring(SpringDef{A: a}); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("expected ErrNoEndpoint, got %v", err)
	}
	if w.ConstraintCount() != 2 {
		t.Errorf("constraint count %d", w.ConstraintCount())
	}

	if err := w.RemoveBody(b); err != nil {
		t.Fatal(err)
	}
	if w.ConstraintCount() != 1 || w.BodyCount() != 1 {
		t.Errorf("after remove: bodies %d constraints %d", w.BodyCount(), w.ConstraintCount())
	}
	if _, err := w.AddSpring(SpringDef{A: b, Anchor: &anchor}); !errors.Is(err, ErrForeignBody) {
		t.Errorf("removed body accepted: %v", err)
	}
}

func TestClearAndClose(t *testing.T) {
	w := NewBox2DWorld(0)
	if w.PixelsPerMeter() != DefaultPixelsPerMeter {
		t.Errorf("ppm %v", w.PixelsPerMeter())
	}

	w.SetGravity(mgl64.Vec2{0, 294.3})
	if g := w.Gravity(); g.Y() != 294.3 {
		t.Errorf("gravity %v", g)
	}

	a, _ := w.AddBody(BodyDef{Shape: Circle{Radius: 5}, Mass: 1})
	w.AddBody(BodyDef{Position: mgl64.Vec2{50, 0}, Shape: Circle{Radius: 5}, Mass: 1})
	anchor := mgl64.Vec2{0, -10}
	w.AddSpring(SpringDef{A: a, Anchor: &anchor})
	w.Step(0.1)

	w.Clear()
	if w.BodyCount() != 0 || w.ConstraintCount() != 0 || w.Time() != 0 {
		t.Errorf("clear left bodies=%d constraints=%d time=%v", w.BodyCount(), w.ConstraintCount(), w.Time())
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddBody(BodyDef{Shape: Circle{Radius: 5}}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestForeignBody(t *testing.T) {
	w1 := NewBox2DWorld(30)
	w2 := NewBox2DWorld(30)
	b, _ := w1.AddBody(BodyDef{Shape: Circle{Radius: 5}, Mass: 1})
	if err := w2.RemoveBody(b); !errors.Is(err, ErrForeignBody) {
		t.Errorf("expected ErrForeignBody, got %v", err)
	}
}
