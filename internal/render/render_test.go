package render

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
)

func TestBrailleLine(t *testing.T) {
	b := NewBraille(10, 5, 100, 100)
	b.Line(mgl64.Vec2{0, 0}, mgl64.Vec2{99, 0}, "")
	for x := 0; x < 20; x++ {
		if !b.IsSet(x, 0) {
			t.Fatalf("dot %d not set", x)
		}
	}
	if b.IsSet(0, 1) {
		t.Error("line should be one dot thick")
	}

	b.Clear()
	if strings.ContainsFunc(b.String(), func(r rune) bool { return r != blank && r != '\n' }) {
		t.Error("clear should blank every cell")
	}
}

func TestBrailleClipsFarSegments(t *testing.T) {
	b := NewBraille(4, 4, 40, 40)
	b.Line(mgl64.Vec2{-1e9, 10}, mgl64.Vec2{1e9, 10}, "")
	b.Line(mgl64.Vec2{-50, -50}, mgl64.Vec2{-10, -5}, "")
	for y := 0; y < 16; y++ {
		for x := 0; x < 8; x++ {
			if b.IsSet(x, y) {
				t.Fatalf("dot (%d,%d) should not be drawn", x, y)
			}
		}
	}
}

func TestBrailleText(t *testing.T) {
	b := NewBraille(10, 2, 100, 20)
	b.Text(mgl64.Vec2{50, 0}, "abcd", "", AlignCenter)
	first := strings.Split(b.String(), "\n")[0]
	if got := []rune(first)[3:7]; string(got) != "abcd" {
		t.Errorf("row %q", first)
	}
	b.Text(mgl64.Vec2{95, 0}, "overflow", "", AlignLeft)
	if len([]rune(strings.Split(b.String(), "\n")[0])) != 10 {
		t.Error("text should be clipped to the grid")
	}
}

func TestSVG(t *testing.T) {
	s := NewSVG(200, 100)
	s.Rect(mgl64.Vec2{1, 2}, mgl64.Vec2{11, 22}, Paint{Fill: "#fff"})
	s.Polygon([]mgl64.Vec2{{0, 0}, {10, 0}, {5, 5}}, Paint{Stroke: "red", Width: 2})
	s.Text(mgl64.Vec2{5, 5}, "a<b", "white", AlignCenter)
	out := s.String()
	for _, want := range []string{
		`viewBox="0 0 200 100"`,
		`<rect x="1.0" y="2.0" width="10.0" height="20.0" fill="#fff" stroke="none"`,
		`points="0.0,0.0 10.0,0.0 5.0,5.0" fill="none" stroke="red" stroke-width="2.0"`,
		`text-anchor="middle">a&lt;b</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	s.Clear()
	if strings.Contains(s.String(), "<polygon") {
		t.Error("clear should drop elements")
	}
}

func TestPlotSVG(t *testing.T) {
	if PlotSVG(Series{X: []float64{1}, Y: []float64{1}}, 10, 10, "red") != "" {
		t.Error("single point should produce nothing")
	}
	out := PlotSVG(Series{X: []float64{0, 1, 2}, Y: []float64{0, 1, 0}}, 120, 60, "#0f0")
	if !strings.Contains(out, `d="M10.0,55.0 L60.0,5.0 L110.0,55.0"`) {
		t.Errorf("unexpected path %s", out)
	}
}

func TestWorldFrame(t *testing.T) {
	w := engine.NewBox2DWorld(30)
	defer w.Close()
	a, _ := w.AddBody(engine.BodyDef{Label: "a", Position: mgl64.Vec2{100, 100}, Shape: engine.Rectangle{Width: 20, Height: 20}, Mass: 1})
	w.AddBody(engine.BodyDef{Label: "wall", Position: mgl64.Vec2{0, 0}, Shape: engine.Rectangle{Width: 10, Height: 10}, Static: true, Style: engine.Style{Hidden: true}})
	anchor := mgl64.Vec2{100, 50}
	if _, err := w.AddSpring(engine.SpringDef{A: a, Anchor: &anchor, RestLength: -1}); err != nil {
		t.Fatal(err)
	}

	r := NewRecorder(800, 600)
	World(r, w)
	if polys := r.Filter(OpPolygon); len(polys) != 1 || len(polys[0].Points) != 4 {
		t.Errorf("polygons %+v", polys)
	}
	lines := r.Filter(OpLine)
	if len(lines) != 1 || lines[0].Points[1] != anchor {
		t.Errorf("lines %+v", lines)
	}
}
