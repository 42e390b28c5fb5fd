package scenario

import (
	"errors"
	"math"
	"testing"
)

const sample = `{
  "objects": [
    {"id": "box", "type": "rectangle", "mass": "2.5", "position": {"x": 1, "y": 2}, "width": 1, "height": 0.5, "onIncline": true, "inclinePositionRatio": 1.7},
    {"id": "ball", "shape": "circle", "mass": 1, "position": {"x": 0, "y": 0}, "radius": 0.5}
  ],
  "environments": [
    {"type": "ground", "position": {"x": 0, "y": 0}, "width": 10, "friction": {"static": 0.5, "kinetic": 0.3}},
    {"type": "incline", "angle": 30, "position": {"x": 0, "y": 0}, "length": 5, "leg": {"side": "Right"}},
    {"type": "cliff", "position": {"x": 0, "y": 0}, "width": 2, "height": 3, "edge": "RIGHT"},
    {"type": "wall", "position": {"x": 0, "y": 0}, "width": 1, "height": 3, "isReflective": true},
    {"type": "pulley", "id": "p1"}
  ],
  "motions": [
    {"type": "linear", "objectId": "box", "initialVelocity": {"x": 2, "y": 3}, "acceleration": {"x": 0, "y": -1}, "time": 2},
    {"type": "combined_trans_rot_motion", "object": "ball", "translation": {"initialVelocity": {"x": 1, "y": 0}}, "rotation": {"initialAngularVelocity": 2}},
    {"type": "teleport", "objectID": "ball"}
  ],
  "interactions": [
    {"type": "spring_force", "objectA": "box", "objectB": "ball", "springConstant": 10},
    {"type": "normal_force", "objectA": "box", "objectB": "ball", "forceMagnitude": 3},
    {"type": "electrostatic_force", "chargeA": "box", "chargeB": "ball"}
  ],
  "forces": [
    {"type": "Applied", "magnitude": 10, "direction": "-x", "applied_to": "box"}
  ],
  "fields": [{"type": "uniform"}]
}`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(sc.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(sc.Objects))
	}
	box := sc.Objects[0]
	if box.Shape != ShapeRectangle || box.Mass != 2.5 || !box.HasMass {
		t.Errorf("unexpected box: %+v", box)
	}
	if box.InclinePositionRatio != 1 {
		t.Errorf("ratio should clamp to 1, got %v", box.InclinePositionRatio)
	}
	if sc.Objects[1].InclinePositionRatio != DefaultInclineRatio {
		t.Errorf("missing ratio should default to %v", DefaultInclineRatio)
	}

	wantEnv := []string{"ground", "incline", "cliff", "wall", "pulley"}
	for i, want := range wantEnv {
		if got := sc.Environments[i].EnvironmentType(); got != want {
			t.Errorf("environment %d: got %s, want %s", i, got, want)
		}
	}
	g := sc.Environments[0].(Ground)
	if g.Friction.Or(1) != 0.3 || g.Friction.Static != 0.5 {
		t.Errorf("unexpected friction %+v", g.Friction)
	}
	if inc := sc.Environments[1].(Incline); inc.LegSide() != "right" {
		t.Errorf("leg side not normalized: %q", inc.LegSide())
	}
	if c := sc.Environments[2].(Cliff); c.Edge != EdgeRight {
		t.Errorf("edge not normalized: %q", c.Edge)
	}
	if u, ok := sc.Environments[4].(UnknownEnvironment); !ok || u.ID != "p1" || u.Err != nil {
		t.Errorf("expected unknown pulley environment, got %#v", sc.Environments[4])
	}

	lin, ok := sc.Motions[0].(Linear)
	if !ok {
		t.Fatalf("expected Linear, got %T", sc.Motions[0])
	}
	if lin.ObjectRef() != "box" {
		t.Errorf("objectId alias not read: %q", lin.ObjectRef())
	}
	v := lin.VelocityAt(float64(lin.Time))
	if v.X != 2 || v.Y != 1 {
		t.Errorf("velocity at t: got %+v", v)
	}
	if ctr, ok := sc.Motions[1].(CombinedTransRot); !ok || ctr.ObjectRef() != "ball" || ctr.Rotation.InitialAngularVelocity != 2 {
		t.Errorf("unexpected combined motion %#v", sc.Motions[1])
	}
	if u, ok := sc.Motions[2].(UnknownMotion); !ok || u.MotionType() != "teleport" || u.ObjectRef() != "ball" {
		t.Errorf("expected unknown teleport motion, got %#v", sc.Motions[2])
	}

	if _, ok := sc.Interactions[0].(SpringForce); !ok {
		t.Errorf("expected SpringForce, got %T", sc.Interactions[0])
	}
	if _, ok := sc.Interactions[1].(NormalForce); !ok {
		t.Errorf("snake_case normal_force not recognized: %T", sc.Interactions[1])
	}
	if _, ok := sc.Interactions[2].(ElectroStatic); !ok {
		t.Errorf("electrostatic_force not recognized: %T", sc.Interactions[2])
	}

	f := sc.Forces[0]
	if f.Kind != "applied" || f.Source != "applied" || f.AppliedTo != "box" {
		t.Errorf("unexpected force %+v", f)
	}
	if u, ok := f.Unit(); !ok || u.X() != -1 {
		t.Errorf("unexpected unit %v", u)
	}

	if len(sc.Fields) != 1 || sc.Fields[0].Type != "uniform" {
		t.Errorf("fields not carried: %+v", sc.Fields)
	}
	if sc.Materials == nil || len(sc.Materials) != 0 {
		t.Error("missing category should be an empty list")
	}
	if len(sc.Issues) != 0 {
		t.Errorf("unexpected issues: %v", sc.Issues)
	}
}

func TestParseMalformedRecord(t *testing.T) {
	sc, err := Parse([]byte(`{"motions": [{"type": "linear", "objectID": "a", "time": "soon"}], "environments": "none"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sc.Environments) != 0 {
		t.Error("non-list category should be ignored")
	}
	if _, ok := sc.Motions[0].(UnknownMotion); !ok {
		t.Fatalf("malformed motion should decode to UnknownMotion, got %T", sc.Motions[0])
	}
	if len(sc.Issues) != 1 {
		t.Fatalf("expected one issue, got %d", len(sc.Issues))
	}
	var re *RecordError
	if !errors.As(sc.Issues[0], &re) || re.Category != CategoryMotions || re.Index != 0 {
		t.Errorf("unexpected issue %v", sc.Issues[0])
	}
}

func TestParseEmpty(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  error
	}{
		{"blank", "   ", ErrEmpty},
		{"empty fence", "```json\n```", ErrEmpty},
		{"scalar", "42", ErrFormat},
		{"broken json", "{\"objects\": [", ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if !errors.Is(err, tt.err) {
				t.Errorf("got %v, want %v", err, tt.err)
			}
		})
	}

	sc, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("parse {}: %v", err)
	}
	if !sc.Empty() {
		t.Error("{} should be an empty scenario")
	}
}

func TestParseYAML(t *testing.T) {
	in := `
objects:
  - id: cart
    shape: rectangle
    mass: 3
    position: {x: 1, y: 0.5}
    width: 1
    height: 0.5
forces:
  - type: applied
    magnitude: 12
    direction: x
    applied_to: cart
`
	sc, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if len(sc.Objects) != 1 || sc.Objects[0].Mass != 3 || sc.Objects[0].Position.X != 1 {
		t.Errorf("unexpected objects %+v", sc.Objects)
	}
	if len(sc.Forces) != 1 || sc.Forces[0].Magnitude != 12 {
		t.Errorf("unexpected forces %+v", sc.Forces)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```\n", "{\"a\":1}"},
		{"Here you go:\n```json\n{\"a\":1}\n```\nDone.", "{\"a\":1}"},
		{"```{\"a\":1}```", "{\"a\":1}"},
	}
	for _, tt := range tests {
		if got := string(StripCodeFence([]byte(tt.in))); got != tt.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumberAndVectorForms(t *testing.T) {
	sc, err := Parse([]byte(`{"objects": [{"id": "a", "mass": "4 kg", "position": [1, 2, 3], "velocity": {"x": "1.5", "y": 0}}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	o := sc.Objects[0]
	if o.Mass != 4 {
		t.Errorf("mass with unit: got %v", o.Mass)
	}
	if o.Position != (Vector{X: 1, Y: 2, Z: 3}) {
		t.Errorf("array vector: got %+v", o.Position)
	}
	if o.Velocity == nil || math.Abs(o.Velocity.X-1.5) > 1e-12 {
		t.Errorf("string component: got %+v", o.Velocity)
	}
}

func TestRelativeVelocity(t *testing.T) {
	r := Relative{ObjectVelocity: Vector{X: 5, Y: 1}, ReferenceFrameVelocity: Vector{X: 2, Y: 1}}
	if v := r.Velocity(); v.X != 3 || v.Y != 0 {
		t.Errorf("got %+v", v)
	}
	r.RelativeVelocity = &Vector{X: -1}
	if v := r.Velocity(); v.X != -1 {
		t.Errorf("explicit relative velocity ignored: %+v", v)
	}
}

func TestExtent(t *testing.T) {
	w := 4.0
	h := 2.0
	pos, hx, hy, ok := Extent(Cliff{Position: Vector{X: 1}, Width: &w, Height: &h})
	if !ok || pos.X != 1 || hx != 2 || hy != 1 {
		t.Errorf("unexpected extent %v %v %v %v", pos, hx, hy, ok)
	}
	if _, _, _, ok := Extent(UnknownEnvironment{Tag: "pulley"}); ok {
		t.Error("unknown environment should have no extent")
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for _, name := range names {
		sc, err := Preset(name)
		if err != nil {
			t.Errorf("preset %s: %v", name, err)
			continue
		}
		if sc.Empty() {
			t.Errorf("preset %s is empty", name)
		}
		if len(sc.Issues) != 0 {
			t.Errorf("preset %s has issues: %v", name, sc.Issues)
		}
	}
	if _, err := Preset("nonexistent"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}
