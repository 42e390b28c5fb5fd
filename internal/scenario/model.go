package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Scenario is one decoded problem scene. It is treated as immutable for the
// duration of a simulation run.
type Scenario struct {
	Objects      []Object
	Environments []Environment
	Motions      []Motion
	Interactions []Interaction
	Forces       []Force
	Fields       []Record
	Materials    []Record

	// Issues lists records that decoded to an Unknown variant because their
	// content was malformed.
	Issues []error
}

// Empty reports whether the scenario carries nothing to build.
func (s *Scenario) Empty() bool {
	return s == nil || (len(s.Objects) == 0 && len(s.Environments) == 0 &&
		len(s.Motions) == 0 && len(s.Interactions) == 0 && len(s.Forces) == 0)
}

// Object returns the object with the given id.
func (s *Scenario) Object(id string) (Object, bool) {
	if s == nil {
		return Object{}, false
	}
	for _, o := range s.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return Object{}, false
}

// Vector is a world-space vector in scenario units, y up.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

func (v Vector) Vec2() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

func (v *Vector) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var arr []Number
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*v = Vector{}
		if len(arr) > 0 {
			v.X = float64(arr[0])
		}
		if len(arr) > 1 {
			v.Y = float64(arr[1])
		}
		if len(arr) > 2 {
			v.Z = float64(arr[2])
		}
		return nil
	}
	var raw struct {
		X Number `json:"x"`
		Y Number `json:"y"`
		Z Number `json:"z"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Vector{X: float64(raw.X), Y: float64(raw.Y), Z: float64(raw.Z)}
	return nil
}

// Number is a float that also decodes from a numeric string, which is how
// the solver tends to emit masses.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		// tolerate a trailing unit such as "2 kg"
		if i := strings.IndexByte(s, ' '); i > 0 {
			s = s[:i]
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("number %q: %w", s, err)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Friction is a coefficient pair. A bare number sets both.
type Friction struct {
	Static  float64 `json:"static"`
	Kinetic float64 `json:"kinetic"`
	Set     bool    `json:"-"`
}

func (f *Friction) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var raw struct {
			Static  *Number `json:"static"`
			Kinetic *Number `json:"kinetic"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*f = Friction{Set: true}
		if raw.Kinetic != nil {
			f.Kinetic = float64(*raw.Kinetic)
		}
		if raw.Static != nil {
			f.Static = float64(*raw.Static)
		} else {
			f.Static = f.Kinetic
		}
		if raw.Kinetic == nil {
			f.Kinetic = f.Static
		}
		return nil
	}
	var n Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = Friction{Static: float64(n), Kinetic: float64(n), Set: true}
	return nil
}

// Or returns the kinetic coefficient, or def when none was given.
func (f Friction) Or(def float64) float64 {
	if !f.Set {
		return def
	}
	return f.Kinetic
}

type ShapeKind string

const (
	ShapeCircle       ShapeKind = "circle"
	ShapePolygon      ShapeKind = "polygon"
	ShapeRectangle    ShapeKind = "rectangle"
	ShapeTrapezoid    ShapeKind = "trapezoid"
	ShapeFromVertices ShapeKind = "fromVertices"
)

// Style is an optional render hint carried from the solver.
type Style struct {
	Fill   string `json:"fillStyle,omitempty"`
	Stroke string `json:"strokeStyle,omitempty"`
}

// DefaultInclineRatio places an incline object at the midpoint when no
// ratio is given.
const DefaultInclineRatio = 0.5

type Object struct {
	ID           string
	Shape        ShapeKind
	Mass         float64
	HasMass      bool
	Position     Vector
	Velocity     *Vector
	Acceleration *Vector
	Radius       *float64
	Width        *float64
	Height       *float64
	Sides        *int
	Slope        *float64
	Vertices     []Vector

	OnCliff              bool
	OnIncline            bool
	InclinePositionRatio float64

	Style *Style
	Color string
}

type objectJSON struct {
	ID                   string   `json:"id"`
	Shape                string   `json:"shape"`
	Type                 string   `json:"type"`
	Mass                 *Number  `json:"mass"`
	Position             Vector   `json:"position"`
	Velocity             *Vector  `json:"velocity"`
	Acceleration         *Vector  `json:"acceleration"`
	Radius               *Number  `json:"radius"`
	Width                *Number  `json:"width"`
	Height               *Number  `json:"height"`
	Sides                *Number  `json:"sides"`
	Slope                *Number  `json:"slope"`
	Vertices             []Vector `json:"vertices"`
	OnCliff              bool     `json:"onCliff"`
	OnIncline            bool     `json:"onIncline"`
	InclinePositionRatio *Number  `json:"inclinePositionRatio"`
	Render               *Style   `json:"render"`
	Color                string   `json:"color"`
}

// BodyMass reports the declared mass when it is usable as a body mass.
// Zero, negative and non-finite values are not.
func (o Object) BodyMass() (float64, bool) {
	if !o.HasMass || !(o.Mass > 0) || math.IsInf(o.Mass, 1) {
		return 0, false
	}
	return o.Mass, true
}

func (o *Object) UnmarshalJSON(data []byte) error {
	var raw objectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	shape := raw.Shape
	if shape == "" {
		shape = raw.Type
	}
	*o = Object{
		ID:           raw.ID,
		Shape:        normalizeShape(shape),
		Position:     raw.Position,
		Velocity:     raw.Velocity,
		Acceleration: raw.Acceleration,
		Radius:       floatPtr(raw.Radius),
		Width:        floatPtr(raw.Width),
		Height:       floatPtr(raw.Height),
		Slope:        floatPtr(raw.Slope),
		Vertices:     raw.Vertices,
		OnCliff:      raw.OnCliff,
		OnIncline:    raw.OnIncline,
		Style:        raw.Render,
		Color:        raw.Color,
	}
	if raw.Mass != nil {
		o.Mass = float64(*raw.Mass)
		o.HasMass = true
	}
	if raw.Sides != nil {
		n := 0
		if v := float64(*raw.Sides); v >= 0 && v <= math.MaxInt32 {
			n = int(v)
		}
		o.Sides = &n
	}
	o.InclinePositionRatio = DefaultInclineRatio
	if raw.InclinePositionRatio != nil {
		o.InclinePositionRatio = clamp01(float64(*raw.InclinePositionRatio))
	}
	return nil
}

func normalizeShape(s string) ShapeKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rectangle", "rect", "box", "block":
		return ShapeRectangle
	case "circle", "ball", "sphere":
		return ShapeCircle
	case "polygon":
		return ShapePolygon
	case "trapezoid":
		return ShapeTrapezoid
	case "fromvertices", "vertices":
		return ShapeFromVertices
	}
	return ShapeKind(s)
}

// Direction tokens for forces. World convention, y up.
const (
	DirPosX = "x"
	DirNegX = "-x"
	DirPosY = "y"
	DirNegY = "-y"
)

// Force is an annotated force. Only the applied kind is driven during the
// simulation; the rest are drawn in the info panel.
type Force struct {
	Kind      string  `json:"type"`
	Magnitude float64 `json:"magnitude"`
	Direction string  `json:"direction"`
	Source    string  `json:"source"`
	AppliedTo string  `json:"applied_to"`
}

func (f *Force) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind         string `json:"type"`
		Magnitude    Number `json:"magnitude"`
		Direction    string `json:"direction"`
		Source       string `json:"source"`
		AppliedTo    string `json:"applied_to"`
		AppliedToAlt string `json:"appliedTo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Force{
		Kind:      strings.ToLower(strings.TrimSpace(raw.Kind)),
		Magnitude: float64(raw.Magnitude),
		Direction: strings.ToLower(strings.TrimSpace(raw.Direction)),
		Source:    strings.ToLower(strings.TrimSpace(raw.Source)),
		AppliedTo: raw.AppliedTo,
	}
	if f.AppliedTo == "" {
		f.AppliedTo = raw.AppliedToAlt
	}
	if f.Source == "" {
		f.Source = f.Kind
	}
	return nil
}

// Unit returns the world-space unit vector for the direction token.
func (f Force) Unit() (mgl64.Vec2, bool) {
	switch f.Direction {
	case DirPosX, "+x", "right":
		return mgl64.Vec2{1, 0}, true
	case DirNegX, "left":
		return mgl64.Vec2{-1, 0}, true
	case DirPosY, "+y", "up":
		return mgl64.Vec2{0, 1}, true
	case DirNegY, "down":
		return mgl64.Vec2{0, -1}, true
	}
	return mgl64.Vec2{}, false
}

// Record is a field or material entry: its tag plus the raw record.
type Record struct {
	Type string
	Raw  json.RawMessage
}

func floatPtr(n *Number) *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
