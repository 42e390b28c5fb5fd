package scenario

import (
	"encoding/json"
	"strings"
)

// Environment is one static scene feature: Ground, Incline, Cliff, Wall or
// UnknownEnvironment.
type Environment interface {
	EnvironmentType() string
	EnvironmentID() string
}

// Edge anchors for cliffs and walls.
const (
	EdgeLeft  = "left"
	EdgeRight = "right"
)

type Ground struct {
	ID       string   `json:"id"`
	Position Vector   `json:"position"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	Friction Friction `json:"friction"`
	Material string   `json:"material"`
}

// Leg is the support strut under an incline. Side also decides whether the
// incline angle is mirrored.
type Leg struct {
	Side      string   `json:"side"`
	Thickness *float64 `json:"thickness"`
}

type Incline struct {
	ID        string   `json:"id"`
	Angle     *float64 `json:"angle"`
	Position  Vector   `json:"position"`
	Length    *float64 `json:"length"`
	Thickness *float64 `json:"thickness"`
	Friction  Friction `json:"friction"`
	Leg       *Leg     `json:"leg"`
	Material  string   `json:"material"`
}

type Cliff struct {
	ID       string   `json:"id"`
	Position Vector   `json:"position"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	Edge     string   `json:"edge"`
	Material string   `json:"material"`
}

type Wall struct {
	ID           string   `json:"id"`
	Position     Vector   `json:"position"`
	Width        *float64 `json:"width"`
	Height       *float64 `json:"height"`
	Edge         string   `json:"edge"`
	IsReflective bool     `json:"isReflective"`
	Material     string   `json:"material"`
}

// UnknownEnvironment keeps a record whose tag is not recognized or whose
// content failed to decode.
type UnknownEnvironment struct {
	Tag string
	ID  string
	Raw json.RawMessage
	Err error
}

func (Ground) EnvironmentType() string { return "ground" }
func (Incline) EnvironmentType() string { return "incline" }
func (Cliff) EnvironmentType() string { return "cliff" }
func (Wall) EnvironmentType() string { return "wall" }
func (e UnknownEnvironment) EnvironmentType() string { return e.Tag }

func (g Ground) EnvironmentID() string { return g.ID }
func (i Incline) EnvironmentID() string { return i.ID }
func (c Cliff) EnvironmentID() string { return c.ID }
func (w Wall) EnvironmentID() string { return w.ID }
func (e UnknownEnvironment) EnvironmentID() string { return e.ID }

// LegSide returns the normalized leg side, or "" without a leg.
func (i Incline) LegSide() string {
	if i.Leg == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(i.Leg.Side))
}

// Half extents in scenario units, used for scale derivation.
func (g Ground) halfExtent() (float64, float64) { return half(g.Width), half(g.Height) }
func (c Cliff) halfExtent() (float64, float64) { return half(c.Width), half(c.Height) }
func (w Wall) halfExtent() (float64, float64) { return half(w.Width), half(w.Height) }
func (i Incline) halfExtent() (float64, float64) { return half(i.Length), half(i.Thickness) }

// Extent returns the position and half extents of an environment for
// bounding-box purposes. Unknown environments report ok=false.
func Extent(e Environment) (pos Vector, hx, hy float64, ok bool) {
	switch v := e.(type) {
	case Ground:
		hx, hy = v.halfExtent()
		return v.Position, hx, hy, true
	case Incline:
		hx, hy = v.halfExtent()
		return v.Position, hx, hy, true
	case Cliff:
		hx, hy = v.halfExtent()
		return v.Position, hx, hy, true
	case Wall:
		hx, hy = v.halfExtent()
		return v.Position, hx, hy, true
	}
	return Vector{}, 0, 0, false
}

func half(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p / 2
}

func decodeEnvironment(tag string, data json.RawMessage) (Environment, error) {
	var (
		env Environment
		err error
	)
	switch canonical(tag) {
	case "ground", "floor":
		var v Ground
		err = json.Unmarshal(data, &v)
		env = v
	case "incline", "ramp":
		var v Incline
		err = json.Unmarshal(data, &v)
		env = v
	case "cliff":
		var v Cliff
		err = json.Unmarshal(data, &v)
		v.Edge = strings.ToLower(strings.TrimSpace(v.Edge))
		env = v
	case "wall":
		var v Wall
		err = json.Unmarshal(data, &v)
		v.Edge = strings.ToLower(strings.TrimSpace(v.Edge))
		env = v
	default:
		return UnknownEnvironment{Tag: tag, ID: peekID(data), Raw: data}, nil
	}
	if err != nil {
		return UnknownEnvironment{Tag: tag, ID: peekID(data), Raw: data, Err: err}, err
	}
	return env, nil
}
