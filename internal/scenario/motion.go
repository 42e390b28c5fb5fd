package scenario

import "encoding/json"

// Motion is the initial kinematic description of one object. Variants:
// Linear, Projectile2D, Projectile3D, Rotational, DampedOscillation,
// CombinedTransRot, Relative, Resistive, SimpleHarmonic, UniformCircular
// and UnknownMotion.
type Motion interface {
	MotionType() string
	ObjectRef() string
}

// Motion tags as emitted by the solver.
const (
	MotionLinear            = "linear"
	MotionProjectile2D      = "projectileMotion2D"
	MotionProjectile3D      = "projectileMotion3D"
	MotionRotational        = "rotational"
	MotionDampedOscillation = "dampedOscillation"
	MotionCombinedTransRot  = "combined_trans_rot_motion"
	MotionRelative          = "relative"
	MotionResistive         = "resistive"
	MotionSimpleHarmonic    = "simpleHarmonic"
	MotionUniformCircular   = "uniformCircular"
)

// Ref is the object reference shared by every motion. The solver spells it
// objectID, objectId or object.
type Ref struct {
	ObjectID string `json:"objectID"`
	Object   string `json:"object"`
}

func (r Ref) ObjectRef() string {
	if r.ObjectID != "" {
		return r.ObjectID
	}
	return r.Object
}

// Kinematics is the constant-acceleration state shared by linear and
// projectile motions.
type Kinematics struct {
	InitialPosition Vector `json:"initialPosition"`
	InitialVelocity Vector `json:"initialVelocity"`
	Acceleration    Vector `json:"acceleration"`
	Time            Number `json:"time"`
}

// VelocityAt returns v0 + a*t in world convention.
func (k Kinematics) VelocityAt(t float64) Vector {
	return Vector{
		X: k.InitialVelocity.X + k.Acceleration.X*t,
		Y: k.InitialVelocity.Y + k.Acceleration.Y*t,
		Z: k.InitialVelocity.Z + k.Acceleration.Z*t,
	}
}

type Linear struct {
	Ref
	Kinematics
}

type Projectile2D struct {
	Ref
	Kinematics
}

type Projectile3D struct {
	Ref
	Kinematics
}

type Rotational struct {
	Ref
	Axis            string `json:"axis"`
	AngularVelocity Number `json:"angularVelocity"`
	Duration        Number `json:"duration"`
	InitialAngle    Number `json:"initialAngle"`
	Torque          Number `json:"torque"`
}

type DampedOscillation struct {
	Ref
	Mass                Number `json:"mass"`
	SpringConstant      Number `json:"springConstant"`
	DampingCoefficient  Number `json:"dampingCoefficient"`
	InitialDisplacement Number `json:"initialDisplacement"`
	InitialVelocity     Vector `json:"initialVelocity"`
}

type Translation struct {
	InitialPosition Vector `json:"initialPosition"`
	InitialVelocity Vector `json:"initialVelocity"`
	Acceleration    Vector `json:"acceleration"`
}

type Rotation struct {
	InitialAngle           Number `json:"initialAngle"`
	InitialAngularVelocity Number `json:"initialAngularVelocity"`
	AngularAcceleration    Number `json:"angularAcceleration"`
}

type CombinedTransRot struct {
	Ref
	Translation Translation `json:"translation"`
	Rotation    Rotation    `json:"rotation"`
}

type Relative struct {
	Ref
	ReferenceFrameID       string  `json:"referenceFrameId"`
	ObjectVelocity         Vector  `json:"objectVelocity"`
	ReferenceFrameVelocity Vector  `json:"referenceFrameVelocity"`
	RelativeVelocity       *Vector `json:"relativeVelocity"`
	Time                   Number  `json:"time"`
}

// Velocity returns the object's velocity relative to its reference frame.
func (r Relative) Velocity() Vector {
	if r.RelativeVelocity != nil {
		return *r.RelativeVelocity
	}
	return Vector{
		X: r.ObjectVelocity.X - r.ReferenceFrameVelocity.X,
		Y: r.ObjectVelocity.Y - r.ReferenceFrameVelocity.Y,
		Z: r.ObjectVelocity.Z - r.ReferenceFrameVelocity.Z,
	}
}

type Resistive struct {
	Ref
	InitialVelocity       Vector `json:"initialVelocity"`
	Mass                  Number `json:"mass"`
	ResistanceCoefficient Number `json:"resistanceCoefficient"`
	Direction             string `json:"direction"`
	Duration              Number `json:"duration"`
}

type SimpleHarmonic struct {
	Ref
	Amplitude        Number `json:"amplitude"`
	AngularFrequency Number `json:"angularFrequency"`
	Phase            Number `json:"phase"`
	Mass             Number `json:"mass"`
	Duration         Number `json:"duration"`
}

type UniformCircular struct {
	Ref
	Radius          Number `json:"radius"`
	AngularVelocity Number `json:"angularVelocity"`
	Center          Vector `json:"center"`
	Duration        Number `json:"duration"`
}

type UnknownMotion struct {
	Ref
	Tag string
	Raw json.RawMessage
	Err error
}

func (Linear) MotionType() string { return MotionLinear }
func (Projectile2D) MotionType() string { return MotionProjectile2D }
func (Projectile3D) MotionType() string { return MotionProjectile3D }
func (Rotational) MotionType() string { return MotionRotational }
func (DampedOscillation) MotionType() string { return MotionDampedOscillation }
func (CombinedTransRot) MotionType() string { return MotionCombinedTransRot }
func (Relative) MotionType() string { return MotionRelative }
func (Resistive) MotionType() string { return MotionResistive }
func (SimpleHarmonic) MotionType() string { return MotionSimpleHarmonic }
func (UniformCircular) MotionType() string { return MotionUniformCircular }
func (m UnknownMotion) MotionType() string { return m.Tag }

func decodeMotion(tag string, data json.RawMessage) (Motion, error) {
	var (
		m   Motion
		err error
	)
	switch canonical(tag) {
	case "linear":
		var v Linear
		err = json.Unmarshal(data, &v)
		m = v
	case "projectilemotion2d", "projectile2d", "projectile":
		var v Projectile2D
		err = json.Unmarshal(data, &v)
		m = v
	case "projectilemotion3d", "projectile3d":
		var v Projectile3D
		err = json.Unmarshal(data, &v)
		m = v
	case "rotational":
		var v Rotational
		err = json.Unmarshal(data, &v)
		m = v
	case "dampedoscillation":
		var v DampedOscillation
		err = json.Unmarshal(data, &v)
		m = v
	case "combinedtransrotmotion", "combinedtransrot":
		var v CombinedTransRot
		err = json.Unmarshal(data, &v)
		m = v
	case "relative":
		var v Relative
		err = json.Unmarshal(data, &v)
		m = v
	case "resistive":
		var v Resistive
		err = json.Unmarshal(data, &v)
		m = v
	case "simpleharmonic":
		var v SimpleHarmonic
		err = json.Unmarshal(data, &v)
		m = v
	case "uniformcircular":
		var v UniformCircular
		err = json.Unmarshal(data, &v)
		m = v
	default:
		u := UnknownMotion{Tag: tag, Raw: data}
		_ = json.Unmarshal(data, &u.Ref)
		return u, nil
	}
	if err != nil {
		u := UnknownMotion{Tag: tag, Raw: data, Err: err}
		_ = json.Unmarshal(data, &u.Ref)
		return u, err
	}
	return m, nil
}
