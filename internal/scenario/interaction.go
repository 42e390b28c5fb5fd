package scenario

import "encoding/json"

// Interaction couples objects. Only SpringForce is simulated; the other
// variants are decoded so they can be reported and displayed.
type Interaction interface {
	InteractionType() string
}

// Interaction tags.
const (
	InteractionSpring        = "spring_force"
	InteractionCollision     = "collision"
	InteractionFriction      = "friction"
	InteractionGravity       = "gravity"
	InteractionTension       = "tension"
	InteractionNormalForce   = "normalForce"
	InteractionDragForce     = "dragForce"
	InteractionElectroStatic = "electroStatic"
	InteractionMagneticForce = "magneticForce"
	InteractionBuoyancy      = "buoyancy"
)

// SpringForce connects ObjectA to ObjectB, or to the fixed world point
// Vertex when ObjectB is empty.
type SpringForce struct {
	ID                 string  `json:"id"`
	ObjectA            string  `json:"objectA"`
	ObjectB            string  `json:"objectB"`
	Vertex             *Vector `json:"vertex"`
	SpringConstant     Number  `json:"springConstant"`
	RestLength         *Number `json:"restLength"`
	DampingCoefficient Number  `json:"dampingCoefficient"`
}

type Collision struct {
	ObjectA                  string `json:"objectA"`
	ObjectB                  string `json:"objectB"`
	CoefficientOfRestitution Number `json:"coefficientOfRestitution"`
}

type FrictionInteraction struct {
	ObjectA            string `json:"objectA"`
	ObjectB            string `json:"objectB"`
	StaticCoefficient  Number `json:"staticCoefficient"`
	KineticCoefficient Number `json:"kineticCoefficient"`
}

type Gravity struct {
	Objects         []string `json:"objects"`
	GravityConstant Number   `json:"gravityConstant"`
}

type Tension struct {
	ObjectA          string `json:"objectA"`
	ObjectB          string `json:"objectB"`
	TensionMagnitude Number `json:"tensionMagnitude"`
}

type NormalForce struct {
	ObjectA        string `json:"objectA"`
	ObjectB        string `json:"objectB"`
	ForceMagnitude Number `json:"forceMagnitude"`
}

type DragForce struct {
	Object          string `json:"object"`
	DragCoefficient Number `json:"dragCoefficient"`
	FluidDensity    Number `json:"fluidDensity"`
	ReferenceArea   Number `json:"referenceArea"`
}

type ElectroStatic struct {
	ChargeA      string `json:"chargeA"`
	ChargeB      string `json:"chargeB"`
	ChargeValueA Number `json:"chargeValueA"`
	ChargeValueB Number `json:"chargeValueB"`
}

type MagneticForce struct {
	MagnetA       string `json:"magnetA"`
	MagnetB       string `json:"magnetB"`
	FieldStrength Number `json:"fieldStrength"`
}

type Buoyancy struct {
	Object          string `json:"object"`
	FluidDensity    Number `json:"fluidDensity"`
	SubmergedVolume Number `json:"submergedVolume"`
}

type UnknownInteraction struct {
	Tag string
	Raw json.RawMessage
	Err error
}

func (SpringForce) InteractionType() string { return InteractionSpring }
func (Collision) InteractionType() string { return InteractionCollision }
func (FrictionInteraction) InteractionType() string { return InteractionFriction }
func (Gravity) InteractionType() string { return InteractionGravity }
func (Tension) InteractionType() string { return InteractionTension }
func (NormalForce) InteractionType() string { return InteractionNormalForce }
func (DragForce) InteractionType() string { return InteractionDragForce }
func (ElectroStatic) InteractionType() string { return InteractionElectroStatic }
func (MagneticForce) InteractionType() string { return InteractionMagneticForce }
func (Buoyancy) InteractionType() string { return InteractionBuoyancy }
func (u UnknownInteraction) InteractionType() string { return u.Tag }

func decodeInteraction(tag string, data json.RawMessage) (Interaction, error) {
	var (
		in  Interaction
		err error
	)
	switch canonical(tag) {
	case "springforce", "spring":
		var v SpringForce
		err = json.Unmarshal(data, &v)
		in = v
	case "collision":
		var v Collision
		err = json.Unmarshal(data, &v)
		in = v
	case "friction":
		var v FrictionInteraction
		err = json.Unmarshal(data, &v)
		in = v
	case "gravity":
		var v Gravity
		err = json.Unmarshal(data, &v)
		in = v
	case "tension":
		var v Tension
		err = json.Unmarshal(data, &v)
		in = v
	case "normalforce":
		var v NormalForce
		err = json.Unmarshal(data, &v)
		in = v
	case "dragforce":
		var v DragForce
		err = json.Unmarshal(data, &v)
		in = v
	case "electrostatic", "electrostaticforce":
		var v ElectroStatic
		err = json.Unmarshal(data, &v)
		in = v
	case "magneticforce":
		var v MagneticForce
		err = json.Unmarshal(data, &v)
		in = v
	case "buoyancy":
		var v Buoyancy
		err = json.Unmarshal(data, &v)
		in = v
	default:
		return UnknownInteraction{Tag: tag, Raw: data}, nil
	}
	if err != nil {
		return UnknownInteraction{Tag: tag, Raw: data, Err: err}, err
	}
	return in, nil
}
