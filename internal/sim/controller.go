package sim

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/coords"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/diag"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/engine"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/interact"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/motion"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/oscillator"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/overlay"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/render"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scene"
)

type State int

const (
	Idle State = iota
	Running
	Paused
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Closed:
		return "closed"
	}
	return "unknown"
}

const (
	DefaultTimeScale       = 0.3
	MinTimeScale           = 0.01
	MaxTimeScale           = 1.0
	DefaultForceConversion = 10.0
	DefaultStepInterval    = time.Second / 60
	DefaultFrameInterval   = time.Second / 30
	StandardGravity        = 9.81
)

// Canvas is the host drawing area.
type Canvas interface {
	ClientSize() (w, h float64)
}

type Options struct {
	Width, Height float64

	StepInterval  time.Duration
	FrameInterval time.Duration

	// TimeScale is applied on every Start and Reset.
	TimeScale       float64
	PixelsPerMeter  float64
	ForceConversion float64

	// PrimaryID selects the telemetry object. Empty means the first
	// placed object.
	PrimaryID string

	Scheduler Scheduler
	Sink      diag.Sink

	// Surface receives a frame on every frame tick when set.
	Surface render.Surface
	OnFrame func(render.Surface)

	// NewWorld overrides the engine. It is called once.
	NewWorld func() engine.World
	Now      func() time.Time
}

func (o *Options) defaults() {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.StepInterval <= 0 {
		o.StepInterval = DefaultStepInterval
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	if o.TimeScale <= 0 {
		o.TimeScale = DefaultTimeScale
	}
	o.TimeScale = clampSpeed(o.TimeScale)
	if o.PixelsPerMeter <= 0 {
		o.PixelsPerMeter = engine.DefaultPixelsPerMeter
	}
	if o.ForceConversion == 0 {
		o.ForceConversion = DefaultForceConversion
	}
	if o.Scheduler == nil {
		o.Scheduler = NewManualScheduler()
	}
	if o.Sink == nil {
		o.Sink = diag.Discard
	}
	if o.NewWorld == nil {
		ppm := o.PixelsPerMeter
		o.NewWorld = func() engine.World { return engine.NewBox2DWorld(ppm) }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Telemetry is emitted after every step for the primary object, in world
// units with y up.
type Telemetry struct {
	VelocityX   float64 `json:"velocityX"`
	VelocityY   float64 `json:"velocityY"`
	PositionX   float64 `json:"positionX"`
	PositionY   float64 `json:"positionY"`
	ElapsedTime float64 `json:"elapsedTime"`
}

// Status is a read-only view of the controller.
type Status struct {
	State       string    `json:"state"`
	TimeScale   float64   `json:"timeScale"`
	Scale       float64   `json:"scale"`
	Bodies      int       `json:"bodies"`
	Constraints int       `json:"constraints"`
	Oscillators int       `json:"oscillators"`
	Elapsed     float64   `json:"elapsed"`
	Primary     string    `json:"primary,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
}

type Controller struct {
	opts   Options
	report diag.Reporter

	state     State
	scenario  *scenario.Scenario
	world     engine.World
	mapper    coords.Mapper
	timeScale float64
	startedAt time.Time

	bodies      arena
	constraints []engine.Constraint
	layout      scene.Layout
	oscillators *oscillator.Registry
	overlay     *overlay.Overlay
	primary     string

	hooks    []func()
	stepSub  Subscription
	frameSub Subscription

	subscribers map[int]func(Telemetry)
	nextSub     int
}

// New returns an idle controller for sc. A nil scenario builds an empty
// scene.
func New(sc *scenario.Scenario, opts Options) *Controller {
	opts.defaults()
	c := &Controller{
		opts:        opts,
		report:      diag.Reporter{Component: "sim", Sink: opts.Sink},
		scenario:    orEmpty(sc),
		world:       opts.NewWorld(),
		timeScale:   opts.TimeScale,
		bodies:      newArena(),
		oscillators: oscillator.NewRegistry(),
		subscribers: make(map[int]func(Telemetry)),
	}
	c.world.SetTimeScale(c.timeScale)
	c.world.SetGravity(c.defaultGravity())
	return c
}

func orEmpty(sc *scenario.Scenario) *scenario.Scenario {
	if sc == nil {
		return &scenario.Scenario{}
	}
	return sc
}

func (c *Controller) defaultGravity() mgl64.Vec2 {
	return mgl64.Vec2{0, StandardGravity * c.opts.PixelsPerMeter}
}

func (c *Controller) State() State { return c.state }

// SetScenario replaces the scenario used by the next Start.
func (c *Controller) SetScenario(sc *scenario.Scenario) error {
	switch c.state {
	case Closed:
		return ErrClosed
	case Idle:
		c.scenario = orEmpty(sc)
		return nil
	}
	return ErrNotIdle
}

// Start builds the world from the scenario and starts stepping.
func (c *Controller) Start() error {
	switch c.state {
	case Closed:
		return ErrClosed
	case Running, Paused:
		return ErrRunning
	}

	c.startedAt = c.opts.Now()
	c.world.SetGravity(mgl64.Vec2{})
	c.timeScale = c.opts.TimeScale
	c.world.SetTimeScale(c.timeScale)
	c.mapper = coords.New(c.opts.Width, c.opts.Height, coords.ComputeScale(c.scenario, c.opts.Width, c.opts.Height))

	c.teardown()
	c.build()

	c.hooks = append(c.hooks,
		c.world.BeforeStep(c.applyForces),
		c.world.BeforeStep(c.oscillators.Step),
	)
	c.stepSub = c.opts.Scheduler.Every(c.opts.StepInterval, c.step)
	c.frameSub = c.opts.Scheduler.Every(c.opts.FrameInterval, c.frame)
	c.state = Running
	return nil
}

func (c *Controller) build() {
	sc := c.scenario
	for _, issue := range sc.Issues {
		c.report.Report("scenario", issue)
	}

	b := scene.NewBuilder(c.world, c.mapper, c.opts.Sink)
	c.layout = b.Environment(sc.Environments)
	for _, p := range b.Objects(sc.Objects) {
		c.bodies.add(p.ID, p.Body)
	}

	motion.NewApplier(c.mapper, c.oscillators, c.opts.Sink).Apply(&c.bodies, sc.Motions)
	c.constraints = interact.NewBuilder(c.world, c.mapper, c.opts.Sink).Apply(&c.bodies, sc.Interactions)
	c.overlay = overlay.New(sc.Objects, sc.Forces)

	c.primary = ""
	if _, ok := c.bodies.Body(c.opts.PrimaryID); ok {
		c.primary = c.opts.PrimaryID
	} else if len(c.bodies.ids) > 0 {
		if c.opts.PrimaryID != "" {
			c.report.Reportf(c.opts.PrimaryID, "primary object not placed, using %q", c.bodies.ids[0])
		}
		c.primary = c.bodies.ids[0]
	}
}

// applyForces pushes every applied force onto its body each step.
func (c *Controller) applyForces(float64) {
	for _, f := range c.scenario.Forces {
		if f.Kind != overlay.KindApplied {
			continue
		}
		body, ok := c.bodies.Body(f.AppliedTo)
		if !ok {
			continue
		}
		unit, ok := f.Unit()
		if !ok {
			continue
		}
		body.ApplyForce(mgl64.Vec2{unit.X(), -unit.Y()}.Mul(f.Magnitude * c.opts.ForceConversion))
	}
}

func (c *Controller) step() {
	c.world.Step(c.opts.StepInterval.Seconds())
	if len(c.subscribers) == 0 {
		return
	}
	t, ok := c.telemetry()
	if !ok {
		return
	}
	for _, id := range c.subscriberIDs() {
		if fn, ok := c.subscribers[id]; ok {
			fn(t)
		}
	}
}

func (c *Controller) telemetry() (Telemetry, bool) {
	body, ok := c.bodies.Body(c.primary)
	if !ok {
		return Telemetry{}, false
	}
	pos := c.mapper.ToWorld(body.Position())
	vel := body.Velocity().Mul(1 / c.mapper.Scale)
	return Telemetry{
		VelocityX:   vel.X(),
		VelocityY:   -vel.Y(),
		PositionX:   pos.X(),
		PositionY:   pos.Y(),
		ElapsedTime: c.world.Time(),
	}, true
}

func (c *Controller) frame() {
	if c.opts.Surface == nil {
		return
	}
	c.Draw(c.opts.Surface)
	if c.opts.OnFrame != nil {
		c.opts.OnFrame(c.opts.Surface)
	}
}

// Draw renders the current world and overlay onto s.
func (c *Controller) Draw(s render.Surface) {
	s.Clear()
	render.World(s, c.world)
	if c.overlay != nil {
		c.overlay.Draw(s, &c.bodies)
	}
}

// Pause stops stepping without touching the world. Frames keep drawing.
func (c *Controller) Pause() {
	if c.state != Running {
		return
	}
	unsubscribe(&c.stepSub)
	c.state = Paused
}

func (c *Controller) Resume() {
	if c.state != Paused {
		return
	}
	c.stepSub = c.opts.Scheduler.Every(c.opts.StepInterval, c.step)
	c.state = Running
}

// Reset stops the loop, removes every callback and body, and restores the
// default gravity and time scale.
func (c *Controller) Reset() {
	if c.state == Closed {
		return
	}
	c.stop()
	c.teardown()
	c.world.SetGravity(c.defaultGravity())
	c.timeScale = c.opts.TimeScale
	c.world.SetTimeScale(c.timeScale)
	c.state = Idle
}

// SetSpeed clamps v to [MinTimeScale, MaxTimeScale] and applies it.
func (c *Controller) SetSpeed(v float64) {
	if c.state == Closed {
		return
	}
	c.timeScale = clampSpeed(v)
	c.world.SetTimeScale(c.timeScale)
}

func (c *Controller) TimeScale() float64 { return c.timeScale }

func clampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return MinTimeScale
	}
	return mgl64.Clamp(v, MinTimeScale, MaxTimeScale)
}

// Resize matches the render surface to the host canvas. The world scale
// is recomputed on the next Start.
func (c *Controller) Resize(canvas Canvas) {
	if c.state == Closed || canvas == nil {
		return
	}
	w, h := canvas.ClientSize()
	if w <= 0 || h <= 0 {
		return
	}
	c.opts.Width, c.opts.Height = w, h
	if c.opts.Surface != nil {
		c.opts.Surface.Resize(w, h)
	}
}

// Cleanup tears everything down and releases the engine. The controller
// cannot be restarted.
func (c *Controller) Cleanup() {
	if c.state == Closed {
		return
	}
	c.stop()
	c.teardown()
	clear(c.subscribers)
	if err := c.world.Close(); err != nil {
		c.report.Report("world", err)
	}
	c.state = Closed
}

func (c *Controller) stop() {
	unsubscribe(&c.stepSub)
	unsubscribe(&c.frameSub)
	for _, h := range c.hooks {
		h()
	}
	c.hooks = c.hooks[:0]
}

func (c *Controller) teardown() {
	c.world.Clear()
	c.bodies.reset()
	c.constraints = nil
	c.layout = scene.Layout{}
	c.oscillators.Clear()
	c.overlay = nil
	c.primary = ""
}

func unsubscribe(s *Subscription) {
	if *s != nil {
		(*s).Unsubscribe()
		*s = nil
	}
}

// Subscribe registers fn for per-step telemetry. Subscriptions survive
// Reset and are dropped by Cleanup.
func (c *Controller) Subscribe(fn func(Telemetry)) Subscription {
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	return subscriptionFunc(func() { delete(c.subscribers, id) })
}

func (c *Controller) subscriberIDs() []int {
	return slices.Sorted(maps.Keys(c.subscribers))
}

// Telemetry returns the current primary object sample.
func (c *Controller) Telemetry() (Telemetry, bool) {
	return c.telemetry()
}

// Layout returns the environment geometry of the current run.
func (c *Controller) Layout() scene.Layout { return c.layout }

func (c *Controller) Snapshot() Status {
	return Status{
		State:       c.state.String(),
		TimeScale:   c.timeScale,
		Scale:       c.mapper.Scale,
		Bodies:      c.world.BodyCount(),
		Constraints: c.world.ConstraintCount(),
		Oscillators: c.oscillators.Len(),
		Elapsed:     c.world.Time(),
		Primary:     c.primary,
		StartedAt:   c.startedAt,
		Width:       c.opts.Width,
		Height:      c.opts.Height,
	}
}

// arena is the dense body store with an id lookup table.
type arena struct {
	ids    []string
	bodies []engine.Body
	index  map[string]int
}

func newArena() arena {
	return arena{index: make(map[string]int)}
}

// add stores b under id. A duplicate id replaces the lookup entry but keeps
// the earlier body in the arena.
func (a *arena) add(id string, b engine.Body) {
	a.index[id] = len(a.bodies)
	a.ids = append(a.ids, id)
	a.bodies = append(a.bodies, b)
}

func (a *arena) Body(id string) (engine.Body, bool) {
	i, ok := a.index[id]
	if !ok {
		return nil, false
	}
	return a.bodies[i], true
}

func (a *arena) Len() int { return len(a.bodies) }

func (a *arena) reset() {
	clear(a.bodies)
	a.bodies = a.bodies[:0]
	a.ids = a.ids[:0]
	clear(a.index)
}
