package sim

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/diag"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/interact"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/render"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
)

func f(v float64) *float64 { return &v }

func sampleScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Objects: []scenario.Object{
			{ID: "block", Shape: scenario.ShapeRectangle, Width: f(1), Height: f(1), Mass: 2, HasMass: true, OnIncline: true, InclinePositionRatio: 0.5},
			{ID: "ball", Shape: scenario.ShapeCircle, Radius: f(0.3), Position: scenario.Vector{X: -3, Y: 2}},
		},
		Environments: []scenario.Environment{
			scenario.Ground{ID: "ground", Width: f(12)},
			scenario.Incline{ID: "ramp", Angle: f(30), Length: f(4), Leg: &scenario.Leg{Side: "right"}},
		},
		Motions: []scenario.Motion{
			scenario.Linear{Ref: scenario.Ref{ObjectID: "ball"}, Kinematics: scenario.Kinematics{InitialVelocity: scenario.Vector{X: 1}}},
		},
		Interactions: []scenario.Interaction{
			scenario.SpringForce{ID: "s", ObjectA: "ball", Vertex: &scenario.Vector{X: -3, Y: 4}, SpringConstant: 20},
		},
		Forces: []scenario.Force{
			{Kind: "applied", Source: "applied", Magnitude: 5, Direction: "x", AppliedTo: "block"},
		},
	}
}

type size struct{ w, h float64 }

func (s size) ClientSize() (float64, float64) { return s.w, s.h }

var _ = Describe("Controller", func() {
	var (
		sched *ManualScheduler
		sink  *diag.Collector
		surf  *render.Recorder
		c     *Controller
	)

	BeforeEach(func() {
		sched = NewManualScheduler()
		sink = diag.NewCollector()
		surf = render.NewRecorder(800, 600)
		c = New(sampleScenario(), Options{Scheduler: sched, Sink: sink, Surface: surf})
		DeferCleanup(c.Cleanup)
	})

	It("starts idle with default gravity and time scale", func() {
		Expect(c.State()).To(Equal(Idle))
		Expect(c.TimeScale()).To(Equal(DefaultTimeScale))
		Expect(c.world.Gravity().Y()).To(BeNumerically(">", 0))
		Expect(c.world.BodyCount()).To(BeZero())
	})

	Describe("Start", func() {
		BeforeEach(func() {
			Expect(c.Start()).To(Succeed())
		})

		It("builds the scene and zeroes gravity", func() {
			Expect(c.State()).To(Equal(Running))
			Expect(c.world.Gravity()).To(Equal(mgl64.Vec2{}))
			// ground, ramp, leg, two boundaries, two objects
			Expect(c.world.BodyCount()).To(Equal(7))
			Expect(c.world.ConstraintCount()).To(Equal(1))
			Expect(sched.Active()).To(Equal(2))
			Expect(sink.Len()).To(BeZero())
		})

		It("picks the first placed object as primary", func() {
			Expect(c.Snapshot().Primary).To(Equal("block"))
		})

		It("refuses a second start", func() {
			Expect(c.Start()).To(MatchError(ErrRunning))
		})

		It("steps the world and draws frames", func() {
			sched.Advance(time.Second)
			Expect(c.world.Time()).To(BeNumerically("~", DefaultTimeScale, 1e-6))
			Expect(surf.Clears).To(Equal(30))
			Expect(surf.Filter(render.OpPolygon)).NotTo(BeEmpty())
			Expect(surf.Texts()).To(ContainElement("2 kg"))
		})

		It("pushes applied forces every step", func() {
			var last Telemetry
			sub := c.Subscribe(func(t Telemetry) { last = t })
			defer sub.Unsubscribe()
			sched.Advance(time.Second / 2)
			Expect(last.ElapsedTime).To(BeNumerically(">", 0))
			Expect(last.VelocityX).To(BeNumerically(">", 0))
		})

		It("pauses and resumes stepping", func() {
			sched.Advance(time.Second / 10)
			c.Pause()
			Expect(c.State()).To(Equal(Paused))
			t := c.world.Time()
			clears := surf.Clears
			sched.Advance(time.Second)
			Expect(c.world.Time()).To(Equal(t))
			Expect(surf.Clears).To(BeNumerically(">", clears))

			c.Resume()
			Expect(c.State()).To(Equal(Running))
			sched.Advance(time.Second / 10)
			Expect(c.world.Time()).To(BeNumerically(">", t))
		})

		It("leaves zero bodies and constraints after reset", func() {
			sched.Advance(time.Second / 4)
			c.SetSpeed(0.9)
			c.Reset()
			Expect(c.State()).To(Equal(Idle))
			Expect(c.world.BodyCount()).To(BeZero())
			Expect(c.world.ConstraintCount()).To(BeZero())
			Expect(c.oscillators.Len()).To(BeZero())
			Expect(sched.Active()).To(BeZero())
			Expect(c.TimeScale()).To(Equal(DefaultTimeScale))
			Expect(c.world.Gravity().Y()).To(BeNumerically(">", 0))

			t := c.world.Time()
			sched.Advance(time.Second)
			Expect(c.world.Time()).To(Equal(t))
		})

		It("rebuilds from scratch after reset and start", func() {
			c.Reset()
			Expect(c.SetScenario(&scenario.Scenario{})).To(Succeed())
			Expect(c.Start()).To(Succeed())
			Expect(c.world.BodyCount()).To(Equal(2))
			Expect(c.Snapshot().Primary).To(BeEmpty())
		})

		It("rejects a scenario change while running", func() {
			Expect(c.SetScenario(nil)).To(MatchError(ErrNotIdle))
		})
	})

	It("keeps running when a spring has no endpoint", func() {
		sc := sampleScenario()
		sc.Interactions = []scenario.Interaction{scenario.SpringForce{ID: "loose", ObjectA: "ball"}}
		Expect(c.SetScenario(sc)).To(Succeed())
		Expect(c.Start()).To(Succeed())
		Expect(c.world.ConstraintCount()).To(BeZero())
		Expect(sink.Len()).To(Equal(1))
		Expect(errors.Is(sink.All()[0], interact.ErrNoEndpoint)).To(BeTrue())

		sched.Advance(time.Second / 10)
		Expect(c.world.Time()).To(BeNumerically(">", 0))
	})

	It("resizes the surface", func() {
		c.Resize(size{1024, 768})
		w, h := surf.Size()
		Expect([]float64{w, h}).To(Equal([]float64{1024, 768}))
		Expect(c.Snapshot().Width).To(Equal(1024.0))

		c.Resize(size{0, 0})
		Expect(c.Snapshot().Width).To(Equal(1024.0))
	})

	It("cannot be used after cleanup", func() {
		Expect(c.Start()).To(Succeed())
		c.Cleanup()
		Expect(c.State()).To(Equal(Closed))
		Expect(sched.Active()).To(BeZero())
		Expect(c.Start()).To(MatchError(ErrClosed))
		Expect(c.SetScenario(nil)).To(MatchError(ErrClosed))
		c.Cleanup()
	})

	DescribeTable("SetSpeed clamps the time scale",
		func(v, want float64) {
			c.SetSpeed(v)
			Expect(c.TimeScale()).To(Equal(want))
			Expect(c.world.TimeScale()).To(Equal(want))
		},
		Entry("above range", 2.0, 1.0),
		Entry("below range", -1.0, 0.01),
		Entry("zero", 0.0, 0.01),
		Entry("in range", 0.5, 0.5),
	)
})
