package automation

import (
	"log"
	"time"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/config"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/diag"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/render"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/storage"
)

// SimOptions maps a resolved config onto controller options.
func SimOptions(cfg *config.Config) sim.Options {
	return sim.Options{
		Width:           cfg.Canvas.Width,
		Height:          cfg.Canvas.Height,
		StepInterval:    cfg.StepInterval(),
		FrameInterval:   cfg.FrameInterval(),
		TimeScale:       cfg.TimeScale,
		PixelsPerMeter:  cfg.PixelsPerMeter,
		ForceConversion: cfg.ForceConversion,
		PrimaryID:       cfg.Primary,
	}
}

// HostDuration converts host seconds to a duration.
func HostDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// Headless drives a controller on a manual clock. Diagnostics go to the
// logger and are kept for the run record.
type Headless struct {
	ctrl    *sim.Controller
	sched   *sim.ManualScheduler
	diags   *diag.Collector
	samples []sim.Telemetry
}

// NewHeadless builds a controller for sc. surface may be nil.
func NewHeadless(sc *scenario.Scenario, cfg *config.Config, surface render.Surface, logger *log.Logger) *Headless {
	if logger == nil {
		logger = log.Default()
	}
	h := &Headless{sched: sim.NewManualScheduler(), diags: diag.NewCollector()}
	opts := SimOptions(cfg)
	opts.Scheduler = h.sched
	opts.Sink = diag.Multi(h.diags, diag.NewLogger(logger))
	opts.Surface = surface
	h.ctrl = sim.New(sc, opts)
	h.ctrl.Subscribe(func(t sim.Telemetry) { h.samples = append(h.samples, t) })
	return h
}

func (h *Headless) Controller() *sim.Controller { return h.ctrl }

func (h *Headless) Samples() []sim.Telemetry { return h.samples }

// Run starts the scene and advances the clock by d of host time.
func (h *Headless) Run(d time.Duration) (sim.Status, error) {
	if err := h.ctrl.Start(); err != nil {
		return sim.Status{}, err
	}
	h.sched.Advance(d)
	return h.ctrl.Snapshot(), nil
}

func (h *Headless) Diagnostics() []string {
	all := h.diags.All()
	out := make([]string, len(all))
	for i, d := range all {
		out[i] = d.Error()
	}
	return out
}

// Record packages the samples for storage under name.
func (h *Headless) Record(name string, sc *scenario.Scenario, st sim.Status) storage.Run {
	var mass float64
	if o, ok := sc.Object(st.Primary); ok {
		mass, _ = o.BodyMass()
	}
	return storage.Run{
		Meta: storage.RunMetadata{
			Scenario:    name,
			Primary:     st.Primary,
			Mass:        mass,
			TimeScale:   st.TimeScale,
			Scale:       st.Scale,
			Bodies:      st.Bodies,
			Constraints: st.Constraints,
			Diagnostics: h.Diagnostics(),
		},
		Samples: h.samples,
	}
}

func (h *Headless) Close() { h.ctrl.Cleanup() }
