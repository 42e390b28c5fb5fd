// Package automation runs scripted sequences of headless simulations and
// records each run.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/config"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/storage"
)

var (
	ErrNoSteps    = errors.New("automation: script has no steps")
	ErrNoScenario = errors.New("automation: step has no scenario")
)

// Script is a sequence of headless runs executed in order.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one recorded run. Zero fields inherit from the base config.
type Step struct {
	Scenario  string  `yaml:"scenario"`
	Profile   string  `yaml:"profile"`
	Primary   string  `yaml:"primary"`
	Duration  float64 `yaml:"duration"`
	TimeScale float64 `yaml:"time_scale"`
	SaveAs    string  `yaml:"save_as"`
}

// LoadScript loads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return ErrNoSteps
	}
	for i, st := range s.Steps {
		if strings.TrimSpace(st.Scenario) == "" {
			return fmt.Errorf("step %d: %w", i+1, ErrNoScenario)
		}
		if st.Duration < 0 || st.TimeScale < 0 {
			return fmt.Errorf("step %d: negative duration or time_scale", i+1)
		}
	}
	return nil
}

// Config layers the step's profile and overrides on a copy of base.
func (st Step) Config(base *config.Config) (*config.Config, error) {
	cfg := *base
	if st.Profile != "" && !cfg.ApplyProfile(st.Profile) {
		return nil, fmt.Errorf("unknown profile: %s", st.Profile)
	}
	if st.Primary != "" {
		cfg.Primary = st.Primary
	}
	if st.Duration > 0 {
		cfg.Duration = st.Duration
	}
	if st.TimeScale > 0 {
		cfg.TimeScale = st.TimeScale
	}
	return &cfg, cfg.Validate()
}

// Name is the label the run is saved under.
func (st Step) Name() string {
	if st.SaveAs != "" {
		return st.SaveAs
	}
	return strings.TrimSuffix(filepath.Base(st.Scenario), filepath.Ext(st.Scenario))
}

// Result describes one executed step.
type Result struct {
	Step        int
	Name        string
	RunID       string
	Status      sim.Status
	Samples     int
	Diagnostics []string
}

// Runner executes scripts and saves every run to Store. A nil Store
// records nothing.
type Runner struct {
	Base    *config.Config
	Store   *storage.Store
	Logger  *log.Logger
	Resolve func(string) (*scenario.Scenario, error)
}

// Run executes the steps in order and stops at the first failure. The
// results of completed steps are returned either way.
func (r *Runner) Run(ctx context.Context, s *Script) ([]Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	resolve := r.Resolve
	if resolve == nil {
		resolve = scenario.Resolve
	}
	base := r.Base
	if base == nil {
		base = config.DefaultConfig()
	}

	results := make([]Result, 0, len(s.Steps))
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger.Printf("step %d/%d: %s", i+1, len(s.Steps), st.Scenario)

		res, err := r.step(st, base, resolve, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Step = i + 1
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) step(st Step, base *config.Config, resolve func(string) (*scenario.Scenario, error), logger *log.Logger) (Result, error) {
	cfg, err := st.Config(base)
	if err != nil {
		return Result{}, err
	}
	sc, err := resolve(st.Scenario)
	if err != nil {
		return Result{}, err
	}

	h := NewHeadless(sc, cfg, nil, logger)
	defer h.Close()
	status, err := h.Run(HostDuration(cfg.Duration))
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Name:        st.Name(),
		Status:      status,
		Samples:     len(h.Samples()),
		Diagnostics: h.Diagnostics(),
	}
	if r.Store != nil && status.Primary != "" {
		res.RunID, err = r.Store.Save(h.Record(res.Name, sc, status))
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
