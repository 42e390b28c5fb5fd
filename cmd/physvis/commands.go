package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/analysis"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/automation"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/config"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/render"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/server"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/storage"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/viz"
)

// loadConfig resolves the config file, then the profile, then flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if profile != "" && !cfg.ApplyProfile(profile) {
		return nil, fmt.Errorf("unknown profile: %s (available: %v)", profile, config.ListProfiles())
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if timeScale > 0 {
		cfg.TimeScale = timeScale
	}
	if primary != "" {
		cfg.Primary = primary
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg, cfg.Validate()
}

func scenarioName(arg string) string {
	return strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := scenario.Resolve(args[0])
	if err != nil {
		return err
	}

	h := automation.NewHeadless(sc, cfg, nil, log.Default())
	defer h.Close()

	fmt.Printf("running %s for %.1fs at %.2fx...\n", args[0], cfg.Duration, cfg.TimeScale)
	start := time.Now()
	st, err := h.Run(automation.HostDuration(cfg.Duration))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("bodies: %d  springs: %d  scale: %.2f px/m\n", st.Bodies, st.Constraints, st.Scale)
	if st.Primary == "" {
		fmt.Println("no objects placed, nothing recorded")
	} else {
		sum := analysis.Summarize(h.Samples())
		fmt.Printf("primary: %s  samples: %d  simulated: %.3fs  wall: %v\n", st.Primary, sum.Samples, st.Elapsed, elapsed)
		fmt.Printf("final velocity: (%.3f, %.3f) m/s  max speed: %.3f m/s\n", sum.FinalVelX, sum.FinalVelY, sum.MaxSpeed)
		if len(h.Samples()) > 1 {
			heights := analysis.Heights(h.Samples()).Values
			fmt.Println()
			fmt.Println(asciigraph.Plot(heights, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("height (m)")))
		}
	}
	for _, d := range h.Diagnostics() {
		fmt.Printf("warning: %s\n", d)
	}

	if noSave {
		return nil
	}
	runID, err := storage.New(cfg.DataDir).Save(h.Record(scenarioName(args[0]), sc, st))
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	runner := &automation.Runner{Base: cfg, Logger: log.Default()}
	if !noSave {
		runner.Store = storage.New(cfg.DataDir)
	}
	if script.Name != "" {
		fmt.Printf("script: %s\n", script.Name)
	}

	results, err := runner.Run(cmd.Context(), script)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tPRIMARY\tSAMPLES\tDIAGNOSTICS\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n", r.Step, r.Name, r.Status.Primary, r.Samples, len(r.Diagnostics), r.RunID)
	}
	w.Flush()
	return err
}

func isPreset(name string) bool {
	for _, p := range scenario.PresetNames() {
		if p == name {
			return true
		}
	}
	return false
}

func watchable(arg string) error {
	if isPreset(arg) {
		return fmt.Errorf("--watch needs a scenario file, %q is a preset", arg)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := scenario.Resolve(args[0])
	if err != nil {
		return err
	}
	if watch {
		if err := watchable(args[0]); err != nil {
			return err
		}
	}

	m := viz.NewModel(sc, viz.Options{Sim: automation.SimOptions(cfg), Name: scenarioName(args[0]), Theme: theme})
	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if watch {
		go func() {
			err := scenario.Watch(ctx, args[0], func(sc *scenario.Scenario, err error) {
				p.Send(viz.ScenarioMsg{Scenario: sc, Err: err})
			})
			if err != nil {
				p.Send(viz.ScenarioMsg{Err: err})
			}
		}()
	}
	_, err = p.Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var sc *scenario.Scenario
	if len(args) > 0 {
		if sc, err = scenario.Resolve(args[0]); err != nil {
			return err
		}
		if watch {
			if err := watchable(args[0]); err != nil {
				return err
			}
		}
	} else if watch {
		return errors.New("--watch needs a scenario file")
	}

	srv := server.New(sc, server.Config{
		Addr:          cfg.Server.Addr,
		TelemetryRate: cfg.Server.TelemetryRate,
		Sim:           automation.SimOptions(cfg),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if watch {
		go func() {
			err := scenario.Watch(ctx, args[0], func(sc *scenario.Scenario, err error) {
				if err == nil {
					err = srv.Replace(sc)
				}
				if err != nil {
					log.Printf("[watch] %v", err)
					return
				}
				log.Printf("[watch] reloaded %s", args[0])
			})
			if err != nil {
				log.Printf("[watch] %v", err)
			}
		}()
	}
	return srv.ListenAndServe(ctx)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := scenario.Resolve(args[0])
	if err != nil {
		return err
	}
	svg := render.NewSVG(cfg.Canvas.Width, cfg.Canvas.Height)
	h := automation.NewHeadless(sc, cfg, svg, log.Default())
	defer h.Close()

	if _, err := h.Run(automation.HostDuration(duration)); err != nil {
		return err
	}
	h.Controller().Draw(svg)
	if err := os.WriteFile(outFile, []byte(svg.String()), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := scenario.Resolve(args[0])
	if err != nil {
		return err
	}
	h := automation.NewHeadless(sc, cfg, nil, log.Default())
	defer h.Close()
	st, err := h.Run(0)
	if err != nil {
		return err
	}

	fmt.Printf("objects: %d  environments: %d  motions: %d  interactions: %d  forces: %d\n",
		len(sc.Objects), len(sc.Environments), len(sc.Motions), len(sc.Interactions), len(sc.Forces))
	fmt.Printf("bodies: %d  springs: %d  scale: %.2f px/m\n", st.Bodies, st.Constraints, st.Scale)
	if n := len(h.Diagnostics()); n > 0 {
		return fmt.Errorf("%d diagnostic(s)", n)
	}
	fmt.Println("ok")
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSIMULATED\tSAMPLES\tPRIMARY\tISSUES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%s\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Samples,
			run.Primary,
			len(run.Diagnostics),
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Telemetry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store := storage.New(cfg.DataDir)
	meta, err := store.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := store.LoadTelemetry(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no telemetry in %s", runID)
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\nscenario: %s\nprimary: %s\nsamples: %d\n\n", meta.ID, meta.Scenario, meta.Primary, len(samples))

	plots := []struct {
		caption string
		series  analysis.Series
	}{
		{"height (m)", analysis.Heights(samples)},
		{"speed (m/s)", analysis.Speeds(samples)},
		{"vertical velocity (m/s)", analysis.VerticalVelocities(samples)},
	}
	for _, p := range plots {
		fmt.Println(asciigraph.Plot(p.series.Values, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption(p.caption)))
		fmt.Println()
	}

	if svgOut != "" {
		h := analysis.Heights(samples)
		out := render.PlotSVG(render.Series{X: h.Times, Y: h.Values}, 800, 400, "#3b82f6")
		if err := os.WriteFile(svgOut, []byte(out), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	sum := analysis.Summarize(samples)
	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Scenario)
	fmt.Printf("simulated: %.3fs over %d samples\n", sum.Duration, sum.Samples)
	fmt.Printf("x range: [%.3f, %.3f] m\n", sum.MinX, sum.MaxX)
	fmt.Printf("y range: [%.3f, %.3f] m\n", sum.MinY, sum.MaxY)
	fmt.Printf("path length: %.3f m  max speed: %.3f m/s\n", sum.Distance, sum.MaxSpeed)

	heights := analysis.Heights(samples)
	if f, err := analysis.DominantFrequency(heights); err == nil && f > 0 {
		fmt.Printf("dominant frequency: %.4f Hz (period %.4fs)\n", f, 1/f)
	}
	if p, err := analysis.PeriodFromCrossings(heights); err == nil {
		fmt.Printf("crossing period: %.4fs\n", p)
	}
	if meta.Mass > 0 {
		// world gravity is off while a scene runs
		drift := analysis.NewEnergyDrift(meta.Mass, 0)
		for _, t := range samples {
			drift.Observe(t)
		}
		fmt.Printf("kinetic energy: %.3f J -> %.3f J (max drift %.1f%%)\n", drift.Initial(), drift.Current(), 100*drift.Value())
	}
	fmt.Println("\nphase portrait (height vs vertical velocity):")
	fmt.Print(analysis.NewPhasePortrait(samples).ASCII(60, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	out := struct {
		*storage.RunMetadata
		Summary analysis.Summary `json:"summary"`
	}{meta, analysis.Summarize(samples)}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
