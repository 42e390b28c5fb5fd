package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/automation"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/config"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/scenario"
	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/viz"
)

var (
	configFile string
	profile    string
	dataDir    string
	primary    string
	duration   float64
	timeScale  float64
	watch      bool
	noSave     bool
	outFile    string
	theme      string
	addr       string
	svgOut     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "physvis",
		Short:        "physics word-problem scene simulator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return viz.RunPicker(viz.Options{Sim: automation.SimOptions(cfg), Theme: theme})
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "config profile to apply")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run data directory")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "terminal theme")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "simulate headless and record telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&duration, "time", 0, "host seconds to simulate")
	runCmd.Flags().Float64Var(&timeScale, "speed", 0, "time scale")
	runCmd.Flags().StringVar(&primary, "primary", "", "object to record")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scene in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&timeScale, "speed", 0, "time scale")
	liveCmd.Flags().StringVar(&primary, "primary", "", "object to follow")
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload the scenario file on change")

	serveCmd := &cobra.Command{
		Use:   "serve [scenario]",
		Short: "serve a scene over http and websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")
	serveCmd.Flags().StringVar(&primary, "primary", "", "object to stream")
	serveCmd.Flags().BoolVar(&watch, "watch", false, "reload the scenario file on change")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scenario]",
		Short: "render one frame to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().Float64Var(&duration, "at", 0, "host seconds to simulate before drawing")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "frame.svg", "output file")

	validateCmd := &cobra.Command{
		Use:   "validate [scenario]",
		Short: "build a scenario and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the height curve to this svg file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summary and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml sequence of headless runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios and config profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("scenarios:")
			for _, p := range scenario.PresetNames() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("profiles:")
			for _, p := range config.ListProfiles() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("themes:")
			for _, t := range viz.ThemeNames() {
				fmt.Printf("  %s\n", t)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, snapshotCmd, validateCmd, listCmd, plotCmd, analyzeCmd, exportCmd, scriptCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
