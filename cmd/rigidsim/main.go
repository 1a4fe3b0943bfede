package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigidsim/internal/analysis"
	"github.com/san-kum/rigidsim/internal/automation"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/export"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/sim"
	"github.com/san-kum/rigidsim/internal/storage"
	"github.com/san-kum/rigidsim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	logLevel    string
	preset      string
	dt          float64
	duration    float64
	recordEvery int
	scriptFile  string
	field       string
	format      string
	frameRate   int
	sweepSteps  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rigidsim",
		Short: "2d rigid body physics sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, closeLog, err := fileLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			return viz.RunPicker(scene.ListPresets(), func(name string) (viz.Model, error) {
				return viz.NewModel(liveOptions(cfg, name, logger))
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "physics preset")

	runCmd := &cobra.Command{
		Use:   "run [scene...]",
		Short: "run scenes headless and save the results",
		RunE:  runScenes,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "record body samples every n frames")
	runCmd.Flags().StringVar(&scriptFile, "script", "", "tengo script driving the player")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "play a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [body]",
		Short: "plot a body field over time",
		Args:  cobra.ExactArgs(2),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "x", "sample field (x, y, angle, vx, vy, speed)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata or samples",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format (json, csv, svg)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id] [body]",
		Short: "frequency analysis of a body field",
		Args:  cobra.ExactArgs(2),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&field, "field", "x", "sample field (x, y, angle, vx, vy, speed)")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scene.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list physics presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRESTITUTION\tLINEAR\tANGULAR\tSUBSTEPS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\n", name, p.Restitution, p.LinearDamping, p.AngularDamping, p.MaxSubSteps)
			}
			_ = w.Flush()
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario and save every step",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene] [param] [min] [max]",
		Short: "sweep a physics parameter over a scene",
		Args:  cobra.ExactArgs(4),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of sweep points")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, analyzeCmd, scenesCmd, presetsCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the preset and changed
// flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Physics = *p
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("record-every") {
		cfg.Run.RecordEvery = recordEvery
	}
	if flags.Changed("log-level") || configFile == "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func presetName() string {
	if preset == "" {
		return "default"
	}
	return preset
}

func runScenes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cfg.Logger()

	if len(args) == 0 {
		args = []string{cfg.Scene}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runCfg := sim.Config{Dt: cfg.Run.Dt, Duration: cfg.Run.Duration, RecordEvery: cfg.Run.RecordEvery}
	jobs := make([]sim.Job, 0, len(args))
	for _, name := range args {
		r, err := automation.NewRunner(automation.Setup{
			Scene:     name,
			Physics:   cfg.Physics.Engine(),
			Player:    cfg.Player.Intent(),
			Script:    scriptFile,
			Observers: []engine.Observer{engine.LogObserver(logger.With("scene", name))},
		})
		if err != nil {
			return fmt.Errorf("scene %s: %w", name, err)
		}
		jobs = append(jobs, sim.Job{Name: name, Runner: r, Config: runCfg})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running", "scenes", len(jobs), "dt", runCfg.Dt, "duration", runCfg.Duration, "preset", presetName())
	start := time.Now()
	results := sim.RunBatch(ctx, jobs)
	elapsed := time.Since(start)

	failed := 0
	for i, br := range results {
		if br.Err != nil {
			failed++
			logger.Error("run failed", "scene", br.Name, "err", br.Err)
			if br.Result == nil {
				continue
			}
		}

		runID, err := st.Save(jobs[i].Runner.Level().Spec.Name, presetName(), runCfg, br.Result)
		if err != nil {
			return err
		}

		fmt.Printf("\nscene: %s\n", br.Name)
		fmt.Printf("run id: %s\n", runID)
		printResult(br.Result)
	}
	fmt.Printf("\ncompleted in %v\n", elapsed)

	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(results))
	}
	return nil
}

func printResult(result *sim.Result) {
	fmt.Printf("frames: %d  substeps: %d  collisions: %d  saturated: %d  grabs: %d\n",
		result.Frames, result.SubSteps, result.Collisions, result.SaturatedFrames, result.Grabs)
	fmt.Println("metrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cfg.Logger()

	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, cfg, engine.LogObserver(logger))
	for i, sr := range results {
		p := sr.Step.Preset
		if p == "" {
			p = presetName()
		}
		runID, err := st.Save(sr.Step.Scene, p, sr.Config, sr.Result)
		if err != nil {
			return err
		}
		fmt.Printf("\nstep %d/%d: %s\n", i+1, len(scenario.Steps), sr.Step.Scene)
		fmt.Printf("run id: %s\n", runID)
		printResult(sr.Result)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lo, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid min: %w", err)
	}
	hi, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("invalid max: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Scene:     args[0],
		Physics:   cfg.Physics.Engine(),
		Player:    cfg.Player.Intent(),
		ParamName: args[1],
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  sweepSteps,
		Run:       sim.Config{Dt: cfg.Run.Dt, Duration: cfg.Run.Duration, RecordEvery: cfg.Run.RecordEvery},
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOLLISIONS\tSATURATED\tKE\tGROWTH\tPENETRATION\n", strings.ToUpper(args[1]))
	for _, r := range results {
		m := r.Result.Metrics
		fmt.Fprintf(w, "%.4f\t%d\t%d\t%.3f\t%.3f\t%.4f\n",
			r.ParamValue, r.Result.Collisions, r.Result.SaturatedFrames,
			m["kinetic_energy"], m["energy_growth"], m["max_penetration"])
	}
	return w.Flush()
}

func liveOptions(cfg *config.Config, name string, logger *log.Logger) viz.Options {
	physics := cfg.Physics.Engine()
	opts := viz.Options{
		Title: name,
		Load: func() (*scene.Level, error) {
			spec, err := scene.Resolve(name)
			if err != nil {
				return nil, err
			}
			return scene.Build(spec, physics)
		},
		Engine:    physics,
		Player:    cfg.Player.Intent(),
		Observers: []engine.Observer{engine.LogObserver(logger)},
		FPS:       frameRate,
	}
	if scene.GetPreset(name) == nil {
		opts.WatchPath = name
	}
	return opts
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := cfg.Scene
	if len(args) > 0 {
		name = args[0]
	}

	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	return viz.Run(liveOptions(cfg, name, logger))
}

// fileLogger sends diagnostics to <data>/live.log while the viewer owns
// the terminal.
func fileLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(filepath.Join(dataDir, "live.log"))
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.Logger()
	logger.SetOutput(f)
	return logger, func() { _ = f.Close() }, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tPRESET\tCOLLISIONS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Preset,
			run.Collisions,
		)
	}

	return w.Flush()
}

func loadSeries(runID, body string) (*storage.RunMetadata, []float64, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	times, values, err := analysis.Series(samples, body, field)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(values) == 0 {
		return nil, nil, nil, fmt.Errorf("no samples for body %q in run %s", body, runID)
	}
	return meta, times, values, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, _, values, err := loadSeries(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(values))

	graph := asciigraph.Plot(values,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s %s vs time", args[1], field)),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	switch format {
	case "json":
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	case "csv":
		samples, err := st.LoadSamples(runID)
		if err != nil {
			return err
		}
		w := csv.NewWriter(os.Stdout)
		_ = w.Write([]string{"time", "body", "x", "y", "angle", "vx", "vy"})
		for _, s := range samples {
			_ = w.Write([]string{
				fmt.Sprintf("%.6f", s.Time), s.Body,
				fmt.Sprintf("%.6f", s.X), fmt.Sprintf("%.6f", s.Y), fmt.Sprintf("%.6f", s.Angle),
				fmt.Sprintf("%.6f", s.VX), fmt.Sprintf("%.6f", s.VY),
			})
		}
		w.Flush()
		return w.Error()
	case "svg":
		samples, err := st.LoadSamples(runID)
		if err != nil {
			return err
		}
		fmt.Println(export.TrailsSVG(samples, 800, 600))
		return nil
	}
	return fmt.Errorf("unknown format: %s (available: json, csv, svg)", format)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, times, values, err := loadSeries(args[0], args[1])
	if err != nil {
		return err
	}

	interval := analysis.SampleInterval(times)
	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("series: %s %s (%d samples, %.4fs apart)\n\n", args[1], field, len(values), interval)

	hz := analysis.DominantFrequency(values, interval)
	if hz == 0 {
		fmt.Println("no oscillation found")
		return nil
	}
	fmt.Printf("dominant frequency: %.4f Hz (period %.4fs)\n", hz, 1/hz)

	ps := analysis.PowerSpectrum(values)
	if len(ps) > 1 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		)
		fmt.Println()
		fmt.Println(graph)
	}
	return nil
}
