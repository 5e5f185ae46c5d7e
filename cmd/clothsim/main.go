package main

import (
	"context"
	"fmt"
	"maps"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/clothsim/internal/analysis"
	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/export"
	"github.com/san-kum/clothsim/internal/gui"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/optim"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
	"github.com/san-kum/clothsim/internal/tui"
	"github.com/san-kum/clothsim/internal/viz"
)

var (
	dataDir string
	// Scene overrides
	configFile  string
	preset      string
	name        string
	nx          int
	ny          int
	dt          float64
	duration    float64
	iterations  int
	mass        float64
	damping     float64
	friction    float64
	orbitRadius float64
	sampleEvery int
	// Run options
	watch     bool
	frameRate int
	// Inspection
	vertex  int
	outPath string
	svgMode string
	theme   string
	// Ensembles
	runs       int
	trials     int
	parallel   int
	perturb    float64
	spread     float64
	benchTime  float64
	param      string
	values     []float64
	gridParams []string
	metricName string
	mcParams   []string
	seed       int64
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// main registers the clothsim commands and exits with status 1 when the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "clothsim",
		Short:        "cloth draped over a ground plane and an orbiting sphere",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.Run(config.DefaultConfig())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".clothsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw a top-down height map while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mean cloth height and one vertex height",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&vertex, "vertex", -1, "vertex index to plot (default: centre)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis and phase portrait",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&vertex, "vertex", -1, "vertex index for the phase portrait (default: centre)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final frame or the height series to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: <run_id>.svg)")
	exportSVGCmd.Flags().StringVar(&svgMode, "mode", "wireframe", "wireframe, braille or height")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunLive(cfg, theme)
		},
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "linen", fmt.Sprintf("colour theme %v", viz.ThemeNames()))

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a raylib window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}
	addSceneFlags(guiCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(titleStyle.Render("presets:"))
			for _, p := range config.ListPresets() {
				c := config.GetPreset(p)
				fmt.Printf("  %-12s %s\n", p, labelStyle.Render(fmt.Sprintf("%dx%d iter=%d mass=%g friction=%g",
					c.Cloth.Nx, c.Cloth.Ny, c.Physics.Iterations, c.Cloth.Mass, c.Physics.Friction)))
			}
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark stepping across grid sizes",
		RunE:  benchGrid,
	}
	benchCmd.Flags().Float64Var(&benchTime, "time", 2.0, "simulated seconds per size")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "check that identical scenes produce identical runs",
		RunE:  verifyDeterminism,
	}
	addSceneFlags(verifyCmd)
	verifyCmd.Flags().IntVar(&runs, "runs", 4, "number of identical scenes")
	verifyCmd.Flags().IntVar(&parallel, "parallel", 0, "scenes running at once (0: all)")
	verifyCmd.Flags().Float64Var(&perturb, "perturb", 0, "also run with the orbit radius offset by this amount and report divergence")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "final mean height across values of one parameter",
		RunE:  sweepParam,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "friction", fmt.Sprintf("parameter to sweep %v", config.ParamNames()))
	sweepCmd.Flags().Float64SliceVar(&values, "values", []float64{0, 0.15, 0.3, 0.6, 0.9}, "parameter values")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "scenes running at once (0: all)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of scenes from a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the lowest value of a metric",
		RunE:  tuneGrid,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridParams, "grid", []string{"iterations=5,10,20", "friction=0.1,0.3,0.6"}, "name=v1,v2,... (repeat per parameter)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "max_stretch", "metric to minimise")
	tuneCmd.Flags().IntVar(&parallel, "parallel", 0, "scenes running at once (0: all)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "randomly perturb parameters and count unstable runs",
		RunE:  runMonteCarlo,
	}
	addSceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().StringSliceVar(&mcParams, "params", []string{"mass", "friction", "orbit"}, "parameters to perturb")
	monteCarloCmd.Flags().Float64Var(&spread, "perturb", 0.2, "relative perturbation")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: time)")
	monteCarloCmd.Flags().IntVar(&parallel, "parallel", 0, "scenes running at once (0: all)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd,
		liveCmd, guiCmd, presetsCmd, benchCmd, verifyCmd, sweepCmd, scenarioCmd, tuneCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&name, "name", "", "run name")
	f.IntVar(&nx, "nx", config.DefaultNx, "grid cells along x")
	f.IntVar(&ny, "ny", config.DefaultNy, "grid cells along z")
	f.Float64Var(&dt, "dt", config.DefaultDt, "fixed timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	f.IntVar(&iterations, "iterations", config.DefaultIterations, "solver iterations per step")
	f.Float64Var(&mass, "mass", config.DefaultMass, "particle mass")
	f.Float64Var(&damping, "damping", config.DefaultDamping, "linear damping")
	f.Float64Var(&friction, "friction", config.DefaultFriction, "contact friction")
	f.Float64Var(&orbitRadius, "orbit", config.DefaultOrbitRadius, "obstacle orbit radius")
	f.IntVar(&sampleEvery, "sample", 1, "record every n-th frame")
}

// loadConfig starts from the defaults, a preset, or a config file (which
// wins over a preset), then applies only the flags given on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = name
	}
	if flags.Changed("nx") {
		cfg.Cloth.Nx = nx
	}
	if flags.Changed("ny") {
		cfg.Cloth.Ny = ny
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("iterations") {
		cfg.Physics.Iterations = iterations
	}
	if flags.Changed("mass") {
		cfg.Cloth.Mass = mass
	}
	if flags.Changed("damping") {
		cfg.Physics.Damping = damping
	}
	if flags.Changed("friction") {
		cfg.Physics.Friction = friction
	}
	if flags.Changed("orbit") {
		cfg.Obstacle.OrbitRadius = orbitRadius
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	scene, err := sim.NewDefaultScene(cfg)
	if err != nil {
		return err
	}

	runner := sim.NewRunner()
	for _, m := range metrics.Standard(cfg.GravityVec(), scene.Links()) {
		runner.AddMetric(m)
	}

	if watch {
		lr := tui.NewLiveRenderer(cfg.Name, cfg.Cloth.Size*0.75, frameRate, os.Stdout)
		lr.Start()
		defer lr.Stop()
		runner.SetRenderer(lr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %dx%d cloth, %.2fs at dt=%.4f\n", cfg.Name, cfg.Cloth.Nx, cfg.Cloth.Ny, cfg.Duration, cfg.Dt)
	start := time.Now()

	result, err := runner.Run(ctx, scene, cfg.RunConfig())
	if err != nil {
		if result != nil {
			return fmt.Errorf("simulation stopped after %d steps: %w", result.StepsTaken, err)
		}
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println()
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	fmt.Println(titleStyle.Render("metrics:"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(w, "  %s\t%.6f\n", labelStyle.Render(name), m[name])
	}
	w.Flush()
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tDURATION\tDT\tSTEPS\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nx, run.Ny,
			run.Duration,
			run.Dt,
			run.Steps,
			run.Samples,
		)
	}

	return w.Flush()
}

// loadRun returns a stored run's metadata, config and recorded frames.
func loadRun(runID string) (*storage.RunMetadata, *config.Config, *dynamo.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	result, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(result.Times) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no recorded frames", runID)
	}
	return meta, cfg, result, nil
}

// vertexOrCentre resolves the --vertex flag against a grid.
func vertexOrCentre(cfg *config.Config, v int) (int, error) {
	buf := cloth.NewVertexBuffer(cfg.Cloth.Nx, cfg.Cloth.Ny)
	if v < 0 {
		return buf.Index(cfg.Cloth.Nx/2, cfg.Cloth.Ny/2), nil
	}
	if v >= len(buf.Positions) {
		return 0, fmt.Errorf("vertex %d out of range [0, %d): %w", v, len(buf.Positions), dynamo.ErrDimensionMismatch)
	}
	return v, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, cfg, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	v, err := vertexOrCentre(cfg, vertex)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%d\n", meta.Nx, meta.Ny)
	fmt.Printf("samples: %d\n\n", len(result.Times))

	fmt.Println(asciigraph.Plot(result.MeanHeight,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("mean cloth height"),
	))
	fmt.Println()

	heights := make([]float64, len(result.Snapshots))
	for i, snap := range result.Snapshots {
		heights[i] = snap[v].Y
	}
	fmt.Println(asciigraph.Plot(heights,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("vertex %d height", v)),
	))

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, cfg, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	v, err := vertexOrCentre(cfg, vertex)
	if err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(result.MeanHeight)
	if len(ps) < 2 {
		return fmt.Errorf("run %s has too few samples for a spectrum", meta.ID)
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)
	fmt.Println(asciigraph.Plot(ps[1:],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (mean height)"),
	))
	fmt.Println()

	interval := meta.Dt * float64(max(meta.SampleEvery, 1))
	freq := analysis.DominantFrequency(result.MeanHeight, interval)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	fmt.Printf("obstacle orbit: %.3f hz\n\n", 1/(2*math.Pi))

	portrait := analysis.GeneratePhasePortrait(result, v)
	if portrait == nil {
		return nil
	}
	fmt.Printf("phase portrait, vertex %d (height vs vertical velocity)\n", v)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 20))

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, cfg, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.ExportJSONStdout(cfg, result)
	}
	if err := storage.ExportJSON(outPath, cfg, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

// lastFrame rebuilds the renderable frame for the final recorded sample.
func lastFrame(cfg *config.Config, result *dynamo.Result) dynamo.Frame {
	last := len(result.Snapshots) - 1
	t := result.Times[last]
	return dynamo.Frame{
		Step:           result.StepsTaken,
		Time:           t,
		Vertices:       result.Snapshots[last],
		Indices:        cloth.NewVertexBuffer(cfg.Cloth.Nx, cfg.Cloth.Ny).Triangles(),
		Obstacle:       sim.ObstaclePosition(cfg.Obstacle.OrbitRadius, t),
		ObstacleRadius: cfg.Obstacle.Radius,
	}
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	_, cfg, result, err := loadRun(runID)
	if err != nil {
		return err
	}

	var svg string
	switch svgMode {
	case "wireframe", "braille":
		f := lastFrame(cfg, result)
		wf := viz.NewWireframe()
		viz.ClothWireframe(wf, f, viz.MeshEdges(f.Indices))
		cam := viz.NewCamera()
		if svgMode == "wireframe" {
			svg = export.WireframeToSVG(wf, cam, 800, 600, "#e0e0e0")
		} else {
			canvas := viz.NewCanvas(100, 40)
			viz.Render3D(canvas, wf, cam)
			svg = export.CanvasToSVG(canvas, 4)
		}
	case "height":
		svg = export.SeriesToSVG(result.Times, result.MeanHeight, 800, 300, "#e0e0e0")
	default:
		return fmt.Errorf("unknown svg mode: %s (wireframe, braille, height)", svgMode)
	}

	path := outPath
	if path == "" {
		path = filepath.Base(runID) + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func benchGrid(cmd *cobra.Command, args []string) error {
	sizes := []int{4, 8, 15, 30, 60}

	fmt.Printf("benchmarking %.1fs of simulated time per grid\n\n", benchTime)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tBODIES\tLINKS\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range sizes {
		cfg := config.DefaultConfig()
		cfg.Name = fmt.Sprintf("bench_%d", n)
		cfg.Cloth.Nx, cfg.Cloth.Ny = n, n
		cfg.Duration = benchTime

		scene, err := sim.NewDefaultScene(cfg)
		if err != nil {
			return err
		}
		rc := cfg.RunConfig()
		rc.SampleEvery = rc.Frames() + 1

		start := time.Now()
		result, err := sim.NewRunner().Run(context.Background(), scene, rc)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%dx%d\t%d\t%d\t%d\t%v\t%.0f\n",
			n, n, scene.Grid().Len(), len(scene.Links()), result.StepsTaken,
			elapsed.Round(time.Millisecond), float64(result.StepsTaken)/elapsed.Seconds())
	}

	return w.Flush()
}

func verifyDeterminism(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runs < 2 {
		return fmt.Errorf("need at least 2 runs, got %d: %w", runs, dynamo.ErrParameterBounds)
	}

	cfgs := make([]*config.Config, runs)
	for i := range cfgs {
		c := *cfg
		c.Name = fmt.Sprintf("%s_%d", cfg.Name, i)
		cfgs[i] = &c
	}
	if perturb != 0 {
		c := *cfg
		c.Name = cfg.Name + "_perturbed"
		c.Obstacle.OrbitRadius += perturb
		cfgs = append(cfgs, &c)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d scenes of %s\n", len(cfgs), cfg.Name)
	results, err := sim.NewEnsemble(cfgs...).WithLimit(parallel).Run(ctx)
	if err != nil {
		return err
	}

	ref := results[0]
	failed := 0
	for i := 1; i < runs; i++ {
		dev, err := sim.MaxDeviation(ref, results[i])
		if err != nil {
			return err
		}
		status := okStyle.Render("identical")
		if !sim.Equal(ref, results[i], 0) {
			status = failStyle.Render(fmt.Sprintf("diverged (max %.3g)", dev))
			failed++
		}
		fmt.Printf("  run %d vs run 0: %s\n", i, status)
	}

	if perturb != 0 {
		perturbed := results[len(results)-1]
		sep := analysis.Separation(ref, perturbed)
		if sep == nil {
			return fmt.Errorf("perturbed run cannot be compared: %w", dynamo.ErrDimensionMismatch)
		}
		fmt.Println()
		fmt.Printf("orbit offset %.3g: final separation %.3g, growth rate %.3f /s\n",
			perturb, sep[len(sep)-1], analysis.SeparationGrowth(ref, perturbed, perturb))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d runs differ from the first", failed, runs-1)
	}
	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if _, err := cfg.Get(param); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, err := analysis.Sweep(ctx, cfg, values, func(c *config.Config, v float64) {
		_ = c.Set(param, v)
		c.Name = fmt.Sprintf("%s_%s_%g", cfg.Name, param, v)
	}, analysis.FinalMeanHeight)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL MEAN HEIGHT\n", param)
	for _, p := range points {
		fmt.Fprintf(w, "%g\t%.6f\n", p.Param, p.Value)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(titleStyle.Render(sc.Name))
	if sc.Description != "" {
		fmt.Println(labelStyle.Render(sc.Description))
	}
	results, err := automation.RunScenario(ctx, sc, st, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tSTEPS\tFINAL MEAN\tMAX STRETCH\tRUN ID")
	for i, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.4f\t%.4f\t%s\n",
			i+1, r.Config.Name, r.Result.StepsTaken,
			analysis.FinalMeanHeight(r.Result), r.Result.Metrics["max_stretch"], id)
	}
	return w.Flush()
}

// parseGrid turns name=v1,v2 entries into parallel name and value lists.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid entry %q is not name=v1,v2,...", e)
		}
		var vals []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid entry %q: %w", e, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func tuneGrid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := optim.NewGridSearch(names, ranges).WithLimit(parallel)
	fmt.Printf("searching %d candidates for the lowest %s\n", len(g.Candidates()), metricName)
	best, val, err := g.Search(ctx, cfg, metricName)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("best:"))
	for _, name := range names {
		fmt.Printf("  %s = %g\n", labelStyle.Render(name), best[name])
	}
	fmt.Printf("  %s = %.6f\n", labelStyle.Render(metricName), val)
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d trials of %s, +-%.0f%% on %v\n", trials, cfg.Name, spread*100, mcParams)
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Params:       mcParams,
		Perturbation: spread,
		NumTrials:    trials,
		Seed:         seed,
		Limit:        parallel,
	})
	if err != nil {
		return err
	}

	stable, unstable, invalid := automation.MonteCarloStats(results)
	worst := 0.0
	for _, r := range results {
		if r.Stable {
			worst = max(worst, r.MaxStretch)
		}
	}

	fmt.Printf("stable: %s  unstable: %s  invalid draws: %d\n",
		okStyle.Render(strconv.Itoa(stable)), failStyle.Render(strconv.Itoa(unstable)), invalid)
	fmt.Printf("worst stretch among stable trials: %.4f\n", worst)
	return nil
}
