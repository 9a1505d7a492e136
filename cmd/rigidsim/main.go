package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigidsim/internal/analysis"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/sim"
	"github.com/san-kum/rigidsim/internal/storage"
	"github.com/san-kum/rigidsim/internal/stream"
	"github.com/san-kum/rigidsim/internal/tui"
	"github.com/san-kum/rigidsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	configFile  string
	duration    float64
	frameDt     float64
	fixedDt     float64
	jitter      float64
	seed        int64
	iterations  int
	restitution float64
	friction    float64

	watch     bool
	frameRate int
	noSave    bool

	columns []string
	xColumn string
	yColumn string
	section string

	outFile  string
	addr     string
	realtime bool
	numRuns  int

	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	rayOrigin []float64
	rayDir    []float64
	rayMax    float64
	rayAt     float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rigidsim",
		Short:         "fixed-timestep rigid-body simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				Prefix:          "rigidsim",
				Level:           level,
				ReportTimestamp: true,
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene and save its trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the scene while it runs")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "redraw rate for --watch")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot state columns of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", nil, "columns to plot (default: height of every body)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print the run's state table as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and bounce analysis of a column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&columns, "column", nil, "column to analyze (default: first body height)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one column against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xColumn, "x", "", "x column (default: first body z)")
	phaseCmd.Flags().StringVar(&yColumn, "y", "", "y column (default: first body vz)")
	phaseCmd.Flags().StringVar(&section, "section", "", "only keep samples where this column rises through zero")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&addr, "serve", "", "also stream frames over websocket on this address")

	serveCmd := &cobra.Command{
		Use:   "serve [preset]",
		Short: "stream a running scene over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serveScene,
	}
	sceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&realtime, "realtime", true, "pace frames to wall-clock time")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "run seeded copies of a scene in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	sceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "bounce apex heights as world restitution varies",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepRestitution,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "lowest restitution")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "highest restitution")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of samples")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tDURATION\tGROUND")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				names := make([]string, len(p.Bodies))
				for i, b := range p.Bodies {
					names[i] = b.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%.1fs\t%v\n", name, strings.Join(names, ","), p.Run.Duration, p.World.GroundEnabled)
			}
			return w.Flush()
		},
	}

	raycastCmd := &cobra.Command{
		Use:   "raycast [preset]",
		Short: "cast a ray into a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  raycastScene,
	}
	sceneFlags(raycastCmd)
	raycastCmd.Flags().Float64SliceVar(&rayOrigin, "origin", []float64{0, -10, 1}, "ray origin x,y,z")
	raycastCmd.Flags().Float64SliceVar(&rayDir, "dir", []float64{0, 1, 0}, "ray direction x,y,z")
	raycastCmd.Flags().Float64Var(&rayMax, "max", 100, "maximum distance")
	raycastCmd.Flags().Float64Var(&rayAt, "at", 0, "simulate this many seconds first")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, analyzeCmd, phaseCmd,
		liveCmd, serveCmd, benchCmd, sweepCmd, presetsCmd, raycastCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&frameDt, "frame-dt", config.DefaultFrameDt, "frame length")
	cmd.Flags().Float64Var(&fixedDt, "fixed-dt", config.DefaultFixedDt, "physics substep")
	cmd.Flags().Float64Var(&jitter, "jitter", 0, "relative frame length spread")
	cmd.Flags().Int64Var(&seed, "seed", 0, "jitter seed")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "solver iterations")
	cmd.Flags().Float64Var(&restitution, "restitution", config.DefaultRestitution, "world restitution")
	cmd.Flags().Float64Var(&friction, "friction", config.DefaultFriction, "world friction")
}

// loadScene resolves the scene from --config or the preset argument and
// applies any flags the user set explicitly.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("frame-dt") {
		cfg.Run.FrameDt = frameDt
	}
	if flags.Changed("fixed-dt") {
		cfg.World.FixedDt = fixedDt
	}
	if flags.Changed("jitter") {
		cfg.Run.Jitter = jitter
	}
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if flags.Changed("iterations") {
		cfg.World.Iterations = iterations
	}
	if flags.Changed("restitution") {
		cfg.World.Restitution = restitution
	}
	if flags.Changed("friction") {
		cfg.World.Friction = friction
	}
	return cfg, cfg.Validate()
}

func runConfig(cfg *config.Config) sim.Config {
	rc := sim.DefaultConfig()
	rc.Duration = cfg.Run.Duration
	rc.FrameDt = cfg.Run.FrameDt
	rc.Jitter = cfg.Run.Jitter
	rc.Seed = cfg.Run.Seed
	return rc
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	world, err := scene.Build(cfg, logger)
	if err != nil {
		return err
	}

	runner := sim.New(world, logger)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}
	if watch {
		r := tui.NewLiveRenderer(world, os.Stdout, cfg.Name, frameRate)
		r.Start()
		defer r.Stop()
		runner.AddObserver(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running scene", "scene", cfg.Name, "bodies", len(cfg.Bodies), "duration", cfg.Run.Duration)
	start := time.Now()
	result, err := runner.Run(ctx, runConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d  substeps: %d  sim time: %.3fs\n", result.StepsTaken, result.Substeps, result.SimTime)
	fmt.Println("\nmetrics:")
	for _, m := range metrics.Standard() {
		fmt.Printf("  %-16s %.6f\n", m.Name(), result.Metrics[m.Name()])
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scene:    cfg.Name,
		Seed:     cfg.Run.Seed,
		FrameDt:  cfg.Run.FrameDt,
		FixedDt:  cfg.World.FixedDt,
		Jitter:   cfg.Run.Jitter,
		Duration: cfg.Run.Duration,
	}, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tFRAMES\tSUBSTEPS\tBODIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Frames,
			run.Substeps,
			strings.Join(run.Bodies, ","),
		)
	}
	return w.Flush()
}

// heightColumns returns "<body>_z" for every body in the run.
func heightColumns(meta *storage.RunMetadata) []string {
	out := make([]string, 0, len(meta.Bodies))
	for _, b := range meta.Bodies {
		out = append(out, b+"_z")
	}
	return out
}

func loadRun(runID string) (*storage.RunMetadata, []string, []float64, [][]float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	header, times, rows, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("run %s has no data", runID)
	}
	return meta, header, times, rows, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, header, _, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}

	cols := columns
	if len(cols) == 0 {
		cols = heightColumns(meta)
	}
	const maxPlots = 6
	if len(cols) > maxPlots {
		cols = cols[:maxPlots]
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(rows))

	for _, col := range cols {
		data, err := analysis.ColumnSeries(header, rows, col)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	f, err := os.Open(st.CSVPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(os.Stdout, f)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := storage.ExportJSONFile(outFile, *meta, result); err != nil {
			return err
		}
		logger.Info("exported", "run", meta.ID, "frames", len(result.Frames), "file", outFile)
		return nil
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, header, times, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}
	col := ""
	if len(columns) > 0 {
		col = columns[0]
	} else if cols := heightColumns(meta); len(cols) > 0 {
		col = cols[0]
	}
	data, err := analysis.ColumnSeries(header, rows, col)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s  column: %s\n\n", meta.Scene, col)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 4 {
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+col+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq, _ := analysis.DominantFrequency(data, meta.FrameDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	apexes := analysis.Apexes(data)
	if len(apexes) == 0 {
		return nil
	}
	fmt.Println("\napexes:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tVALUE\tRATIO")
	for i, idx := range apexes {
		ratio := ""
		if i > 0 && data[apexes[i-1]] != 0 {
			ratio = fmt.Sprintf("%.3f", data[idx]/data[apexes[i-1]])
		}
		fmt.Fprintf(w, "%.3f\t%.4f\t%s\n", times[idx], data[idx], ratio)
	}
	return w.Flush()
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, header, _, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(meta.Bodies) == 0 {
		return errors.New("run has no bodies")
	}
	xc, yc := xColumn, yColumn
	if xc == "" {
		xc = meta.Bodies[0] + "_z"
	}
	if yc == "" {
		yc = meta.Bodies[0] + "_vz"
	}
	xs, err := analysis.ColumnSeries(header, rows, xc)
	if err != nil {
		return err
	}
	ys, err := analysis.ColumnSeries(header, rows, yc)
	if err != nil {
		return err
	}

	portrait := analysis.NewPortrait(xs, ys)
	if section != "" {
		cross, err := analysis.ColumnSeries(header, rows, section)
		if err != nil {
			return err
		}
		portrait = analysis.Section(portrait, cross, 0)
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("x: %s  y: %s  points: %d\n\n", xc, yc, len(portrait.Points))
	fmt.Print(analysis.PortraitToASCII(portrait, 70, 20))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	if addr == "" {
		return viz.Run(cfg, logger)
	}

	hub := stream.NewHub(cfg.Name, logger)
	srv := newServer(addr, hub)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
		}
	}()
	defer func() {
		hub.Close()
		srv.Close()
	}()
	return viz.Run(cfg, logger, hub)
}

func newServer(addr string, hub *stream.Hub) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// pacer sleeps between frames so a run plays back at wall-clock speed.
type pacer struct {
	ctx   context.Context
	start time.Time
}

func (p *pacer) OnFrame(f sim.Frame) {
	wait := time.Until(p.start.Add(time.Duration(f.Time * float64(time.Second))))
	if wait <= 0 {
		return
	}
	select {
	case <-p.ctx.Done():
	case <-time.After(wait):
	}
}

func serveScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	world, err := scene.Build(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := stream.NewHub(cfg.Name, logger)
	srv := newServer(addr, hub)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("streaming", "scene", cfg.Name, "addr", addr, "path", "/ws")

	runner := sim.New(world, logger)
	if realtime {
		runner.AddObserver(&pacer{ctx: ctx, start: time.Now()})
	}
	runner.AddObserver(hub)

	rc := runConfig(cfg)
	rc.KeepFrames = false
	_, runErr := runner.Run(ctx, rc)
	hub.Done()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		srv.Close()
		return runErr
	}
	logger.Info("run finished; serving until interrupted", "time", world.Time())

	select {
	case <-ctx.Done():
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	hub.Close()
	return srv.Close()
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	build := func() (*physics.World, error) { return scene.Build(cfg, nil) }

	rc := runConfig(cfg)
	rc.KeepFrames = false
	if rc.Jitter == 0 {
		rc.Jitter = 0.2
	}
	ens := sim.NewEnsemble(build, metrics.Standard, numRuns, cfg.Run.Seed)

	fmt.Printf("benchmarking %s: %d runs of %.1fs\n\n", cfg.Name, numRuns, rc.Duration)
	start := time.Now()
	results, err := ens.Run(context.Background(), rc)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tSUBSTEPS\tENERGY DRIFT\tMAX PEN\tSTABILITY")
	var substeps uint64
	for i, r := range results {
		substeps += r.Substeps
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4g\t%.4g\t%.3f\n",
			cfg.Run.Seed+int64(i), r.StepsTaken, r.Substeps,
			r.Metrics["energy_drift"], r.Metrics["max_penetration"], r.Metrics["stability"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d substeps in %v (%.0f substeps/sec)\n", substeps, elapsed, float64(substeps)/elapsed.Seconds())
	return nil
}

func sweepRestitution(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	rc := runConfig(cfg)

	data, err := analysis.Sweep(sweepMin, sweepMax, sweepSteps, func(e float64) ([]float64, error) {
		c := *cfg
		c.World.Restitution = e
		world, err := scene.Build(&c, nil)
		if err != nil {
			return nil, err
		}
		var target physics.BodyID
		for _, b := range world.Bodies() {
			if !b.IsStatic() {
				target = b.ID()
				break
			}
		}
		var heights []float64
		err = sim.New(world, nil).RunWithCallback(context.Background(), rc, func(f sim.Frame) bool {
			for _, b := range f.Bodies {
				if b.ID == target {
					heights = append(heights, b.Position.Z())
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		apexes := analysis.Apexes(heights)
		out := make([]float64, len(apexes))
		for i, idx := range apexes {
			out[i] = heights[idx]
		}
		return out, nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("restitution sweep: %s (apex heights of the first dynamic body)\n\n", cfg.Name)
	fmt.Print(analysis.SweepToASCII(data, 70, 20))
	return nil
}

func raycastScene(cmd *cobra.Command, args []string) error {
	if len(rayOrigin) != 3 || len(rayDir) != 3 {
		return errors.New("--origin and --dir take three values")
	}
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	world, err := scene.Build(cfg, logger)
	if err != nil {
		return err
	}
	if rayAt > 0 {
		rc := runConfig(cfg)
		rc.Duration = rayAt
		rc.KeepFrames = false
		if _, err := sim.New(world, logger).Run(context.Background(), rc); err != nil {
			return err
		}
	}

	origin := mgl64.Vec3{rayOrigin[0], rayOrigin[1], rayOrigin[2]}
	dir := mgl64.Vec3{rayDir[0], rayDir[1], rayDir[2]}
	hit, ok := world.RayCast(origin, dir, rayMax)
	if !ok {
		fmt.Println("no hit")
		return nil
	}
	p := hit.Point
	fmt.Printf("hit %s (id %d) at (%.4f, %.4f, %.4f), distance %.4f\n",
		hit.Body.Name(), hit.Body.ID(), p.X(), p.Y(), p.Z(), hit.Distance)
	return nil
}
