package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springlab/internal/metrics"
	"github.com/san-kum/springlab/internal/scene"
	"github.com/san-kum/springlab/internal/sim"
	"github.com/san-kum/springlab/internal/solver"
	"github.com/san-kum/springlab/internal/storage"
	"github.com/san-kum/springlab/internal/viz"
)

var (
	dataDir    string
	sceneFile  string
	device     string
	solverName string
	dt         float64
	duration   float64
	svgOut     string
	sceneOut   string
	frameRate  int
	particle   int
	axis       int
	exportOut  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "springlab",
		Short: "particle-spring simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&sceneFile, "scene", "", "scene file (yaml), overrides preset")
	runCmd.Flags().StringVar(&device, "device", "", "execution device (cpu, cuda, auto)")
	runCmd.Flags().StringVar(&solverName, "solver", "", "solver (semi_implicit, euler)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write final frame + trails as svg")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one particle coordinate over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&particle, "particle", 0, "particle index")
	plotCmd.Flags().IntVar(&axis, "axis", 1, "axis: 0=x 1=y 2=z")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "step a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&sceneFile, "scene", "", "scene file (yaml), overrides preset")
	liveCmd.Flags().StringVar(&device, "device", "", "execution device")
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	sceneCmd := &cobra.Command{
		Use:   "scene [preset]",
		Short: "print or save a preset scene as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  dumpScene,
	}
	sceneCmd.Flags().StringVar(&sceneOut, "out", "", "write to file instead of stdout")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, liveCmd, sceneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadScene resolves the scene from --scene or a preset name, applying
// the shared flag overrides.
func loadScene(args []string) (*scene.Scene, error) {
	var sc *scene.Scene
	var err error

	switch {
	case sceneFile != "":
		sc, err = scene.Load(sceneFile)
		if err != nil {
			return nil, err
		}
	case len(args) == 1:
		var ok bool
		sc, ok = scene.Preset(args[0])
		if !ok {
			return nil, fmt.Errorf("unknown preset %q (have: %s)",
				args[0], strings.Join(scene.PresetNames(), ", "))
		}
	default:
		return nil, fmt.Errorf("need a preset name or --scene file (presets: %s)",
			strings.Join(scene.PresetNames(), ", "))
	}

	if device != "" {
		sc.Device = device
	}
	if solverName != "" {
		sc.Solver = solverName
	}
	if dt > 0 {
		sc.Dt = dt
	}
	if duration > 0 {
		sc.Duration = duration
	}
	return sc, nil
}

func newSolver(name string) (solver.Solver, error) {
	switch name {
	case "", "semi_implicit":
		return solver.NewSemiImplicit(), nil
	case "euler":
		return solver.NewExplicitEuler(), nil
	}
	return nil, fmt.Errorf("unknown solver %q", name)
}

func runScene(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(args)
	if err != nil {
		return err
	}

	model, err := sc.Finalize()
	if err != nil {
		return err
	}

	slv, err := newSolver(sc.Solver)
	if err != nil {
		return err
	}

	session := solver.NewSession(model, slv)
	session.AddMetric(metrics.NewEnergy(model))
	session.AddMetric(metrics.NewEnergyDrift(model))
	session.AddMetric(metrics.NewMomentum(model))
	session.AddMetric(metrics.NewMaxDisplacement(model))

	var renderer viz.Renderer = viz.Null{}
	if svgOut != "" {
		renderer = viz.NewSVGRenderer(model, svgOut)
	}
	session.AddObserver(frameObserver{renderer})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := session.Run(ctx, solver.Config{
		Dt:            sc.Dt,
		Duration:      sc.Duration,
		ValidateState: true,
	})
	if err != nil {
		return err
	}

	if err := renderer.Save(); err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(sc.Name, sc.Solver, sc.Dt, sc.Duration, model, result)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", runID)
	fmt.Fprintf(w, "device\t%s\n", model.Device)
	fmt.Fprintf(w, "particles\t%d\n", model.ParticleCount)
	fmt.Fprintf(w, "springs\t%d\n", model.SpringCount)
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, result.Metrics[name])
	}
	return w.Flush()
}

// frameObserver adapts a Renderer to the session observer hook,
// bracketing each observation in a frame.
type frameObserver struct {
	r viz.Renderer
}

func (o frameObserver) OnStep(s *sim.State, t float64) {
	o.r.BeginFrame(t)
	o.r.Render(s)
	o.r.EndFrame()
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tSOLVER\tDEVICE\tPARTICLES\tSPRINGS\tDT\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%g\t%g\n",
			r.ID, r.Scene, r.Solver, r.Device, r.Particles, r.Springs, r.Dt, r.Duration)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	if axis < 0 || axis > 2 {
		return fmt.Errorf("axis must be 0, 1 or 2")
	}

	store := storage.New(dataDir)
	positions, _, err := store.LoadPositions(args[0])
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return fmt.Errorf("run %s has no recorded states", args[0])
	}

	col := particle*3 + axis
	if col >= len(positions[0]) {
		return fmt.Errorf("particle %d out of range for run %s", particle, args[0])
	}

	series := make([]float64, len(positions))
	for i, q := range positions {
		series[i] = q[col]
	}

	axisName := [3]string{"x", "y", "z"}[axis]
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("particle %d, %s over time", particle, axisName)),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)

	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	positions, times, err := store.LoadPositions(args[0])
	if err != nil {
		return err
	}

	result := &solver.Result{
		Positions:  positions,
		Times:      times,
		Metrics:    meta.Metrics,
		StepsTaken: len(times) - 1,
	}

	if exportOut != "" {
		return storage.ExportFile(exportOut, meta, result)
	}
	return storage.ExportJSON(os.Stdout, meta, result)
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(args)
	if err != nil {
		return err
	}

	model, err := sc.Finalize()
	if err != nil {
		return err
	}
	return viz.RunLive(model, sc.Name, sc.Dt, frameRate)
}

func dumpScene(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(args)
	if err != nil {
		return err
	}

	if sceneOut != "" {
		return scene.Save(sceneOut, sc)
	}

	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
