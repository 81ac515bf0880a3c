package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/export"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/server"
	"github.com/san-kum/pendulab/internal/viz"
)

const degPerRad = 180 / math.Pi

type chartSize struct {
	width  int
	height int
}

func (c *chartSize) register(cmd *cobra.Command, width, height int) {
	cmd.Flags().IntVar(&c.width, "width", width, "chart width")
	cmd.Flags().IntVar(&c.height, "height", height, "chart height")
}

func newRunCmd() *cobra.Command {
	var (
		out  string
		size chartSize
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(out, size)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "also write theta_t.png and phase_space.png here")
	size.register(cmd, 80, 15)
	return cmd
}

func newExportCmd() *cobra.Command {
	var out, format, data string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the θ(t) and phase space figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportFigures(out, format, data)
		},
	}
	cmd.Flags().StringVar(&out, "out", ".", "output directory")
	cmd.Flags().StringVar(&format, "format", "png", "image format: png or svg")
	cmd.Flags().StringVar(&data, "data", "", "also dump the samples: json or csv")
	return cmd
}

func newPhaseCmd() *cobra.Command {
	var (
		size  chartSize
		ascii bool
	)
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "phase space plot in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return phasePlot(size, ascii)
		},
	}
	size.register(cmd, 60, 20)
	cmd.Flags().BoolVar(&ascii, "ascii", false, "plain ASCII instead of braille")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var (
		size  chartSize
		maxHz float64
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "frequency analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeRun(size, maxHz)
		},
	}
	size.register(cmd, 80, 15)
	cmd.Flags().Float64Var(&maxHz, "max-hz", 3, "highest frequency shown")
	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [integrator] ...",
		Short: "compare integrators on the same grid",
		RunE:  compareIntegrators,
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config PATH",
		Short: "write the resolved configuration to a yaml file",
		Long: `Writes the configuration the other commands would use, after presets,
config file, environment and flags are applied. The file can be passed back
with --config.`,
		Args: cobra.ExactArgs(1),
		RunE: writeConfig,
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the simulator over HTTP and WebSocket",
		RunE:  serve,
	}
}

func simulate() (*config.Config, *dynamo.Result, error) {
	cfg, p, err := setup(logger())
	if err != nil {
		return nil, nil, err
	}
	res, err := p.Run(cfg.Params)
	if err != nil {
		var ierr *dynamo.IntegrationError
		if errors.As(err, &ierr) && ierr.Partial != nil {
			fmt.Fprintf(os.Stderr, "integration stopped at t=%.4f after %d samples\n", ierr.Time, ierr.Partial.Len())
		}
		return nil, nil, err
	}
	return cfg, res, nil
}

func formatPeriod(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f s", v)
}

func runSimulation(out string, size chartSize) error {
	start := time.Now()
	cfg, res, err := simulate()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	s := analysis.Summarize(res)
	p := res.Params

	fmt.Printf("θ₀ = %.2f°  ω₀ = %.2f°/s  g = %.2f m/s²  L = %.2f m\n", p.Theta0*degPerRad, p.Omega0*degPerRad, p.Gravity, p.Length)
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("samples: %d over %.1f s\n", res.Trajectory.Len(), cfg.Horizon)
	fmt.Printf("solver: %s (%d steps, %d rejected, %d evaluations)\n", res.Stats.Solver, res.Stats.Steps, res.Stats.Rejected, res.Stats.Evaluations)
	fmt.Println()
	fmt.Printf("  period (numeric):   %s\n", formatPeriod(s.NumericPeriod))
	fmt.Printf("  period (harmonic):  %s\n", formatPeriod(s.HarmonicPeriod))
	fmt.Printf("  2π·sqrt(L/g):       %s\n", formatPeriod(p.SmallAnglePeriod()))
	if !math.IsNaN(s.PeriodRatio) {
		fmt.Printf("  period ratio:       %.4f\n", s.PeriodRatio)
	}
	fmt.Printf("  amplitude:          %.2f°\n", s.Amplitude*degPerRad)
	fmt.Printf("  max |θ - θ_h|:      %.4f rad (%.2f°)\n", s.MaxDeviation, s.MaxDeviation*degPerRad)
	fmt.Println()

	fmt.Println(viz.ThetaChart(res, size.width, size.height))
	fmt.Println()
	fmt.Println(viz.DeviationChart(res, size.width, size.height/2+1))

	if out != "" {
		paths, err := export.NewRenderer(cfg.DPI).SaveAll(out, res, export.PNG)
		if err != nil {
			return err
		}
		fmt.Println()
		for _, path := range paths {
			fmt.Printf("wrote %s\n", path)
		}
	}
	return nil
}

func exportFigures(out, format, data string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	var df export.DataFormat
	if data != "" {
		if df, err = export.ParseDataFormat(data); err != nil {
			return err
		}
	}

	cfg, res, err := simulate()
	if err != nil {
		return err
	}

	paths, err := export.NewRenderer(cfg.DPI).SaveAll(out, res, f)
	if err != nil {
		return err
	}

	if df != "" {
		path := filepath.Join(out, "pendulum."+string(df))
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("cannot create file: %w", err)
		}
		defer file.Close()
		if err := export.WriteData(file, res, df); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	for _, path := range paths {
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func phasePlot(size chartSize, ascii bool) error {
	_, res, err := simulate()
	if err != nil {
		return err
	}

	fmt.Printf("phase space: θ (deg) vs ω (deg/s), %d samples\n\n", res.Trajectory.Len())
	if ascii {
		portrait := analysis.NewPhasePortrait(res.Trajectory, degPerRad)
		fmt.Print(analysis.PhasePortraitToASCII(portrait, size.width, size.height))
		return nil
	}
	fmt.Print(viz.PhaseCanvas(res, size.width, size.height).String())
	return nil
}

func analyzeRun(size chartSize, maxHz float64) error {
	_, res, err := simulate()
	if err != nil {
		return err
	}

	tr := res.Trajectory
	spec := analysis.PowerSpectrum(tr.Theta, res.Grid.Spacing())
	if len(spec.Freqs) == 0 {
		return fmt.Errorf("not enough samples for a spectrum")
	}

	fmt.Println(viz.SpectrumChart(spec, maxHz, size.width, size.height))
	fmt.Println()

	s := analysis.Summarize(res)
	freq := spec.DominantFrequency()
	fmt.Printf("dominant frequency: %.4f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period (spectrum):  %.4f s\n", 1/freq)
	}
	fmt.Printf("period (crossings): %s\n", formatPeriod(s.NumericPeriod))
	fmt.Printf("period (harmonic):  %s\n", formatPeriod(res.Params.SmallAnglePeriod()))
	fmt.Printf("frequency resolution: %.4f hz\n", spec.Freqs[1])

	turns := analysis.TurningPoints(tr)
	if len(turns) > 0 {
		shown := turns
		if len(shown) > 8 {
			shown = shown[:8]
		}
		parts := make([]string, len(shown))
		for i, v := range shown {
			parts[i] = fmt.Sprintf("%.2f°", v*degPerRad)
		}
		fmt.Printf("turning points (%d): %s\n", len(turns), strings.Join(parts, " "))
	} else {
		fmt.Println("turning points: none (the pendulum rotates or rests)")
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(v)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Printf("comparing integrators (θ₀=%.2f°, horizon=%.1fs, %d samples)\n\n", cfg.Params.Theta0*degPerRad, cfg.Horizon, cfg.Points)
	fmt.Printf("%-10s  %8s  %8s  %12s  %12s  %10s\n", "integrator", "steps", "evals", "final_theta", "vs_first", "time_ms")
	fmt.Println(strings.Repeat("-", 68))

	var reference *dynamo.Trajectory
	for _, name := range names {
		c := *cfg
		c.Integrator = name
		p, err := c.Pipeline(logger())
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		res, err := p.Run(c.Params)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		tr := res.Trajectory
		diff := 0.0
		if reference == nil {
			reference = tr
		} else {
			diff = floats.Distance(tr.Theta, reference.Theta, math.Inf(1))
		}

		fmt.Printf("%-10s  %8d  %8d  %12.6f  %12.2e  %10.2f\n", name, res.Stats.Steps, res.Stats.Evaluations,
			tr.Theta[tr.Len()-1], diff, float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tθ₀ (°)\tω₀ (°/s)\tg (m/s²)\tL (m)\tHORIZON (s)")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.2f\t%.2f\t%.0f\n", name,
			p.Params.Theta0*degPerRad, p.Params.Omega0*degPerRad, p.Params.Gravity, p.Params.Length, p.Horizon)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(v)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", args[0])
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	log := logger()
	defer func() { _ = log.Sync() }()

	cfg, p, err := setup(log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting server",
		zap.String("listen", cfg.Listen),
		zap.String("integrator", cfg.Integrator),
		zap.Int("points", cfg.Points),
		zap.Int("dpi", cfg.DPI),
	)
	srv := server.New(p, export.NewRenderer(cfg.DPI), cfg.Params, log)
	return srv.ListenAndServe(ctx, cfg.Listen)
}
