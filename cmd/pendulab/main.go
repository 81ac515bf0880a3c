package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/export"
	"github.com/san-kum/pendulab/internal/logging"
	"github.com/san-kum/pendulab/internal/sim"
	"github.com/san-kum/pendulab/internal/tui"
	"github.com/san-kum/pendulab/internal/viz"
)

var (
	v = viper.New()

	verbose   bool
	tuiOutDir string
	tuiTheme  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pendulab",
		Short: "simple pendulum simulator",
		Long: `pendulab integrates the nonlinear pendulum θ'' = -(g/L)·sin θ and compares
it with the small-angle harmonic solution.

Running 'pendulab' without a subcommand opens the interactive simulator.
Every flag can also be set as PENDULAB_<FLAG> in the environment.`,
		SilenceUsage: true,
		RunE:         runInteractive,
	}
	rootCmd.Flags().StringVar(&tuiOutDir, "out", ".", "directory for downloaded plots")
	rootCmd.Flags().StringVar(&tuiTheme, "theme", viz.Themes[0].Name,
		"color theme: "+strings.Join(viz.ThemeNames(), ", "))

	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String(config.KeyConfig, "", "config file path (yaml)")
	pf.String(config.KeyPreset, "", "start from a preset (see 'pendulab presets')")
	pf.Float64(config.KeyTheta0, 0, "initial angle θ₀ (rad, or degrees with --deg)")
	pf.Float64(config.KeyOmega0, 0, "initial angular velocity ω₀ (rad/s, or °/s with --deg)")
	pf.Bool(config.KeyDegrees, false, "read --theta0 and --omega0 in degrees")
	pf.Float64(config.KeyGravity, config.DefaultGravity, "gravitational acceleration (m/s²)")
	pf.Float64(config.KeyLength, config.DefaultLength, "rod length (m)")
	pf.Float64(config.KeyHorizon, config.DefaultHorizon, "simulated time (s)")
	pf.Int(config.KeyPoints, config.DefaultPoints, "number of output samples")
	pf.Float64(config.KeyRelTol, 0, "relative tolerance (dopri5)")
	pf.Float64(config.KeyAbsTol, 0, "absolute tolerance (dopri5)")
	pf.String(config.KeyIntegrator, config.DefaultIntegrator, "integrator: dopri5 or rk4")
	pf.String(config.KeyHarmonic, config.DefaultHarmonic, "harmonic reference: rest or full")
	pf.Int(config.KeyDPI, config.DefaultDPI, "PNG resolution")
	pf.String(config.KeyListen, config.DefaultListen, "server listen address")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	for _, key := range []string{
		config.KeyConfig, config.KeyPreset, config.KeyTheta0, config.KeyOmega0, config.KeyDegrees,
		config.KeyGravity, config.KeyLength, config.KeyHorizon, config.KeyPoints, config.KeyRelTol,
		config.KeyAbsTol, config.KeyIntegrator, config.KeyHarmonic, config.KeyDPI, config.KeyListen,
	} {
		if err := v.BindPFlag(key, pf.Lookup(key)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newExportCmd(),
		newPhaseCmd(),
		newAnalyzeCmd(),
		newCompareCmd(),
		newPresetsCmd(),
		newConfigCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
}

// setup resolves the layered configuration and builds the pipeline for it.
func setup(log *zap.Logger) (*config.Config, *sim.Pipeline, error) {
	cfg, err := config.Resolve(v)
	if err != nil {
		return nil, nil, err
	}
	p, err := cfg.Pipeline(log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	// stderr belongs to the alternate screen while the program runs.
	cfg, p, err := setup(zap.NewNop())
	if err != nil {
		return err
	}

	app := tui.NewApp(p, export.NewRenderer(cfg.DPI), tuiOutDir, cfg.Params)
	if err := app.SetTheme(tuiTheme); err != nil {
		return err
	}
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func logger() *zap.Logger {
	return logging.OrNop(verbose)
}
