package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/omnes/internal/analysis"
	"github.com/san-kum/omnes/internal/config"
	"github.com/san-kum/omnes/internal/omnes"
	"github.com/san-kum/omnes/internal/tui"
)

var (
	logger *zap.Logger

	verbose    bool
	configFile string
	preset     string
	order      int
	reference  float64

	sMax   float64
	points int
	argand bool

	sweepValues []float64
	sweepAt     []float64
)

var (
	title = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	muted = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	warn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// main registers the omnes commands. Without a subcommand the interactive
// explorer starts.
func main() {
	rootCmd := &cobra.Command{
		Use:   "omnes",
		Short: "Omnès factors from elastic scattering phases",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(logger)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&preset, "preset", "", "use preset configuration")
	flags.IntVar(&order, "order", omnes.DefaultOrder, "quadrature order per interval")
	flags.Float64Var(&reference, "reference", config.DefaultReference, "normalization point Ω(s)=1")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve the collocation system and report diagnostics",
		RunE:  runSolve,
	}

	evalCmd := &cobra.Command{
		Use:   "eval [s...]",
		Short: "evaluate Ω at the given energies (GeV²)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEval,
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot |Ω| and arg Ω",
		RunE:  runPlot,
	}
	plotCmd.Flags().Float64Var(&sMax, "smax", 4.0, "upper end of the energy grid")
	plotCmd.Flags().IntVar(&points, "points", 161, "grid points")
	plotCmd.Flags().BoolVar(&argand, "argand", false, "also draw Ω in the complex plane")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "re-solve while varying one phase parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", nil, "parameter values")
	sweepCmd.Flags().Float64SliceVar(&sweepAt, "at", []float64{0.55, 0.9}, "energies to evaluate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "print phase model parameters and reference values",
		RunE:  showPhase,
	}

	saveCmd := &cobra.Command{
		Use:   "save [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  saveConfig,
	}

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(logger)
		},
	}

	rootCmd.AddCommand(solveCmd, evalCmd, plotCmd, sweepCmd, presetsCmd, phaseCmd, saveCmd, exploreCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("order") {
		cfg.Order = order
	}
	if cmd.Flags().Changed("reference") {
		cfg.Reference = reference
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build(cmd *cobra.Command) (*config.Config, *omnes.Factor, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	f, _, err := cfg.Build(logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, f, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, f, err := build(cmd)
	if err != nil {
		return err
	}

	w, err := f.Evaluate(cfg.Reference)
	if err != nil {
		return err
	}

	fmt.Println(title.Render(fmt.Sprintf("%s %s", cfg.Phase.Model, cfg.Phase.Wave)))
	fmt.Printf("breakpoints: %v\n", f.Partition().Breakpoints())
	fmt.Printf("order:       %d\n", f.Order())
	fmt.Printf("unknowns:    %d\n", len(f.CollocationPoints()))
	fmt.Printf("reference:   %g\n", f.Reference())
	fmt.Printf("residual:    %.3e\n", f.Residual())
	fmt.Printf("Ω(ref):      %.12f %+.3ei\n", real(w), imag(w))
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	energies := make([]float64, len(args))
	for i, a := range args {
		s, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("invalid energy %q: %w", a, err)
		}
		energies[i] = s
	}

	_, f, err := build(cmd)
	if err != nil {
		return err
	}
	th := f.Partition().Threshold()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "S\tRE\tIM\t|Ω|\tARG\tDELTA")
	for _, smp := range analysis.Scan(f, energies) {
		if smp.Err != nil {
			fmt.Fprintf(tw, "%g\t%s\t\t\t\t\n", smp.S, smp.Err)
			continue
		}
		delta := "-"
		if smp.S > th {
			delta = fmt.Sprintf("%.6f", smp.Phase)
		}
		fmt.Fprintf(tw, "%g\t%.6f\t%.6f\t%.6f\t%.6f\t%s\n",
			smp.S, real(smp.Omega), imag(smp.Omega), smp.Modulus(), smp.Arg(), delta)
	}
	return tw.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	_, f, err := build(cmd)
	if err != nil {
		return err
	}
	grid, err := analysis.Linspace(0, sMax, points)
	if err != nil {
		return err
	}

	samples := analysis.ScanParallel(f, grid, 0, 32)
	valid := analysis.Valid(samples)
	if len(valid) == 0 {
		return fmt.Errorf("no data to plot")
	}
	th := f.Partition().Threshold()

	fmt.Printf("grid: [0, %g], %d points, %d failed\n\n", sMax, len(samples), len(samples)-len(valid))

	fmt.Println(asciigraph.Plot(analysis.Moduli(samples),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("|Ω(s)|"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(analysis.Args(samples),
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("arg Ω(s)"),
	))
	fmt.Println()

	if argand {
		fmt.Println(muted.Render("Ω in the complex plane"))
		fmt.Print(analysis.ArgandToASCII(samples, 60, 20))
		fmt.Println()
	}

	dev := analysis.WatsonDeviation(samples, th)
	msg := fmt.Sprintf("max |arg Ω − δ| mod π: %.2e", dev)
	if dev > 1e-8 {
		msg = warn.Render(msg)
	}
	fmt.Println(msg)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	name := args[0]
	if len(sweepValues) == 0 {
		return fmt.Errorf("no values given (use --values)")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	results, err := analysis.ParamSweep(model, name, sweepValues, sweepAt, func() (analysis.Evaluator, error) {
		f, err := cfg.Factor(model, logger)
		if err != nil {
			return nil, err
		}
		if _, err := f.Solve(cfg.Reference); err != nil {
			return nil, err
		}
		return f, nil
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := []string{strings.ToUpper(name)}
	for _, s := range sweepAt {
		header = append(header, fmt.Sprintf("Ω(%g)", s))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, p := range results {
		row := []string{fmt.Sprintf("%g", p.Param)}
		for _, smp := range p.Samples {
			if smp.Err != nil {
				row = append(row, "error")
				continue
			}
			row = append(row, fmt.Sprintf("%.5f%+.5fi", real(smp.Omega), imag(smp.Omega)))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMODEL\tWAVE\tORDER\tBREAKPOINTS\tREF")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%v\t%g\n",
			name, p.Phase.Model, p.Phase.Wave, p.Order, p.Breakpoints, p.Reference)
	}
	return tw.Flush()
}

func showPhase(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	fmt.Println(title.Render(cfg.Phase.Model))
	fmt.Printf("threshold: %.6f GeV²\n\n", model.Threshold())

	params := model.GetParams()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAM\tVALUE")
	for _, name := range model.ParamNames() {
		fmt.Fprintf(tw, "%s\t%g\n", name, params[name])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Println()

	tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUANTITY\tVALUE")
	for _, d := range model.Diagnostics() {
		fmt.Fprintf(tw, "%s\t%.6f\n", d.Label, d.Value)
	}
	return tw.Flush()
}

func saveConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", args[0])
	return nil
}
