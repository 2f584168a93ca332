package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/automation"
	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/experiment"
	"github.com/san-kum/pendulab/internal/export"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/viz"
)

var (
	configFile string
	preset     string
	logLevel   string
	logFile    string

	svgOut  string
	csvOut  string
	jsonOut string
	plot    bool

	sweepParam     string
	sweepFrom      float64
	sweepTo        float64
	sweepSteps     int
	sweepObjective string
)

// main registers commands and flags, launches the live view when no
// subcommand is given, and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "pendulab",
		Short:        "damped pendulum with live phase-space trace",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to file instead of stderr")
	addSimFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and write the final frame",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the final frame as SVG")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "write per-tick data as CSV")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write the run as JSON ('-' for stdout)")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot angle, velocity and energy")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "frequency and energy analysis of a headless run",
		Args:  cobra.NoArgs,
		RunE:  analyzeRun,
	}
	addSimFlags(analyzeCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same configuration",
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark ticks per second for each integrator",
		Args:  cobra.NoArgs,
		RunE:  benchIntegrators,
	}
	addSimFlags(benchCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file>",
		Short: "run the steps of a yaml scenario in order",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run once per value of a parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "damping", fmt.Sprintf("parameter to sweep %v", config.ParamNames))
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 2, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "number of values")
	sweepCmd.Flags().StringVar(&sweepObjective, "objective", "energy_drift", "metric to minimise")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDAMPING\tLENGTH\tTHETA\tOMEGA")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
					name, p.Params.Damping, p.Params.Length, p.InitState.Theta, p.InitState.Omega)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pendulab.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	addSimFlags(configInitCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(liveCmd, runCmd, analyzeCmd, compareCmd, benchCmd, scenarioCmd, sweepCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// setupLogging returns the logger for a command. Without --log-file the live
// view discards logs, since stderr shares the terminal with the UI.
func setupLogging(live bool) (*slog.Logger, func(), error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		l, err := newLogger(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return l, func() { f.Close() }, nil
	}
	var w io.Writer = os.Stderr
	if live {
		w = io.Discard
	}
	l, err := newLogger(w)
	return l, func() {}, err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := setupLogging(true)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	return viz.Run(cfg, logger)
}

func headlessRun(cmd *cobra.Command, opts ...experiment.Option) (*config.Config, *experiment.Result, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := setupLogging(false)
	if err != nil {
		return nil, nil, err
	}
	defer closeLog()

	exp, err := experiment.New(cfg, append(opts, experiment.WithLogger(logger))...)
	if err != nil {
		return nil, nil, err
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()
	res, err := exp.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, res, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, res, err := headlessRun(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	printSummary(out, res)

	if svgOut != "" {
		if err := writeFile(svgOut, func(w io.Writer) error {
			_, err := res.Frame.WriteTo(w)
			return err
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "frame: %s\n", svgOut)
	}
	if csvOut != "" {
		if err := writeFile(csvOut, func(w io.Writer) error {
			return export.WriteCSV(w, res.Series)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "data: %s (%s rows)\n", csvOut, humanize.Comma(int64(res.Series.Len())))
	}
	if jsonOut != "" {
		data := export.RunData{
			Session:    res.SessionID,
			Integrator: res.Integrator,
			Dt:         cfg.Dt,
			Damping:    res.Params.Damping,
			Length:     res.Params.Length,
			Gravity:    res.Params.G(),
			Steps:      res.Ticks,
			Angle:      res.Series.Angle,
			Velocity:   res.Series.Velocity,
			Energy:     res.Series.Energy,
			Metrics:    res.Metrics,
		}
		write := func(w io.Writer) error { return export.WriteJSON(w, data) }
		if jsonOut == "-" {
			if err := write(out); err != nil {
				return err
			}
		} else if err := writeFile(jsonOut, write); err != nil {
			return err
		}
	}

	if plot && res.Series.Len() > 1 {
		fmt.Fprintln(out)
		for _, series := range []struct {
			caption string
			data    []float64
		}{
			{"theta (angle)", res.Series.Angle},
			{"omega (angular velocity)", res.Series.Velocity},
			{"energy", res.Series.Energy},
		} {
			graph := asciigraph.Plot(series.data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(series.caption),
			)
			fmt.Fprintln(out, graph)
			fmt.Fprintln(out)
		}
	}

	return res.Halted
}

func printSummary(out io.Writer, res *experiment.Result) {
	fmt.Fprintf(out, "session: %s\n", res.SessionID)
	fmt.Fprintf(out, "integrator: %s\n", res.Integrator)
	fmt.Fprintf(out, "ticks: %s in %v\n", humanize.Comma(int64(res.Ticks)), res.Elapsed)
	fmt.Fprintf(out, "final: angle=%.4f velocity=%.4f\n", res.Final.Angle, res.Final.Velocity)
	fmt.Fprintf(out, "trace elements: %s\n", humanize.Comma(int64(res.TraceLen)))
	if res.Halted != nil {
		fmt.Fprintf(out, "halted: %v\n", res.Halted)
	}
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range sortedKeys(res.Metrics) {
		fmt.Fprintf(out, "  %s: %.6f\n", name, res.Metrics[name])
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	_, res, err := headlessRun(cmd, experiment.WithoutFrame())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	report, err := analysis.Analyze(res.Series, res.Params)
	if err != nil {
		return err
	}

	if freqs, power, err := analysis.Spectrum(res.Series.Velocity, res.Series.Dt); err == nil {
		// the interesting band is far below Nyquist
		n := len(power) / 8
		if n > 1 {
			graph := asciigraph.Plot(power[:n],
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("velocity spectrum, 0 to %.2f hz", freqs[n-1])),
			)
			fmt.Fprintln(out, graph)
			fmt.Fprintln(out)
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%s\n", humanize.Comma(int64(report.Samples)))
	fmt.Fprintf(w, "duration\t%.2f s\n", report.Duration)
	fmt.Fprintf(w, "dominant frequency\t%.4f hz\n", report.DominantHz)
	if report.DominantHz > 0 {
		fmt.Fprintf(w, "period\t%.4f s\n", 1/report.DominantHz)
	}
	fmt.Fprintf(w, "zero-crossing frequency\t%.4f hz\n", report.CrossingHz)
	fmt.Fprintf(w, "small-angle frequency\t%.4f hz\n", report.NaturalHz)
	fmt.Fprintf(w, "damped small-angle frequency\t%.4f hz\n", report.DampedHz)
	fmt.Fprintf(w, "energy\t%.4f -> %.4f\n", report.InitialEnergy, report.FinalEnergy)
	fmt.Fprintf(w, "max energy drift\t%.3e\n", report.MaxEnergyDrift)
	fmt.Fprintf(w, "revolutions\t%d\n", report.Wraps)
	fmt.Fprintf(w, "peak |angle|\t%.4f\n", report.PeakAngle)
	fmt.Fprintf(w, "peak |velocity|\t%.4f\n", report.PeakVelocity)
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}
	logger, closeLog, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog()

	results, err := experiment.Compare(cmdContext(cmd), cfg, names, experiment.WithLogger(logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing integrators (dt=%.4f, ticks=%s)\n\n", cfg.Dt, humanize.Comma(int64(cfg.Ticks)))
	fmt.Fprintf(out, "%-12s  %-12s  %-12s  %-12s  %-12s\n", "integrator", "final_angle", "final_vel", "energy_drift", "time_ms")
	fmt.Fprintln(out, strings.Repeat("-", 66))
	for _, r := range results {
		fmt.Fprintf(out, "%-12s  %12.6f  %12.6f  %12.2e  %12.2f\n",
			r.Integrator, r.Final.Angle, r.Final.Velocity, r.Metrics["energy_drift"],
			float64(r.Elapsed.Microseconds())/1000)
	}
	return nil
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %s ticks per integrator\n\n", humanize.Comma(int64(cfg.Ticks)))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tRENDER\tTICKS\tTIME\tTICKS/SEC")

	for _, name := range integrators.Names() {
		for _, render := range []bool{false, true} {
			c := *cfg
			c.Integrator = name
			opts := []experiment.Option{experiment.WithLogger(logger)}
			if !render {
				opts = append(opts, experiment.WithoutFrame())
			}
			exp, err := experiment.New(&c, opts...)
			if err != nil {
				return err
			}
			res, err := exp.Run(cmdContext(cmd))
			if err != nil {
				return err
			}
			rate := float64(res.Ticks) / res.Elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%v\t%s\t%v\t%s\n",
				name, render, humanize.Comma(int64(res.Ticks)), res.Elapsed, humanize.Commaf(float64(int64(rate))))
		}
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog()

	results, runErr := automation.RunScenario(cmdContext(cmd), sc, cfg, logger)

	out := cmd.OutOrStdout()
	if sc.Name != "" {
		fmt.Fprintf(out, "scenario %s\n\n", sc.Name)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tINTEGRATOR\tTICKS\tFINAL ANGLE\tFINAL VEL\tENERGY DRIFT\tREVOLUTIONS")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%.4f\t%.2e\t%.0f\n",
			r.Step.Name, r.Integrator, humanize.Comma(int64(r.Ticks)),
			r.Final.Angle, r.Final.Velocity, r.Metrics["energy_drift"], r.Metrics["revolutions"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog()

	sw := automation.Sweep{Param: sweepParam, Min: sweepFrom, Max: sweepTo, Steps: sweepSteps}
	points, err := automation.RunSweep(cmdContext(cmd), cfg, sw, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL ANGLE\tFINAL VEL\tENERGY MIN\tENERGY MAX\t%s\n",
		strings.ToUpper(sw.Param), strings.ToUpper(sweepObjective))
	for _, p := range points {
		obj := fmt.Sprintf("%.4g", p.Metrics[sweepObjective])
		if p.Halted != nil {
			obj = "halted"
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%s\n",
			p.Value, p.Final.Angle, p.Final.Velocity, p.MinEnergy, p.MaxEnergy, obj)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if best, ok := automation.Best(points, sweepObjective); ok {
		fmt.Fprintf(out, "\nbest %s=%.4f (%s %.4g)\n", sw.Param, best.Value, sweepObjective, best.Metrics[sweepObjective])
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
