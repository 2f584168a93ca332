package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/coords"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
)

var (
	damping    float64
	length     float64
	gravity    float64
	theta      float64
	omega      float64
	dt         float64
	intervalMS int
	ticks      int
	limit      float64
	traceCap   int
	integrator string
	theme      string
)

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&damping, "damping", config.DefaultDamping, "damping coefficient")
	f.Float64Var(&length, "length", config.DefaultLength, "pendulum length")
	f.Float64Var(&gravity, "gravity", dynamo.Gravity, "gravitational acceleration, must be positive")
	f.Float64Var(&theta, "theta", config.DefaultTheta, "initial angle")
	f.Float64Var(&omega, "omega", config.DefaultOmega, "initial angular velocity")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep per tick")
	f.IntVar(&intervalMS, "interval", config.DefaultIntervalMS, "tick interval in milliseconds")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks for headless runs")
	f.Float64Var(&limit, "limit", coords.DefaultLimit, "phase plot coordinate limit")
	f.IntVar(&traceCap, "trace", config.DefaultTrace, "trace capacity, 0 for unbounded")
	f.StringVar(&integrator, "integrator", integrators.Default, fmt.Sprintf("integrator %v", integrators.Names()))
	f.StringVar(&theme, "theme", "night", "color theme")
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("damping") {
		cfg.Params.Damping = damping
	}
	if f.Changed("length") {
		cfg.Params.Length = length
	}
	if f.Changed("gravity") {
		cfg.Params.Gravity = gravity
	}
	if f.Changed("theta") {
		cfg.InitState.Theta = theta
	}
	if f.Changed("omega") {
		cfg.InitState.Omega = omega
	}
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("interval") {
		cfg.IntervalMS = intervalMS
	}
	if f.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if f.Changed("limit") {
		cfg.Display.CoordinateLimit = limit
	}
	if f.Changed("trace") {
		cfg.Display.TraceCapacity = traceCap
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("theme") {
		cfg.Display.Theme = theme
	}
	if !f.Changed("log-level") && cfg.LogLevel != "" {
		logLevel = cfg.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
