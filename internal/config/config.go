package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulab/internal/coords"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
)

const (
	DefaultDt         = 0.025
	DefaultIntervalMS = 25
	DefaultTicks      = 2000
	DefaultDamping    = 0.5
	DefaultLength     = 5.0
	DefaultTheta      = 2.0
	DefaultOmega      = 2.0
	DefaultWidth      = 640
	DefaultHeight     = 360
	DefaultTrace      = 4000
	DefaultLogLevel   = "info"
)

type Config struct {
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	IntervalMS int             `yaml:"interval_ms"`
	Ticks      int             `yaml:"ticks"`
	Params     ParamsConfig    `yaml:"params"`
	InitState  InitStateConfig `yaml:"init_state"`
	Display    DisplayConfig   `yaml:"display"`
	LogLevel   string          `yaml:"log_level"`
}

type ParamsConfig struct {
	Damping float64 `yaml:"damping"`
	Length  float64 `yaml:"length"`
	Gravity float64 `yaml:"gravity"`
}

type InitStateConfig struct {
	Theta float64 `yaml:"theta"`
	Omega float64 `yaml:"omega"`
}

type DisplayConfig struct {
	CoordinateLimit float64 `yaml:"coordinate_limit"`
	TraceCapacity   int     `yaml:"trace_capacity"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Theme           string  `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: integrators.Default,
		Dt:         DefaultDt,
		IntervalMS: DefaultIntervalMS,
		Ticks:      DefaultTicks,
		Params: ParamsConfig{
			Damping: DefaultDamping,
			Length:  DefaultLength,
			Gravity: dynamo.Gravity,
		},
		InitState: InitStateConfig{
			Theta: DefaultTheta,
			Omega: DefaultOmega,
		},
		Display: DisplayConfig{
			CoordinateLimit: coords.DefaultLimit,
			TraceCapacity:   DefaultTrace,
			Width:           DefaultWidth,
			Height:          DefaultHeight,
			Theme:           "night",
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field the simulation consumes.
func (c *Config) Validate() error {
	if err := c.PendulumParams().Validate(); err != nil {
		return err
	}
	// Params treat 0 as "unset"; a config always names its gravity.
	if !(c.Params.Gravity > 0) {
		return fmt.Errorf("gravity must be positive, got %v: %w", c.Params.Gravity, dynamo.ErrParameterBounds)
	}
	if !c.InitialState().IsValid() {
		return fmt.Errorf("init_state: %w", dynamo.ErrInvalidState)
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %v: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.IntervalMS <= 0 {
		return fmt.Errorf("interval_ms must be positive, got %d: %w", c.IntervalMS, dynamo.ErrParameterBounds)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d: %w", c.Ticks, dynamo.ErrParameterBounds)
	}
	if _, err := coords.NewConverter(c.Display.CoordinateLimit); err != nil {
		return err
	}
	if c.Display.TraceCapacity < 0 {
		return fmt.Errorf("trace_capacity must not be negative: %w", dynamo.ErrParameterBounds)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size %dx%d: %w", c.Display.Width, c.Display.Height, dynamo.ErrParameterBounds)
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return err
	}
	return nil
}

func (c *Config) PendulumParams() dynamo.Params {
	return dynamo.Params{
		Damping: c.Params.Damping,
		Length:  c.Params.Length,
		Gravity: c.Params.Gravity,
	}
}

func (c *Config) InitialState() dynamo.State {
	return dynamo.State{Angle: c.InitState.Theta, Velocity: c.InitState.Omega}
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// ParamNames lists the names accepted by SetParam.
var ParamNames = []string{"damping", "length", "gravity", "theta", "omega", "dt"}

// SetParam sets a physical parameter or initial condition by name.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "damping":
		c.Params.Damping = v
	case "length":
		c.Params.Length = v
	case "gravity":
		c.Params.Gravity = v
	case "theta":
		c.InitState.Theta = v
	case "omega":
		c.InitState.Omega = v
	case "dt":
		c.Dt = v
	default:
		return fmt.Errorf("%q (want one of %v): %w", name, ParamNames, dynamo.ErrUnknownParam)
	}
	return nil
}
