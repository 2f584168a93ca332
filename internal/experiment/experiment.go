// Package experiment runs a configured pendulum session headlessly on a
// manual scheduler and collects what it produced.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/coords"
	"github.com/san-kum/pendulab/internal/draw"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/export"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/metrics"
	"github.com/san-kum/pendulab/internal/sim"
)

// ctx is checked once per this many ticks.
const ctxCheckInterval = 256

type Result struct {
	SessionID  string
	Integrator string
	Params     dynamo.Params
	Ticks      int
	Final      dynamo.State
	Series     *analysis.Series
	Metrics    map[string]float64
	TraceLen   int
	Elapsed    time.Duration
	// Frame is the last rendered frame, nil when rendering was disabled.
	Frame *export.SVG
	// Halted is set when the session stopped itself on an invalid state.
	Halted error
}

type Experiment struct {
	cfg    *config.Config
	log    *slog.Logger
	render bool
}

type Option func(*Experiment)

// WithoutFrame skips drawing, e.g. for benchmarks.
func WithoutFrame() Option {
	return func(e *Experiment) { e.render = false }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.log = l }
}

func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Experiment{cfg: cfg, log: slog.Default(), render: true}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run advances the session cfg.Ticks times.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	cfg := e.cfg

	var surface draw.Surface = draw.Discard
	var frame *export.SVG
	if e.render {
		frame = export.NewSVG(float64(cfg.Display.Width), float64(cfg.Display.Height))
		surface = frame
	}

	conv, err := coords.NewConverter(cfg.Display.CoordinateLimit)
	if err != nil {
		return nil, err
	}
	sched := sim.NewManualScheduler()
	session, err := sim.NewSession(sim.Options{
		Surface:       surface,
		Scheduler:     sched,
		Converter:     conv,
		Interval:      cfg.Interval(),
		Dt:            cfg.Dt,
		Integrator:    cfg.Integrator,
		TraceCapacity: cfg.Display.TraceCapacity,
		Logger:        e.log,
	})
	if err != nil {
		return nil, err
	}

	series := analysis.NewSeries(cfg.Dt)
	set := metrics.Standard(0.1)
	session.AddObserver(series.Observe)
	session.AddObserver(set.Observe)

	if err := session.Start(cfg.PendulumParams(), cfg.InitialState()); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	defer session.Stop()

	start := time.Now()
	for i := 0; i < cfg.Ticks; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if sched.Fire(1) == 0 {
			break
		}
	}
	elapsed := time.Since(start)

	snap := session.Snapshot()
	integrator := cfg.Integrator
	if integrator == "" {
		integrator = integrators.Default
	}
	res := &Result{
		SessionID:  session.ID(),
		Integrator: integrator,
		Params:     snap.Params,
		Ticks:      snap.Ticks,
		Final:      snap.State,
		Series:     series,
		Metrics:    set.Values(),
		TraceLen:   len(snap.Trace),
		Elapsed:    elapsed,
		Frame:      frame,
		Halted:     session.Err(),
	}
	e.log.Info("run finished", "session", res.SessionID, "ticks", res.Ticks, "elapsed", elapsed)
	return res, nil
}

// Compare runs cfg once per integrator, without rendering.
func Compare(ctx context.Context, cfg *config.Config, integrators []string, opts ...Option) ([]*Result, error) {
	results := make([]*Result, 0, len(integrators))
	for _, name := range integrators {
		c := *cfg
		c.Integrator = name
		exp, err := New(&c, append(opts, WithoutFrame())...)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		results = append(results, res)
	}
	return results, nil
}
