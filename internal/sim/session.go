package sim

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/pendulab/internal/coords"
	"github.com/san-kum/pendulab/internal/draw"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/geom"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/scene"
	"github.com/san-kum/pendulab/internal/trace"
)

const (
	DefaultInterval = 25 * time.Millisecond
	DefaultDt       = 0.025
)

type Options struct {
	Surface       draw.Surface
	Scheduler     Scheduler
	Converter     *coords.Converter
	Interval      time.Duration
	Dt            float64
	Integrator    string
	TraceCapacity int
	// Style overrides the scene colors when non-zero.
	Style  scene.Style
	Logger *slog.Logger
}

// Sample is what observers see after every tick.
type Sample struct {
	Tick    int
	State   dynamo.State
	Energy  float64
	Wrapped bool
	Plotted bool
	Point   geom.Point
}

type Observer func(Sample)

// Snapshot is a consistent copy of the session's state.
type Snapshot struct {
	ID     string
	Ticks  int
	State  dynamo.State
	Params dynamo.Params
	Energy float64
	Paused bool
	Trace  []trace.Element
}

// Session owns one pendulum run: its physical state, its phase trace and the
// scheduled task that advances it. All mutation happens under mu, and every
// scheduled callback carries the generation it was created for; a callback
// from an older generation is a no-op.
type Session struct {
	id  string
	log *slog.Logger

	surface  draw.Surface
	sched    Scheduler
	scene    *scene.Scene
	interval time.Duration
	dt       float64
	stepper  string

	mu        sync.Mutex
	pendulum  *physics.Pendulum
	trace     *trace.Trace
	task      Task
	gen       uint64
	ticks     int
	paused    bool
	stopped   bool
	err       error
	observers []Observer
}

func NewSession(opts Options) (*Session, error) {
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("session: scheduler is required")
	}
	if opts.Surface == nil {
		opts.Surface = draw.Discard
	}
	if opts.Converter == nil {
		conv, err := coords.NewConverter(coords.DefaultLimit)
		if err != nil {
			return nil, err
		}
		opts.Converter = conv
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Dt == 0 {
		opts.Dt = DefaultDt
	}
	if _, err := integrators.Get(opts.Integrator); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	sc := scene.New(scene.LayoutFor(opts.Surface), opts.Converter)
	if opts.Style != (scene.Style{}) {
		sc.Style = opts.Style
	}

	id := uuid.NewString()
	return &Session{
		id:       id,
		log:      opts.Logger.With("session", id),
		surface:  opts.Surface,
		sched:    opts.Scheduler,
		scene:    sc,
		interval: opts.Interval,
		dt:       opts.Dt,
		stepper:  opts.Integrator,
		trace:    trace.New(opts.TraceCapacity),
	}, nil
}

func (s *Session) ID() string { return s.id }

// Layout is the scene layout pointer input is hit-tested against.
func (s *Session) Layout() scene.Layout { return s.scene.Layout }

// SetStyle changes the scene colors from the next frame on.
func (s *Session) SetStyle(st scene.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene.Style = st
}

// AddObserver registers fn to run after every tick, outside the lock.
func (s *Session) AddObserver(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Start begins a run. Starting a running session replaces the run; a paused
// or stopped session runs again.
func (s *Session) Start(params dynamo.Params, initial dynamo.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resetLocked(params, initial, true); err != nil {
		return err
	}
	s.log.Info("session started",
		"damping", params.Damping, "length", params.Length,
		"angle", initial.Angle, "velocity", initial.Velocity,
		"dt", s.dt, "interval", s.interval)
	return nil
}

// Reset cancels the scheduled task, clears the trace and schedules a fresh
// run. A paused session stays paused; a stopped one runs again. Invalid
// params leave the current run untouched.
func (s *Session) Reset(params dynamo.Params, initial dynamo.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resetLocked(params, initial, s.stopped); err != nil {
		return err
	}
	s.log.Debug("session reset", "angle", initial.Angle, "velocity", initial.Velocity)
	return nil
}

// resetLocked replaces the pendulum. run clears both pause and stop before
// scheduling.
func (s *Session) resetLocked(params dynamo.Params, initial dynamo.State, run bool) error {
	stepper, err := integrators.Get(s.stepper)
	if err != nil {
		return err
	}
	p, err := physics.NewPendulum(params, initial, s.dt, stepper)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	s.cancelLocked()
	s.trace.Reset()
	s.pendulum = p
	s.ticks = 0
	s.err = nil
	if run {
		s.paused, s.stopped = false, false
	}
	if !s.paused {
		s.scheduleLocked()
	}
	return nil
}

// HandlePointerInput restarts the run from the phase-space state under the
// pixel, keeping the current params. A miss is ignored and reports false.
func (s *Session) HandlePointerInput(px, py float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendulum == nil {
		return false
	}
	st, ok := s.scene.Conv.PixelToState(s.scene.Layout.Plot(), px, py)
	if !ok {
		s.log.Debug("pointer outside plot", "x", px, "y", py)
		return false
	}
	if err := s.resetLocked(s.pendulum.Params(), st, false); err != nil {
		s.log.Warn("pointer reset failed", "error", err)
		return false
	}
	s.log.Debug("pointer reset", "angle", st.Angle, "velocity", st.Velocity)
	return true
}

// Pause cancels the scheduled task but keeps state and trace.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.paused = true
	s.cancelLocked()
	s.log.Debug("session paused", "tick", s.ticks)
}

func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return
	}
	s.paused, s.stopped = false, false
	if s.pendulum != nil && s.err == nil {
		s.scheduleLocked()
	}
	s.log.Debug("session resumed", "tick", s.ticks)
}

// Stop cancels the scheduled task. Start, Reset and Resume run it again;
// pointer input only moves the state.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused, s.stopped = true, true
	s.cancelLocked()
	s.log.Info("session stopped", "tick", s.ticks)
}

// Err reports why the run halted on its own, if it did.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Session) State() (dynamo.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendulum == nil {
		return dynamo.State{}, dynamo.ErrNotStarted
	}
	return s.pendulum.State(), nil
}

func (s *Session) Params() (dynamo.Params, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendulum == nil {
		return dynamo.Params{}, dynamo.ErrNotStarted
	}
	return s.pendulum.Params(), nil
}

// Readback returns the angle and velocity formatted for display, or
// ErrNotStarted before the first Start.
func (s *Session) Readback() (angle, velocity string, err error) {
	st, err := s.State()
	if err != nil {
		return "", "", err
	}
	return FormatReadback(st.Angle), FormatReadback(st.Velocity), nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:     s.id,
		Ticks:  s.ticks,
		Paused: s.paused,
		Trace:  s.trace.Elements(),
	}
	if s.pendulum != nil {
		snap.State = s.pendulum.State()
		snap.Params = s.pendulum.Params()
		snap.Energy = s.pendulum.Energy()
	}
	return snap
}

// Redraw paints the current frame without advancing the simulation.
func (s *Session) Redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendulum == nil {
		return
	}
	s.scene.DrawStatic(s.surface)
	s.scene.DrawPendulum(s.surface, s.pendulum.State().Angle)
	s.scene.DrawTrace(s.surface, s.trace)
}

func (s *Session) scheduleLocked() {
	s.gen++
	gen := s.gen
	s.task = s.sched.Every(s.interval, func() { s.tick(gen) })
}

func (s *Session) cancelLocked() {
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}
	s.gen++
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pendulum == nil {
		s.mu.Unlock()
		return
	}
	sample, err := s.stepLocked()
	if err != nil {
		s.err = err
		s.cancelLocked()
		s.mu.Unlock()
		s.log.Error("simulation halted", "tick", sample.Tick, "error", err)
		return
	}
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(sample)
	}
}

// stepLocked draws the frame, advances one step and plots the new state.
func (s *Session) stepLocked() (Sample, error) {
	sc, surf := s.scene, s.surface

	sc.DrawStatic(surf)
	sc.DrawPendulum(surf, s.pendulum.State().Angle)

	wrapped := s.pendulum.Update()
	st := s.pendulum.State()
	s.ticks++
	if !st.IsValid() {
		return Sample{Tick: s.ticks, State: st}, &dynamo.SimError{Tick: s.ticks, State: st, Wrapped: dynamo.ErrInvalidState}
	}
	if wrapped {
		s.trace.MarkBreak()
	}

	pt, plotted := s.trace.Record(st, sc.Conv, sc.Layout.Plot())
	sc.DrawTrace(surf, s.trace)
	if plotted {
		sc.DrawMarker(surf, pt)
	}

	return Sample{
		Tick:    s.ticks,
		State:   st,
		Energy:  s.pendulum.Energy(),
		Wrapped: wrapped,
		Plotted: plotted,
		Point:   pt,
	}, nil
}

// FormatReadback renders a value with exactly two decimals.
func FormatReadback(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
