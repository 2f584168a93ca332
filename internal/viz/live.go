package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/coords"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/metrics"
	"github.com/san-kum/pendulab/internal/sim"
)

const (
	canvasCols      = 80
	canvasRows      = 24
	historyCapacity = 600

	// |angle| below which the pendulum counts as settled.
	settleAngle = 0.1
)

// RunMsg carries a scheduled callback onto the bubbletea goroutine, so every
// tick is serialized with input handling.
type RunMsg func()

type startedMsg struct{ err error }

type Options struct {
	Config     *config.Config
	Scheduler  sim.Scheduler
	Logger     *slog.Logger
	Cols, Rows int
}

// param is one tunable parameter of the live view.
type param struct {
	name  string
	field func(*dynamo.Params) *float64
	step  float64
	scale bool
	min   float64
}

var tunables = []param{
	{name: "damping", field: func(p *dynamo.Params) *float64 { return &p.Damping }, step: 0.05},
	{name: "length", field: func(p *dynamo.Params) *float64 { return &p.Length }, step: 1.1, scale: true, min: 0.1},
	{name: "gravity", field: func(p *dynamo.Params) *float64 { return &p.Gravity }, step: 0.2, min: 0.2},
}

func (p param) adjust(params *dynamo.Params, dir int) {
	v := p.field(params)
	switch {
	case p.scale && dir > 0:
		*v *= p.step
	case p.scale:
		*v /= p.step
	default:
		*v += float64(dir) * p.step
	}
	if *v < p.min {
		*v = p.min
	}
}

// liveStats is shared by every copy of the model; it is only touched from
// the goroutine that runs ticks.
type liveStats struct {
	energy  []float64
	last    sim.Sample
	metrics metrics.Set
}

func (s *liveStats) observe(sample sim.Sample) {
	s.last = sample
	s.energy = append(s.energy, sample.Energy)
	if len(s.energy) > historyCapacity {
		s.energy = s.energy[1:]
	}
	s.metrics.Observe(sample)
}

func (s *liveStats) reset() {
	s.last = sim.Sample{}
	s.energy = s.energy[:0]
	s.metrics.Reset()
}

// Model is the live view: a Braille rendering of the session's surface and
// a sidebar with readback, energy chart and parameters.
type Model struct {
	session *sim.Session
	surface *BrailleSurface
	log     *slog.Logger

	params        dynamo.Params
	initialParams dynamo.Params
	initial       dynamo.State
	selected      int

	theme    Theme
	styles   styles
	stats    *liveStats
	err      error
	showHelp bool
}

// NewModel validates the config and builds a session drawing onto a
// Braille surface. The session is started by Init.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	if opts.Cols <= 0 {
		opts.Cols = canvasCols
	}
	if opts.Rows <= 0 {
		opts.Rows = canvasRows
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	theme := GetTheme(cfg.Display.Theme)
	surface := NewBrailleSurface(opts.Cols, opts.Rows,
		float64(cfg.Display.Width), float64(cfg.Display.Height), theme.Scene.Background)

	conv, err := coords.NewConverter(cfg.Display.CoordinateLimit)
	if err != nil {
		return Model{}, err
	}
	session, err := sim.NewSession(sim.Options{
		Surface:       surface,
		Scheduler:     opts.Scheduler,
		Converter:     conv,
		Interval:      cfg.Interval(),
		Dt:            cfg.Dt,
		Integrator:    cfg.Integrator,
		TraceCapacity: cfg.Display.TraceCapacity,
		Style:         theme.Scene,
		Logger:        opts.Logger,
	})
	if err != nil {
		return Model{}, err
	}

	stats := &liveStats{
		energy:  make([]float64, 0, historyCapacity),
		metrics: metrics.Standard(settleAngle),
	}
	session.AddObserver(stats.observe)

	return Model{
		session:       session,
		surface:       surface,
		log:           opts.Logger,
		params:        cfg.PendulumParams(),
		initialParams: cfg.PendulumParams(),
		initial:       cfg.InitialState(),
		theme:         theme,
		styles:        newStyles(theme),
		stats:         stats,
	}, nil
}

func (m Model) Session() *sim.Session { return m.session }

func (m Model) Init() tea.Cmd {
	session, params, initial := m.session, m.params, m.initial
	return func() tea.Msg {
		return startedMsg{err: session.Start(params, initial)}
	}
}

// Update handles input events and runs scheduled ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RunMsg:
		msg()
		if err := m.session.Err(); err != nil {
			m.err = err
		}
	case startedMsg:
		m.err = msg.err
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.session.Stop()
			return m, tea.Quit
		case " ", "space":
			if m.session.Paused() {
				m.session.Resume()
			} else {
				m.session.Pause()
			}
		case "r":
			m.params = m.initialParams
			m.restart(m.initial)
		case "tab":
			m.selected = (m.selected + 1) % len(tunables)
		case "up", "k":
			m.tune(1)
		case "down", "j":
			m.tune(-1)
		case "t":
			m.setTheme(NextTheme(m.theme.Name))
		case "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	col, row := msg.X-canvasPadLeft, msg.Y-canvasPadTop
	c := m.surface.Canvas()
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	px, py := m.surface.CellToPixel(col, row)
	if m.session.HandlePointerInput(px, py) {
		m.stats.reset()
		m.err = nil
	}
}

// tune changes the selected parameter and continues from the current state
// under the new parameters.
func (m *Model) tune(dir int) {
	next := m.params
	tunables[m.selected].adjust(&next, dir)
	if err := next.Validate(); err != nil {
		m.log.Debug("parameter rejected", "param", tunables[m.selected].name, "error", err)
		return
	}
	m.params = next

	st, err := m.session.State()
	if err != nil {
		st = m.initial
	}
	m.restart(st)
}

func (m *Model) restart(st dynamo.State) {
	if err := m.session.Reset(m.params, st); err != nil {
		m.err = err
		return
	}
	m.stats.reset()
	m.err = nil
}

func (m *Model) setTheme(t Theme) {
	m.theme = t
	m.styles = newStyles(t)
	m.surface.SetBackground(t.Scene.Background)
	m.session.SetStyle(t.Scene)
	m.session.Redraw()
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := m.styles.canvas.Render(m.surface.Canvas().Render())

	var s strings.Builder
	st := m.styles
	s.WriteString(st.header.Render("DAMPED PENDULUM") + "\n")

	switch {
	case m.err != nil:
		s.WriteString(st.failed.Render("HALTED") + " " + st.value.Render(m.err.Error()) + "\n\n")
	case m.session.Paused():
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	default:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	}

	if len(m.stats.energy) > 1 {
		chart := asciigraph.Plot(m.stats.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	angle, velocity, err := m.session.Readback()
	if err != nil {
		angle, velocity = "-", "-"
	}
	values := m.stats.metrics.Values()
	rows := [][2]string{
		{"Tick", humanize.Comma(int64(m.stats.last.Tick))},
		{"θ", angle},
		{"ω", velocity},
		{"Energy", fmt.Sprintf("%.3f", m.stats.last.Energy)},
		{"Drift", fmt.Sprintf("%.2e", values["energy_drift"])},
		{"Turns", fmt.Sprintf("%.0f", values["revolutions"])},
		{"Settled", fmt.Sprintf("%.0f%%", 100*values["stability"])},
	}
	for _, r := range rows {
		s.WriteString(st.label.Render(r[0]) + st.value.Render(r[1]) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	for i, p := range tunables {
		val := *p.field(&m.params)
		ref := *p.field(&m.initialParams)
		if ref == 0 {
			ref = math.Max(val, p.step*10)
		}
		line := fmt.Sprintf("%-8s %s %.2f", p.name, ParamBar(val, ref, 10), val)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.Render(line) + "\n")
		}
	}

	s.WriteString(st.help.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nTab ↑↓:Tune T:Theme ?:Help\nClick the plot to restart there"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.sidebar.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset to initial state   ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  T        - Cycle themes             ║
║  Click    - Restart from phase point ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view with ticks dispatched onto the bubbletea loop.
func Run(cfg *config.Config, logger *slog.Logger) error {
	var program *tea.Program
	ready := make(chan struct{})
	sched := sim.NewTickerScheduler(sim.WithDispatch(func(fn func()) {
		<-ready
		program.Send(RunMsg(fn))
	}))

	m, err := NewModel(Options{Config: cfg, Scheduler: sched, Logger: logger})
	if err != nil {
		return err
	}
	defer m.session.Stop()

	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	close(ready)

	final, err := program.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
