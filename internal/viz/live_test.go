package viz

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
)

func newTestModel(t *testing.T) (Model, *sim.ManualScheduler) {
	t.Helper()
	sched := sim.NewManualScheduler()
	m, err := NewModel(Options{
		Config:    config.DefaultConfig(),
		Scheduler: sched,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(m.Init()())
	return next.(Model), sched
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestNewModel_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Params.Length = 0
	if _, err := NewModel(Options{Config: cfg, Scheduler: sim.NewManualScheduler()}); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestModel_TicksUpdateStats(t *testing.T) {
	m, sched := newTestModel(t)
	if m.err != nil {
		t.Fatalf("start failed: %v", m.err)
	}

	sched.Fire(10)
	if m.stats.last.Tick != 10 {
		t.Errorf("expected tick 10, got %d", m.stats.last.Tick)
	}
	if len(m.stats.energy) != 10 {
		t.Errorf("expected 10 energy samples, got %d", len(m.stats.energy))
	}

	view := m.View()
	angle, _, err := m.session.Readback()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"RUNNING", angle, "damping", "Energy"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestModel_PauseResume(t *testing.T) {
	m, sched := newTestModel(t)

	m = press(m, key(" "))
	if !m.session.Paused() {
		t.Fatal("expected paused")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected paused status in view")
	}
	if sched.Fire(5) != 0 {
		t.Error("expected no ticks while paused")
	}

	m = press(m, key(" "))
	if sched.Fire(1) != 1 {
		t.Error("expected ticks after resume")
	}
}

func TestModel_TuneResetsFromCurrentState(t *testing.T) {
	m, sched := newTestModel(t)
	sched.Fire(20)
	before, _ := m.session.State()

	m = press(m, key("up"))
	if math.Abs(m.params.Damping-(config.DefaultDamping+0.05)) > 1e-12 {
		t.Errorf("expected damping raised, got %v", m.params.Damping)
	}
	snap := m.session.Snapshot()
	if snap.Ticks != 0 || snap.State != before {
		t.Errorf("expected restart from %v, got %v after %d ticks", before, snap.State, snap.Ticks)
	}
	if snap.Params != m.params {
		t.Errorf("expected session params %v, got %v", m.params, snap.Params)
	}
	if m.stats.last.Tick != 0 || len(m.stats.energy) != 0 {
		t.Error("expected stats reset")
	}

	m = press(m, key("tab"))
	m = press(m, key("down"))
	if m.params.Length >= config.DefaultLength {
		t.Errorf("expected length lowered, got %v", m.params.Length)
	}

	m = press(m, key("r"))
	if m.params != m.initialParams {
		t.Errorf("expected initial params after reset, got %v", m.params)
	}
	st, _ := m.session.State()
	if st != (dynamo.State{Angle: config.DefaultTheta, Velocity: config.DefaultOmega}) {
		t.Errorf("expected initial state after reset, got %v", st)
	}
}

func TestModel_DampingFloor(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < 20; i++ {
		m = press(m, key("down"))
	}
	if m.params.Damping != 0 {
		t.Errorf("expected damping clamped at 0, got %v", m.params.Damping)
	}
}

func TestModel_ClickInPlot(t *testing.T) {
	m, sched := newTestModel(t)
	sched.Fire(5)

	click := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	// stage area, right of the plot
	m = press(m, click(canvasPadLeft+60, canvasPadTop+11))
	if m.session.Snapshot().Ticks != 5 {
		t.Error("expected click outside the plot to be ignored")
	}

	m = press(m, click(canvasPadLeft+22, canvasPadTop+11))
	snap := m.session.Snapshot()
	if snap.Ticks != 0 {
		t.Fatalf("expected restart, still at tick %d", snap.Ticks)
	}
	if math.Abs(snap.State.Angle) > 0.2 || math.Abs(snap.State.Velocity) > 0.3 {
		t.Errorf("expected state near the origin, got %v", snap.State)
	}

	// release events do nothing
	next, _ := m.Update(tea.MouseMsg{X: canvasPadLeft + 30, Y: canvasPadTop + 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if next.(Model).session.Snapshot().State != snap.State {
		t.Error("expected release to be ignored")
	}
}

func TestModel_CycleTheme(t *testing.T) {
	m, _ := newTestModel(t)
	start := m.theme.Name
	m = press(m, key("t"))
	if m.theme.Name == start {
		t.Error("expected theme to change")
	}
	for range ThemeNames() {
		m = press(m, key("t"))
	}
	if m.theme.Name == start {
		t.Error("expected cycling through all themes plus one to move past the start")
	}
}

func TestModel_Quit(t *testing.T) {
	m, sched := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if sched.Active() != 0 {
		t.Error("expected session stopped")
	}
}

func TestRunMsgRunsCallback(t *testing.T) {
	m, _ := newTestModel(t)
	ran := false
	m = press(m, RunMsg(func() { ran = true }))
	if !ran {
		t.Error("expected callback to run")
	}
}

func TestParamBar(t *testing.T) {
	if got := ParamBar(1, 1, 10); got != "[=====-----]" {
		t.Errorf("unexpected bar %q", got)
	}
	if got := ParamBar(5, 1, 4); got != "[====]" {
		t.Errorf("expected clamp, got %q", got)
	}
}
