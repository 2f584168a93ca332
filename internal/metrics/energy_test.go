package metrics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
)

func sample(angle, velocity float64, wrapped bool) sim.Sample {
	p := dynamo.Params{Length: dynamo.Gravity}
	st := dynamo.State{Angle: angle, Velocity: velocity}
	return sim.Sample{State: st, Energy: p.Energy(st), Wrapped: wrapped}
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()

	m.Observe(sample(0, 0, false))
	m.Observe(sample(0, 2, false))

	// -1 and 1
	if math.Abs(m.Value()) > 1e-12 {
		t.Errorf("expected mean energy 0, got %f", m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe(sample(1, 1, false))
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero after reset, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	m.Observe(sample(0, 0, false))
	m.Observe(sample(0, 1, false))
	m.Observe(sample(0, 0.5, false))

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected drift 0.5, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(1)
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}
	m.Observe(sample(0.5, 0, false))
	m.Observe(sample(-2, 0, false))
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestSet(t *testing.T) {
	set := Standard(1)
	set.Observe(sample(3, 0, true))
	set.Observe(sample(-3, 0, true))

	got := set.Values()
	want := map[string]float64{
		"energy":       -math.Cos(3),
		"energy_drift": 0,
		"stability":    0,
		"revolutions":  2,
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-12 })); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	set.Reset()
	if set.Values()["revolutions"] != 0 {
		t.Error("expected reset to clear revolutions")
	}
}
