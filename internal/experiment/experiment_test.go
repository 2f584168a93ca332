package experiment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func TestRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ticks = 200

	exp, err := New(cfg, quiet)
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if res.Ticks != 200 || res.Series.Len() != 200 {
		t.Errorf("expected 200 ticks and samples, got %d and %d", res.Ticks, res.Series.Len())
	}
	if res.Halted != nil {
		t.Errorf("unexpected halt: %v", res.Halted)
	}
	if res.Final != (dynamo.State{Angle: res.Series.Angle[199], Velocity: res.Series.Velocity[199]}) {
		t.Error("expected final state to match the last sample")
	}
	if res.Frame == nil || !strings.Contains(res.Frame.String(), "<path") {
		t.Error("expected a rendered frame")
	}
	if res.SessionID == "" {
		t.Error("expected session id")
	}
	if _, ok := res.Metrics["energy_drift"]; !ok {
		t.Error("expected standard metrics")
	}
}

func TestRun_Damped(t *testing.T) {
	cfg := config.GetPreset("overdamped")
	cfg.Ticks = 2000

	exp, err := New(cfg, quiet, WithoutFrame())
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Frame != nil {
		t.Error("expected no frame")
	}
	if math.Abs(res.Final.Angle) > 0.05 {
		t.Errorf("expected overdamped pendulum near rest, got %v", res.Final)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp, err := New(config.DefaultConfig(), quiet)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := exp.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNew_Invalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = -1
	if _, err := New(cfg); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	cfg := config.GetPreset("frictionless")
	cfg.Ticks = 400

	results, err := Compare(context.Background(), cfg, integrators.Names(), quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(integrators.Names()) {
		t.Fatalf("expected one result per integrator, got %d", len(results))
	}

	drift := map[string]float64{}
	for _, r := range results {
		drift[r.Integrator] = r.Metrics["energy_drift"]
	}
	if drift["rk4"] >= drift["explicit"] {
		t.Errorf("expected rk4 to drift less than explicit Euler: %v", drift)
	}

	if _, err := Compare(context.Background(), cfg, []string{"nope"}); !errors.Is(err, dynamo.ErrUnknownStepper) {
		t.Errorf("expected ErrUnknownStepper, got %v", err)
	}
}
