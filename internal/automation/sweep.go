package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/experiment"
)

// Sweep runs the base configuration once per value of Param, spaced evenly
// over [Min, Max].
type Sweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
}

type SweepPoint struct {
	Value     float64
	Final     dynamo.State
	MinEnergy float64
	MaxEnergy float64
	Metrics   map[string]float64
	// Halted is set when the run stopped on an invalid state.
	Halted error
}

// Values returns the parameter values the sweep visits.
func (sw Sweep) Values() []float64 {
	if sw.Steps <= 1 {
		return []float64{sw.Min}
	}
	step := (sw.Max - sw.Min) / float64(sw.Steps-1)
	out := make([]float64, sw.Steps)
	for i := range out {
		out[i] = sw.Min + float64(i)*step
	}
	return out
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, base *config.Config, sw Sweep, log *slog.Logger) ([]SweepPoint, error) {
	if log == nil {
		log = slog.Default()
	}
	probe := *base
	if err := probe.SetParam(sw.Param, sw.Min); err != nil {
		return nil, err
	}

	values := sw.Values()
	results := make([]SweepPoint, 0, len(values))
	for i, v := range values {
		cfg := *base
		if err := cfg.SetParam(sw.Param, v); err != nil {
			return results, err
		}
		exp, err := experiment.New(&cfg, experiment.WithLogger(log), experiment.WithoutFrame())
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sw.Param, v, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sw.Param, v, err)
		}

		minE, maxE := energyRange(res.Series.Energy)
		results = append(results, SweepPoint{
			Value:     v,
			Final:     res.Final,
			MinEnergy: minE,
			MaxEnergy: maxE,
			Metrics:   res.Metrics,
			Halted:    res.Halted,
		})
		log.Debug("sweep point", "n", i+1, "of", len(values), "param", sw.Param, "value", v)
	}
	return results, nil
}

// Best returns the point with the smallest value of metric. Halted points
// and points missing the metric are skipped.
func Best(points []SweepPoint, metric string) (SweepPoint, bool) {
	best := math.Inf(1)
	var out SweepPoint
	found := false
	for _, p := range points {
		if p.Halted != nil {
			continue
		}
		v, ok := p.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if v < best {
			best, out, found = v, p, true
		}
	}
	return out, found
}

func energyRange(energy []float64) (lo, hi float64) {
	if len(energy) == 0 {
		return 0, 0
	}
	lo, hi = energy[0], energy[0]
	for _, e := range energy[1:] {
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	return lo, hi
}
