package analysis

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// NaturalFrequency is the small-angle frequency in Hz, sqrt(g/l)/2π.
func NaturalFrequency(p dynamo.Params) float64 {
	return math.Sqrt(p.OmegaSquared()) / (2 * math.Pi)
}

// DampedFrequency is the small-angle frequency with damping, or 0 when the
// motion is overdamped.
func DampedFrequency(p dynamo.Params) float64 {
	w2 := p.OmegaSquared() - p.Damping*p.Damping/4
	if w2 <= 0 {
		return 0
	}
	return math.Sqrt(w2) / (2 * math.Pi)
}

// ZeroCrossingPeriod averages the spacing between upward zero crossings,
// interpolated linearly inside each step. It returns 0 with fewer than two
// crossings.
func ZeroCrossingPeriod(data []float64, dt float64) float64 {
	var crossings []float64
	for i := 1; i < len(data); i++ {
		a, b := data[i-1], data[i]
		if a < 0 && b >= 0 {
			frac := -a / (b - a)
			crossings = append(crossings, (float64(i-1)+frac)*dt)
		}
	}
	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}
