// Package geom maps percent-of-frame coordinates to surface pixels.
//
// A [LinearScale] is the affine map from the percent domain [0,100] onto an
// arbitrary range. A [Frame] pairs two scales into a rectangular region of a
// drawing surface. Percents outside [0,100] extrapolate; ticks and labels
// use that to sit just outside the plot.
package geom

// LinearScale maps percent p to Low + (p/100)·(High-Low).
type LinearScale struct {
	Low, High float64
}

func NewLinearScale(low, high float64) LinearScale {
	return LinearScale{Low: low, High: high}
}

func (s LinearScale) Scale(percent float64) float64 {
	return s.Low + (percent/100)*(s.High-s.Low)
}

// Invert returns the percent that scales to v. A degenerate range inverts
// to 0.
func (s LinearScale) Invert(v float64) float64 {
	span := s.High - s.Low
	if span == 0 {
		return 0
	}
	return (v - s.Low) * 100 / span
}
