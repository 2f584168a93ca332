// Package analysis characterizes a finished pendulum run.
//
//   - [Series]: per-tick angle, velocity and energy, filled by a session observer
//   - [Spectrum] and [DominantFrequency]: FFT of a sampled signal
//   - [ZeroCrossingPeriod]: period estimate from upward zero crossings
//   - [NaturalFrequency] and [DampedFrequency]: small-angle reference values
//
// A typical headless run collects a series and compares the measured
// frequency against the linearized one:
//
//	series := analysis.NewSeries(dt)
//	session.AddObserver(series.Observe)
//	// ... advance the scheduler ...
//	report, err := analysis.Analyze(series, params)
package analysis
