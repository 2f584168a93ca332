package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// ErrShortSeries indicates too few samples for a spectral estimate.
var ErrShortSeries = errors.New("analysis: series too short")

const minSpectrumSamples = 8

// Spectrum returns the one-sided amplitude spectrum of data sampled every dt
// seconds. The mean is removed and a Hann window applied before the transform.
func Spectrum(data []float64, dt float64) (freqs, power []float64, err error) {
	n := len(data)
	if n < minSpectrumSamples {
		return nil, nil, ErrShortSeries
	}
	if !(dt > 0) {
		return nil, nil, errors.New("analysis: dt must be positive")
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)

	half := n / 2
	freqs = make([]float64, half)
	power = make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) / (float64(n) * dt)
		power[k] = cmplx.Abs(spectrum[k])
	}
	return freqs, power, nil
}

// DominantFrequency is the frequency in Hz of the strongest non-DC bin,
// refined by parabolic interpolation between neighboring bins.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	freqs, power, err := Spectrum(data, dt)
	if err != nil {
		return 0, err
	}

	peak := 1
	for k := 2; k < len(power); k++ {
		if power[k] > power[peak] {
			peak = k
		}
	}
	if power[peak] == 0 {
		return 0, nil
	}

	offset := 0.0
	if peak+1 < len(power) {
		a, b, c := power[peak-1], power[peak], power[peak+1]
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}
	binWidth := freqs[1] - freqs[0]
	return freqs[peak] + offset*binWidth, nil
}
