package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the non-negative frequency bins of
// data, with the mean removed so bin 0 does not swamp the plot.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	ps := make([]float64, len(bins)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero bin
// of a series sampled every dt seconds, and 0 for a flat or short series.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] < 1e-12 {
		return 0
	}

	return float64(best) / (float64(len(data)) * dt)
}
