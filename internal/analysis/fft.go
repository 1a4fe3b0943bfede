package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz of a signal
// sampled every dt seconds, or 0 when the signal is constant.
func DominantFrequency(data []float64, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(data)
	best, bestMag := 0, 1e-9
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestMag {
			best, bestMag = k, ps[k]
		}
	}
	return float64(best) / (float64(len(data)) * dt)
}
