// Package analysis inspects recorded runs.
//
//   - [Series]: one field of one body as a time series
//   - [PowerSpectrum]: magnitude spectrum of a mean-removed signal
//   - [DominantFrequency]: strongest oscillation, e.g. a held crate
//     ringing on the grab spring
//
// # Example
//
//	times, xs, err := analysis.Series(samples, "crate-1", "x")
//	if err == nil {
//	    hz := analysis.DominantFrequency(xs, analysis.SampleInterval(times))
//	}
package analysis
