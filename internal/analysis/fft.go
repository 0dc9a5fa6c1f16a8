package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of the first len(data)/2 FFT bins.
// The mean is removed first so bin 0 carries no offset.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-stat.Mean(data, nil), centered)

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency is the frequency, in Hz, of the strongest non-zero
// bin of the series sampled every sampleDt seconds.
func DominantFrequency(data []float64, sampleDt float64) (float64, bool) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || sampleDt <= 0 {
		return 0, false
	}

	k := floats.MaxIdx(ps[1:]) + 1
	if ps[k] == 0 {
		return 0, false
	}
	return float64(k) / (float64(len(data)) * sampleDt), true
}
