package analysis

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrShortSeries indicates too few samples to analyze.
var ErrShortSeries = errors.New("analysis: series too short")

// FFT is a radix-2 transform. The input is zero-padded to the next power
// of two.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	padded := make([]float64, n)
	copy(padded, data)
	return fft(padded)
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the magnitude of the first half of the transform.
func PowerSpectrum(data []float64) []float64 {
	f := FFT(data)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero
// spectral bin of a uniformly sampled series. The mean is removed first.
func DominantFrequency(s Series) (float64, error) {
	if len(s.Values) < 4 || len(s.Times) != len(s.Values) {
		return 0, ErrShortSeries
	}
	dt := (s.Times[len(s.Times)-1] - s.Times[0]) / float64(len(s.Times)-1)
	if dt <= 0 {
		return 0, ErrShortSeries
	}

	mean := 0.0
	for _, v := range s.Values {
		mean += v
	}
	mean /= float64(len(s.Values))
	centered := make([]float64, len(s.Values))
	for i, v := range s.Values {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 0
	for i := 1; i < len(ps); i++ {
		if best == 0 || ps[i] > ps[best] {
			best = i
		}
	}
	if best == 0 || ps[best] == 0 {
		return 0, nil
	}
	n := nextPow2(len(centered))
	return float64(best) / (float64(n) * dt), nil
}
