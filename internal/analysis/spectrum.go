package analysis

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/cartwin/internal/sim"
)

var ErrTooFewSamples = errors.New("too few samples for spectrum")

// PowerSpectrum is the one-sided spectrum of a mean-removed series.
type PowerSpectrum struct {
	Frequencies []float64
	Power       []float64
	// Dominant is the strongest non-DC frequency in Hz, 0 when flat.
	Dominant float64
}

func (p PowerSpectrum) Period() float64 {
	if p.Dominant == 0 {
		return 0
	}
	return 1 / p.Dominant
}

// Spectrum computes the power spectrum of one field sampled every dt seconds.
func Spectrum(samples []sim.Sample, field string, dt float64) (PowerSpectrum, error) {
	data, err := Series(samples, field)
	if err != nil {
		return PowerSpectrum{}, err
	}
	return SeriesSpectrum(data, dt)
}

func SeriesSpectrum(data []float64, dt float64) (PowerSpectrum, error) {
	if len(data) < 4 || dt <= 0 {
		return PowerSpectrum{}, ErrTooFewSamples
	}

	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(centered))
	coeffs := fft.Coefficients(nil, centered)

	spec := PowerSpectrum{
		Frequencies: make([]float64, len(coeffs)),
		Power:       make([]float64, len(coeffs)),
	}
	best := 0.0
	for i, c := range coeffs {
		spec.Frequencies[i] = fft.Freq(i) / dt
		p := cmplx.Abs(c)
		spec.Power[i] = p * p
		if i > 0 && spec.Power[i] > best {
			best = spec.Power[i]
			spec.Dominant = spec.Frequencies[i]
		}
	}
	if best < 1e-12 {
		spec.Dominant = 0
	}
	return spec, nil
}
