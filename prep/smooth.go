package prep

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// SMO smooths every series with a spectral low-pass: the series is
// transformed to the frequency domain, bins above a cutoff fraction of
// the bandwidth are zeroed, and the result is transformed back. Useful
// for denoising before signature computation without shifting phases.
type SMO struct {
	cutoff float64
}

// NewSMO creates a spectral smoother. cutoff is the retained fraction
// of the bandwidth in (0, 1]; 1 keeps the series unchanged.
func NewSMO(cutoff float64) (*SMO, error) {
	if cutoff <= 0 || cutoff > 1 {
		return nil, ErrOption
	}

	return &SMO{cutoff: cutoff}, nil
}

// Name returns "SMO".
func (p *SMO) Name() string { return "SMO" }

// Fit is a no-op; the cutoff is relative to the bandwidth.
func (p *SMO) Fit(x [][][]float64) error { return nil }

// Transform low-pass filters every series.
func (p *SMO) Transform(x [][][]float64) ([][][]float64, error) {
	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("prep: failed to create FFT plan: %w", err)
	}

	// Bins 0..keep and their mirror images survive.
	keep := int(p.cutoff * float64(fftSize/2))

	out := alloc(len(x), len(x[0]), n)

	timeBuf := make([]complex128, fftSize)
	freqBuf := make([]complex128, fftSize)

	for s := range x {
		for d := range x[s] {
			series := x[s][d]

			for i := range timeBuf {
				timeBuf[i] = 0
			}
			for i, v := range series {
				timeBuf[i] = complex(v, 0)
			}

			if err := plan.Forward(freqBuf, timeBuf); err != nil {
				return nil, err
			}

			for i := keep + 1; i < fftSize-keep; i++ {
				freqBuf[i] = 0
			}

			if err := plan.Inverse(timeBuf, freqBuf); err != nil {
				return nil, err
			}

			for t := range out[s][d] {
				out[s][d][t] = real(timeBuf[t])
			}
		}
	}

	return out, nil
}

// Copy returns a copy of the preparateur.
func (p *SMO) Copy() Preparateur {
	return &SMO{cutoff: p.cutoff}
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
