// Package sieve provides feature sieves that reduce iterated-sum
// arrays to fixed-size feature vectors.
//
// A sieve operates on one channel of iterated sums at a time, given as
// a 2-D array of samples by timesteps. Fit resolves any reference
// statistics (empirical quantiles over a sub-sample of the fitted
// data), Sieve maps every sample to its features, and NFeatures
// reports the feature count from the configuration alone.
//
// Threshold-based sieves (PPV, CPV, PIA, LCS) share one quantile
// resolution policy: every threshold is either constant or a quantile
// probability resolved during Fit. Cut-based sieves (MAX, MIN, END)
// resolve their cuts against the series length, with negative cuts
// counting from the end.
package sieve

import (
	"errors"
	"math"
)

// Errors reported by the sieve package.
var (
	ErrNotFitted     = errors.New("sieve: sieve called before fit")
	ErrEmptyInput    = errors.New("sieve: empty input")
	ErrOption        = errors.New("sieve: invalid option")
	ErrSegments      = errors.New("sieve: segments need at least two thresholds")
	ErrSampleSize    = errors.New("sieve: sample size outside (0, 1]")
	ErrQuantileRange = errors.New("sieve: quantile outside [0, 1]")
	ErrCut           = errors.New("sieve: cut out of range")
)

// Sieve reduces a 2-D iterated-sum array (samples x timesteps) to a
// feature matrix (samples x NFeatures).
type Sieve interface {
	// Name returns a short identifier of the sieve type.
	Name() string

	// NFeatures returns the number of features per sample. It depends
	// only on the configuration, never on fitted state.
	NFeatures() int

	// Fit computes reference statistics from the given array.
	Fit(x [][]float64) error

	// Sieve maps every sample to its feature vector. It fails with
	// ErrNotFitted when called before Fit.
	Sieve(x [][]float64) ([][]float64, error)

	// Copy returns an unfitted sieve with the same configuration. A
	// seeded copy reproduces the original's fit.
	Copy() Sieve
}

// FitSieve fits s on x and sieves the same array.
func FitSieve(s Sieve, x [][]float64) ([][]float64, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}

	return s.Sieve(x)
}

// resolveCut maps a configured cut value to a 1-based end index in a
// series of n timesteps. Fractions in (0, 1) scale with the length,
// values >= 1 are absolute indices clamped to n, and negative values
// count from the end (-1 is the last timestep).
func resolveCut(cut float64, n int) (int, error) {
	switch {
	case cut > 0 && cut < 1:
		idx := int(math.Ceil(cut * float64(n)))
		if idx < 1 {
			idx = 1
		}

		return idx, nil

	case cut >= 1:
		if cut != math.Trunc(cut) {
			return 0, ErrCut
		}

		idx := int(cut)
		if idx > n {
			idx = n
		}

		return idx, nil

	case cut < 0:
		if cut != math.Trunc(cut) {
			return 0, ErrCut
		}

		idx := n + int(cut) + 1
		if idx < 1 {
			return 0, ErrCut
		}

		return idx, nil
	}

	return 0, ErrCut
}

func timesteps(x [][]float64) int {
	if len(x) == 0 {
		return 0
	}

	return len(x[0])
}
