package sieve

import (
	"math"
	"sort"
)

// cutPolicy holds the configuration shared by cut-based sieves. Cuts
// are resolved against the series length at sieve time; Fit only
// flips the fitted state.
type cutPolicy struct {
	cuts     []float64
	segments bool
	fitted   bool
}

func newCutPolicy(cuts []float64, segments bool) (*cutPolicy, error) {
	if len(cuts) == 0 {
		cuts = []float64{-1}
	}

	if segments && len(cuts) < 2 {
		return nil, ErrSegments
	}

	for _, c := range cuts {
		if c == 0 {
			return nil, ErrCut
		}

		if (c >= 1 || c < 0) && c != math.Trunc(c) {
			return nil, ErrCut
		}
	}

	cp := make([]float64, len(cuts))
	copy(cp, cuts)

	return &cutPolicy{cuts: cp, segments: segments}, nil
}

func (p *cutPolicy) nfeatures() int {
	if p.segments {
		return len(p.cuts) - 1
	}

	return len(p.cuts)
}

func (p *cutPolicy) fit(x [][]float64) error {
	if timesteps(x) == 0 {
		return ErrEmptyInput
	}

	p.fitted = true

	return nil
}

// resolve maps the configured cuts to sorted 1-based end indices for a
// series of n timesteps. In segment mode consecutive indices must
// differ so that no bucket is empty.
func (p *cutPolicy) resolve(n int) ([]int, error) {
	idx := make([]int, len(p.cuts))

	for i, c := range p.cuts {
		j, err := resolveCut(c, n)
		if err != nil {
			return nil, err
		}

		idx[i] = j
	}

	if p.segments {
		sort.Ints(idx)

		for i := 1; i < len(idx); i++ {
			if idx[i] == idx[i-1] {
				return nil, ErrCut
			}
		}
	}

	return idx, nil
}

func (p *cutPolicy) copy() *cutPolicy {
	cp, _ := newCutPolicy(p.cuts, p.segments)
	return cp
}

// MAX computes the maximum of every series up to each cut index. With
// segments enabled it computes the maximum within each bucket between
// two consecutive sorted cuts.
type MAX struct {
	policy *cutPolicy
}

// NewMAX creates a maximum sieve. An empty cut list defaults to the
// whole series.
func NewMAX(cuts []float64, segments bool) (*MAX, error) {
	policy, err := newCutPolicy(cuts, segments)
	if err != nil {
		return nil, err
	}

	return &MAX{policy: policy}, nil
}

// Name returns "MAX".
func (s *MAX) Name() string { return "MAX" }

// NFeatures returns the number of features per sample.
func (s *MAX) NFeatures() int { return s.policy.nfeatures() }

// Fit validates the input and marks the sieve fitted.
func (s *MAX) Fit(x [][]float64) error { return s.policy.fit(x) }

// Sieve returns the cut-bounded maxima of every sample.
func (s *MAX) Sieve(x [][]float64) ([][]float64, error) {
	return cutExtrema(s.policy, x, func(a, b float64) bool { return a > b })
}

// Copy returns an unfitted copy of the sieve.
func (s *MAX) Copy() Sieve {
	return &MAX{policy: s.policy.copy()}
}

// MIN computes the minimum of every series up to each cut index. With
// segments enabled it computes the minimum within each bucket between
// two consecutive sorted cuts.
type MIN struct {
	policy *cutPolicy
}

// NewMIN creates a minimum sieve. An empty cut list defaults to the
// whole series.
func NewMIN(cuts []float64, segments bool) (*MIN, error) {
	policy, err := newCutPolicy(cuts, segments)
	if err != nil {
		return nil, err
	}

	return &MIN{policy: policy}, nil
}

// Name returns "MIN".
func (s *MIN) Name() string { return "MIN" }

// NFeatures returns the number of features per sample.
func (s *MIN) NFeatures() int { return s.policy.nfeatures() }

// Fit validates the input and marks the sieve fitted.
func (s *MIN) Fit(x [][]float64) error { return s.policy.fit(x) }

// Sieve returns the cut-bounded minima of every sample.
func (s *MIN) Sieve(x [][]float64) ([][]float64, error) {
	return cutExtrema(s.policy, x, func(a, b float64) bool { return a < b })
}

// Copy returns an unfitted copy of the sieve.
func (s *MIN) Copy() Sieve {
	return &MIN{policy: s.policy.copy()}
}

func cutExtrema(p *cutPolicy, x [][]float64, better func(a, b float64) bool) ([][]float64, error) {
	if !p.fitted {
		return nil, ErrNotFitted
	}

	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	idx, err := p.resolve(n)
	if err != nil {
		return nil, err
	}

	out := allocFeatures(len(x), p.nfeatures())

	for i, series := range x {
		if p.segments {
			for j := 1; j < len(idx); j++ {
				out[i][j-1] = extremum(series[idx[j-1]:idx[j]], better)
			}
		} else {
			for j, end := range idx {
				out[i][j] = extremum(series[:end], better)
			}
		}
	}

	return out, nil
}

func extremum(series []float64, better func(a, b float64) bool) float64 {
	best := series[0]

	for _, v := range series[1:] {
		if better(v, best) {
			best = v
		}
	}

	return best
}

// END returns the series value at each cut index. The default cut -1
// picks the last timestep.
type END struct {
	policy *cutPolicy
}

// NewEND creates an end-value sieve.
func NewEND(cuts []float64) (*END, error) {
	policy, err := newCutPolicy(cuts, false)
	if err != nil {
		return nil, err
	}

	return &END{policy: policy}, nil
}

// Name returns "END".
func (s *END) Name() string { return "END" }

// NFeatures returns the number of features per sample.
func (s *END) NFeatures() int { return s.policy.nfeatures() }

// Fit validates the input and marks the sieve fitted.
func (s *END) Fit(x [][]float64) error { return s.policy.fit(x) }

// Sieve returns the values of every sample at the cut indices.
func (s *END) Sieve(x [][]float64) ([][]float64, error) {
	if !s.policy.fitted {
		return nil, ErrNotFitted
	}

	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	idx, err := s.policy.resolve(n)
	if err != nil {
		return nil, err
	}

	out := allocFeatures(len(x), s.NFeatures())

	for i, series := range x {
		for j, end := range idx {
			out[i][j] = series[end-1]
		}
	}

	return out, nil
}

// Copy returns an unfitted copy of the sieve.
func (s *END) Copy() Sieve {
	return &END{policy: s.policy.copy()}
}
