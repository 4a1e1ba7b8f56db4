package sieve

// PPV computes the proportion of values at or above each threshold.
// With segments enabled it computes the proportion of values falling
// between each two consecutive sorted thresholds instead.
type PPV struct {
	policy *quantilePolicy
}

// NewPPV creates a proportion-of-positive-values sieve.
func NewPPV(thresholds []Threshold, opts QuantileOptions) (*PPV, error) {
	policy, err := newQuantilePolicy(thresholds, opts)
	if err != nil {
		return nil, err
	}

	return &PPV{policy: policy}, nil
}

// Name returns "PPV".
func (s *PPV) Name() string { return "PPV" }

// NFeatures returns the number of features per sample.
func (s *PPV) NFeatures() int { return s.policy.nfeatures() }

// Fit resolves the configured thresholds on x.
func (s *PPV) Fit(x [][]float64) error { return s.policy.fit(x) }

// Sieve returns the threshold proportions of every sample.
func (s *PPV) Sieve(x [][]float64) ([][]float64, error) {
	if !s.policy.fitted() {
		return nil, ErrNotFitted
	}

	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	q := s.policy.resolved
	out := allocFeatures(len(x), s.NFeatures())

	for i, series := range x {
		if s.policy.segments {
			for j := 1; j < len(q); j++ {
				count := 0
				for _, v := range series {
					if q[j-1] <= v && v < q[j] {
						count++
					}
				}

				out[i][j-1] = float64(count) / float64(n)
			}
		} else {
			for j := range q {
				count := 0
				for _, v := range series {
					if v >= q[j] {
						count++
					}
				}

				out[i][j] = float64(count) / float64(n)
			}
		}
	}

	return out, nil
}

// Copy returns an unfitted copy of the sieve.
func (s *PPV) Copy() Sieve {
	return &PPV{policy: s.policy.copy()}
}

// CPV counts the connected components of values at or above each
// threshold, normalized by half the series length (the maximum
// possible component count). Segments are not supported.
type CPV struct {
	policy *quantilePolicy
}

// NewCPV creates a connected-components sieve.
func NewCPV(thresholds []Threshold, opts QuantileOptions) (*CPV, error) {
	if opts.Segments {
		return nil, ErrOption
	}

	policy, err := newQuantilePolicy(thresholds, opts)
	if err != nil {
		return nil, err
	}

	return &CPV{policy: policy}, nil
}

// Name returns "CPV".
func (s *CPV) Name() string { return "CPV" }

// NFeatures returns the number of features per sample.
func (s *CPV) NFeatures() int { return s.policy.nfeatures() }

// Fit resolves the configured thresholds on x.
func (s *CPV) Fit(x [][]float64) error { return s.policy.fit(x) }

// Sieve returns the normalized component counts of every sample.
func (s *CPV) Sieve(x [][]float64) ([][]float64, error) {
	if !s.policy.fitted() {
		return nil, ErrNotFitted
	}

	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	out := allocFeatures(len(x), s.NFeatures())

	for i, series := range x {
		for j, q := range s.policy.resolved {
			components := 0
			above := false

			for _, v := range series {
				if v >= q && !above {
					components++
				}

				above = v >= q
			}

			out[i][j] = 2 * float64(components) / float64(n)
		}
	}

	return out, nil
}

// Copy returns an unfitted copy of the sieve.
func (s *CPV) Copy() Sieve {
	return &CPV{policy: s.policy.copy()}
}

// PIA computes the proportion of stepwise increments at or above each
// threshold. The thresholds are resolved over the increments of the
// fitted data, not the raw values.
type PIA struct {
	policy *quantilePolicy
}

// NewPIA creates a proportion-of-increments sieve.
func NewPIA(thresholds []Threshold, opts QuantileOptions) (*PIA, error) {
	policy, err := newQuantilePolicy(thresholds, opts)
	if err != nil {
		return nil, err
	}

	return &PIA{policy: policy}, nil
}

// Name returns "PIA".
func (s *PIA) Name() string { return "PIA" }

// NFeatures returns the number of features per sample.
func (s *PIA) NFeatures() int { return s.policy.nfeatures() }

// Fit resolves the configured thresholds on the increments of x.
func (s *PIA) Fit(x [][]float64) error {
	if timesteps(x) == 0 {
		return ErrEmptyInput
	}

	return s.policy.fit(increments(x))
}

// Sieve returns the increment proportions of every sample.
func (s *PIA) Sieve(x [][]float64) ([][]float64, error) {
	if !s.policy.fitted() {
		return nil, ErrNotFitted
	}

	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	q := s.policy.resolved
	inc := increments(x)
	out := allocFeatures(len(x), s.NFeatures())

	for i, series := range inc {
		if s.policy.segments {
			for j := 1; j < len(q); j++ {
				count := 0
				for _, v := range series {
					if q[j-1] <= v && v < q[j] {
						count++
					}
				}

				out[i][j-1] = float64(count) / float64(n)
			}
		} else {
			for j := range q {
				count := 0
				for _, v := range series {
					if v >= q[j] {
						count++
					}
				}

				out[i][j] = float64(count) / float64(n)
			}
		}
	}

	return out, nil
}

// Copy returns an unfitted copy of the sieve.
func (s *PIA) Copy() Sieve {
	return &PIA{policy: s.policy.copy()}
}

// LCS computes the length of the longest contiguous run of values at
// or above each threshold, normalized by the series length. With
// segments enabled the run condition is membership in the bucket
// between two consecutive sorted thresholds.
type LCS struct {
	policy *quantilePolicy
}

// NewLCS creates a longest-coincident-slice sieve.
func NewLCS(thresholds []Threshold, opts QuantileOptions) (*LCS, error) {
	policy, err := newQuantilePolicy(thresholds, opts)
	if err != nil {
		return nil, err
	}

	return &LCS{policy: policy}, nil
}

// Name returns "LCS".
func (s *LCS) Name() string { return "LCS" }

// NFeatures returns the number of features per sample.
func (s *LCS) NFeatures() int { return s.policy.nfeatures() }

// Fit resolves the configured thresholds on x.
func (s *LCS) Fit(x [][]float64) error { return s.policy.fit(x) }

// Sieve returns the normalized longest run lengths of every sample.
func (s *LCS) Sieve(x [][]float64) ([][]float64, error) {
	if !s.policy.fitted() {
		return nil, ErrNotFitted
	}

	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	q := s.policy.resolved
	out := allocFeatures(len(x), s.NFeatures())

	for i, series := range x {
		if s.policy.segments {
			for j := 1; j < len(q); j++ {
				out[i][j-1] = longestRun(series, func(v float64) bool {
					return q[j-1] <= v && v < q[j]
				}) / float64(n)
			}
		} else {
			for j := range q {
				out[i][j] = longestRun(series, func(v float64) bool {
					return v >= q[j]
				}) / float64(n)
			}
		}
	}

	return out, nil
}

// Copy returns an unfitted copy of the sieve.
func (s *LCS) Copy() Sieve {
	return &LCS{policy: s.policy.copy()}
}

func longestRun(series []float64, cond func(float64) bool) float64 {
	longest, run := 0, 0

	for _, v := range series {
		if cond(v) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	return float64(longest)
}

// increments returns the zero-padded stepwise differences of every
// row.
func increments(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))

	for i, series := range x {
		out[i] = make([]float64, len(series))
		for t := 1; t < len(series); t++ {
			out[i][t] = series[t] - series[t-1]
		}
	}

	return out
}

func allocFeatures(samples, features int) [][]float64 {
	block := make([]float64, samples*features)
	out := make([][]float64, samples)

	for i := range out {
		out[i] = block[i*features : (i+1)*features]
	}

	return out
}
