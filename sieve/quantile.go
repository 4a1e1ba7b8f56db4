package sieve

import (
	"math"
	"math/rand"
	"sort"
)

// Threshold is one reference value of a threshold-based sieve. A
// constant threshold is used verbatim; otherwise Value is a quantile
// probability in [0, 1] resolved over the fitted data.
type Threshold struct {
	Value    float64
	Constant bool
}

// Const returns a constant threshold with the given value.
func Const(v float64) Threshold {
	return Threshold{Value: v, Constant: true}
}

// Quantile returns a probabilistic threshold resolved as the empirical
// p-quantile of the fitted data.
func Quantile(p float64) Threshold {
	return Threshold{Value: p}
}

// QuantileOptions configures the shared quantile resolution policy of
// threshold-based sieves.
type QuantileOptions struct {
	// SampleSize is the fraction of fitted samples pooled for quantile
	// estimation, in (0, 1].
	SampleSize float64

	// Segments switches from one feature per threshold to one feature
	// per bucket between two consecutive sorted thresholds.
	Segments bool

	// Seed feeds the sub-sampling source.
	Seed int64
}

// DefaultQuantileOptions returns the default policy configuration:
// the full dataset as quantile pool and one feature per threshold.
func DefaultQuantileOptions() QuantileOptions {
	return QuantileOptions{SampleSize: 1}
}

// quantilePolicy holds the threshold configuration and, after fit, the
// resolved threshold values.
type quantilePolicy struct {
	thresholds []Threshold
	sampleSize float64
	segments   bool
	seed       int64
	rng        *rand.Rand

	resolved []float64
}

func newQuantilePolicy(thresholds []Threshold, opts QuantileOptions) (*quantilePolicy, error) {
	if len(thresholds) == 0 {
		return nil, ErrOption
	}

	if opts.Segments && len(thresholds) < 2 {
		return nil, ErrSegments
	}

	if opts.SampleSize <= 0 || opts.SampleSize > 1 {
		return nil, ErrSampleSize
	}

	for _, th := range thresholds {
		if !th.Constant && (th.Value < 0 || th.Value > 1) {
			return nil, ErrQuantileRange
		}
	}

	ths := make([]Threshold, len(thresholds))
	copy(ths, thresholds)

	return &quantilePolicy{
		thresholds: ths,
		sampleSize: opts.SampleSize,
		segments:   opts.Segments,
		seed:       opts.Seed,
		rng:        rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

func (p *quantilePolicy) nfeatures() int {
	if p.segments {
		return len(p.thresholds) - 1
	}

	return len(p.thresholds)
}

func (p *quantilePolicy) fitted() bool { return p.resolved != nil }

// fit resolves every probabilistic threshold as the linearly
// interpolated empirical quantile of a pool of sample values, drawn
// without replacement from the rows of x. In segments mode the
// resolved values are sorted ascending, independent of the configured
// threshold order.
func (p *quantilePolicy) fit(x [][]float64) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return ErrEmptyInput
	}

	var pool []float64

	resolved := make([]float64, len(p.thresholds))

	for i, th := range p.thresholds {
		if th.Constant {
			resolved[i] = th.Value
			continue
		}

		if pool == nil {
			pool = p.samplePool(x)
		}

		resolved[i] = interpolatedQuantile(pool, th.Value)
	}

	if p.segments {
		sort.Float64s(resolved)
	}

	p.resolved = resolved

	return nil
}

func (p *quantilePolicy) samplePool(x [][]float64) []float64 {
	count := int(p.sampleSize * float64(len(x)))
	if count < 1 {
		count = 1
	}

	pool := make([]float64, 0, count*len(x[0]))
	for _, s := range p.rng.Perm(len(x))[:count] {
		pool = append(pool, x[s]...)
	}

	sort.Float64s(pool)

	return pool
}

// copy returns an unfitted policy with the same configuration and
// seed.
func (p *quantilePolicy) copy() *quantilePolicy {
	cp, _ := newQuantilePolicy(p.thresholds, QuantileOptions{
		SampleSize: p.sampleSize,
		Segments:   p.segments,
		Seed:       p.seed,
	})

	return cp
}

// interpolatedQuantile returns the q-quantile of an ascending slice
// using linear interpolation between the two nearest order statistics.
func interpolatedQuantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)

	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
