package prep

import (
	"math"
	"math/rand"
	"sort"

	"github.com/alienkrieg/fruits/iss"
	"github.com/alienkrieg/fruits/word"
)

// DIL zeroes randomly placed slices of every series. Strip positions
// and lengths are drawn during Fit from an explicitly seeded source.
type DIL struct {
	clusters float64
	rng      *rand.Rand
	seed     int64

	starts  []float64
	lengths []float64
}

// NewDIL creates a dilation preparateur. clusters > 0 fixes the number
// of zero strips to clusters*n; clusters == 0 draws a random count
// between 1 and n/10 during Fit.
func NewDIL(clusters float64, seed int64) (*DIL, error) {
	if clusters < 0 || clusters > 1 {
		return nil, ErrOption
	}

	return &DIL{
		clusters: clusters,
		rng:      rand.New(rand.NewSource(seed)),
		seed:     seed,
	}, nil
}

// Name returns "DIL".
func (p *DIL) Name() string { return "DIL" }

// Fit randomizes strip starting points and lengths.
func (p *DIL) Fit(x [][][]float64) error {
	n := timesteps(x)
	if n == 0 {
		return ErrEmptyInput
	}

	count := 1

	if p.clusters > 0 {
		count = int(p.clusters * float64(n))
	} else if limit := n / 10; limit > 1 {
		count = 1 + p.rng.Intn(limit-1)
	}

	if count < 1 {
		count = 1
	}

	p.starts = make([]float64, count)
	for i := range p.starts {
		p.starts[i] = p.rng.Float64()
	}

	sort.Float64s(p.starts)

	p.lengths = make([]float64, count)
	for i := range p.starts {
		bound := 1 - p.starts[i]
		if i < count-1 {
			bound = p.starts[i+1] - p.starts[i]
		}

		p.lengths[i] = bound * p.rng.Float64()
	}

	return nil
}

// Transform zeroes the fitted strips in every series.
func (p *DIL) Transform(x [][][]float64) ([][][]float64, error) {
	if p.starts == nil {
		return nil, ErrNotFitted
	}

	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	out := alloc(len(x), len(x[0]), n)

	for s := range x {
		for d := range x[s] {
			copy(out[s][d], x[s][d])
		}
	}

	for i := range p.starts {
		start := int(p.starts[i] * float64(n))
		end := start + int(p.lengths[i]*float64(n))

		if end > n {
			end = n
		}

		for s := range out {
			for d := range out[s] {
				for t := start; t < end; t++ {
					out[s][d][t] = 0
				}
			}
		}
	}

	return out, nil
}

// Copy returns an unfitted copy with the same configuration and seed.
func (p *DIL) Copy() Preparateur {
	cp, _ := NewDIL(p.clusters, p.seed)
	return cp
}

// WIN keeps every series inside a quantile window of its accumulated
// quadratic variation and zeroes it outside. The window position of a
// series is derived from the [11]-signature of its increments,
// normalized to [0, 1] by its maximum.
type WIN struct {
	start float64
	end   float64
}

// NewWIN creates a window preparateur with 0 <= start <= end <= 1.
func NewWIN(start, end float64) (*WIN, error) {
	if start < 0 || end > 1 || start > end {
		return nil, ErrOption
	}

	return &WIN{start: start, end: end}, nil
}

// Name returns "WIN".
func (p *WIN) Name() string { return "WIN" }

// Fit is a no-op; the window is derived per series during Transform.
func (p *WIN) Fit(x [][][]float64) error { return nil }

// Transform masks every series outside its quadratic-variation window.
func (p *WIN) Transform(x [][][]float64) ([][][]float64, error) {
	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	inc, err := NewINC(true).Transform(x)
	if err != nil {
		return nil, err
	}

	quad := word.MustSimpleWord("[11]")
	out := alloc(len(x), len(x[0]), n)

	for s := range x {
		for d := range x[s] {
			q, err := iss.ISS([][][]float64{{inc[s][d]}}, quad)
			if err != nil {
				return nil, err
			}

			series := q[0]

			maxVal := series[n-1]
			if maxVal == 0 {
				maxVal = 1
			}

			for t, v := range series {
				v /= maxVal
				if v >= p.start && v <= p.end {
					out[s][d][t] = x[s][d][t]
				}
			}
		}
	}

	return out, nil
}

// Copy returns a copy of the preparateur.
func (p *WIN) Copy() Preparateur {
	return &WIN{start: p.start, end: p.end}
}

// DOT keeps every n-th point of a series and zeroes the rest. The
// stride is given as an absolute count or as a fraction of the series
// length, resolved during Fit.
type DOT struct {
	stride float64
	n      int // resolved during Fit; 0 = unfitted
}

// NewDOT creates a dotting preparateur. stride must be a fraction in
// (0, 1) or an absolute count >= 1.
func NewDOT(stride float64) (*DOT, error) {
	if stride <= 0 {
		return nil, ErrOption
	}

	if stride >= 1 && stride != math.Trunc(stride) {
		return nil, ErrOption
	}

	return &DOT{stride: stride}, nil
}

// Name returns "DOT".
func (p *DOT) Name() string { return "DOT" }

// Fit resolves the stride against the series length.
func (p *DOT) Fit(x [][][]float64) error {
	n := timesteps(x)
	if n == 0 {
		return ErrEmptyInput
	}

	if p.stride < 1 {
		p.n = int(p.stride * float64(n))
		if p.n < 1 {
			p.n = 1
		}
	} else {
		p.n = int(p.stride)
		if p.n > n {
			p.n = n
		}
	}

	return nil
}

// Transform zeroes everything except every n-th point.
func (p *DOT) Transform(x [][][]float64) ([][][]float64, error) {
	if p.n == 0 {
		return nil, ErrNotFitted
	}

	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	out := alloc(len(x), len(x[0]), n)

	for s := range x {
		for d := range x[s] {
			for t := p.n - 1; t < n; t += p.n {
				out[s][d][t] = x[s][d][t]
			}
		}
	}

	return out, nil
}

// Copy returns an unfitted copy of the preparateur.
func (p *DOT) Copy() Preparateur {
	return &DOT{stride: p.stride}
}
