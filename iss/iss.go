package iss

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	vecmath "github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"

	"github.com/alienkrieg/fruits/word"
)

// Engine errors.
var (
	ErrNoWords           = errors.New("iss: at least one word is required")
	ErrEmptyInput        = errors.New("iss: input dataset must be non-empty")
	ErrRaggedInput       = errors.New("iss: all samples must share dimension and series length")
	ErrDimensionMismatch = errors.New("iss: word references a dimension beyond the input")
)

// Mode selects how much of the iterated-sum recursion is exposed.
type Mode int

const (
	// ModeSingle returns only the final iterated sum of each word,
	// one channel per word.
	ModeSingle Mode = iota

	// ModeExtended retains every intermediate partial sum, one channel
	// per extended letter, ordered by letter position.
	ModeExtended
)

// ParseMode maps a mode name to its Mode value. The empty string maps
// to ModeSingle.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "single":
		return ModeSingle, nil
	case "extended":
		return ModeExtended, nil
	}

	return 0, fmt.Errorf("iss: unknown mode %q", name)
}

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeExtended {
		return "extended"
	}

	return "single"
}

// Channels returns the number of output channels the mode yields for
// a word.
func (m Mode) Channels(w word.Word) int {
	if m == ModeExtended {
		return w.Len()
	}

	return 1
}

// Calculator computes iterated-sum arrays for a dataset and a word set.
// The zero value computes single-mode sums with the words' own decay.
type Calculator struct {
	// Mode selects single or extended output.
	Mode Mode

	// Decay, when positive, overrides the per-gap alpha of every word.
	Decay float64

	// Workers caps the number of concurrently processed samples.
	// Zero means runtime.NumCPU().
	Workers int
}

// Transform computes one iterated-sum array per word. The input has
// shape (samples x dimensions x timesteps); the result is indexed
// [word][sample][channel][timestep] with Mode.Channels(word) channels.
func (c Calculator) Transform(x [][][]float64, words []word.Word) ([][][][]float64, error) {
	if len(words) == 0 {
		return nil, ErrNoWords
	}

	dims, n, err := shape(x)
	if err != nil {
		return nil, err
	}

	for _, w := range words {
		if w.Len() == 0 {
			return nil, word.ErrEmptyWord
		}

		if w.MaxDim() > dims {
			return nil, fmt.Errorf("%w: word %s needs %d dimensions, input has %d",
				ErrDimensionMismatch, w, w.MaxDim(), dims)
		}
	}

	out := make([][][][]float64, len(words))
	for wi, w := range words {
		out[wi] = make([][][]float64, len(x))

		channels := c.Mode.Channels(w)
		for s := range x {
			out[wi][s] = make([][]float64, channels)
			for ch := range out[wi][s] {
				out[wi][s][ch] = make([]float64, n)
			}
		}
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for s := range x {
		g.Go(func() error {
			scratch := newScratch(n)

			for wi, w := range words {
				if err := c.computeSeries(x[s], w, out[wi][s], scratch); err != nil {
					return err
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// ISS computes the final (single-mode) iterated sums of one word for
// every sample, matching the shape (samples x timesteps).
func ISS(x [][][]float64, w word.Word) ([][]float64, error) {
	res, err := Calculator{}.Transform(x, []word.Word{w})
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(res[0]))
	for s := range res[0] {
		out[s] = res[0][s][0]
	}

	return out, nil
}

// scratch holds per-goroutine working buffers.
type scratch struct {
	letter []float64 // L_k
	prod   []float64 // P_k
	sum    []float64 // S_k
	carry  []float64 // carry fed into the next letter
}

func newScratch(n int) *scratch {
	return &scratch{
		letter: make([]float64, n),
		prod:   make([]float64, n),
		sum:    make([]float64, n),
		carry:  make([]float64, n),
	}
}

// computeSeries runs the iterated-sum recursion for one sample and one
// word, writing each exposed channel into out.
func (c Calculator) computeSeries(x [][]float64, w word.Word, out [][]float64, sc *scratch) error {
	m := w.Len()
	alpha := w.Alpha()

	if c.Decay > 0 {
		for i := range alpha {
			alpha[i] = c.Decay
		}
	}

	for i := range sc.carry {
		sc.carry[i] = 1
	}

	for k := 0; k < m; k++ {
		if err := w.LetterValues(k, x, sc.letter); err != nil {
			if errors.Is(err, word.ErrDimension) {
				return fmt.Errorf("%w: word %s", ErrDimensionMismatch, w)
			}

			return err
		}

		vecmath.MulBlock(sc.prod, sc.letter, sc.carry)
		cumsum(sc.sum, sc.prod)

		if c.Mode == ModeExtended {
			copy(out[k], sc.sum)
		} else if k == m-1 {
			copy(out[0], sc.sum)
		}

		if k < m-1 {
			if a := alpha[k]; a != 0 {
				dampedCumsum(sc.carry, sc.prod, math.Exp(-a))
			} else {
				copy(sc.carry, sc.sum)
			}
		}
	}

	return nil
}

// cumsum writes the running sum of src into dst, strictly left to right.
func cumsum(dst, src []float64) {
	acc := 0.0

	for i, v := range src {
		acc += v
		dst[i] = acc
	}
}

// dampedCumsum writes the exponentially damped running sum
// dst[t] = decay*dst[t-1] + src[t] into dst.
func dampedCumsum(dst, src []float64, decay float64) {
	acc := 0.0

	for i, v := range src {
		acc = decay*acc + v
		dst[i] = acc
	}
}

// shape validates the dataset layout and returns (dimensions, timesteps).
func shape(x [][][]float64) (dims, n int, err error) {
	if len(x) == 0 || len(x[0]) == 0 || len(x[0][0]) == 0 {
		return 0, 0, ErrEmptyInput
	}

	dims = len(x[0])
	n = len(x[0][0])

	for _, sample := range x {
		if len(sample) != dims {
			return 0, 0, ErrRaggedInput
		}

		for _, series := range sample {
			if len(series) != n {
				return 0, 0, ErrRaggedInput
			}
		}
	}

	return dims, n, nil
}
