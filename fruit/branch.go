package fruit

import (
	"errors"
	"fmt"

	"github.com/alienkrieg/fruits/iss"
	"github.com/alienkrieg/fruits/prep"
	"github.com/alienkrieg/fruits/sieve"
	"github.com/alienkrieg/fruits/word"
)

// Pipeline errors.
var (
	ErrNotFitted = errors.New("fruit: transform called before fit")
	ErrNoWords   = errors.New("fruit: branch has no words")
	ErrNoSieves  = errors.New("fruit: branch has no sieves")
)

// Branch is one linear feature pipeline: preparateurs, words with a
// calculator mode, and sieves. Fit caches the prepared iterated-sum
// arrays per word; any configuration change after a fit invalidates
// the cache.
type Branch struct {
	preps  []prep.Preparateur
	words  []word.Word
	sieves []sieve.Sieve
	mode   iss.Mode
	decay  float64

	fitted       bool
	sums         [][][][]float64 // per word, from the last fit
	fittedSieves [][][]sieve.Sieve
}

// NewBranch creates an empty branch in single mode.
func NewBranch() *Branch {
	return &Branch{}
}

// AddPreparateurs appends preparateurs to the pipeline.
func (b *Branch) AddPreparateurs(ps ...prep.Preparateur) {
	b.preps = append(b.preps, ps...)
	b.invalidate()
}

// AddWords appends words to the branch's word set.
func (b *Branch) AddWords(ws ...word.Word) {
	b.words = append(b.words, ws...)
	b.invalidate()
}

// AddSimpleWords parses the given bracket expressions and appends the
// resulting simple words.
func (b *Branch) AddSimpleWords(exprs ...string) error {
	ws := make([]word.Word, len(exprs))

	for i, expr := range exprs {
		w, err := word.NewSimpleWord(expr)
		if err != nil {
			return err
		}

		ws[i] = w
	}

	b.AddWords(ws...)

	return nil
}

// AddSieves appends sieve prototypes. Every prototype is copied and
// fitted once per word channel during Fit.
func (b *Branch) AddSieves(ss ...sieve.Sieve) {
	b.sieves = append(b.sieves, ss...)
	b.invalidate()
}

// SetMode selects the calculator mode.
func (b *Branch) SetMode(m iss.Mode) {
	b.mode = m
	b.invalidate()
}

// SetDecay overrides the per-gap alpha of every word in the branch.
func (b *Branch) SetDecay(alpha float64) {
	b.decay = alpha
	b.invalidate()
}

// Mode returns the calculator mode.
func (b *Branch) Mode() iss.Mode { return b.mode }

// Decay returns the branch decay override.
func (b *Branch) Decay() float64 { return b.decay }

// Preparateurs returns the configured preparateurs in order.
func (b *Branch) Preparateurs() []prep.Preparateur { return b.preps }

// Words returns the configured words in order.
func (b *Branch) Words() []word.Word { return b.words }

// Sieves returns the configured sieve prototypes in order.
func (b *Branch) Sieves() []sieve.Sieve { return b.sieves }

func (b *Branch) invalidate() {
	b.fitted = false
	b.sums = nil
	b.fittedSieves = nil
}

// NFeatures returns the feature count of the branch, from the
// configuration alone.
func (b *Branch) NFeatures() int {
	perChannel := 0
	for _, s := range b.sieves {
		perChannel += s.NFeatures()
	}

	total := 0
	for _, w := range b.words {
		total += b.mode.Channels(w) * perChannel
	}

	return total
}

func (b *Branch) calculator() iss.Calculator {
	return iss.Calculator{Mode: b.mode, Decay: b.decay}
}

// Fit runs the preparateurs, computes and caches the iterated-sum
// array of every word, and fits a copy of every sieve prototype on
// every word channel. The branch state, including the fitted
// preparateurs, is replaced only when the whole fit succeeds; a
// failed fit leaves the previous state intact.
func (b *Branch) Fit(x [][][]float64) error {
	if len(b.words) == 0 {
		return ErrNoWords
	}

	if len(b.sieves) == 0 {
		return ErrNoSieves
	}

	// Preparateurs are fitted on copies and committed below.
	preps := make([]prep.Preparateur, len(b.preps))
	prepared := x

	for i, p := range b.preps {
		cp := p.Copy()

		var err error

		prepared, err = prep.FitTransform(cp, prepared)
		if err != nil {
			return fmt.Errorf("fruit: preparateur %s: %w", p.Name(), err)
		}

		preps[i] = cp
	}

	sums, err := b.calculator().Transform(prepared, b.words)
	if err != nil {
		return err
	}

	fittedSieves := make([][][]sieve.Sieve, len(b.words))

	for wi, w := range b.words {
		channels := b.mode.Channels(w)
		fittedSieves[wi] = make([][]sieve.Sieve, channels)

		for c := 0; c < channels; c++ {
			view := channelView(sums[wi], c)
			row := make([]sieve.Sieve, len(b.sieves))

			for si, proto := range b.sieves {
				s := proto.Copy()
				if err := s.Fit(view); err != nil {
					return fmt.Errorf("fruit: sieve %s: %w", s.Name(), err)
				}

				row[si] = s
			}

			fittedSieves[wi][c] = row
		}
	}

	b.preps = preps
	b.sums = sums
	b.fittedSieves = fittedSieves
	b.fitted = true

	return nil
}

// Transform re-runs the preparateurs and the calculator on x with the
// already-fitted state and applies the fitted sieves. Columns are
// ordered by word, channel, sieve, and feature index.
func (b *Branch) Transform(x [][][]float64) ([][]float64, error) {
	if !b.fitted {
		return nil, ErrNotFitted
	}

	prepared := x

	for _, p := range b.preps {
		var err error

		prepared, err = p.Transform(prepared)
		if err != nil {
			return nil, fmt.Errorf("fruit: preparateur %s: %w", p.Name(), err)
		}
	}

	sums, err := b.calculator().Transform(prepared, b.words)
	if err != nil {
		return nil, err
	}

	return b.sieveSums(sums, len(x))
}

// FitTransform fits the branch on x and sieves the cached iterated
// sums of the fit, avoiding a second pipeline pass.
func (b *Branch) FitTransform(x [][][]float64) ([][]float64, error) {
	if err := b.Fit(x); err != nil {
		return nil, err
	}

	return b.sieveSums(b.sums, len(x))
}

func (b *Branch) sieveSums(sums [][][][]float64, samples int) ([][]float64, error) {
	out := allocMatrix(samples, b.NFeatures())
	col := 0

	for wi := range b.fittedSieves {
		for c := range b.fittedSieves[wi] {
			view := channelView(sums[wi], c)

			for _, s := range b.fittedSieves[wi][c] {
				feats, err := s.Sieve(view)
				if err != nil {
					return nil, fmt.Errorf("fruit: sieve %s: %w", s.Name(), err)
				}

				for i := range feats {
					copy(out[i][col:col+s.NFeatures()], feats[i])
				}

				col += s.NFeatures()
			}
		}
	}

	return out, nil
}

// Copy returns an unfitted branch with copies of the configuration.
func (b *Branch) Copy() *Branch {
	cp := NewBranch()
	cp.mode = b.mode
	cp.decay = b.decay

	for _, p := range b.preps {
		cp.preps = append(cp.preps, p.Copy())
	}

	for _, w := range b.words {
		cp.words = append(cp.words, w.Copy())
	}

	for _, s := range b.sieves {
		cp.sieves = append(cp.sieves, s.Copy())
	}

	return cp
}

// channelView returns the per-sample series of one channel of a
// word's iterated-sum array. Rows alias the underlying array.
func channelView(wordSums [][][]float64, c int) [][]float64 {
	view := make([][]float64, len(wordSums))
	for s := range wordSums {
		view[s] = wordSums[s][c]
	}

	return view
}

func allocMatrix(rows, cols int) [][]float64 {
	block := make([]float64, rows*cols)
	out := make([][]float64, rows)

	for i := range out {
		out[i] = block[i*cols : (i+1)*cols]
	}

	return out
}
