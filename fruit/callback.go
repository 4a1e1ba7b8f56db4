package fruit

import "fmt"

// Callback observes the stages of a fruit transform. Hooks receive
// intermediate results that alias internal buffers; observers must not
// modify them.
type Callback interface {
	// OnNextBranch runs before a branch starts processing.
	OnNextBranch(b *Branch)

	// OnPreparateur runs after each preparateur with its output.
	OnPreparateur(x [][][]float64)

	// OnPreparationEnd runs once per branch with the fully prepared
	// dataset.
	OnPreparationEnd(x [][][]float64)

	// OnIteratedSum runs once per word with its iterated-sum array,
	// indexed [sample][channel][timestep].
	OnIteratedSum(sums [][][]float64)

	// OnSieve runs after each fitted sieve with its feature block.
	OnSieve(features [][]float64)

	// OnSievingEnd runs once per branch with its feature matrix.
	OnSievingEnd(features [][]float64)
}

// NopCallback implements Callback with empty hooks. Embed it to
// observe selected stages only.
type NopCallback struct{}

func (NopCallback) OnNextBranch(*Branch)           {}
func (NopCallback) OnPreparateur([][][]float64)    {}
func (NopCallback) OnPreparationEnd([][][]float64) {}
func (NopCallback) OnIteratedSum([][][]float64)    {}
func (NopCallback) OnSieve([][]float64)            {}
func (NopCallback) OnSievingEnd([][]float64)       {}

// transformObserved is Transform with callback hooks at every stage.
func (b *Branch) transformObserved(x [][][]float64, callbacks []Callback) ([][]float64, error) {
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

		for _, cb := range callbacks {
			cb.OnPreparateur(prepared)
		}
	}

	for _, cb := range callbacks {
		cb.OnPreparationEnd(prepared)
	}

	sums, err := b.calculator().Transform(prepared, b.words)
	if err != nil {
		return nil, err
	}

	for wi := range sums {
		for _, cb := range callbacks {
			cb.OnIteratedSum(sums[wi])
		}
	}

	out := allocMatrix(len(x), b.NFeatures())
	col := 0

	for wi := range b.fittedSieves {
		for c := range b.fittedSieves[wi] {
			view := channelView(sums[wi], c)

			for _, s := range b.fittedSieves[wi][c] {
				feats, err := s.Sieve(view)
				if err != nil {
					return nil, fmt.Errorf("fruit: sieve %s: %w", s.Name(), err)
				}

				for _, cb := range callbacks {
					cb.OnSieve(feats)
				}

				for i := range feats {
					copy(out[i][col:col+s.NFeatures()], feats[i])
				}

				col += s.NFeatures()
			}
		}
	}

	for _, cb := range callbacks {
		cb.OnSievingEnd(out)
	}

	return out, nil
}
