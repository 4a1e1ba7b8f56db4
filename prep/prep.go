// Package prep provides data preparateurs: fit/transform units applied
// to a time-series dataset (samples x dimensions x timesteps) ahead of
// signature computation. A preparateur either preserves the dataset
// shape or reshapes it in a documented way.
package prep

import "errors"

// Preparateur errors.
var (
	ErrNotFitted  = errors.New("prep: transform called before fit")
	ErrEmptyInput = errors.New("prep: input dataset must be non-empty")
	ErrOption     = errors.New("prep: invalid option")
)

// Preparateur is a fit/transform unit. Fit may be a no-op for
// stateless transforms; Transform must not be called before Fit for
// preparateurs carrying fitted state.
type Preparateur interface {
	// Name returns a short identifier, e.g. "INC".
	Name() string

	// Fit derives any state the transform needs from the dataset.
	Fit(x [][][]float64) error

	// Transform maps the dataset to the prepared dataset.
	Transform(x [][][]float64) ([][][]float64, error)

	// Copy returns an unfitted copy with the same configuration.
	Copy() Preparateur
}

// FitTransform fits p on x and returns the prepared dataset.
func FitTransform(p Preparateur, x [][][]float64) ([][][]float64, error) {
	if err := p.Fit(x); err != nil {
		return nil, err
	}

	return p.Transform(x)
}

// timesteps returns the series length of the dataset, 0 when empty.
func timesteps(x [][][]float64) int {
	if len(x) == 0 || len(x[0]) == 0 {
		return 0
	}

	return len(x[0][0])
}

// alloc returns a dataset of the given shape.
func alloc(samples, dims, n int) [][][]float64 {
	out := make([][][]float64, samples)

	for s := range out {
		out[s] = make([][]float64, dims)
		for d := range out[s] {
			out[s][d] = make([]float64, n)
		}
	}

	return out
}
