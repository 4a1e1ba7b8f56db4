package fruit

import (
	"errors"

	"golang.org/x/sync/errgroup"
)

// ErrBranchIndex reports an out-of-range branch cursor.
var ErrBranchIndex = errors.New("fruit: branch index out of range")

// Fruit is an ordered collection of branches with a configuration
// cursor. A new fruit starts with one empty branch.
type Fruit struct {
	name     string
	branches []*Branch
	cur      int
}

// New creates a fruit with a single empty branch.
func New(name string) *Fruit {
	return &Fruit{
		name:     name,
		branches: []*Branch{NewBranch()},
	}
}

// Name returns the fruit's name.
func (f *Fruit) Name() string { return f.name }

// Fork appends a new empty branch, moves the cursor to it, and
// returns it.
func (f *Fruit) Fork() *Branch {
	b := NewBranch()
	f.branches = append(f.branches, b)
	f.cur = len(f.branches) - 1

	return b
}

// ForkBranch appends the given branch and moves the cursor to it.
func (f *Fruit) ForkBranch(b *Branch) {
	f.branches = append(f.branches, b)
	f.cur = len(f.branches) - 1
}

// Branch returns the branch at the cursor.
func (f *Fruit) Branch() *Branch {
	return f.branches[f.cur]
}

// SwitchBranch moves the cursor to the branch at index i.
func (f *Fruit) SwitchBranch(i int) error {
	if i < 0 || i >= len(f.branches) {
		return ErrBranchIndex
	}

	f.cur = i

	return nil
}

// Branches returns the branches in order.
func (f *Fruit) Branches() []*Branch { return f.branches }

// NFeatures returns the total feature count over all branches.
func (f *Fruit) NFeatures() int {
	total := 0
	for _, b := range f.branches {
		total += b.NFeatures()
	}

	return total
}

// Fit fits every branch on x.
func (f *Fruit) Fit(x [][][]float64) error {
	for _, b := range f.branches {
		if err := b.Fit(x); err != nil {
			return err
		}
	}

	return nil
}

// Transform computes the feature matrix of x, branches in parallel.
// The columns concatenate branch outputs in branch order.
func (f *Fruit) Transform(x [][][]float64) ([][]float64, error) {
	parts := make([][][]float64, len(f.branches))

	var g errgroup.Group

	for i, b := range f.branches {
		g.Go(func() error {
			out, err := b.Transform(x)
			if err != nil {
				return err
			}

			parts[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return f.concat(parts, len(x)), nil
}

// FitTransform fits every branch on x and returns the feature matrix,
// reusing each branch's cached iterated sums.
func (f *Fruit) FitTransform(x [][][]float64) ([][]float64, error) {
	parts := make([][][]float64, len(f.branches))

	for i, b := range f.branches {
		out, err := b.FitTransform(x)
		if err != nil {
			return nil, err
		}

		parts[i] = out
	}

	return f.concat(parts, len(x)), nil
}

// TransformWithCallbacks is Transform with observer hooks, processed
// sequentially in branch order.
func (f *Fruit) TransformWithCallbacks(x [][][]float64, callbacks ...Callback) ([][]float64, error) {
	parts := make([][][]float64, len(f.branches))

	for i, b := range f.branches {
		for _, cb := range callbacks {
			cb.OnNextBranch(b)
		}

		out, err := b.transformObserved(x, callbacks)
		if err != nil {
			return nil, err
		}

		parts[i] = out
	}

	return f.concat(parts, len(x)), nil
}

func (f *Fruit) concat(parts [][][]float64, samples int) [][]float64 {
	out := allocMatrix(samples, f.NFeatures())

	for i := 0; i < samples; i++ {
		col := 0
		for _, part := range parts {
			col += copy(out[i][col:], part[i])
		}
	}

	return out
}

// Copy returns an unfitted fruit with copies of every branch. The
// cursor points at the first branch.
func (f *Fruit) Copy() *Fruit {
	cp := &Fruit{name: f.name}

	for _, b := range f.branches {
		cp.branches = append(cp.branches, b.Copy())
	}

	return cp
}
