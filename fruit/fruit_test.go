package fruit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienkrieg/fruits/iss"
	"github.com/alienkrieg/fruits/prep"
	"github.com/alienkrieg/fruits/sieve"
	"github.com/alienkrieg/fruits/word"
)

var dataset = [][][]float64{
	{{-4, 0.8, 0, 5, -3}, {2, 1, 0, 0, -7}},
	{{5, 8, 2, 6, 0}, {-5, -1, -4, -0.5, -8}},
}

func mustMAX(t *testing.T) sieve.Sieve {
	t.Helper()

	s, err := sieve.NewMAX(nil, false)
	require.NoError(t, err)

	return s
}

func mustMIN(t *testing.T) sieve.Sieve {
	t.Helper()

	s, err := sieve.NewMIN(nil, false)
	require.NoError(t, err)

	return s
}

func assertMatrix(t *testing.T, want, got [][]float64) {
	t.Helper()

	require.Len(t, got, len(want))

	for i := range want {
		require.Len(t, got[i], len(want[i]), "row %d", i)

		for j := range want[i] {
			assert.InDelta(t, want[i][j], got[i][j], 1e-9, "row %d col %d", i, j)
		}
	}
}

func twoBranchFruit(t *testing.T) *Fruit {
	t.Helper()

	f := New("maxmin")
	require.NoError(t, f.Branch().AddSimpleWords("[1]", "[2]", "[11]"))
	f.Branch().AddSieves(mustMAX(t))

	f.Fork()
	require.NoError(t, f.Branch().AddSimpleWords("[12]", "[1][1]", "[1][2]"))
	f.Branch().AddSieves(mustMIN(t))

	return f
}

func TestFruit_TwoBranches(t *testing.T) {
	f := twoBranchFruit(t)

	assert.Equal(t, 6, f.NFeatures())

	features, err := f.FitTransform(dataset)
	require.NoError(t, err)

	assertMatrix(t, [][]float64{
		{1.8, 3, 50.64, -8, 13.44, -11.2},
		{21, -5, 129, -44, 25, -276.5},
	}, features)

	// Transform on the fitted fruit reproduces the fit output.
	again, err := f.Transform(dataset)
	require.NoError(t, err)
	assertMatrix(t, features, again)
}

func TestFruit_TransformBeforeFit(t *testing.T) {
	f := twoBranchFruit(t)

	_, err := f.Transform(dataset)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestBranch_ConfigurationStateErrors(t *testing.T) {
	b := NewBranch()
	assert.ErrorIs(t, b.Fit(dataset), ErrNoWords)

	require.NoError(t, b.AddSimpleWords("[1]"))
	assert.ErrorIs(t, b.Fit(dataset), ErrNoSieves)

	b.AddSieves(mustMAX(t))
	require.NoError(t, b.Fit(dataset))

	// Changing the configuration invalidates the fit.
	require.NoError(t, b.AddSimpleWords("[2]"))

	_, err := b.Transform(dataset)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestBranch_PreparateursFeedTheCalculator(t *testing.T) {
	b := NewBranch()
	b.AddPreparateurs(prep.NewINC(true))
	require.NoError(t, b.AddSimpleWords("[1]"))
	b.AddSieves(mustMAX(t))

	// The cumulative sum of zero-padded increments telescopes back to
	// x(t) - x(0), so MAX sees max(x) - x(0).
	features, err := b.FitTransform(dataset)
	require.NoError(t, err)
	assertMatrix(t, [][]float64{{9}, {3}}, features)
}

func TestBranch_ExtendedMode(t *testing.T) {
	b := NewBranch()
	b.SetMode(iss.ModeExtended)
	require.NoError(t, b.AddSimpleWords("[1][1]"))

	end, err := sieve.NewEND(nil)
	require.NoError(t, err)
	b.AddSieves(end)

	assert.Equal(t, 2, b.NFeatures())

	features, err := b.FitTransform([][][]float64{{{1, 2, 3}}})
	require.NoError(t, err)

	// Channel 0 is the plain cumulative sum ending at 6; channel 1 is
	// the full [1][1] iterated sum ending at 25.
	assertMatrix(t, [][]float64{{6, 25}}, features)
}

func TestBranch_RefitReplacesState(t *testing.T) {
	b := NewBranch()
	require.NoError(t, b.AddSimpleWords("[1]"))

	ppv, err := sieve.NewPPV([]sieve.Threshold{sieve.Quantile(0.5)},
		sieve.DefaultQuantileOptions())
	require.NoError(t, err)
	b.AddSieves(ppv)

	first, err := b.FitTransform(dataset)
	require.NoError(t, err)

	// Fitting on a different dataset and back must reproduce the
	// original features; no state leaks across fits.
	other := [][][]float64{
		{{100, 200, 300, 400, 500}, {1, 1, 1, 1, 1}},
		{{-1, -2, -3, -4, -5}, {0, 0, 0, 0, 0}},
	}

	_, err = b.FitTransform(other)
	require.NoError(t, err)

	again, err := b.FitTransform(dataset)
	require.NoError(t, err)
	assertMatrix(t, first, again)
}

func TestBranch_FailedRefitKeepsFittedState(t *testing.T) {
	mav, err := prep.NewMAV(0.4)
	require.NoError(t, err)

	b := NewBranch()
	b.AddPreparateurs(mav)
	require.NoError(t, b.AddSimpleWords("[2]"))
	b.AddSieves(mustMAX(t))

	first, err := b.FitTransform(dataset)
	require.NoError(t, err)

	// Re-fitting on a one-dimensional dataset fails in the calculator,
	// after the moving average would already have resolved a different
	// window on the longer series.
	narrow := [][][]float64{{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}}
	require.Error(t, b.Fit(narrow))

	// The failed fit must not leak any state: the branch still
	// transforms with the original preparateur fit and sieves.
	again, err := b.Transform(dataset)
	require.NoError(t, err)
	assertMatrix(t, first, again)
}

func TestFruit_CopyMatchesOriginal(t *testing.T) {
	f := twoBranchFruit(t)
	cp := f.Copy()

	assert.Equal(t, f.NFeatures(), cp.NFeatures())

	features, err := f.FitTransform(dataset)
	require.NoError(t, err)

	copied, err := cp.FitTransform(dataset)
	require.NoError(t, err)
	assertMatrix(t, features, copied)

	// Configuring the copy must not affect the original.
	require.NoError(t, cp.Branch().AddSimpleWords("[1]"))
	assert.NotEqual(t, f.NFeatures(), cp.NFeatures())
}

func TestFruit_SwitchBranch(t *testing.T) {
	f := twoBranchFruit(t)

	assert.Len(t, f.Branch().Words(), 3)
	assert.ErrorIs(t, f.SwitchBranch(5), ErrBranchIndex)

	require.NoError(t, f.SwitchBranch(0))
	assert.Equal(t, f.Branches()[0], f.Branch())
}

type countingCallback struct {
	NopCallback

	branches    int
	preps       int
	prepEnds    int
	sums        int
	sieves      int
	sievingEnds int
}

func (c *countingCallback) OnNextBranch(*Branch)           { c.branches++ }
func (c *countingCallback) OnPreparateur([][][]float64)    { c.preps++ }
func (c *countingCallback) OnPreparationEnd([][][]float64) { c.prepEnds++ }
func (c *countingCallback) OnIteratedSum([][][]float64)    { c.sums++ }
func (c *countingCallback) OnSieve([][]float64)            { c.sieves++ }
func (c *countingCallback) OnSievingEnd([][]float64)       { c.sievingEnds++ }

func TestFruit_TransformWithCallbacks(t *testing.T) {
	f := New("observed")
	f.Branch().AddPreparateurs(prep.NewINC(true))
	require.NoError(t, f.Branch().AddSimpleWords("[1]", "[2]"))
	f.Branch().AddSieves(mustMAX(t))

	f.Fork()
	require.NoError(t, f.Branch().AddSimpleWords("[11]"))
	f.Branch().AddSieves(mustMIN(t))

	require.NoError(t, f.Fit(dataset))

	plain, err := f.Transform(dataset)
	require.NoError(t, err)

	cb := &countingCallback{}

	observed, err := f.TransformWithCallbacks(dataset, cb)
	require.NoError(t, err)
	assertMatrix(t, plain, observed)

	assert.Equal(t, 2, cb.branches)
	assert.Equal(t, 1, cb.preps)
	assert.Equal(t, 2, cb.prepEnds)
	assert.Equal(t, 3, cb.sums)
	assert.Equal(t, 3, cb.sieves)
	assert.Equal(t, 2, cb.sievingEnds)
}

func TestWordGenerationFillsABranch(t *testing.T) {
	b := NewBranch()

	words, err := word.SimpleWordsByWeight(2, 2)
	require.NoError(t, err)

	for _, w := range words {
		b.AddWords(w)
	}

	b.AddSieves(mustMAX(t))
	assert.Equal(t, 7, b.NFeatures())

	features, err := b.FitTransform(dataset)
	require.NoError(t, err)
	assert.Len(t, features[0], 7)
}
