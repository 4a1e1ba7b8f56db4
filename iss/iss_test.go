package iss

import (
	"errors"
	"math"
	"testing"

	"github.com/alienkrieg/fruits/word"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// Two samples, two dimensions, five timesteps.
var dataset = [][][]float64{
	{{-4, 0.8, 0, 5, -3}, {2, 1, 0, 0, -7}},
	{{5, 8, 2, 6, 0}, {-5, -1, -4, -0.5, -8}},
}

func checkSeries(t *testing.T, got, want []float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length: got %d, want %d", len(got), len(want))
	}

	for i := range want {
		if !almostEqual(got[i], want[i], tolerance) {
			t.Errorf("t=%d: got %g, want %g", i, got[i], want[i])
		}
	}
}

func TestISS_SingleLetterIsCumulativeSum(t *testing.T) {
	got, err := ISS(dataset, word.MustSimpleWord("[1]"))
	if err != nil {
		t.Fatalf("ISS: %v", err)
	}

	checkSeries(t, got[0], []float64{-4, -3.2, -3.2, 1.8, -1.2})
	checkSeries(t, got[1], []float64{5, 13, 15, 21, 21})
}

func TestISS_KnownWords(t *testing.T) {
	tests := []struct {
		word  string
		want0 []float64
		want1 []float64
	}{
		{
			word:  "[2]",
			want0: []float64{2, 3, 3, 3, -4},
			want1: []float64{-5, -6, -10, -10.5, -18.5},
		},
		{
			word:  "[11]",
			want0: []float64{16, 16.64, 16.64, 41.64, 50.64},
			want1: []float64{25, 89, 93, 129, 129},
		},
		{
			word:  "[12]",
			want0: []float64{-8, -7.2, -7.2, -7.2, 13.8},
			want1: []float64{-25, -33, -41, -44, -44},
		},
		{
			// Nested sum: cumsum(x1 * cumsum(x1)).
			word:  "[1][1]",
			want0: []float64{16, 13.44, 13.44, 22.44, 26.04},
			want1: []float64{25, 129, 159, 285, 285},
		},
		{
			word:  "[1][2]",
			want0: []float64{-8, -11.2, -11.2, -11.2, -2.8},
			want1: []float64{-25, -38, -98, -108.5, -276.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, err := ISS(dataset, word.MustSimpleWord(tt.word))
			if err != nil {
				t.Fatalf("ISS: %v", err)
			}

			checkSeries(t, got[0], tt.want0)
			checkSeries(t, got[1], tt.want1)
		})
	}
}

func TestCalculator_ExtendedMode(t *testing.T) {
	w := word.MustSimpleWord("[1][1]")
	calc := Calculator{Mode: ModeExtended}

	res, err := calc.Transform(dataset, []word.Word{w})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	if len(res) != 1 {
		t.Fatalf("words: got %d, want 1", len(res))
	}
	if len(res[0][0]) != 2 {
		t.Fatalf("channels: got %d, want 2", len(res[0][0]))
	}

	// Channel 0 is the partial sum through the first letter, i.e. the
	// plain cumulative sum; channel 1 is the final iterated sum.
	checkSeries(t, res[0][0][0], []float64{-4, -3.2, -3.2, 1.8, -1.2})
	checkSeries(t, res[0][0][1], []float64{16, 13.44, 13.44, 22.44, 26.04})

	// Single mode exposes only the final channel.
	single, err := Calculator{Mode: ModeSingle}.Transform(dataset, []word.Word{w})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(single[0][0]) != 1 {
		t.Fatalf("single-mode channels: got %d, want 1", len(single[0][0]))
	}
	checkSeries(t, single[0][0][0], res[0][0][1])
}

// TestCalculator_DecayFixture pins the damped-carry decay semantics
// with a hand-computed fixture. For the word [1][1] with alpha = ln 2,
// the carry into the second letter is C(t) = C(t-1)/2 + x(t)*1 and the
// final sum is cumsum(x * C).
func TestCalculator_DecayFixture(t *testing.T) {
	x := [][][]float64{{{1, 2, 3}}}

	w := word.MustSimpleWord("[1][1]")
	w.SetAlpha(math.Log(2))

	res, err := (Calculator{}).Transform(x, []word.Word{w})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	// carry: 1, 1/2+2 = 2.5, 2.5/2+3 = 4.25
	// products: 1*1, 2*2.5, 3*4.25 = 1, 5, 12.75
	// cumsum: 1, 6, 18.75
	checkSeries(t, res[0][0][0], []float64{1, 6, 18.75})

	// Branch-level override takes precedence over the word's alpha.
	w2 := word.MustSimpleWord("[1][1]")
	over, err := Calculator{Decay: math.Log(2)}.Transform(x, []word.Word{w2})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	checkSeries(t, over[0][0][0], []float64{1, 6, 18.75})
}

func TestCalculator_ZeroAlphaMatchesPlainSum(t *testing.T) {
	w := word.MustSimpleWord("[1][2]")
	w.SetAlpha(0)

	got, err := ISS(dataset, w)
	if err != nil {
		t.Fatalf("ISS: %v", err)
	}

	checkSeries(t, got[0], []float64{-8, -11.2, -11.2, -11.2, -2.8})
}

func TestCalculator_Errors(t *testing.T) {
	w1 := word.MustSimpleWord("[1]")

	if _, err := (Calculator{}).Transform(dataset, nil); !errors.Is(err, ErrNoWords) {
		t.Errorf("no words: got %v, want ErrNoWords", err)
	}

	if _, err := (Calculator{}).Transform(nil, []word.Word{w1}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input: got %v, want ErrEmptyInput", err)
	}

	ragged := [][][]float64{
		{{1, 2, 3}},
		{{1, 2}},
	}
	if _, err := (Calculator{}).Transform(ragged, []word.Word{w1}); !errors.Is(err, ErrRaggedInput) {
		t.Errorf("ragged input: got %v, want ErrRaggedInput", err)
	}

	w3 := word.MustSimpleWord("[3]")
	if _, err := (Calculator{}).Transform(dataset, []word.Word{w3}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("missing dimension: got %v, want ErrDimensionMismatch", err)
	}
}

func TestCalculator_ParallelMatchesSerial(t *testing.T) {
	// A larger random-ish dataset computed with one worker and many
	// workers must agree exactly: output slots are fixed by index.
	x := make([][][]float64, 16)
	for s := range x {
		x[s] = [][]float64{make([]float64, 64), make([]float64, 64)}
		for d := range x[s] {
			for i := range x[s][d] {
				x[s][d][i] = math.Sin(float64(s*131+d*17+i)) * float64(1+i%5)
			}
		}
	}

	words := []word.Word{
		word.MustSimpleWord("[1][2]"),
		word.MustSimpleWord("[11][12]"),
		word.MustSimpleWord("[2][1][2]"),
	}

	serial, err := Calculator{Workers: 1}.Transform(x, words)
	if err != nil {
		t.Fatalf("serial Transform: %v", err)
	}

	parallel, err := Calculator{Workers: 8}.Transform(x, words)
	if err != nil {
		t.Fatalf("parallel Transform: %v", err)
	}

	for wi := range serial {
		for s := range serial[wi] {
			for ch := range serial[wi][s] {
				for i := range serial[wi][s][ch] {
					if serial[wi][s][ch][i] != parallel[wi][s][ch][i] {
						t.Fatalf("word %d sample %d ch %d t %d: serial %g != parallel %g",
							wi, s, ch, i, serial[wi][s][ch][i], parallel[wi][s][ch][i])
					}
				}
			}
		}
	}
}

func TestMode_Channels(t *testing.T) {
	w := word.MustSimpleWord("[1][2][1]")

	if got := ModeSingle.Channels(w); got != 1 {
		t.Errorf("single channels: got %d, want 1", got)
	}
	if got := ModeExtended.Channels(w); got != 3 {
		t.Errorf("extended channels: got %d, want 3", got)
	}
	if ModeSingle.String() != "single" || ModeExtended.String() != "extended" {
		t.Errorf("mode names: got %q/%q", ModeSingle, ModeExtended)
	}
}
