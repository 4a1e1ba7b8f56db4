package word

import (
	"errors"
	"regexp"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// ErrFormat is returned when a bracket string does not match the word
// grammar (\[[1-9]+\])+.
var ErrFormat = errors.New(`word: string must match (\[[1-9]+\])+`)

var bracketGrammar = regexp.MustCompile(`^(\[[1-9]+\])+$`)

// SimpleWord is a word whose letters extract single dimensions of a
// multidimensional time series, stored as dense integer exponent
// vectors. It is parsed from the bracket grammar described in the
// package documentation.
type SimpleWord struct {
	name    string
	letters []ExtendedLetter
	maxDim  int
	alpha   alphaSpec
}

// NewSimpleWord parses a bracket string into a simple word.
func NewSimpleWord(s string) (*SimpleWord, error) {
	w := &SimpleWord{}
	if err := w.Multiply(s); err != nil {
		return nil, err
	}

	return w, nil
}

// MustSimpleWord is like NewSimpleWord but panics on a malformed string.
// Intended for statically known word literals.
func MustSimpleWord(s string) *SimpleWord {
	w, err := NewSimpleWord(s)
	if err != nil {
		panic(err)
	}

	return w
}

// Multiply appends the extended letters spelled by the bracket string s
// to the word. Referencing a higher dimension than any seen before
// retroactively zero-pads all existing extended letters, preserving
// index alignment.
//
// Multiply must not be called once the word is registered in a branch.
func (w *SimpleWord) Multiply(s string) error {
	if !bracketGrammar.MatchString(s) {
		return ErrFormat
	}

	// First pass: new maximum dimension across all groups.
	maxDim := w.maxDim

	for _, c := range s {
		if c >= '1' && c <= '9' {
			if d := int(c - '0'); d > maxDim {
				maxDim = d
			}
		}
	}

	if maxDim > w.maxDim {
		for i := range w.letters {
			w.letters[i].pad(maxDim)
		}

		w.maxDim = maxDim
	}

	// Second pass: one exponent vector per bracket group.
	var exps []int

	for _, c := range s {
		switch {
		case c == '[':
			exps = make([]int, maxDim)
		case c == ']':
			w.letters = append(w.letters, ExtendedLetter{exps: exps})
		default:
			exps[c-'1']++
		}
	}

	w.name += s

	return nil
}

// MultiplyWord appends all extended letters of other to the word.
func (w *SimpleWord) MultiplyWord(other *SimpleWord) {
	if other.maxDim > w.maxDim {
		for i := range w.letters {
			w.letters[i].pad(other.maxDim)
		}

		w.maxDim = other.maxDim
	}

	for _, el := range other.letters {
		el = el.Copy()
		el.pad(w.maxDim)
		w.letters = append(w.letters, el)
	}

	w.name += other.name
}

// SetAlpha applies one decay value to every gap between consecutive
// extended letters. Zero (the default) disables decay.
func (w *SimpleWord) SetAlpha(alpha float64) {
	w.alpha = alphaSpec{scalar: alpha}
}

// SetAlphaList sets one decay value per gap. The list length must be
// Len()-1.
func (w *SimpleWord) SetAlphaList(alpha []float64) error {
	return w.alpha.setList(alpha, len(w.letters)-1)
}

// Len returns the number of extended letters.
func (w *SimpleWord) Len() int {
	return len(w.letters)
}

// MaxDim returns the highest referenced dimension.
func (w *SimpleWord) MaxDim() int {
	return w.maxDim
}

// At returns the i-th extended letter.
func (w *SimpleWord) At(i int) ExtendedLetter {
	return w.letters[i]
}

// Alpha returns the per-gap decay list of length Len()-1.
func (w *SimpleWord) Alpha() []float64 {
	return w.alpha.expand(len(w.letters) - 1)
}

// LetterValues writes prod_d x[d]^exp(d) for extended letter k into dst.
func (w *SimpleWord) LetterValues(k int, x [][]float64, dst []float64) error {
	if k < 0 || k >= len(w.letters) {
		return ErrLetterIndex
	}

	el := w.letters[k]
	if w.maxDim > len(x) {
		return ErrDimension
	}

	for i := range dst {
		dst[i] = 1
	}

	for d, e := range el.exps {
		for ; e > 0; e-- {
			vecmath.MulBlockInPlace(dst, x[d])
		}
	}

	return nil
}

// Equal reports structural equality of the exponent-vector sequences.
func (w *SimpleWord) Equal(other *SimpleWord) bool {
	if len(w.letters) != len(other.letters) {
		return false
	}

	for i, el := range w.letters {
		if !el.Equal(other.letters[i]) {
			return false
		}
	}

	return true
}

// Copy returns a deep copy sharing no mutable state with the original.
func (w *SimpleWord) Copy() Word {
	out := &SimpleWord{
		name:    w.name,
		letters: make([]ExtendedLetter, len(w.letters)),
		maxDim:  w.maxDim,
		alpha:   w.alpha.copy(),
	}

	for i, el := range w.letters {
		out.letters[i] = el.Copy()
	}

	return out
}

// String returns the bracket spelling the word was built from.
func (w *SimpleWord) String() string {
	return w.name
}
