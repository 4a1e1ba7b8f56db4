package word

// Letter extracts a single dimension of a multidimensional time series
// and optionally transforms its values. A nil Fn is the identity.
type Letter struct {
	// Dim is the 1-based dimension index the letter reads.
	Dim int

	// Fn maps each value of the dimension; nil means identity.
	Fn func(float64) float64
}

// GenericWord is a word whose extended letters are multisets of
// arbitrary letter functions. It trades the compact encoding of
// SimpleWord for full generality.
//
// Generic words never compare equal, not even to themselves; see Equal.
type GenericWord struct {
	name  string
	els   [][]Letter
	alpha alphaSpec
}

// NewGenericWord creates an empty generic word with a descriptive name.
// At least one extended letter must be appended before use.
func NewGenericWord(name string) *GenericWord {
	return &GenericWord{name: name}
}

// MultiplyLetters appends one extended letter built from the given
// letters. Every letter must reference a positive dimension.
func (w *GenericWord) MultiplyLetters(letters ...Letter) error {
	if len(letters) == 0 {
		return ErrEmptyLetter
	}

	for _, l := range letters {
		if l.Dim < 1 {
			return ErrReferencePos
		}
	}

	el := make([]Letter, len(letters))
	copy(el, letters)
	w.els = append(w.els, el)

	return nil
}

// Multiply appends all extended letters of other to the word.
func (w *GenericWord) Multiply(other *GenericWord) {
	for _, el := range other.els {
		cp := make([]Letter, len(el))
		copy(cp, el)
		w.els = append(w.els, cp)
	}
}

// SetAlpha applies one decay value to every gap.
func (w *GenericWord) SetAlpha(alpha float64) {
	w.alpha = alphaSpec{scalar: alpha}
}

// SetAlphaList sets one decay value per gap; length must be Len()-1.
func (w *GenericWord) SetAlphaList(alpha []float64) error {
	return w.alpha.setList(alpha, len(w.els)-1)
}

// Len returns the number of extended letters.
func (w *GenericWord) Len() int {
	return len(w.els)
}

// MaxDim returns the highest dimension any letter references.
func (w *GenericWord) MaxDim() int {
	maxDim := 0

	for _, el := range w.els {
		for _, l := range el {
			if l.Dim > maxDim {
				maxDim = l.Dim
			}
		}
	}

	return maxDim
}

// Alpha returns the per-gap decay list of length Len()-1.
func (w *GenericWord) Alpha() []float64 {
	return w.alpha.expand(len(w.els) - 1)
}

// LetterValues evaluates extended letter k on sample x into dst.
func (w *GenericWord) LetterValues(k int, x [][]float64, dst []float64) error {
	if k < 0 || k >= len(w.els) {
		return ErrLetterIndex
	}

	for i := range dst {
		dst[i] = 1
	}

	for _, l := range w.els[k] {
		if l.Dim > len(x) {
			return ErrDimension
		}

		series := x[l.Dim-1]

		if l.Fn == nil {
			for i := range dst {
				dst[i] *= series[i]
			}

			continue
		}

		for i := range dst {
			dst[i] *= l.Fn(series[i])
		}
	}

	return nil
}

// Copy returns a deep copy. Letter functions are shared; they are
// required to be stateless.
func (w *GenericWord) Copy() Word {
	out := &GenericWord{
		name:  w.name,
		els:   make([][]Letter, len(w.els)),
		alpha: w.alpha.copy(),
	}

	for i, el := range w.els {
		cp := make([]Letter, len(el))
		copy(cp, el)
		out.els[i] = cp
	}

	return out
}

// String returns the word's descriptive name.
func (w *GenericWord) String() string {
	return w.name
}
