package word

import (
	"errors"
	"fmt"
)

// Word-level errors.
var (
	ErrAlphaLength  = errors.New("word: alpha list length must equal word length minus one")
	ErrEmptyWord    = errors.New("word: word needs at least one extended letter")
	ErrLetterIndex  = errors.New("word: extended letter index out of range")
	ErrDimension    = errors.New("word: word references a dimension beyond the input")
	ErrLetterNoFunc = errors.New("word: generic letter references dimension 0")
)

// Word is an ordered sequence of extended letters defining one
// iterated-sum feature generator.
//
// Implementations are treated as immutable once registered in a branch:
// callers may extend or reconfigure a word only before sharing it.
type Word interface {
	// Len returns the number of extended letters.
	Len() int

	// MaxDim returns the highest dimension the word references (1-based).
	MaxDim() int

	// Alpha returns the per-gap decay list of length Len()-1. All zeros
	// means no decay.
	Alpha() []float64

	// LetterValues writes the value series of extended letter k for one
	// sample x (dimensions x timesteps) into dst. dst must have the
	// series length. Returns ErrDimension when the letter references a
	// dimension x does not provide.
	LetterValues(k int, x [][]float64, dst []float64) error

	// Copy returns a deep copy sharing no mutable state.
	Copy() Word

	fmt.Stringer
}

// alphaSpec holds the decay configuration shared by word implementations.
// Either a scalar applied to every gap or an explicit per-gap list.
type alphaSpec struct {
	scalar float64
	list   []float64
}

func (a *alphaSpec) expand(gaps int) []float64 {
	out := make([]float64, gaps)

	if a.list != nil {
		copy(out, a.list)
		return out
	}

	for i := range out {
		out[i] = a.scalar
	}

	return out
}

func (a *alphaSpec) setList(alpha []float64, gaps int) error {
	if len(alpha) != gaps {
		return ErrAlphaLength
	}

	a.list = make([]float64, len(alpha))
	copy(a.list, alpha)

	return nil
}

func (a *alphaSpec) copy() alphaSpec {
	out := alphaSpec{scalar: a.scalar}

	if a.list != nil {
		out.list = make([]float64, len(a.list))
		copy(out.list, a.list)
	}

	return out
}

// Equal reports value equality between two words.
//
// Only SimpleWord carries structural equality: two simple words are
// equal iff their exponent-vector sequences agree, independent of the
// bracket spelling they were built from. Any comparison involving a
// generic word is false, including a generic word compared to itself;
// generic words hold opaque letter functions and have no value identity.
func Equal(a, b Word) bool {
	sa, ok := a.(*SimpleWord)
	if !ok {
		return false
	}

	sb, ok := b.(*SimpleWord)
	if !ok {
		return false
	}

	return sa.Equal(sb)
}
