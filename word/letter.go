package word

import (
	"errors"
	"strconv"
	"strings"
)

// Letter and extended-letter errors.
var (
	ErrEmptyLetter  = errors.New("word: extended letter needs at least one nonzero exponent")
	ErrNegativeExp  = errors.New("word: exponents must be non-negative")
	ErrReferencePos = errors.New("word: dimensions are 1-based")
)

// ExtendedLetter is an unordered multiset of letters, stored as a dense
// exponent vector over dimensions 1..Dims(). Two extended letters are
// equal iff their exponent mappings are equal; trailing zero exponents
// do not change the mapping.
type ExtendedLetter struct {
	exps []int
}

// NewExtendedLetter builds an extended letter from an exponent vector.
// exps[d] is the exponent of dimension d+1. At least one exponent must
// be nonzero and none may be negative.
func NewExtendedLetter(exps ...int) (ExtendedLetter, error) {
	nonzero := false

	for _, e := range exps {
		if e < 0 {
			return ExtendedLetter{}, ErrNegativeExp
		}

		if e > 0 {
			nonzero = true
		}
	}

	if !nonzero {
		return ExtendedLetter{}, ErrEmptyLetter
	}

	el := ExtendedLetter{exps: make([]int, len(exps))}
	copy(el.exps, exps)

	return el, nil
}

// Dims returns the number of dimensions the exponent vector spans.
func (el ExtendedLetter) Dims() int {
	return len(el.exps)
}

// Exp returns the exponent of the 1-based dimension dim, zero for
// dimensions beyond the stored vector.
func (el ExtendedLetter) Exp(dim int) int {
	if dim < 1 || dim > len(el.exps) {
		return 0
	}

	return el.exps[dim-1]
}

// Weight returns the total number of letters, i.e. the sum of exponents.
func (el ExtendedLetter) Weight() int {
	w := 0
	for _, e := range el.exps {
		w += e
	}

	return w
}

// Equal reports whether both exponent mappings agree. Trailing zero
// padding is ignored.
func (el ExtendedLetter) Equal(other ExtendedLetter) bool {
	long, short := el.exps, other.exps
	if len(short) > len(long) {
		long, short = short, long
	}

	for i, e := range short {
		if long[i] != e {
			return false
		}
	}

	for _, e := range long[len(short):] {
		if e != 0 {
			return false
		}
	}

	return true
}

// Copy returns an extended letter sharing no state with the original.
func (el ExtendedLetter) Copy() ExtendedLetter {
	exps := make([]int, len(el.exps))
	copy(exps, el.exps)

	return ExtendedLetter{exps: exps}
}

// pad grows the exponent vector to dims entries, zero-filling new slots.
func (el *ExtendedLetter) pad(dims int) {
	for len(el.exps) < dims {
		el.exps = append(el.exps, 0)
	}
}

// String renders the canonical bracket form, digits in ascending
// dimension order repeated by exponent, e.g. [122] for x1*x2^2.
func (el ExtendedLetter) String() string {
	var sb strings.Builder

	sb.WriteByte('[')

	for d, e := range el.exps {
		for ; e > 0; e-- {
			// Dimensions beyond 9 cannot be spelled as a single digit.
			if d < 9 {
				sb.WriteByte(byte('1' + d))
			} else {
				sb.WriteString("(" + strconv.Itoa(d+1) + ")")
			}
		}
	}

	sb.WriteByte(']')

	return sb.String()
}
