package word

import "errors"

// Generation errors.
var (
	ErrWeight = errors.New("word: weight must be positive")
	ErrDim    = errors.New("word: dimension must be between 1 and 9")
)

// SimpleWordsByWeight enumerates every simple word over dimensions
// 1..dim whose total weight (sum of all exponents) is exactly weight.
// The enumeration is deterministic: words are ordered by the ordered
// composition of the weight into extended-letter weights, then by
// exponent vector within each extended letter.
//
// For dim == 1 this yields 2^(weight-1) words, one per composition.
func SimpleWordsByWeight(weight, dim int) ([]*SimpleWord, error) {
	if weight < 1 {
		return nil, ErrWeight
	}

	if dim < 1 || dim > 9 {
		return nil, ErrDim
	}

	// Pre-compute every extended letter of weight 1..weight.
	elsByWeight := make([][]ExtendedLetter, weight+1)
	for v := 1; v <= weight; v++ {
		elsByWeight[v] = lettersOfWeight(v, dim)
	}

	var (
		words []*SimpleWord
		seq   []ExtendedLetter
	)

	var build func(remaining int)
	build = func(remaining int) {
		if remaining == 0 {
			words = append(words, fromLetters(seq))
			return
		}

		for v := 1; v <= remaining; v++ {
			for _, el := range elsByWeight[v] {
				seq = append(seq, el)
				build(remaining - v)
				seq = seq[:len(seq)-1]
			}
		}
	}

	build(weight)

	return words, nil
}

// Generate enumerates every simple word over dimensions 1..dim with at
// most maxLetters extended letters, each of weight 1..maxWeight. The
// order is deterministic: shorter words first, then by the same letter
// order as SimpleWordsByWeight.
func Generate(maxLetters, maxWeight, dim int) ([]*SimpleWord, error) {
	if maxLetters < 1 || maxWeight < 1 {
		return nil, ErrWeight
	}

	if dim < 1 || dim > 9 {
		return nil, ErrDim
	}

	var els []ExtendedLetter
	for v := 1; v <= maxWeight; v++ {
		els = append(els, lettersOfWeight(v, dim)...)
	}

	var (
		words []*SimpleWord
		seq   []ExtendedLetter
	)

	var build func(length int)
	build = func(length int) {
		if length == 0 {
			words = append(words, fromLetters(seq))
			return
		}

		for _, el := range els {
			seq = append(seq, el)
			build(length - 1)
			seq = seq[:len(seq)-1]
		}
	}

	for n := 1; n <= maxLetters; n++ {
		build(n)
	}

	return words, nil
}

// lettersOfWeight enumerates all exponent vectors over dim dimensions
// summing to weight, in lexicographic order of the vector.
func lettersOfWeight(weight, dim int) []ExtendedLetter {
	var (
		out  []ExtendedLetter
		exps = make([]int, dim)
	)

	var fill func(d, remaining int)
	fill = func(d, remaining int) {
		if d == dim-1 {
			exps[d] = remaining
			cp := make([]int, dim)
			copy(cp, exps)
			out = append(out, ExtendedLetter{exps: cp})

			return
		}

		for e := 0; e <= remaining; e++ {
			exps[d] = e
			fill(d+1, remaining-e)
		}
	}

	fill(0, weight)

	return out
}

// fromLetters assembles a SimpleWord from pre-built extended letters,
// padding all letters to a common dimension count.
func fromLetters(els []ExtendedLetter) *SimpleWord {
	maxDim := 0

	for _, el := range els {
		for d := el.Dims(); d > maxDim; d-- {
			if el.Exp(d) > 0 {
				maxDim = d
				break
			}
		}
	}

	w := &SimpleWord{maxDim: maxDim}

	for _, el := range els {
		cp := el.Copy()
		cp.pad(maxDim)

		// Drop exponent entries beyond the effective maximum so the
		// letter count matches the referenced dimensions.
		cp.exps = cp.exps[:maxDim]

		w.letters = append(w.letters, cp)
		w.name += cp.String()
	}

	return w
}
