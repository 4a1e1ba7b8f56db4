// Package word implements the symbolic algebra of words over extended
// letters that drives iterated-sums signature computation.
//
// A letter references a single dimension of a multidimensional time
// series. An extended letter is an unordered multiset of letters,
// encoded as a dense exponent vector: entry d holds the number of
// occurrences of dimension d+1. A word is an ordered sequence of
// extended letters together with a per-gap decay parameter alpha.
//
// SimpleWord is the compact integer-encoded form, built from a bracket
// grammar where each group is one extended letter and each digit one
// occurrence of that dimension:
//
//	w, err := word.NewSimpleWord("[12][122]")
//
// denotes the word whose first extended letter is x1*x2 and whose second
// is x1*x2^2. Letter order inside a group is irrelevant, so
// "[12][122]" and "[21][212]" describe the same word.
//
// Words referencing arbitrary letter functions are available through
// GenericWord. Two generic words never compare equal; only SimpleWord
// carries structural value equality (see Equal).
package word
