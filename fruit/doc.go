// Package fruit assembles feature extraction pipelines from
// preparateurs, words, and sieves.
//
// A Fruit owns one or more branches. Each Branch is a linear pipeline:
// preparateurs transform the dataset in order, an iterated-sums
// calculator turns it into one array per word, and fitted sieves
// reduce every array channel to features. Fork adds a branch and moves
// the configuration cursor to it:
//
//	f := fruit.New("example")
//	f.Branch().AddWords(word.MustSimpleWord("[1]"))
//	f.Branch().AddSieves(maxSieve)
//
//	f.Fork()
//	f.Branch().AddPreparateurs(prep.NewINC(true))
//	f.Branch().AddWords(word.MustSimpleWord("[11]"))
//	f.Branch().AddSieves(minSieve)
//
//	features, err := f.FitTransform(x)
//
// The feature matrix concatenates branch outputs in branch order; a
// branch orders its columns by word, channel, sieve, and feature
// index. Pipelines can also be described declaratively in YAML or
// JSON and built through a Registry of unit factories.
package fruit
