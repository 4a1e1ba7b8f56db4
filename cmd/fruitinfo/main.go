// Command fruitinfo prints the structure of a fruit configuration.
//
// Usage:
//
//	fruitinfo [flags] config-file
//
// The configuration is decoded as YAML unless the file name ends in
// .json. For every branch it prints the calculator mode, the
// preparateurs, the word set, the sieves, and the feature count.
//
// Examples:
//
//	fruitinfo pipeline.yaml
//	fruitinfo -words pipeline.yaml
//	fruitinfo pipeline.json
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alienkrieg/fruits/fruit"
	"github.com/alienkrieg/fruits/word"
)

func main() {
	words := flag.Bool("words", false, "list every word instead of the count")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fruitinfo [flags] config-file\n\n")
		fmt.Fprintf(os.Stderr, "Prints the branch structure and feature counts of a fruit configuration.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fruitinfo pipeline.yaml\n")
		fmt.Fprintf(os.Stderr, "  fruitinfo -words pipeline.json\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)

	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fruitinfo: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	var cfg *fruit.Config
	if strings.HasSuffix(path, ".json") {
		cfg, err = fruit.LoadConfigJSON(file)
	} else {
		cfg, err = fruit.LoadConfigYAML(file)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "fruitinfo: %v\n", err)
		os.Exit(1)
	}

	f, err := cfg.Build(fruit.DefaultRegistry())
	if err != nil {
		fmt.Fprintf(os.Stderr, "fruitinfo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Fruit %q: %d branches, %d features\n\n", f.Name(), len(f.Branches()), f.NFeatures())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "branch\tmode\tdecay\tpreparateurs\twords\tsieves\tfeatures")

	for i, b := range f.Branches() {
		preps := make([]string, 0, len(b.Preparateurs()))
		for _, p := range b.Preparateurs() {
			preps = append(preps, p.Name())
		}

		sieves := make([]string, 0, len(b.Sieves()))
		for _, s := range b.Sieves() {
			sieves = append(sieves, s.Name())
		}

		fmt.Fprintf(w, "%d\t%s\t%g\t%s\t%s\t%s\t%d\n",
			i,
			b.Mode(),
			b.Decay(),
			orDash(strings.Join(preps, ",")),
			wordColumn(b.Words(), *words),
			orDash(strings.Join(sieves, ",")),
			b.NFeatures(),
		)
	}

	w.Flush()
}

func wordColumn(ws []word.Word, list bool) string {
	if !list {
		return fmt.Sprintf("%d", len(ws))
	}

	names := make([]string, 0, len(ws))
	for _, w := range ws {
		names = append(names, w.String())
	}

	return strings.Join(names, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
