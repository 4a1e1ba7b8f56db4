package fruit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/alienkrieg/fruits/iss"
	"github.com/alienkrieg/fruits/word"
)

// ErrConfig reports an invalid fruit configuration document.
var ErrConfig = errors.New("fruit: invalid configuration")

// UnitConfig describes one preparateur or sieve by its registered
// type name and an option map.
type UnitConfig struct {
	Type    string         `yaml:"type" json:"type"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// BranchConfig describes one branch of a fruit.
type BranchConfig struct {
	// Mode is "single" (default) or "extended".
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`

	// Decay overrides the per-gap alpha of every word when positive.
	Decay float64 `yaml:"decay,omitempty" json:"decay,omitempty"`

	Preparateurs []UnitConfig `yaml:"preparateurs,omitempty" json:"preparateurs,omitempty"`

	// Words lists simple words in bracket notation.
	Words []string `yaml:"words,omitempty" json:"words,omitempty"`

	// WordsByWeight generates all simple words of the given total
	// weight over Dimension dimensions, in addition to Words.
	WordsByWeight int `yaml:"words_by_weight,omitempty" json:"wordsByWeight,omitempty"`

	// Dimension is the dimension bound for generated words,
	// defaulting to 1.
	Dimension int `yaml:"dimension,omitempty" json:"dimension,omitempty"`

	Sieves []UnitConfig `yaml:"sieves,omitempty" json:"sieves,omitempty"`
}

// Config is a declarative description of a fruit.
type Config struct {
	Name     string         `yaml:"name" json:"name"`
	Branches []BranchConfig `yaml:"branches" json:"branches"`
}

// LoadConfigYAML decodes a YAML fruit configuration.
func LoadConfigYAML(r io.Reader) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	return &cfg, nil
}

// LoadConfigJSON decodes a JSON fruit configuration.
func LoadConfigJSON(r io.Reader) (*Config, error) {
	var cfg Config

	dec := json.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	return &cfg, nil
}

// Build constructs the configured fruit, resolving every unit through
// the registry.
func (c *Config) Build(r *Registry) (*Fruit, error) {
	if len(c.Branches) == 0 {
		return nil, fmt.Errorf("%w: no branches", ErrConfig)
	}

	f := New(c.Name)

	for i, bc := range c.Branches {
		branch := f.Branch()
		if i > 0 {
			branch = f.Fork()
		}

		if err := configureBranch(branch, bc, r); err != nil {
			return nil, fmt.Errorf("branch %d: %w", i, err)
		}
	}

	return f, nil
}

func configureBranch(b *Branch, bc BranchConfig, r *Registry) error {
	mode, err := iss.ParseMode(bc.Mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	b.SetMode(mode)

	if bc.Decay != 0 {
		b.SetDecay(bc.Decay)
	}

	for _, uc := range bc.Preparateurs {
		p, err := r.buildPreparateur(uc)
		if err != nil {
			return err
		}

		b.AddPreparateurs(p)
	}

	if err := b.AddSimpleWords(bc.Words...); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	if bc.WordsByWeight > 0 {
		dim := bc.Dimension
		if dim == 0 {
			dim = 1
		}

		ws, err := word.SimpleWordsByWeight(bc.WordsByWeight, dim)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}

		for _, w := range ws {
			b.AddWords(w)
		}
	}

	for _, uc := range bc.Sieves {
		s, err := r.buildSieve(uc)
		if err != nil {
			return err
		}

		b.AddSieves(s)
	}

	if len(b.Words()) == 0 {
		return ErrNoWords
	}

	if len(b.Sieves()) == 0 {
		return ErrNoSieves
	}

	return nil
}
