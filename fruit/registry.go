package fruit

import (
	"errors"
	"fmt"

	"github.com/alienkrieg/fruits/prep"
	"github.com/alienkrieg/fruits/sieve"
)

var (
	// ErrUnknownType reports a unit type without a registered factory.
	ErrUnknownType = errors.New("fruit: unknown unit type")

	errDuplicateUnit = errors.New("fruit: duplicate unit type")
)

// Options holds the decoded option map of one pipeline unit. Numeric
// values arrive as int or float64 depending on the decoder.
type Options map[string]any

// Num extracts a numeric option, returning def if missing.
func (o Options) Num(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}

	return def
}

// Bool extracts a boolean option, returning def if missing.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}

	return def
}

// Nums extracts a numeric list option, or nil if missing.
func (o Options) Nums(key string) []float64 {
	list, ok := o[key].([]any)
	if !ok {
		return nil
	}

	out := make([]float64, 0, len(list))

	for _, item := range list {
		switch v := item.(type) {
		case float64:
			out = append(out, v)
		case int:
			out = append(out, float64(v))
		}
	}

	return out
}

// PreparateurFactory builds one preparateur from its options.
type PreparateurFactory func(opts Options) (prep.Preparateur, error)

// SieveFactory builds one sieve from its options.
type SieveFactory func(opts Options) (sieve.Sieve, error)

// Registry maps unit type names to their factories.
type Registry struct {
	preps  map[string]PreparateurFactory
	sieves map[string]SieveFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		preps:  make(map[string]PreparateurFactory),
		sieves: make(map[string]SieveFactory),
	}
}

// RegisterPreparateur adds a preparateur factory for the given type
// name.
func (r *Registry) RegisterPreparateur(name string, factory PreparateurFactory) error {
	if name == "" {
		return errors.New("fruit: empty unit type")
	}

	if factory == nil {
		return errors.New("fruit: nil factory")
	}

	if _, exists := r.preps[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateUnit, name)
	}

	r.preps[name] = factory

	return nil
}

// MustRegisterPreparateur is like RegisterPreparateur but panics on
// error.
func (r *Registry) MustRegisterPreparateur(name string, factory PreparateurFactory) {
	if err := r.RegisterPreparateur(name, factory); err != nil {
		panic("fruit registry: " + err.Error())
	}
}

// RegisterSieve adds a sieve factory for the given type name.
func (r *Registry) RegisterSieve(name string, factory SieveFactory) error {
	if name == "" {
		return errors.New("fruit: empty unit type")
	}

	if factory == nil {
		return errors.New("fruit: nil factory")
	}

	if _, exists := r.sieves[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateUnit, name)
	}

	r.sieves[name] = factory

	return nil
}

// MustRegisterSieve is like RegisterSieve but panics on error.
func (r *Registry) MustRegisterSieve(name string, factory SieveFactory) {
	if err := r.RegisterSieve(name, factory); err != nil {
		panic("fruit registry: " + err.Error())
	}
}

func (r *Registry) buildPreparateur(u UnitConfig) (prep.Preparateur, error) {
	factory, ok := r.preps[u.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, u.Type)
	}

	return factory(Options(u.Options))
}

func (r *Registry) buildSieve(u UnitConfig) (sieve.Sieve, error) {
	factory, ok := r.sieves[u.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, u.Type)
	}

	return factory(Options(u.Options))
}

// thresholdOptions decodes the shared threshold configuration of the
// quantile-based sieves: a "thresholds" list interpreted as constants
// or quantile probabilities per the "constant" flag, plus
// "sample_size", "segments", and "seed".
func thresholdOptions(o Options) ([]sieve.Threshold, sieve.QuantileOptions) {
	values := o.Nums("thresholds")
	if values == nil {
		values = []float64{0.5}
	}

	constant := o.Bool("constant", false)

	ths := make([]sieve.Threshold, len(values))
	for i, v := range values {
		if constant {
			ths[i] = sieve.Const(v)
		} else {
			ths[i] = sieve.Quantile(v)
		}
	}

	opts := sieve.DefaultQuantileOptions()
	opts.SampleSize = o.Num("sample_size", opts.SampleSize)
	opts.Segments = o.Bool("segments", false)
	opts.Seed = int64(o.Num("seed", 0))

	return ths, opts
}

// DefaultRegistry returns a Registry pre-populated with all built-in
// preparateurs and sieves.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegisterPreparateur("inc", func(o Options) (prep.Preparateur, error) {
		return prep.NewINC(o.Bool("zero_padding", true)), nil
	})
	r.MustRegisterPreparateur("std", func(_ Options) (prep.Preparateur, error) {
		return prep.NewSTD(), nil
	})
	r.MustRegisterPreparateur("one", func(_ Options) (prep.Preparateur, error) {
		return prep.NewONE(), nil
	})
	r.MustRegisterPreparateur("lag", func(_ Options) (prep.Preparateur, error) {
		return prep.NewLAG(), nil
	})
	r.MustRegisterPreparateur("mav", func(o Options) (prep.Preparateur, error) {
		return prep.NewMAV(o.Num("window", 5))
	})
	r.MustRegisterPreparateur("dil", func(o Options) (prep.Preparateur, error) {
		return prep.NewDIL(o.Num("clusters", 0), int64(o.Num("seed", 0)))
	})
	r.MustRegisterPreparateur("win", func(o Options) (prep.Preparateur, error) {
		return prep.NewWIN(o.Num("start", 0), o.Num("end", 1))
	})
	r.MustRegisterPreparateur("dot", func(o Options) (prep.Preparateur, error) {
		return prep.NewDOT(o.Num("stride", 2))
	})
	r.MustRegisterPreparateur("smo", func(o Options) (prep.Preparateur, error) {
		return prep.NewSMO(o.Num("cutoff", 0.5))
	})

	r.MustRegisterSieve("ppv", func(o Options) (sieve.Sieve, error) {
		ths, opts := thresholdOptions(o)
		return sieve.NewPPV(ths, opts)
	})
	r.MustRegisterSieve("cpv", func(o Options) (sieve.Sieve, error) {
		ths, opts := thresholdOptions(o)
		return sieve.NewCPV(ths, opts)
	})
	r.MustRegisterSieve("pia", func(o Options) (sieve.Sieve, error) {
		ths, opts := thresholdOptions(o)
		return sieve.NewPIA(ths, opts)
	})
	r.MustRegisterSieve("lcs", func(o Options) (sieve.Sieve, error) {
		ths, opts := thresholdOptions(o)
		return sieve.NewLCS(ths, opts)
	})
	r.MustRegisterSieve("max", func(o Options) (sieve.Sieve, error) {
		return sieve.NewMAX(o.Nums("cuts"), o.Bool("segments", false))
	})
	r.MustRegisterSieve("min", func(o Options) (sieve.Sieve, error) {
		return sieve.NewMIN(o.Nums("cuts"), o.Bool("segments", false))
	})
	r.MustRegisterSieve("end", func(o Options) (sieve.Sieve, error) {
		return sieve.NewEND(o.Nums("cuts"))
	})

	return r
}
