package fruit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxminYAML = `
name: maxmin
branches:
  - words: ["[1]", "[2]", "[11]"]
    sieves:
      - type: max
  - words: ["[12]", "[1][1]", "[1][2]"]
    sieves:
      - type: min
`

func TestConfig_YAMLBuild(t *testing.T) {
	cfg, err := LoadConfigYAML(strings.NewReader(maxminYAML))
	require.NoError(t, err)
	assert.Equal(t, "maxmin", cfg.Name)
	require.Len(t, cfg.Branches, 2)

	f, err := cfg.Build(DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, "maxmin", f.Name())
	assert.Equal(t, 6, f.NFeatures())

	features, err := f.FitTransform(dataset)
	require.NoError(t, err)

	assertMatrix(t, [][]float64{
		{1.8, 3, 50.64, -8, 13.44, -11.2},
		{21, -5, 129, -44, 25, -276.5},
	}, features)
}

func TestConfig_JSONBuild(t *testing.T) {
	doc := `{
		"name": "ppv",
		"branches": [{
			"preparateurs": [{"type": "inc"}],
			"words": ["[1]"],
			"sieves": [{
				"type": "ppv",
				"options": {"thresholds": [0], "constant": true}
			}]
		}]
	}`

	cfg, err := LoadConfigJSON(strings.NewReader(doc))
	require.NoError(t, err)

	f, err := cfg.Build(DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, 1, f.NFeatures())

	// Zero-padded increments make the [1]-signature x(t) - x(0); the
	// proportion of non-negative values is 1 and 3/5 per sample.
	features, err := f.FitTransform(dataset)
	require.NoError(t, err)
	assertMatrix(t, [][]float64{{1}, {0.6}}, features)
}

func TestConfig_GeneratedWords(t *testing.T) {
	doc := `
name: generated
branches:
  - mode: extended
    words_by_weight: 2
    dimension: 2
    sieves:
      - type: end
`

	cfg, err := LoadConfigYAML(strings.NewReader(doc))
	require.NoError(t, err)

	f, err := cfg.Build(DefaultRegistry())
	require.NoError(t, err)

	// Seven words of weight two over two dimensions: three of one
	// letter, four of two letters, so extended mode yields 3 + 2*4
	// channels.
	assert.Equal(t, 11, f.NFeatures())
}

func TestConfig_Errors(t *testing.T) {
	r := DefaultRegistry()

	_, err := (&Config{Name: "empty"}).Build(r)
	assert.ErrorIs(t, err, ErrConfig)

	cfg := &Config{Name: "bad", Branches: []BranchConfig{{
		Words:  []string{"[1]"},
		Sieves: []UnitConfig{{Type: "nope"}},
	}}}
	_, err = cfg.Build(r)
	assert.ErrorIs(t, err, ErrUnknownType)

	cfg = &Config{Name: "bad", Branches: []BranchConfig{{
		Words:  []string{"[0]"},
		Sieves: []UnitConfig{{Type: "max"}},
	}}}
	_, err = cfg.Build(r)
	assert.ErrorIs(t, err, ErrConfig)

	cfg = &Config{Name: "bad", Branches: []BranchConfig{{
		Mode:   "sideways",
		Words:  []string{"[1]"},
		Sieves: []UnitConfig{{Type: "max"}},
	}}}
	_, err = cfg.Build(r)
	assert.ErrorIs(t, err, ErrConfig)

	cfg = &Config{Name: "bad", Branches: []BranchConfig{{
		Words: []string{"[1]"},
	}}}
	_, err = cfg.Build(r)
	assert.ErrorIs(t, err, ErrNoSieves)

	cfg = &Config{Name: "bad", Branches: []BranchConfig{{
		Sieves: []UnitConfig{{Type: "max"}},
	}}}
	_, err = cfg.Build(r)
	assert.ErrorIs(t, err, ErrNoWords)

	_, err = LoadConfigYAML(strings.NewReader("{"))
	assert.ErrorIs(t, err, ErrConfig)

	_, err = LoadConfigJSON(strings.NewReader("{"))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestRegistry_Registration(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterSieve("max", DefaultRegistry().sieves["max"]))
	assert.Error(t, r.RegisterSieve("max", DefaultRegistry().sieves["max"]))
	assert.Error(t, r.RegisterSieve("", DefaultRegistry().sieves["max"]))
	assert.Error(t, r.RegisterSieve("min", nil))

	require.NoError(t, r.RegisterPreparateur("inc", DefaultRegistry().preps["inc"]))
	assert.Error(t, r.RegisterPreparateur("inc", DefaultRegistry().preps["inc"]))
}
