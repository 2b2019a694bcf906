// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// KeyReplacement is one ordered regex rewrite applied to every incoming key.
type KeyReplacement struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

type compiledReplacement struct {
	re          *regexp.Regexp
	replacement string
}

// KeyConfig is the key harmonization configuration of a record: ordered regex
// rewrites, an alias table and the case folding flag. A KeyConfig is never
// mutated after construction, so one value can be shared by any number of records.
type KeyConfig struct {
	aliases        map[string]string
	replacements   []KeyReplacement
	compiled       []compiledReplacement
	forceLowerCase bool
}

// defaultKeyReplacements strips whitespace and punctuation from keys.
var defaultKeyReplacements = []KeyReplacement{
	{Pattern: `\s`, Replacement: "_"},
	{Pattern: `[!?.,;:]`, Replacement: ""},
}

// defaultKeyAliases maps known alternate spellings to canonical field names.
// Lookup happens after the regex rewrites, so "Precursor Mass" arrives here as
// "precursor_mass".
var defaultKeyAliases = map[string]string{
	// Precursor m/z
	"precursormz":    PrecursorMzKey,
	"precursor_mass": PrecursorMzKey,
	"precursor_m/z":  PrecursorMzKey,
	"precursormass":  PrecursorMzKey,

	// Precursor intensity
	"precursorintensity": PrecursorIntensityKey,

	// Ion mode
	"ion_mode":        IonModeKey,
	"ionization_mode": IonModeKey,
	"polarity":        IonModeKey,

	// Charge
	"charge_state":     ChargeKey,
	"precursor_charge": ChargeKey,
	"precursorcharge":  ChargeKey,

	// Adduct
	"precursor_type": "adduct",
	"precursortype":  "adduct",
	"adduct_type":    "adduct",

	// Compound
	"name":              "compound_name",
	"compound":          "compound_name",
	"compoundname":      "compound_name",
	"molecular_formula": "formula",

	// Structure identifiers
	"inchi_key":     "inchikey",
	"inchi_string":  InchiKey,
	"smiles_string": "smiles",

	// Acquisition
	"rtinseconds":     "retention_time",
	"retentiontime":   "retention_time",
	"rt":              "retention_time",
	"collisionenergy": "collision_energy",
	"instrumenttype":  "instrument_type",
	"mslevel":         "ms_level",
}

// NewKeyConfig compiles a key configuration. Alias keys are stored lower-cased;
// replacements are applied in the given order.
func NewKeyConfig(aliases map[string]string, replacements []KeyReplacement, forceLowerCase bool) (KeyConfig, error) {
	cfg := KeyConfig{
		aliases:        make(map[string]string, len(aliases)),
		replacements:   slices.Clone(replacements),
		compiled:       make([]compiledReplacement, 0, len(replacements)),
		forceLowerCase: forceLowerCase,
	}
	for alias, canonical := range aliases {
		if canonical == "" {
			return KeyConfig{}, fmt.Errorf("%w: alias %q has an empty canonical key", ErrInvalidKeyConfig, alias)
		}
		cfg.aliases[strings.ToLower(alias)] = canonical
	}
	for _, r := range replacements {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return KeyConfig{}, fmt.Errorf("%w: pattern %q: %v", ErrInvalidKeyConfig, r.Pattern, err)
		}
		cfg.compiled = append(cfg.compiled, compiledReplacement{re: re, replacement: r.Replacement})
	}
	return cfg, nil
}

// DefaultKeyConfig returns the built-in configuration: whitespace to underscore,
// punctuation removed, lower-case keys and the default alias table.
// The tables are compiled once and the value is shared.
func DefaultKeyConfig() KeyConfig {
	return defaultKeyConfig()
}

var defaultKeyConfig = sync.OnceValue(func() KeyConfig {
	cfg, err := NewKeyConfig(defaultKeyAliases, defaultKeyReplacements, true)
	if err != nil {
		panic(err)
	}
	return cfg
})

// Aliases returns a copy of the alias table.
func (c KeyConfig) Aliases() map[string]string {
	return maps.Clone(c.aliases)
}

// Replacements returns a copy of the ordered regex rewrites.
func (c KeyConfig) Replacements() []KeyReplacement {
	return slices.Clone(c.replacements)
}

func (c KeyConfig) ForceLowerCase() bool {
	return c.forceLowerCase
}

// Normalize maps a raw key to its canonical form: regex rewrites first, then
// case folding, then alias lookup.
func (c KeyConfig) Normalize(key string) string {
	for _, r := range c.compiled {
		key = r.re.ReplaceAllString(key, r.replacement)
	}
	if c.forceLowerCase {
		key = strings.ToLower(key)
	}
	if canonical, ok := c.aliases[strings.ToLower(key)]; ok {
		return canonical
	}
	return key
}
