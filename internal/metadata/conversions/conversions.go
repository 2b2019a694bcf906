// SPDX-License-Identifier: Apache-2.0

// Package conversions loads key-conversion tables (aliases and ordered regex
// rewrites) from YAML or JSON documents and turns them into a metadata.KeyConfig.
package conversions

import (
	"fmt"
	"maps"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/goccy/go-yaml"

	"github.com/spectrakit/msmeta/internal/metadata"
)

// schema describes a conversions document. Definitions are closed, so unknown
// top-level fields are rejected.
const schema = `
#Conversions: {
	force_lower_case?: bool
	extend_defaults?:  bool
	key_replacements?: {[string]: string & !=""}
	key_regex_replacements?: [...{
		pattern:     string & !=""
		replacement: *"" | string
	}]
}
`

// Document is the decoded form of a conversions file.
//
//	extend_defaults: true
//	key_replacements:
//	  parent_mass: precursor_mz
//	key_regex_replacements:
//	  - pattern: '\s'
//	    replacement: _
type Document struct {
	ForceLowerCase       *bool                     `yaml:"force_lower_case" json:"force_lower_case"`
	ExtendDefaults       bool                      `yaml:"extend_defaults" json:"extend_defaults"`
	KeyReplacements      map[string]string         `yaml:"key_replacements" json:"key_replacements"`
	KeyRegexReplacements []metadata.KeyReplacement `yaml:"key_regex_replacements" json:"key_regex_replacements"`
}

// Parse validates and decodes a conversions document and builds the key
// configuration it describes.
func Parse(data []byte) (metadata.KeyConfig, error) {
	if err := Validate(data); err != nil {
		return metadata.KeyConfig{}, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return metadata.KeyConfig{}, fmt.Errorf("failed to unmarshal conversions: %w", err)
	}
	return doc.KeyConfig()
}

// Load reads and parses the conversions document at path.
func Load(path string) (metadata.KeyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return metadata.KeyConfig{}, fmt.Errorf("failed to read conversions %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return metadata.KeyConfig{}, fmt.Errorf("conversions %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks data against the conversions schema.
func Validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal conversions: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	ctx := cuecontext.New()
	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Conversions"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("conversions schema: %w", err)
	}
	value := def.Unify(ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", metadata.ErrInvalidKeyConfig, err)
	}
	return nil
}

// KeyConfig builds the configuration described by the document. With
// ExtendDefaults the document's aliases override the defaults and its regex
// rewrites run after the default ones.
func (d Document) KeyConfig() (metadata.KeyConfig, error) {
	forceLowerCase := true
	if d.ForceLowerCase != nil {
		forceLowerCase = *d.ForceLowerCase
	}

	aliases := map[string]string{}
	var replacements []metadata.KeyReplacement
	if d.ExtendDefaults {
		defaults := metadata.DefaultKeyConfig()
		aliases = defaults.Aliases()
		replacements = defaults.Replacements()
	}
	maps.Copy(aliases, d.KeyReplacements)
	replacements = append(replacements, d.KeyRegexReplacements...)

	return metadata.NewKeyConfig(aliases, replacements, forceLowerCase)
}
