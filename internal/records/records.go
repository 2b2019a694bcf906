// SPDX-License-Identifier: Apache-2.0

// Package records reads and writes documents holding metadata records: a YAML
// or JSON sequence of mappings, or a single mapping.
package records

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format names accepted by Encode.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Decode parses a document into raw records. JSON is accepted as a subset of YAML.
func Decode(data []byte) ([]map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}

	switch v := doc.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, item := range v {
			record, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("record %d: expected a mapping, got %T", i, item)
			}
			out = append(out, record)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a mapping or a sequence of mappings, got %T", doc)
}

// Encode renders records in the given format.
func Encode(records []map[string]any, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatYAML, "yml":
		out, err := yaml.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal records: %w", err)
		}
		return out, nil
	case FormatJSON:
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal records: %w", err)
		}
		return append(out, '\n'), nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}
