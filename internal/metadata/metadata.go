// SPDX-License-Identifier: Apache-2.0

// Package metadata normalizes spectrum metadata: keys are rewritten into a
// canonical vocabulary on write and a fixed pipeline of field harmonizers
// repairs precursor m/z, ion mode and charge values.
package metadata

import (
	"fmt"
	"iter"
	"math"
	"reflect"

	"go.uber.org/zap"
)

// Metadata is the metadata record of one spectrum.
type Metadata struct {
	data              *NormalizedMap
	pipeline          *Pipeline
	harmonizeDefaults bool
	logger            *zap.Logger
	report            Report
}

type options struct {
	keyConfig         *KeyConfig
	harmonizeDefaults bool
	logger            *zap.Logger
}

type Option func(*options)

// WithKeyConfig sets the key configuration. DefaultKeyConfig is used otherwise.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(o *options) {
		o.keyConfig = &cfg
	}
}

// WithHarmonizeDefaults controls whether the pipeline runs at construction and
// after every Set. It is on by default.
func WithHarmonizeDefaults(enabled bool) Option {
	return func(o *options) {
		o.harmonizeDefaults = enabled
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New builds a record from data. A nil map yields an empty record.
func New(data map[string]any, opts ...Option) *Metadata {
	o := options{harmonizeDefaults: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	cfg := DefaultKeyConfig()
	if o.keyConfig != nil {
		cfg = *o.keyConfig
	}

	m := &Metadata{
		data:              NewNormalizedMapFrom(cfg, data),
		pipeline:          NewPipeline(cfg, o.logger),
		harmonizeDefaults: o.harmonizeDefaults,
		logger:            o.logger,
	}
	if m.harmonizeDefaults {
		m.Harmonize()
	}
	return m
}

// FromValue builds a record from an untyped value: nil, a string-keyed map or
// another *Metadata. Any other value is a programming error and is rejected
// with ErrInvalidMetadata.
func FromValue(value any, opts ...Option) (*Metadata, error) {
	switch v := value.(type) {
	case nil:
		return New(nil, opts...), nil
	case map[string]any:
		return New(v, opts...), nil
	case map[string]string:
		data := make(map[string]any, len(v))
		for key, s := range v {
			data[key] = s
		}
		return New(data, opts...), nil
	case *Metadata:
		if v == nil {
			return New(nil, opts...), nil
		}
		return New(v.Data(), opts...), nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrInvalidMetadata, value)
}

// Harmonize runs the pipeline over the record and returns its report.
func (m *Metadata) Harmonize() Report {
	m.report = m.pipeline.Run(m.data)
	return m.report
}

// Report returns the report of the latest harmonization pass.
func (m *Metadata) Report() Report {
	return m.report
}

// Configure installs a new key configuration for later writes and
// harmonization passes. Stored keys are re-keyed on the next Harmonize.
func (m *Metadata) Configure(cfg KeyConfig) {
	m.data.Configure(cfg)
	m.pipeline = NewPipeline(cfg, m.logger)
}

func (m *Metadata) KeyConfig() KeyConfig {
	return m.data.Config()
}

// Get returns an independent copy of the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	value, ok := m.data.Get(key)
	if !ok {
		return nil, false
	}
	return deepCopy(value, m.logger), true
}

// GetOr returns the value stored under key, or def when absent.
func (m *Metadata) GetOr(key string, def any) any {
	if value, ok := m.Get(key); ok {
		return value
	}
	return def
}

// Set stores value under the canonical form of key and re-harmonizes the record
// when harmonization on set is enabled.
func (m *Metadata) Set(key string, value any) *Metadata {
	m.data.Set(key, value)
	if m.harmonizeDefaults {
		m.Harmonize()
	}
	return m
}

func (m *Metadata) Len() int {
	return m.data.Len()
}

// Keys returns the canonical keys in sorted order.
func (m *Metadata) Keys() []string {
	return m.data.Keys()
}

// Values returns the values in key order.
func (m *Metadata) Values() []any {
	values := make([]any, 0, m.data.Len())
	for _, value := range m.data.All() {
		values = append(values, deepCopy(value, m.logger))
	}
	return values
}

// Items iterates over key/value pairs in key order.
func (m *Metadata) Items() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for key, value := range m.data.All() {
			if !yield(key, deepCopy(value, m.logger)) {
				return
			}
		}
	}
}

// Data returns an independent deep copy of the stored data.
func (m *Metadata) Data() map[string]any {
	return m.data.snapshot(m.logger)
}

// SetData replaces the stored data wholesale. Keys are normalized on the way
// in; no harmonization pass is run.
func (m *Metadata) SetData(data map[string]any) {
	m.data = NewNormalizedMapFrom(m.data.Config(), data)
}

// Equal reports whether both records hold the same canonical keys with equal
// values. Slices and arrays are compared element by element and numbers by
// value regardless of their Go type.
func (m *Metadata) Equal(other *Metadata) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.data.Len() != other.data.Len() {
		return false
	}
	for key, value := range m.data.All() {
		otherValue, ok := other.data.lookup(key)
		if !ok || !valuesEqual(value, otherValue) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if fa, ok := numberValue(a); ok {
		if fb, ok := numberValue(b); ok {
			return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
		}
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if isSequence(va) && isSequence(vb) {
		if va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !valuesEqual(va.Index(i).Interface(), vb.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	if ma, ok := a.(map[string]any); ok {
		mb, ok := b.(map[string]any)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for key, va := range ma {
			vb, ok := mb[key]
			if !ok || !valuesEqual(va, vb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func isSequence(v reflect.Value) bool {
	return v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array)
}
