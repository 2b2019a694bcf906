// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/mitchellh/copystructure"
	"go.uber.org/zap"
)

// NormalizedMap stores values under canonical keys. Every key passed to Set,
// Get or Delete is normalized through the active KeyConfig first, so at most one
// entry exists per canonical key and the last write wins.
type NormalizedMap struct {
	cfg  KeyConfig
	data map[string]any
}

// NewNormalizedMap creates an empty map using cfg.
func NewNormalizedMap(cfg KeyConfig) *NormalizedMap {
	return &NormalizedMap{cfg: cfg, data: make(map[string]any)}
}

// NewNormalizedMapFrom creates a map using cfg and inserts every pair of data in
// sorted key order, so colliding keys resolve the same way on every run.
func NewNormalizedMapFrom(cfg KeyConfig, data map[string]any) *NormalizedMap {
	m := NewNormalizedMap(cfg)
	for _, key := range slices.Sorted(maps.Keys(data)) {
		m.Set(key, data[key])
	}
	return m
}

// Configure installs a new key configuration. Keys already stored are left as
// they are until Renormalize is called.
func (m *NormalizedMap) Configure(cfg KeyConfig) {
	m.cfg = cfg
}

func (m *NormalizedMap) Config() KeyConfig {
	return m.cfg
}

// Renormalize re-keys every stored entry through the active configuration.
// An entry already under its canonical key is kept when a rewritten key
// collides with it; rewritten keys are applied in sorted order.
func (m *NormalizedMap) Renormalize() {
	next := make(map[string]any, len(m.data))
	var moved []string
	for key, value := range m.data {
		if m.cfg.Normalize(key) == key {
			next[key] = value
			continue
		}
		moved = append(moved, key)
	}
	slices.Sort(moved)
	for _, key := range moved {
		canonical := m.cfg.Normalize(key)
		if _, exists := next[canonical]; exists {
			continue
		}
		next[canonical] = m.data[key]
	}
	m.data = next
}

func (m *NormalizedMap) Set(key string, value any) {
	m.data[m.cfg.Normalize(key)] = value
}

func (m *NormalizedMap) Get(key string) (any, bool) {
	value, ok := m.data[m.cfg.Normalize(key)]
	return value, ok
}

// GetOr returns the value stored under key, or def when the key is absent.
func (m *NormalizedMap) GetOr(key string, def any) any {
	if value, ok := m.Get(key); ok {
		return value
	}
	return def
}

func (m *NormalizedMap) Delete(key string) {
	delete(m.data, m.cfg.Normalize(key))
}

func (m *NormalizedMap) Len() int {
	return len(m.data)
}

// Keys returns the canonical keys in sorted order.
func (m *NormalizedMap) Keys() []string {
	return slices.Sorted(maps.Keys(m.data))
}

// All iterates over canonical key/value pairs in sorted key order.
func (m *NormalizedMap) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range m.Keys() {
			if !yield(key, m.data[key]) {
				return
			}
		}
	}
}

// Snapshot returns a deep copy of the stored data. Mutating the result never
// affects the map. A value copystructure cannot copy is returned as stored.
func (m *NormalizedMap) Snapshot() map[string]any {
	return m.snapshot(zap.NewNop())
}

func (m *NormalizedMap) snapshot(logger *zap.Logger) map[string]any {
	out := make(map[string]any, len(m.data))
	for key, value := range m.data {
		out[key] = deepCopy(value, logger)
	}
	return out
}

// Clone returns an independent copy sharing only the immutable configuration.
func (m *NormalizedMap) Clone() *NormalizedMap {
	return &NormalizedMap{cfg: m.cfg, data: m.Snapshot()}
}

// lookup and remove bypass key normalization; harmonizers use them to address
// stored keys literally.
func (m *NormalizedMap) lookup(key string) (any, bool) {
	value, ok := m.data[key]
	return value, ok
}

func (m *NormalizedMap) store(key string, value any) {
	m.data[key] = value
}

func (m *NormalizedMap) remove(key string) {
	delete(m.data, key)
}

var copyValue = copystructure.Copy

// deepCopy falls back to the stored value when it cannot be copied; the
// caller then shares it with the record.
func deepCopy(value any, logger *zap.Logger) any {
	if value == nil {
		return nil
	}
	copied, err := copyValue(value)
	if err != nil {
		logger.Warn("value can't be deep-copied, returning it shared",
			zap.String("type", fmt.Sprintf("%T", value)),
			zap.Error(err),
		)
		return value
	}
	return copied
}
