// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// precursorMzAliases are searched after PrecursorMzKey, in this order.
var precursorMzAliases = []string{"precursormz", "precursor_mass"}

// missingEntries are string values that mean "no value".
var missingEntries = map[string]struct{}{
	"":    {},
	"N/A": {},
	"NA":  {},
	"n/a": {},
}

// PrecursorMzSource tells how precursor_mz was resolved during a pass.
type PrecursorMzSource string

const (
	PrecursorMzFromField   PrecursorMzSource = "field"
	PrecursorMzFromPepmass PrecursorMzSource = "pepmass"
	PrecursorMzNotFound    PrecursorMzSource = "not_found"
)

// CoercePrecursorMz converts a precursor m/z candidate to float64. Missing
// values, missing-entry strings, unparsable strings and unsupported types all
// report false; the last two are logged.
func CoercePrecursorMz(value any, logger *zap.Logger) (float64, bool) {
	if value == nil {
		return 0, false
	}
	if s, ok := value.(string); ok {
		if _, missing := missingEntries[s]; missing {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			logger.Warn("precursor_mz can't be converted to float", zap.String("value", s))
			return 0, false
		}
		return f, true
	}
	if f, ok := numberValue(value); ok {
		return f, true
	}
	logger.Warn("found precursor_mz of undefined type", zap.String("type", fmt.Sprintf("%T", value)))
	return 0, false
}

// precursorMzStep resolves precursor_mz from the canonical key, its aliases or,
// failing those, the pepmass mass token.
type precursorMzStep struct{}

func (precursorMzStep) Name() string {
	return "precursor_mz"
}

func (precursorMzStep) Harmonize(m *NormalizedMap, pass *Pass) {
	for _, key := range append([]string{PrecursorMzKey}, precursorMzAliases...) {
		raw, ok := m.lookup(key)
		if !ok {
			continue
		}
		if mz, ok := CoercePrecursorMz(raw, pass.Logger); ok {
			m.store(PrecursorMzKey, mz)
			for _, alias := range precursorMzAliases {
				m.remove(alias)
			}
			pass.Report.PrecursorMz = PrecursorMzFromField
			return
		}
		// first present key decides; a bad value there falls through to pepmass
		break
	}

	if pass.Pepmass.HasMass() {
		if mz, ok := CoercePrecursorMz(pass.Pepmass.Mass, pass.Logger); ok {
			m.store(PrecursorMzKey, mz)
			for _, alias := range precursorMzAliases {
				m.remove(alias)
			}
			pass.Logger.Info("added precursor_mz entry based on field 'pepmass'", zap.Float64("precursor_mz", mz))
			pass.Report.PrecursorMz = PrecursorMzFromPepmass
			return
		}
	}

	pass.Logger.Warn("no precursor_mz found in metadata")
	pass.warn("no precursor_mz found in metadata")
	pass.Report.PrecursorMz = PrecursorMzNotFound
}
