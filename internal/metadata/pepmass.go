// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// Pepmass is the decoded form of a composite pepmass field: a mass token,
// then optional intensity and charge tokens. Tokens are kept as found.
type Pepmass struct {
	Mass      any
	Intensity any
	Charge    any
}

// HasMass reports whether a mass token was found.
func (p Pepmass) HasMass() bool {
	return p.Mass != nil
}

// InterpretPepmass splits a raw pepmass value into its tokens. It accepts a
// scalar, a slice or array of up to three tokens, or a string such as
// "412.2 1500 2+" or "(412.2, 1500)". Anything else yields an empty Pepmass.
func InterpretPepmass(value any) Pepmass {
	tokens := pepmassTokens(value)
	var p Pepmass
	if len(tokens) > 0 {
		p.Mass = tokens[0]
	}
	if len(tokens) > 1 {
		p.Intensity = tokens[1]
	}
	if len(tokens) > 2 {
		p.Charge = tokens[2]
	}
	return p
}

func pepmassTokens(value any) []any {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok {
		s = strings.Trim(strings.TrimSpace(s), "()[]")
		fields := strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		tokens := make([]any, 0, len(fields))
		for _, f := range fields {
			tokens = append(tokens, f)
		}
		return tokens
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		tokens := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			tokens = append(tokens, rv.Index(i).Interface())
		}
		return tokens
	case reflect.Map, reflect.Struct, reflect.Func, reflect.Chan, reflect.Pointer:
		return nil
	}
	return []any{value}
}

// pepmassStep records the pepmass tokens on the pass and fills
// precursor_intensity and charge from them when those fields are missing.
// It never writes precursor_mz.
type pepmassStep struct{}

func (pepmassStep) Name() string {
	return "pepmass"
}

func (pepmassStep) Harmonize(m *NormalizedMap, pass *Pass) {
	raw, ok := m.lookup(PepmassKey)
	if !ok || raw == nil {
		return
	}
	pass.Pepmass = InterpretPepmass(raw)
	if !pass.Pepmass.HasMass() {
		pass.Logger.Warn("pepmass field holds no usable mass")
		pass.warn("pepmass field holds no usable mass")
		return
	}
	if intensity, ok := toFloat(pass.Pepmass.Intensity); ok {
		if _, exists := m.lookup(PrecursorIntensityKey); !exists {
			m.store(PrecursorIntensityKey, intensity)
		}
	}
	if pass.Pepmass.Charge != nil {
		if _, exists := m.lookup(ChargeKey); !exists {
			if charge, ok := CoerceCharge(pass.Pepmass.Charge); ok {
				m.store(ChargeKey, charge)
			} else {
				pass.Logger.Warn("pepmass charge can't be converted to integer", zap.Any("charge", pass.Pepmass.Charge))
				pass.warn(fmt.Sprintf("pepmass charge %v can't be converted to integer", pass.Pepmass.Charge))
			}
		}
	}
}
