// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// signedCharge matches "2", "+2", "-1", "2+", "3-".
var signedCharge = regexp.MustCompile(`^([+-]?)(\d+)([+-]?)$`)

// CoerceCharge converts a charge value to a signed integer. It understands
// integers, floats without a fractional part, signed strings in either prefix
// or suffix notation and lists, of which the first element is used.
func CoerceCharge(value any) (int, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case bool:
		return 0, false
	case string:
		return parseChargeString(v)
	}
	if f, ok := numberValue(value); ok {
		return integralCharge(f)
	}
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() > 0 {
		return CoerceCharge(rv.Index(0).Interface())
	}
	return 0, false
}

func parseChargeString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if match := signedCharge.FindStringSubmatch(s); match != nil {
		prefix, digits, suffix := match[1], match[2], match[3]
		if prefix != "" && suffix != "" && prefix != suffix {
			return 0, false
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0, false
		}
		if prefix == "-" || suffix == "-" {
			n = -n
		}
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return integralCharge(f)
}

// integralCharge accepts f only when it is a whole number that fits in an int.
// float64(math.MaxInt) rounds up to 2^63, hence the exclusive upper bound.
func integralCharge(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// chargeStep rewrites charge as an int when it can be converted and leaves it
// untouched otherwise.
type chargeStep struct{}

func (chargeStep) Name() string {
	return "charge"
}

func (chargeStep) Harmonize(m *NormalizedMap, pass *Pass) {
	raw, ok := m.lookup(ChargeKey)
	if !ok || raw == nil {
		return
	}
	if _, isInt := raw.(int); isInt {
		return
	}
	charge, ok := CoerceCharge(raw)
	if !ok {
		pass.Logger.Warn("charge can't be converted to integer", zap.Any("charge", raw))
		pass.warn(fmt.Sprintf("charge %v can't be converted to integer", raw))
		return
	}
	m.store(ChargeKey, charge)
}
