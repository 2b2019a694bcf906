// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NotAvailable is the sentinel stored for fields that are known to be missing.
const NotAvailable = "n/a"

// ionModeStep lower-cases ionmode, or sets it to NotAvailable when missing.
type ionModeStep struct{}

func (ionModeStep) Name() string {
	return "ionmode"
}

func (ionModeStep) Harmonize(m *NormalizedMap, pass *Pass) {
	raw, ok := m.lookup(IonModeKey)
	if !ok || raw == nil {
		m.store(IonModeKey, NotAvailable)
		return
	}
	s, ok := raw.(string)
	if !ok {
		pass.Logger.Warn("ionmode is not a string", zap.String("type", fmt.Sprintf("%T", raw)))
		pass.warn(fmt.Sprintf("ionmode of type %T left unchanged", raw))
		return
	}
	m.store(IonModeKey, strings.ToLower(s))
}
