// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"go.uber.org/zap"
)

// Canonical keys with dedicated harmonization.
const (
	PepmassKey            = "pepmass"
	PrecursorMzKey        = "precursor_mz"
	PrecursorIntensityKey = "precursor_intensity"
	IonModeKey            = "ionmode"
	ChargeKey             = "charge"
	InchiKey              = "inchi"
)

// Harmonizer repairs or derives one field of a record.
type Harmonizer interface {
	Name() string
	Harmonize(m *NormalizedMap, pass *Pass)
}

// Report summarizes the non-fatal outcomes of one harmonization pass.
type Report struct {
	PrecursorMz PrecursorMzSource `json:"precursor_mz" yaml:"precursor_mz"`
	Warnings    []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Pass carries state between the steps of a single harmonization run.
type Pass struct {
	Pepmass Pepmass
	Report  Report
	Logger  *zap.Logger
}

func (p *Pass) warn(msg string) {
	p.Report.Warnings = append(p.Report.Warnings, msg)
}

// Pipeline applies the field harmonizers in a fixed order.
type Pipeline struct {
	cfg    KeyConfig
	steps  []Harmonizer
	logger *zap.Logger
}

// NewPipeline creates a Pipeline that installs cfg on every record it runs over.
// The step order is pepmass, ionmode, precursor_mz, charge: precursor_mz needs
// the pepmass tokens for its fallback.
func NewPipeline(cfg KeyConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg: cfg,
		steps: []Harmonizer{
			pepmassStep{},
			ionModeStep{},
			precursorMzStep{},
			chargeStep{},
		},
		logger: logger,
	}
}

// Config returns the key configuration installed by Run.
func (p *Pipeline) Config() KeyConfig {
	return p.cfg
}

// Run installs the pipeline's key configuration on m, re-keys the stored
// entries and then runs every step.
func (p *Pipeline) Run(m *NormalizedMap) Report {
	m.Configure(p.cfg)
	m.Renormalize()

	pass := &Pass{Logger: p.logger}
	for _, step := range p.steps {
		step.Harmonize(m, pass)
	}
	return pass.Report
}

// Steps returns the names of the steps in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
