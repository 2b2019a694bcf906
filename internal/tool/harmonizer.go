// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spectrakit/msmeta/internal/chem"
	"github.com/spectrakit/msmeta/internal/config"
	"github.com/spectrakit/msmeta/internal/metadata"
	"github.com/spectrakit/msmeta/internal/metadata/conversions"
)

// Harmonizer applies key normalization, the harmonization pipeline and, on
// request, InChI repair to batches of raw records.
type Harmonizer struct {
	keyConfig metadata.KeyConfig
	harmonize bool
	repairer  *metadata.InchiRepairer
	logger    *zap.Logger
}

// Result is the outcome for one record of a batch.
type Result struct {
	Record map[string]any
	Report metadata.Report
	Err    error
}

// NewHarmonizer creates a Harmonizer. With harmonize false records are only
// key-normalized.
func NewHarmonizer(keyConfig metadata.KeyConfig, harmonize bool, repairer *metadata.InchiRepairer, logger *zap.Logger) *Harmonizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harmonizer{
		keyConfig: keyConfig,
		harmonize: harmonize,
		repairer:  repairer,
		logger:    logger,
	}
}

// NewHarmonizerFromConfig wires a Harmonizer from process configuration: the
// conversions file when set, otherwise the default key configuration, and an
// Open Babel converter for SMILES rescue.
func NewHarmonizerFromConfig(cfg *config.Config, logger *zap.Logger) (*Harmonizer, error) {
	keyConfig, err := KeyConfigFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	converter := chem.NewOpenBabel(cfg.ObabelPath, cfg.ConverterTimeout, logger)
	repairer := metadata.NewInchiRepairer(converter,
		metadata.WithRescueSmiles(cfg.RescueSmiles),
		metadata.WithInchiLogger(logger),
	)
	return NewHarmonizer(keyConfig, cfg.Harmonize, repairer, logger), nil
}

// KeyConfigFromConfig selects the key configuration named by cfg.
func KeyConfigFromConfig(cfg *config.Config) (metadata.KeyConfig, error) {
	if cfg.ConversionsFile != "" {
		return conversions.Load(cfg.ConversionsFile)
	}
	defaults := metadata.DefaultKeyConfig()
	if cfg.ForceLowerCase == defaults.ForceLowerCase() {
		return defaults, nil
	}
	return metadata.NewKeyConfig(defaults.Aliases(), defaults.Replacements(), cfg.ForceLowerCase)
}

// Record builds a metadata record for one raw mapping.
func (h *Harmonizer) Record(raw map[string]any) *metadata.Metadata {
	return metadata.New(raw,
		metadata.WithKeyConfig(h.keyConfig),
		metadata.WithHarmonizeDefaults(h.harmonize),
		metadata.WithLogger(h.logger),
	)
}

// HarmonizeRecords processes every record. A failing InChI repair marks only
// its own record; the rest of the batch is still processed.
func (h *Harmonizer) HarmonizeRecords(ctx context.Context, raw []map[string]any, repairInchi bool) []Result {
	results := make([]Result, 0, len(raw))
	for i, data := range raw {
		md := h.Record(data)
		var result Result
		if repairInchi {
			if err := h.repairer.Repair(ctx, md); err != nil {
				h.logger.Warn("inchi repair failed", zap.Int("record", i), zap.Error(err))
				result.Err = fmt.Errorf("record %d: %w", i, err)
			}
		}
		result.Report = md.Report()
		result.Record = md.Data()
		results = append(results, result)
	}
	return results
}

// RepairInchiString repairs a single InChI value. rescueSmiles overrides the
// configured rescue setting; the configured converter is used either way.
func (h *Harmonizer) RepairInchiString(ctx context.Context, inchi string, rescueSmiles bool) (string, error) {
	return h.repairer.With(metadata.WithRescueSmiles(rescueSmiles)).RepairString(ctx, inchi)
}
