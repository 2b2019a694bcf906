// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Format tags passed to a Converter when rescuing SMILES stored as InChI.
const (
	FormatSmiles = "smi"
	FormatInchi  = "inchi"
)

const inchiMarker = "InChI="

// Converter converts a chemical structure between notations. Implementations
// must return an error for input they cannot parse.
type Converter interface {
	Convert(ctx context.Context, text, from, to string) (string, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, text, from, to string) (string, error)

func (f ConverterFunc) Convert(ctx context.Context, text, from, to string) (string, error) {
	return f(ctx, text, from, to)
}

// emptyInchiEntries are values found in the wild that mean "no InChI".
var emptyInchiEntries = map[string]struct{}{
	"N/A":          {},
	"n/a":          {},
	"NA":           {},
	"0":            {},
	`""`:           {},
	"":             {},
	"nodata":       {},
	`"InChI=n/a"`:  {},
	`"InChI="`:     {},
	"InChI=1S/N\n": {},
	"\t\r\n":       {},
}

// smilesLeads are the payload leading characters taken as a sign that the
// field holds SMILES rather than InChI. A real InChI payload starts with a
// version number.
const smilesLeads = "CcON"

// InchiRepairer brings inchi fields into the single form "InChI=<payload>",
// quotes included, and optionally converts SMILES found in inchi fields.
type InchiRepairer struct {
	converter    Converter
	rescueSmiles bool
	logger       *zap.Logger
}

type InchiOption func(*InchiRepairer)

// WithRescueSmiles toggles SMILES rescue. It is on by default.
func WithRescueSmiles(enabled bool) InchiOption {
	return func(r *InchiRepairer) {
		r.rescueSmiles = enabled
	}
}

func WithInchiLogger(logger *zap.Logger) InchiOption {
	return func(r *InchiRepairer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewInchiRepairer creates a repairer. converter may be nil when rescue is
// disabled.
func NewInchiRepairer(converter Converter, opts ...InchiOption) *InchiRepairer {
	r := &InchiRepairer{
		converter:    converter,
		rescueSmiles: true,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// With returns a copy of r with opts applied on top of its current settings.
func (r *InchiRepairer) With(opts ...InchiOption) *InchiRepairer {
	c := *r
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// RepairString returns the repaired form of a single inchi value. Converter
// failures are returned as *ConversionError.
func (r *InchiRepairer) RepairString(ctx context.Context, inchi string) (string, error) {
	if isEmptyInchi(inchi) {
		return NotAvailable, nil
	}
	inchi = strings.NewReplacer(" ", "", "\t", "").Replace(inchi)

	lead := strings.TrimLeft(afterFirstMarker(inchi), `"`)
	if lead == "" || strings.Trim(lead, "\"\r\n") == "" {
		return NotAvailable, nil
	}

	working := inchi
	if r.rescueSmiles && strings.IndexByte(smilesLeads, lead[0]) >= 0 {
		smiles := strings.TrimSpace(strings.ReplaceAll(lead, `"`, ""))
		converted, err := r.convert(ctx, smiles)
		if err != nil {
			return "", err
		}
		r.logger.Info("rescued inchi from smiles", zap.String("smiles", smiles), zap.String("inchi", converted))
		working = converted
	}

	payload := trimInchiArtifacts(afterLastMarker(strings.TrimSpace(working)))
	if payload == "" {
		return NotAvailable, nil
	}
	return `"` + inchiMarker + payload + `"`, nil
}

// Repair rewrites the inchi field of md in place. A missing or nil field
// becomes NotAvailable; a field of an unexpected type is logged and left alone.
func (r *InchiRepairer) Repair(ctx context.Context, md *Metadata) error {
	raw, _ := md.Get(InchiKey)
	var repaired string
	switch v := raw.(type) {
	case nil:
		repaired = NotAvailable
	case string:
		var err error
		if repaired, err = r.RepairString(ctx, v); err != nil {
			return err
		}
	default:
		if f, ok := numberValue(v); ok && f == 0 {
			repaired = NotAvailable
			break
		}
		r.logger.Warn("inchi is not a string", zap.String("type", fmt.Sprintf("%T", raw)))
		return nil
	}
	md.Set(InchiKey, repaired)
	return nil
}

func (r *InchiRepairer) convert(ctx context.Context, smiles string) (string, error) {
	if r.converter == nil {
		return "", &ConversionError{Input: smiles, From: FormatSmiles, To: FormatInchi, Err: ErrNoConverter}
	}
	out, err := r.converter.Convert(ctx, smiles, FormatSmiles, FormatInchi)
	if err != nil {
		var convErr *ConversionError
		if errors.As(err, &convErr) {
			return "", err
		}
		return "", &ConversionError{Input: smiles, From: FormatSmiles, To: FormatInchi, Err: err}
	}
	if strings.TrimSpace(out) == "" {
		return "", &ConversionError{Input: smiles, From: FormatSmiles, To: FormatInchi, Err: errors.New("converter returned no output")}
	}
	return out, nil
}

func isEmptyInchi(inchi string) bool {
	if _, ok := emptyInchiEntries[inchi]; ok {
		return true
	}
	return strings.TrimSpace(inchi) == ""
}

func afterFirstMarker(s string) string {
	if _, after, found := strings.Cut(s, inchiMarker); found {
		return after
	}
	return s
}

func afterLastMarker(s string) string {
	if i := strings.LastIndex(s, inchiMarker); i >= 0 {
		return s[i+len(inchiMarker):]
	}
	return s
}

// trimInchiArtifacts drops quotes and line breaks left around a payload,
// including a literal backslash-n written by some exporters.
func trimInchiArtifacts(s string) string {
	for {
		trimmed := strings.Trim(s, "\"\r\n")
		trimmed = strings.TrimSuffix(trimmed, `\n`)
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}
