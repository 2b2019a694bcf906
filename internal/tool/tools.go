// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/spectrakit/msmeta/internal/metadata"
	"github.com/spectrakit/msmeta/internal/records"
)

// MetadataHarmonizeMetadata describes the harmonize_metadata tool.
var MetadataHarmonizeMetadata = &mcp.Tool{
	Name: "harmonize_metadata",
	Description: "Normalize spectrum metadata records into canonical keys and values. " +
		"Keys are rewritten through the configured alias table (e.g. precursormz, PEPMASS, " +
		"'Precursor Mass'), precursor_mz is resolved from aliases or pepmass, ionmode is lower-cased " +
		"and charge is converted to an integer. Optionally repairs InChI fields.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"content"},
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "YAML or JSON document holding one metadata mapping or a sequence of them",
			},
			"repair_inchi": map[string]interface{}{
				"type":        "boolean",
				"description": "Also repair the inchi field of every record, rescuing SMILES stored as InChI.",
			},
		},
	},
}

// InputHarmonizeMetadata is the input for the HarmonizeMetadata tool.
type InputHarmonizeMetadata struct {
	Content     string `json:"content"`
	RepairInchi bool   `json:"repair_inchi"`
}

// OutputHarmonizeMetadata is the output for the HarmonizeMetadata tool.
type OutputHarmonizeMetadata struct {
	// Records holds the harmonized records in input order.
	Records []map[string]any `json:"records"`
	// Reports holds one harmonization report per record.
	Reports []metadata.Report `json:"reports"`
	// Errors lists records whose InChI repair failed.
	Errors []string `json:"errors,omitempty"`
}

// MetadataRepairInchi describes the repair_inchi tool.
var MetadataRepairInchi = &mcp.Tool{
	Name:        "repair_inchi",
	Description: "Repair a single InChI string into the canonical quoted \"InChI=...\" form, or n/a for empty entries.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"inchi"},
		"properties": map[string]interface{}{
			"inchi": map[string]interface{}{
				"type":        "string",
				"description": "InChI value as found in the source metadata",
			},
			"rescue_smiles": map[string]interface{}{
				"type":        "boolean",
				"description": "Convert values that look like SMILES into InChI. Defaults to true.",
			},
		},
	},
}

type InputRepairInchi struct {
	Inchi        string `json:"inchi"`
	RescueSmiles *bool  `json:"rescue_smiles,omitempty"`
}

type OutputRepairInchi struct {
	Inchi string `json:"inchi"`
}

// HarmonizeMetadata decodes the records in the input document and harmonizes them.
func (h *Harmonizer) HarmonizeMetadata(ctx context.Context, _ *mcp.CallToolRequest, input InputHarmonizeMetadata) (*mcp.CallToolResult, OutputHarmonizeMetadata, error) {
	if input.Content == "" {
		return nil, OutputHarmonizeMetadata{}, fmt.Errorf("content is required")
	}
	raw, err := records.Decode([]byte(input.Content))
	if err != nil {
		return nil, OutputHarmonizeMetadata{}, err
	}

	out := OutputHarmonizeMetadata{
		Records: make([]map[string]any, 0, len(raw)),
		Reports: make([]metadata.Report, 0, len(raw)),
	}
	for _, result := range h.HarmonizeRecords(ctx, raw, input.RepairInchi) {
		out.Records = append(out.Records, result.Record)
		out.Reports = append(out.Reports, result.Report)
		if result.Err != nil {
			out.Errors = append(out.Errors, result.Err.Error())
		}
	}
	return nil, out, nil
}

// RepairInchi repairs one InChI value. Converter failures are returned as errors.
func (h *Harmonizer) RepairInchi(ctx context.Context, _ *mcp.CallToolRequest, input InputRepairInchi) (*mcp.CallToolResult, OutputRepairInchi, error) {
	rescue := true
	if input.RescueSmiles != nil {
		rescue = *input.RescueSmiles
	}
	repaired, err := h.RepairInchiString(ctx, input.Inchi, rescue)
	if err != nil {
		return nil, OutputRepairInchi{}, err
	}
	return nil, OutputRepairInchi{Inchi: repaired}, nil
}

// Register adds every tool to server.
func (h *Harmonizer) Register(server *mcp.Server) {
	mcp.AddTool(server, MetadataHarmonizeMetadata, h.HarmonizeMetadata)
	mcp.AddTool(server, MetadataRepairInchi, h.RepairInchi)
}
