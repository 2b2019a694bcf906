// SPDX-License-Identifier: Apache-2.0

package metadata_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectrakit/msmeta/internal/metadata"
)

const aceticAcidInchi = "InChI=1S/C2H4O2/c1-2(3)4/h1H3,(H,3,4)"

// fakeConverter knows a single SMILES string and counts its calls.
type fakeConverter struct {
	calls int
}

func (f *fakeConverter) Convert(_ context.Context, text, from, to string) (string, error) {
	f.calls++
	if from != metadata.FormatSmiles || to != metadata.FormatInchi {
		return "", errors.New("unexpected formats")
	}
	if text == "CC(=O)O" {
		return aceticAcidInchi + "\n", nil
	}
	return "", errors.New("0 molecules converted")
}

// ---------------------------------------------------------------------------
// InchiRepairer
// ---------------------------------------------------------------------------

func TestInchiRepairer_RepairString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "canonical unchanged", input: `"InChI=1S/CH4/h1H4"`, want: `"InChI=1S/CH4/h1H4"`},
		{name: "unquoted", input: "InChI=1S/CH4/h1H4", want: `"InChI=1S/CH4/h1H4"`},
		{name: "trailing newline", input: "InChI=1S/CH4/h1H4\n", want: `"InChI=1S/CH4/h1H4"`},
		{name: "trailing newline inside quotes", input: "\"InChI=1S/CH4/h1H4\n\"", want: `"InChI=1S/CH4/h1H4"`},
		{name: "internal spaces", input: "InChI=1S/CH4/ h1H4", want: `"InChI=1S/CH4/h1H4"`},
		{name: "payload without marker", input: "1S/CH4/h1H4", want: `"InChI=1S/CH4/h1H4"`},
		{name: "empty", input: "", want: "n/a"},
		{name: "whitespace only", input: "  \t ", want: "n/a"},
		{name: "N/A", input: "N/A", want: "n/a"},
		{name: "NA", input: "NA", want: "n/a"},
		{name: "zero", input: "0", want: "n/a"},
		{name: "nodata", input: "nodata", want: "n/a"},
		{name: "quoted empty", input: `""`, want: "n/a"},
		{name: "quoted empty inchi", input: `"InChI="`, want: "n/a"},
		{name: "unquoted empty inchi", input: "InChI=", want: "n/a"},
		{name: "inchi n/a", input: `"InChI=n/a"`, want: "n/a"},
		{name: "nitrogen placeholder", input: "InChI=1S/N\n", want: "n/a"},
	}

	repairer := metadata.NewInchiRepairer(&fakeConverter{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repairer.RepairString(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := repairer.RepairString(context.Background(), got)
			require.NoError(t, err)
			assert.Equal(t, got, again, "repair must be idempotent on its own output")
		})
	}
}

func TestInchiRepairer_RescuesSmiles(t *testing.T) {
	conv := &fakeConverter{}
	repairer := metadata.NewInchiRepairer(conv)

	got, err := repairer.RepairString(context.Background(), "InChI=CC(=O)O")
	require.NoError(t, err)
	assert.Equal(t, `"`+aceticAcidInchi+`"`, got)
	assert.Equal(t, 1, conv.calls)

	got, err = repairer.RepairString(context.Background(), `"CC(=O)O"`)
	require.NoError(t, err)
	assert.Equal(t, `"`+aceticAcidInchi+`"`, got)
}

func TestInchiRepairer_RescueDisabled(t *testing.T) {
	conv := &fakeConverter{}
	repairer := metadata.NewInchiRepairer(conv, metadata.WithRescueSmiles(false))

	got, err := repairer.RepairString(context.Background(), "InChI=CC(=O)O")
	require.NoError(t, err)
	assert.Equal(t, `"InChI=CC(=O)O"`, got)
	assert.Zero(t, conv.calls)
}

func TestInchiRepairer_ConversionFailureSurfaces(t *testing.T) {
	repairer := metadata.NewInchiRepairer(&fakeConverter{})

	_, err := repairer.RepairString(context.Background(), "InChI=C1CC(")
	require.Error(t, err)

	var convErr *metadata.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "C1CC(", convErr.Input)
	assert.Equal(t, metadata.FormatSmiles, convErr.From)
	assert.Contains(t, err.Error(), "0 molecules converted")
}

func TestInchiRepairer_NoConverter(t *testing.T) {
	repairer := metadata.NewInchiRepairer(nil)

	_, err := repairer.RepairString(context.Background(), "InChI=CCO")
	assert.ErrorIs(t, err, metadata.ErrNoConverter)

	got, err := repairer.RepairString(context.Background(), "InChI=1S/CH4/h1H4")
	require.NoError(t, err)
	assert.Equal(t, `"InChI=1S/CH4/h1H4"`, got)
}

func TestInchiRepairer_ConverterFunc(t *testing.T) {
	conv := metadata.ConverterFunc(func(_ context.Context, text, _, _ string) (string, error) {
		return "InChI=1S/" + text, nil
	})
	got, err := metadata.NewInchiRepairer(conv).RepairString(context.Background(), "OCC")
	require.NoError(t, err)
	assert.Equal(t, `"InChI=1S/OCC"`, got)
}

func TestInchiRepairer_Repair(t *testing.T) {
	repairer := metadata.NewInchiRepairer(&fakeConverter{})

	tests := []struct {
		name string
		data map[string]any
		want any
	}{
		{name: "string field", data: map[string]any{"inchi": "InChI=CC(=O)O"}, want: `"` + aceticAcidInchi + `"`},
		{name: "missing field", data: map[string]any{}, want: "n/a"},
		{name: "numeric zero", data: map[string]any{"inchi": 0}, want: "n/a"},
		{name: "unexpected type left alone", data: map[string]any{"inchi": []any{"x"}}, want: []any{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := metadata.New(tt.data)
			require.NoError(t, repairer.Repair(context.Background(), md))
			assert.Equal(t, tt.want, md.GetOr("inchi", nil))
		})
	}
}

func TestInchiRepairer_RepairLeavesFieldOnFailure(t *testing.T) {
	md := metadata.New(map[string]any{"inchi": "InChI=Cxyz"})
	err := metadata.NewInchiRepairer(&fakeConverter{}).Repair(context.Background(), md)

	require.Error(t, err)
	assert.Equal(t, "InChI=Cxyz", md.GetOr("inchi", nil))
}
