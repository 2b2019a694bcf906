// SPDX-License-Identifier: Apache-2.0

package records_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectrakit/msmeta/internal/records"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantCount int
		wantErr   bool
	}{
		{name: "sequence", doc: "- PEPMASS: 100.5\n- compound_name: caffeine\n", wantCount: 2},
		{name: "single mapping", doc: "precursormz: \"100.5\"\nionmode: Positive\n", wantCount: 1},
		{name: "json array", doc: `[{"charge": "2+"}, {"charge": 1}]`, wantCount: 2},
		{name: "empty", doc: "", wantCount: 0},
		{name: "scalar", doc: "42", wantErr: true},
		{name: "sequence of scalars", doc: "- a\n- b\n", wantErr: true},
		{name: "invalid", doc: "a: [unclosed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := records.Decode([]byte(tt.doc))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)
		})
	}
}

func TestDecode_Values(t *testing.T) {
	got, err := records.Decode([]byte("pepmass: [120.1, 5]\nionmode: POSITIVE\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "POSITIVE", got[0]["ionmode"])
	pepmass, ok := got[0]["pepmass"].([]any)
	require.True(t, ok)
	assert.Equal(t, 120.1, pepmass[0])
}

func TestEncode(t *testing.T) {
	in := []map[string]any{{"ionmode": "positive", "precursor_mz": 100.5}}

	out, err := records.Encode(in, records.FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ionmode": "positive", "precursor_mz": 100.5}]`, string(out))

	out, err = records.Encode(in, records.FormatYAML)
	require.NoError(t, err)
	back, err := records.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "positive", back[0]["ionmode"])
	assert.Equal(t, 100.5, back[0]["precursor_mz"])

	_, err = records.Encode(in, "xml")
	require.Error(t, err)
}
