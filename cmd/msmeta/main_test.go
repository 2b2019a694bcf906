// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectrakit/msmeta/internal/records"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("MSMETA_LOG_DEVELOPMENT", "false")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestHarmonizeCmd_Stdin(t *testing.T) {
	out, _, err := run(t, "- PRECURSORMZ: \"100.5\"\n  IONMODE: POSITIVE\n", "harmonize", "-o", "json")
	require.NoError(t, err)

	got, err := records.Decode([]byte(out))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 100.5, got[0]["precursor_mz"])
	assert.Equal(t, "positive", got[0]["ionmode"])
}

func TestHarmonizeCmd_FileAndKeysOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Ion Mode: POSITIVE\n"), 0o600))

	out, _, err := run(t, "", "harmonize", "--keys-only", path)
	require.NoError(t, err)

	got, err := records.Decode([]byte(out))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{"ionmode": "POSITIVE"}, got[0])
}

func TestHarmonizeCmd_Conversions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extend_defaults: true\nkey_replacements:\n  parent_mass: precursor_mz\n"), 0o600))

	out, _, err := run(t, "Parent Mass: 250.25\n", "harmonize", "--conversions", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"precursor_mz": 250.25`)
}

func TestHarmonizeCmd_Errors(t *testing.T) {
	_, _, err := run(t, "42\n", "harmonize")
	require.Error(t, err)

	_, _, err = run(t, "a: 1\n", "harmonize", "-o", "xml")
	require.Error(t, err)

	_, _, err = run(t, "", "harmonize", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRepairInchiCmd(t *testing.T) {
	out, _, err := run(t, "", "repair-inchi", "InChI=1S/CH4/h1H4")
	require.NoError(t, err)
	assert.Equal(t, "\"InChI=1S/CH4/h1H4\"\n", out)

	out, _, err = run(t, "", "repair-inchi", "--rescue-smiles=false", "InChI=CCO")
	require.NoError(t, err)
	assert.Equal(t, "\"InChI=CCO\"\n", out)

	_, _, err = run(t, "", "repair-inchi", "--obabel", filepath.Join(t.TempDir(), "no-obabel"), "InChI=CCO")
	require.Error(t, err)
}
