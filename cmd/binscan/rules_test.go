package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRulesListCmd(t *testing.T, path, format string, tags ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	rulesPath = path
	rulesFormat = format
	rulesTags = tags
	err := runRulesList(cmd, []string{})
	return buf.String(), err
}

func TestRunRulesList(t *testing.T) {
	out, err := runRulesListCmd(t, "", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Pattern")
	assert.Contains(t, out, "elf.header")
	assert.Contains(t, out, "7F 45 4C 46 ?? ?? ??")
}

func TestRunRulesListJSON(t *testing.T) {
	out, err := runRulesListCmd(t, "", "json", "x86_64")
	require.NoError(t, err)

	var sigs []struct {
		ID      string   `json:"id"`
		Pattern string   `json:"pattern"`
		Tags    []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sigs))
	require.NotEmpty(t, sigs)
	for _, s := range sigs {
		assert.Contains(t, s.Tags, "x86_64", s.ID)
	}
}

func TestRunRulesList_Custom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte(`signatures:
  - id: custom.one
    name: Custom
    pattern: "ca fe ba be"
`), 0o644))

	out, err := runRulesListCmd(t, path, "table")
	require.NoError(t, err)
	assert.Contains(t, out, "custom.one")
	assert.Contains(t, out, "CA FE BA BE")

	_, err = runRulesListCmd(t, path, "csv")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = runRulesListCmd(t, filepath.Join(t.TempDir(), "none.yml"), "table")
	assert.ErrorContains(t, err, "loading rules")
}

func TestRunRulesList_EmptyJSON(t *testing.T) {
	out, err := runRulesListCmd(t, "", "json", "no-such-tag")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}
