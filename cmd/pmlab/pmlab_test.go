package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"productlab-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
funnel:
  renderer: memory
initiatives:
  store: memory
`

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfigYAML), 0644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v), raw)
	return v
}

func TestDashboard(t *testing.T) {
	out, err := runCLI(t, "", "-o", "json")
	require.NoError(t, err)

	d := decode(t, out)
	persona := d["persona"].(map[string]interface{})
	assert.Equal(t, "salesLead", persona["personaKey"])

	funnel := d["funnel"].(map[string]interface{})
	assert.Equal(t, 1200000.0, funnel["baselineRevenue"])
	assert.Equal(t, 2000000.0, funnel["improvedRevenue"])
	assert.Equal(t, 800000.0, funnel["extraRevenue"])

	rows := d["initiatives"].(map[string]interface{})["rows"].([]interface{})
	require.Len(t, rows, 4)
	assert.Equal(t, "Lead focus view with simple score", rows[0].(map[string]interface{})["name"])
}

func TestDashboard_Text(t *testing.T) {
	out, err := runCLI(t, "")
	require.NoError(t, err)

	assert.Contains(t, out, "Jobs to be done")
	assert.Contains(t, out, "Extra revenue")
	assert.Contains(t, out, "Lead focus view with simple score")
	assert.Contains(t, out, "8.5")
}

func TestPersonaCmd(t *testing.T) {
	out, err := runCLI(t, "", "persona", "ae", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "key: ae")

	_, err = runCLI(t, "", "persona", "cfo")
	assert.Error(t, err)

	_, err = runCLI(t, "", "persona", "ae", "founder")
	assert.Error(t, err)
}

func TestSummarizeCmd(t *testing.T) {
	out, err := runCLI(t, "- reps chase wrong leads\n- pipeline reviews are reactive\n", "summarize", "-o", "json")
	require.NoError(t, err)
	s := decode(t, out)
	assert.Equal(t, "proposal", s["outcome"])
	assert.Equal(t, 2.0, s["bulletCount"])

	file := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("just prose"), 0644))
	out, err = runCLI(t, "", "summarize", "--file", file, "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "unstructured", decode(t, out)["outcome"])

	_, err = runCLI(t, "", "summarize", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFunnelCmd(t *testing.T) {
	out, err := runCLI(t, "", "funnel",
		"--leads", "100", "--win-rate", "10", "--improved-win-rate", "30", "--deal-value", "5000", "-o", "json")
	require.NoError(t, err)

	f := decode(t, out)
	assert.Equal(t, 50000.0, f["baselineRevenue"])
	assert.Equal(t, 150000.0, f["improvedRevenue"])
	assert.Equal(t, 100000.0, f["extraRevenue"])

	out, err = runCLI(t, "", "funnel", "--leads", "lots", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, 0.0, decode(t, out)["extraRevenue"])
}

func TestFunnelCmd_ChartDir(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "", "funnel", "--chart-dir", dir, "-o", "json")
	require.NoError(t, err)

	path, _ := decode(t, out)["chartPath"].(string)
	require.NotEmpty(t, path)
	assert.Equal(t, dir, filepath.Dir(path))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestInitiativesCmd(t *testing.T) {
	out, err := runCLI(t, "", "initiatives", "--sort", "-o", "json")
	require.NoError(t, err)

	o := decode(t, out)
	assert.Equal(t, "sort", o["action"])
	rows := o["rows"].([]interface{})
	assert.Equal(t, "In-app onboarding tour for new users", rows[0].(map[string]interface{})["name"])

	out, err = runCLI(t, "", "initiatives")
	require.NoError(t, err)
	assert.Contains(t, out, "Business value")
	assert.NotContains(t, out, "Infinity")
}

func TestRegistryCmd(t *testing.T) {
	out, err := runCLI(t, "", "registry", "validate", "--path", filepath.Join("..", "..", registry.DefaultPath))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 4 activities")

	path := filepath.Join(t.TempDir(), "registry.json")
	_, err = runCLI(t, "", "registry", "add", "--path", path,
		"--id", "lab.notes.export", "--display-name", "Export Notes", "--category", "lab")
	require.NoError(t, err)

	_, err = runCLI(t, "", "registry", "update", "--path", path,
		"--id", "lab.notes.export", "--field", "status", "--value", registry.StatusCompleted)
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.Activities, 1)
	assert.Equal(t, "lab.notes.export", reg.Activities[0].TaskType)
	assert.Equal(t, registry.StatusCompleted, reg.Activities[0].ImplementationStatus)

	_, err = runCLI(t, "", "registry", "add", "--path", path,
		"--id", "not-dotted", "--display-name", "Bad", "--category", "lab")
	assert.Error(t, err)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := runCLI(t, "", "persona", "-o", "xml")
	assert.Error(t, err)
}
