package incidents

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/rasa/internal/app/apptest"
	"github.com/joshsymonds/rasa/internal/catalog"
	"github.com/joshsymonds/rasa/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewCommand(apptest.Options(t, ""))
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return out.String(), err
}

func TestIncidents_List(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "dfs-001")
	assert.Contains(t, out, "DHCP Timeout Failure")
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "Total: 3 incidents (1 critical, 2 warning, 0 info)")
}

func TestIncidents_SeverityFilter(t *testing.T) {
	out, err := execute(t, "--severity", "warning")
	require.NoError(t, err)
	assert.Contains(t, out, "dhcp-002")
	assert.Contains(t, out, "cci-003")
	assert.NotContains(t, out, "dfs-001")

	out, err = execute(t, "-s", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "No incidents recorded.")

	_, err = execute(t, "-s", "severe")
	require.Error(t, err)
}

func TestIncidents_JSON(t *testing.T) {
	out, err := execute(t, "-f", "json", "-s", "critical")
	require.NoError(t, err)

	var list []models.Incident
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "dfs-001", list[0].ID)
}

func TestIncidents_Show(t *testing.T) {
	out, err := execute(t, "dfs-001")
	require.NoError(t, err)
	assert.Contains(t, out, "DFS Radar Event Detected")
	assert.Contains(t, out, "Building A - Floor 4 • 2 mins ago")
	assert.Contains(t, out, "Device Impacted\nCisco 9800-CL")
	assert.Contains(t, out, "  1. Identify if the radar event is persistent")

	_, err = execute(t, "nope-404")
	require.ErrorIs(t, err, catalog.ErrIncidentNotFound)

	_, err = execute(t, "-f", "yaml", "dfs-001")
	require.Error(t, err)
}
