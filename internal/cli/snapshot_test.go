package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSaveThenGetLatest(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	seedTopologyDB(t, dbPath)

	out, err := runCLI(t, "--format", "json",
		"snapshot", "save",
		"--db", dbPath, "--kind", "topology", "--tick", "2",
		"--variant", "v1", "--branch", "main", "--domain", "plate.boundary", "--model", "baseline",
	)
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	out, err = runCLI(t, "--format", "json",
		"snapshot", "get-latest",
		"--db", dbPath, "--kind", "topology", "--before-tick", "5",
		"--variant", "v1", "--branch", "main", "--domain", "plate.boundary", "--model", "baseline",
	)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["found"])
	assert.Equal(t, float64(2), data["tick"])
}

func TestSnapshotGetLatestNotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	seedTopologyDB(t, dbPath)

	out, err := runCLI(t, "--format", "json",
		"snapshot", "get-latest",
		"--db", dbPath, "--kind", "kinematics", "--before-tick", "5",
		"--variant", "v1", "--branch", "main", "--domain", "plate.boundary", "--model", "baseline",
	)
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["found"])
}

func TestSnapshotRejectsUnknownKind(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	seedTopologyDB(t, dbPath)

	_, err := runCLI(t,
		"snapshot", "save",
		"--db", dbPath, "--kind", "sideways", "--tick", "2",
		"--variant", "v1", "--branch", "main", "--domain", "plate.boundary", "--model", "baseline",
	)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
