package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/seed"
)

func TestSeedDeriveCommandMatchesPackage(t *testing.T) {
	out, err := runCLI(t, "--format", "json",
		"seed", "derive", "--scenario-seed", "42",
		"--variant", "v1", "--branch", "main", "--domain", "plate.kinematics", "--model", "baseline",
	)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)

	expected := seed.DeriveSeed(42, ir.StreamIdentity{
		VariantID: "v1", BranchID: "main", Domain: "plate.kinematics", Model: "baseline",
	})
	assert.Equal(t, float64(expected), data["derived_seed"])
}

func TestSeedDeriveRejectsInvalidIdentity(t *testing.T) {
	_, err := runCLI(t, "seed", "derive", "--scenario-seed", "1",
		"--variant", "v1", "--branch", "main", "--domain", "", "--model", "baseline")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSeedUUIDCommandMatchesPackage(t *testing.T) {
	out, err := runCLI(t, "--format", "json", "seed", "uuid", "ds-1", "asset-A", "7")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, seed.DeterministicUUID("ds-1", "asset-A", "7"), data["uuid"])
}

func TestSeedUUIDIsDeterministicAcrossInvocations(t *testing.T) {
	out1, err := runCLI(t, "--format", "json", "seed", "uuid", "x", "y")
	require.NoError(t, err)
	out2, err := runCLI(t, "--format", "json", "seed", "uuid", "x", "y")
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}
