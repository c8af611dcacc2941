package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/store"
)

func TestCacheGetNotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	seedTopologyDB(t, dbPath)

	out, err := runCLI(t, "--format", "json", "cache", "get", "--db", dbPath, "--fingerprint", "absent")
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["found"])
}

func TestCacheGetThenInvalidate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	seedTopologyDB(t, dbPath)

	st, err := store.Open(dbPath, nil)
	require.NoError(t, err)
	defer st.Close()

	manifest := ir.DerivedArtifactManifest{
		Fingerprint: "fp-1", GeneratorID: "gen", GeneratorVersion: "v1",
		InputsDigest: [32]byte{1}, PayloadHash: [32]byte{2}, Size: 4, CreatedAtUnixNs: 9,
	}
	require.NoError(t, st.StoreArtifact(context.Background(), manifest, []byte("data")))

	out, err := runCLI(t, "--format", "json", "cache", "get", "--db", dbPath, "--fingerprint", "fp-1")
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["found"])
	assert.Equal(t, "gen", data["generator_id"])

	out, err = runCLI(t, "--format", "json", "cache", "invalidate", "--db", dbPath, "--fingerprint", "fp-1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data = resp.Data.(map[string]any)
	assert.Equal(t, true, data["invalidated"])

	out, err = runCLI(t, "--format", "json", "cache", "get", "--db", dbPath, "--fingerprint", "fp-1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data = resp.Data.(map[string]any)
	assert.Equal(t, false, data["found"])
}
