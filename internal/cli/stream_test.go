package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneDraftJSON = `[
	{"tick": 10, "kind": "PlateCreated", "fields": {"plate_id": "pacific"}}
]`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestStreamAppendThenHead(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	draftsPath := filepath.Join(t.TempDir(), "drafts.json")
	require.NoError(t, os.WriteFile(draftsPath, []byte(oneDraftJSON), 0o644))

	out, err := runCLI(t, "--format", "json",
		"stream", "append",
		"--db", dbPath, "--file", draftsPath,
		"--variant", "v1", "--branch", "main", "--domain", "plate.boundary", "--model", "baseline",
	)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	out, err = runCLI(t, "--format", "json",
		"stream", "head",
		"--db", dbPath,
		"--variant", "v1", "--branch", "main", "--domain", "plate.boundary", "--model", "baseline",
	)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(0), data["sequence"])
}

func TestStreamAppendRejectedUnderTickPolicyReject(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	draftsPath := filepath.Join(t.TempDir(), "drafts.json")
	require.NoError(t, os.WriteFile(draftsPath, []byte(`[
		{"tick": 10, "kind": "PlateCreated", "fields": {"plate_id": "a"}},
		{"tick": 5, "kind": "PlateCreated", "fields": {"plate_id": "b"}}
	]`), 0o644))

	_, err := runCLI(t,
		"stream", "append",
		"--db", dbPath, "--file", draftsPath, "--tick-policy", "Reject",
		"--variant", "v1", "--branch", "main", "--domain", "plate.boundary", "--model", "baseline",
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestStreamAppendRejectsUnknownPayloadKind(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	draftsPath := filepath.Join(t.TempDir(), "drafts.json")
	require.NoError(t, os.WriteFile(draftsPath, []byte(`[{"tick": 0, "kind": "NotAKind", "fields": {}}]`), 0o644))

	_, err := runCLI(t,
		"stream", "append",
		"--db", dbPath, "--file", draftsPath,
		"--variant", "v1", "--branch", "main", "--domain", "plate.boundary", "--model", "baseline",
	)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStreamHeadRejectsInvalidIdentity(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	_, err := runCLI(t, "stream", "head", "--db", dbPath,
		"--variant", "v1", "--branch", "main", "--domain", "", "--model", "baseline")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
