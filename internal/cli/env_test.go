package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is an isolated config and data directory pair for running
// commands in-process.
type testEnv struct {
	t         *testing.T
	ConfigDir string
	DataDir   string
}

// cmdResult captures one command invocation.
type cmdResult struct {
	Stdout string
	Stderr string
	Err    error
	Code   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tempDir := t.TempDir()
	env := &testEnv{
		t:         t,
		ConfigDir: filepath.Join(tempDir, "config"),
		DataDir:   filepath.Join(tempDir, "data"),
	}
	for _, key := range []string{"TABLESWAP_BACKEND", "TABLESWAP_DSN", "TABLESWAP_LOG_LEVEL", "TABLESWAP_LOG_FORMAT", "TABLESWAP_DATA_DIR", "TABLESWAP_CONFIG_DIR"} {
		t.Setenv(key, "")
	}
	require.NoError(t, os.MkdirAll(env.ConfigDir, 0o755))
	config := "backend: sqlite\ndata_dir: " + env.DataDir + "\nlog_level: warn\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.ConfigDir, "config.yaml"), []byte(config), 0o644))
	return env
}

// run executes the root command with args plus --config-dir.
func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", e.ConfigDir}, args...))
	err := root.Execute()
	return cmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Err:    err,
		Code:   exitCode(err),
	}
}

// mustRun fails the test if the command does not exit 0.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	r := e.run(args...)
	require.NoError(e.t, r.Err, "tableswap %v\nstderr: %s", args, r.Stderr)
	return r
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}
