package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// newWorkspace returns a config file pointing at a private state file and
// a root directory with the config already applied
func newWorkspace(t *testing.T) (cfgPath, root string) {
	t.Helper()
	dir := t.TempDir()
	root = filepath.Join(dir, "root")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), nil, 0o644))

	cfgPath = filepath.Join(dir, "fstree.json")
	cfg := fmt.Sprintf(`{"state_backend":"yaml","state_path":%q,"root_path":%q,"verbose":1}`,
		filepath.Join(dir, "state.yaml"), root)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, root
}

// CLI tests share the global logger so they do not run in parallel

func TestCLI_LsAndTree(t *testing.T) {
	cfg, root := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), nil, 0o644))

	out, _, err := runCLI(t, "--config", cfg, "ls")
	require.NoError(t, err)
	assert.Equal(t, "src/\nREADME.md\n", out)

	out, _, err = runCLI(t, "--config", cfg, "ls", "src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "main.go\n", out)

	out, _, err = runCLI(t, "--config", cfg, "tree", "--depth", "1")
	require.NoError(t, err)
	assert.Equal(t, root+"\n  src/\n  README.md\n", out)

	out, _, err = runCLI(t, "--config", cfg, "tree", "src")
	require.NoError(t, err)
	assert.Equal(t, "src/\n  main.go\n", out)
}

func TestCLI_Mutations(t *testing.T) {
	cfg, root := newWorkspace(t)

	_, _, err := runCLI(t, "--config", cfg, "mkdir", "assets")
	require.NoError(t, err)
	_, _, err = runCLI(t, "--config", cfg, "touch", "logo.svg", "--at", "assets")
	require.NoError(t, err)
	_, _, err = runCLI(t, "--config", cfg, "rename", "assets/logo.svg", "icon.svg")
	require.NoError(t, err)
	_, _, err = runCLI(t, "--config", cfg, "mv", "README.md", "--to", "src")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "assets", "icon.svg"))
	assert.FileExists(t, filepath.Join(root, "src", "README.md"))

	_, stderr, err := runCLI(t, "--config", cfg, "rm", "assets")
	require.Error(t, err)
	assert.Contains(t, stderr, "--yes")
	assert.DirExists(t, filepath.Join(root, "assets"))

	_, _, err = runCLI(t, "--config", cfg, "rm", "assets", "--yes")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(root, "assets"))
}

func TestCLI_RootPersists(t *testing.T) {
	cfg, _ := newWorkspace(t)
	other := t.TempDir()

	out, _, err := runCLI(t, "--config", cfg, "root", other)
	require.NoError(t, err)
	assert.Equal(t, other+"\n", out)

	out, _, err = runCLI(t, "--config", cfg, "root")
	require.NoError(t, err)
	assert.Equal(t, other+"\n", out, "persisted root wins over the configured one")
}

func TestCLI_Errors(t *testing.T) {
	cfg, _ := newWorkspace(t)

	_, stderr, err := runCLI(t, "--config", cfg, "touch", "README.md")
	require.Error(t, err)
	assert.Contains(t, stderr, "already exists")

	_, stderr, err = runCLI(t, "--config", cfg, "rename", "", "x")
	require.Error(t, err)
	assert.Contains(t, stderr, "cannot apply to the root")

	_, _, err = runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "ls")
	require.Error(t, err)
}

func TestCLI_Apply(t *testing.T) {
	cfg, root := newWorkspace(t)
	batch := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(batch, []byte(`[
		{"id": "mk", "kind": "create_folder", "name": "docs"},
		{"id": "dup", "kind": "create_folder", "name": "docs"},
		{"id": "mv", "kind": "move", "sources": ["README.md"], "target": "docs"}
	]`), 0o644))

	_, stderr, err := runCLI(t, "--config", cfg, "apply", batch)

	require.Error(t, err)
	assert.Contains(t, stderr, "dup:")
	assert.Contains(t, stderr, "1 of 3 failed")
	assert.FileExists(t, filepath.Join(root, "docs", "README.md"))
}
