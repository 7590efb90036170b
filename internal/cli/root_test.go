//go:build !windows

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/dedup-go/internal/models"
)

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DEDUP_CONFIG", "")
	t.Setenv("DEDUP_LOG_FILE", filepath.Join(t.TempDir(), "dedup.log"))
	t.Cleanup(func() {
		rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		verbose = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--no-progress"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)
	for name, content := range map[string]string{"a.txt": "hello", "b.txt": "hello", "c.txt": "world"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		if name == "a.txt" {
			require.NoError(t, os.Chtimes(path, old, old))
		}
	}
	return dir
}

func TestCommandList(t *testing.T) {
	dir := writeTree(t)

	out, err := runCLI(t, "-l", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Counted 3 files occupying 15 B.")
	assert.Contains(t, out, filepath.Join(dir, "a.txt"))
	assert.Contains(t, out, "Found 1 duplicate files in 1 sets, 5 B reclaimable.")
	assert.NotContains(t, out, "c.txt")
}

func TestCommandSummarizeJSON(t *testing.T) {
	dir := writeTree(t)

	out, err := runCLI(t, "-s", "--format", "json", dir)
	require.NoError(t, err)

	var got listing
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, models.Summary{Groups: 1, DuplicateFiles: 1, Reclaimable: 5}, got.Summary)
}

func TestCommandDelete(t *testing.T) {
	dir := writeTree(t)

	out, err := runCLI(t, "-d", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "b.txt"))
	assert.Contains(t, out, "1 deleted, 0 linked, 1 kept.")
}

func TestCommandDryRunHardLink(t *testing.T) {
	dir := writeTree(t)

	out, err := runCLI(t, "-k", "--dry-run", "-b", "0", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run: 0 would be deleted, 1 would be linked.")
	assert.FileExists(t, filepath.Join(dir, "b.txt"))
}

func TestCommandRejectsSeveralActions(t *testing.T) {
	_, err := runCLI(t, "-d", "-k", writeTree(t))
	assert.Error(t, err)
}

func TestCommandRejectsBadHashWidth(t *testing.T) {
	_, err := runCLI(t, "-l", "-a", "3", writeTree(t))
	assert.ErrorContains(t, err, "invalid hash width")
}

func TestCommandNoRoots(t *testing.T) {
	_, err := runCLI(t, "-l", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, models.ErrNoReadableRoots)
}
