//go:build !windows

package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/dedup-go/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveRoots(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.Mkdir(a, 0o755))
	require.NoError(t, os.Mkdir(b, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(a, link))

	roots, err := resolveRoots([]string{
		b,
		filepath.Join(dir, "missing"),
		a,
		link,
		filepath.Join(a, "..", "b"),
		a + "/",
	}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, roots)
}

func TestResolveRootsRelative(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir("sub", 0o755))

	roots, err := resolveRoots([]string{"sub", "./sub"}, discardLogger())
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(wd, "sub")}, roots)
}

func TestResolveRootsNoneLeft(t *testing.T) {
	_, err := resolveRoots([]string{filepath.Join(t.TempDir(), "missing")}, discardLogger())
	assert.ErrorIs(t, err, models.ErrNoReadableRoots)
}
