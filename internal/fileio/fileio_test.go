package fileio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("0123456789"), 1000)
	path := writeFile(t, dir, "data", content)

	tests := []struct {
		name  string
		limit int64
		want  uint64
	}{
		{"whole file", 0, xxhash.Sum64(content)},
		{"prefix", 16, xxhash.Sum64(content[:16])},
		{"prefix spanning buffers", 5000, xxhash.Sum64(content[:5000])},
		{"limit beyond size", 1 << 20, xxhash.Sum64(content)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HashFile(path, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "nope"), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	big := bytes.Repeat([]byte("x"), 3*bufferSize)
	bigDiffEnd := append(bytes.Repeat([]byte("x"), 3*bufferSize-1), 'y')

	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"identical short", []byte("hello"), []byte("hello"), true},
		{"different short", []byte("hello"), []byte("world"), false},
		{"prefix of other", []byte("hello"), []byte("hello world"), false},
		{"identical multi buffer", big, big, true},
		{"differ in last byte", big, bigDiffEnd, false},
		{"exact buffer size", bytes.Repeat([]byte("z"), bufferSize), bytes.Repeat([]byte("z"), bufferSize), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := writeFile(t, dir, tt.name+"-a", tt.a)
			b := writeFile(t, dir, tt.name+"-b", tt.b)

			got, err := CompareFiles(a, b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareFilesMissing(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", []byte("hello"))

	_, err := CompareFiles(a, filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHashWidth(t *testing.T) {
	const h = uint64(0x1122334455667788)

	tests := []struct {
		bytes int
		want  uint64
	}{
		{1, 0x88},
		{2, 0x7788},
		{4, 0x55667788},
		{8, h},
	}
	for _, tt := range tests {
		w, err := ParseHashWidth(tt.bytes)
		require.NoError(t, err)
		assert.Equal(t, tt.want, w.Truncate(h), "width %d", tt.bytes)
	}

	_, err := ParseHashWidth(3)
	assert.Error(t, err)
}
