//go:build !windows

package scanner

import (
	"io/fs"
	"syscall"
)

// linkCount returns the number of hard links to the file described by info.
func linkCount(info fs.FileInfo) uint64 {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 1
	}
	return uint64(stat.Nlink)
}
