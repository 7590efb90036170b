//go:build windows

package scanner

import "io/fs"

// linkCount is not available from fs.FileInfo on this platform. Every file
// is treated as having a single link, so hard-link collapse is disabled.
func linkCount(fs.FileInfo) uint64 {
	return 1
}
