package fileio

import "fmt"

// HashWidth is the number of bytes of a 64-bit hash used as a table key.
// Narrower widths collide more often; correctness does not depend on it
// because every hash match is confirmed by byte comparison.
type HashWidth int

// Supported widths.
const (
	Width8  HashWidth = 1
	Width16 HashWidth = 2
	Width32 HashWidth = 4
	Width64 HashWidth = 8
)

// DefaultHashWidth uses the full 64-bit hash.
const DefaultHashWidth = Width64

// ParseHashWidth validates a width given in bytes.
func ParseHashWidth(bytes int) (HashWidth, error) {
	switch w := HashWidth(bytes); w {
	case Width8, Width16, Width32, Width64:
		return w, nil
	default:
		return 0, fmt.Errorf("invalid hash width %d: must be one of 1, 2, 4, 8", bytes)
	}
}

// Truncate keeps the low-order bytes of h that fit the width.
func (w HashWidth) Truncate(h uint64) uint64 {
	if w <= 0 || w >= Width64 {
		return h
	}
	return h & (uint64(1)<<(8*uint(w)) - 1)
}
