// Package models defines data structures shared by the scanner, the
// deduplication engine and the action executor.
package models

import (
	"slices"
	"time"
)

// File describes one on-disk file as it was observed at scan time.
// Records are small and immutable; they are copied by value.
type File struct {
	Path       string    `json:"path" yaml:"path"`
	Size       int64     `json:"size" yaml:"size"`
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
	// Priority is the ordinal of the root path the file was found under.
	// Lower values are preferred when choosing which copy to keep.
	Priority int `json:"priority" yaml:"priority"`
}

// SizeTable buckets File records by size. Records keep scan order within a
// bucket.
type SizeTable map[int64][]File

// Add appends f to the bucket for its size.
func (t SizeTable) Add(f File) {
	t[f.Size] = append(t[f.Size], f)
}

// Count returns the number of records across all buckets.
func (t SizeTable) Count() int {
	n := 0
	for _, files := range t {
		n += len(files)
	}
	return n
}

// Sizes returns the bucket keys in descending order, so larger files (with
// the most to reclaim) are processed first.
func (t SizeTable) Sizes() []int64 {
	sizes := make([]int64, 0, len(t))
	for size := range t {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	slices.Reverse(sizes)
	return sizes
}

// DropUniqueSizes removes every bucket holding a single record and returns
// how many records were dropped.
func (t SizeTable) DropUniqueSizes() int {
	dropped := 0
	for size, files := range t {
		if len(files) < 2 {
			delete(t, size)
			dropped += len(files)
		}
	}
	return dropped
}
