package models

import (
	"cmp"
	"slices"
)

// Group is a set of at least two files whose full content was verified
// byte-identical. Members keep the order in which they were verified.
type Group struct {
	Files []File `json:"files" yaml:"files"`
}

// Size returns the size shared by every member.
func (g Group) Size() int64 {
	if len(g.Files) == 0 {
		return 0
	}
	return g.Files[0].Size
}

// Reclaimable returns the bytes freed by keeping a single member.
func (g Group) Reclaimable() uint64 {
	if len(g.Files) < 2 {
		return 0
	}
	return uint64(len(g.Files)-1) * uint64(g.Size())
}

// Paths returns member paths in group order.
func (g Group) Paths() []string {
	paths := make([]string, len(g.Files))
	for i, f := range g.Files {
		paths[i] = f.Path
	}
	return paths
}

// SortGroups orders groups by descending file size, then by the path of
// their first member, so that repeated runs over an unchanged tree report
// groups in the same order.
func SortGroups(groups []Group) {
	slices.SortFunc(groups, func(a, b Group) int {
		if c := cmp.Compare(b.Size(), a.Size()); c != 0 {
			return c
		}
		return cmp.Compare(a.Files[0].Path, b.Files[0].Path)
	})
}

// Summary aggregates a result for reporting.
type Summary struct {
	Groups         int    `json:"groups" yaml:"groups"`
	DuplicateFiles int    `json:"duplicate_files" yaml:"duplicate_files"`
	Reclaimable    uint64 `json:"reclaimable_bytes" yaml:"reclaimable_bytes"`
}

// Summarize counts duplicate files (every member beyond the first in each
// group) and the bytes they occupy.
func Summarize(groups []Group) Summary {
	s := Summary{Groups: len(groups)}
	for _, g := range groups {
		s.DuplicateFiles += len(g.Files) - 1
		s.Reclaimable += g.Reclaimable()
	}
	return s
}
