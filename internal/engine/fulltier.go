package engine

import (
	"errors"
	"io/fs"
	"slices"

	"github.com/raphaelgruber/dedup-go/internal/models"
)

// fullKey identifies files of one size with the same whole-content hash.
type fullKey struct {
	size int64
	hash uint64
}

// fullTier holds byte-verified sub-groups keyed by whole-content hash.
// Sub-groups under one key differ in content despite the equal hash.
type fullTier struct {
	*base
	groups map[fullKey][][]models.File
	// order remembers key insertion so results do not depend on map order.
	order []fullKey
}

func newFullTier(b *base) *fullTier {
	return &fullTier{base: b, groups: make(map[fullKey][][]models.File)}
}

// add hashes f in full and appends it to the first sub-group whose leading
// member has identical content, or starts a new sub-group. prefix, when
// non-nil, is the file's untruncated prefix hash. A comparison that fails
// excludes whichever of the two files could not be read; when the error
// names neither, f is excluded.
func (t *fullTier) add(f models.File, prefix *uint64) {
	h, err := t.fullHash(f, prefix)
	if err != nil {
		t.exclude("full hash", f, err)
		return
	}

	key := fullKey{size: f.Size, hash: t.opts.HashWidth.Truncate(h)}
	subs, ok := t.groups[key]
	if !ok {
		t.order = append(t.order, key)
	}

	for i := 0; i < len(subs); {
		leader := subs[i][0]
		eq, err := t.equal(f, leader)
		if err != nil {
			if failedPath(err) != leader.Path {
				t.exclude("compare", f, err)
				t.groups[key] = subs
				return
			}
			// The rest of the sub-group was verified against the leader,
			// so the next member takes its place.
			t.exclude("compare", leader, err)
			subs[i] = subs[i][1:]
			if len(subs[i]) == 0 {
				subs = slices.Delete(subs, i, i+1)
			}
			continue
		}
		if eq {
			subs[i] = append(subs[i], f)
			t.groups[key] = subs
			return
		}
		i++
	}

	if len(subs) > 0 {
		t.logger.Debug("hash collision with differing content", "path", f.Path, "hash", key.hash)
	}
	t.groups[key] = append(subs, []models.File{f})
}

// failedPath returns the path a comparison error refers to, or "" when the
// error names no path.
func failedPath(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}
	return ""
}

// drain empties the tier and returns every sub-group with two or more
// members.
func (t *fullTier) drain() []models.Group {
	var groups []models.Group
	for _, key := range t.order {
		for _, files := range t.groups[key] {
			if len(files) > 1 {
				groups = append(groups, models.Group{Files: files})
			}
		}
		delete(t.groups, key)
	}
	t.order = nil
	return groups
}
