package engine

import (
	"context"

	"github.com/raphaelgruber/dedup-go/internal/models"
)

// shortKey identifies files of one size with the same prefix hash.
type shortKey struct {
	size int64
	hash uint64
}

// slot is the short-hash table entry for one key. It holds a single pending
// file until a second file collides with it; from then on the slot is
// escalated and every file with this key goes straight to the full tier.
type slot struct {
	pending   models.File
	prefix    uint64
	escalated bool
}

// tiered is the hash-map implementation of the three-tier narrowing.
type tiered struct {
	base
}

// Deduplicate implements Deduplicator.
func (d *tiered) Deduplicate(ctx context.Context, table models.SizeTable) ([]models.Group, error) {
	total := d.dropUniqueSizes(table)
	prog := d.newProgress(total)
	full := newFullTier(&d.base)
	short := make(map[shortKey]*slot)

	for _, size := range table.Sizes() {
		files := table[size]
		delete(table, size)

		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			d.insert(f, short, full)
			prog.advance()
		}
	}

	groups := full.drain()
	models.SortGroups(groups)
	d.logger.Info("deduplication complete", "groups", len(groups))
	return groups, nil
}

// insert routes f through the short-hash tier.
func (d *tiered) insert(f models.File, short map[shortKey]*slot, full *fullTier) {
	if d.opts.ShortHashBytes == 0 {
		full.add(f, nil)
		return
	}

	h, err := d.shortHash(f)
	if err != nil {
		d.exclude("short hash", f, err)
		return
	}

	key := shortKey{size: f.Size, hash: d.opts.HashWidth.Truncate(h)}
	s, ok := short[key]
	switch {
	case !ok:
		// Defer the full hash until something collides with this file.
		short[key] = &slot{pending: f, prefix: h}
	case !s.escalated:
		d.logger.Debug("short hash collision, escalating", "path", f.Path, "other", s.pending.Path)
		full.add(s.pending, &s.prefix)
		s.escalated = true
		s.pending = models.File{}
		full.add(f, &h)
	default:
		full.add(f, &h)
	}
}
