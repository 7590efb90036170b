package engine

import (
	"cmp"
	"context"
	"slices"

	"github.com/raphaelgruber/dedup-go/internal/models"
)

// sortedEntry pairs a candidate with its prefix hash.
type sortedEntry struct {
	key    uint64
	prefix uint64
	file   models.File
}

// sorted hashes every candidate's prefix, sorts each size bucket by hash
// and sends runs of equal hashes to the full tier. It returns the same
// groups as tiered but reads every prefix up front.
type sorted struct {
	base
}

// Deduplicate implements Deduplicator.
func (d *sorted) Deduplicate(ctx context.Context, table models.SizeTable) ([]models.Group, error) {
	total := d.dropUniqueSizes(table)
	prog := d.newProgress(total)
	full := newFullTier(&d.base)

	for _, size := range table.Sizes() {
		files := table[size]
		delete(table, size)

		entries := make([]sortedEntry, 0, len(files))
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			h, err := d.shortHash(f)
			prog.advance()
			if err != nil {
				d.exclude("short hash", f, err)
				continue
			}
			entries = append(entries, sortedEntry{key: d.opts.HashWidth.Truncate(h), prefix: h, file: f})
		}

		slices.SortStableFunc(entries, func(a, b sortedEntry) int {
			return cmp.Compare(a.key, b.key)
		})

		for start := 0; start < len(entries); {
			end := start + 1
			for end < len(entries) && entries[end].key == entries[start].key {
				end++
			}
			if end-start > 1 {
				for i := start; i < end; i++ {
					full.add(entries[i].file, &entries[i].prefix)
				}
			}
			start = end
		}
	}

	groups := full.drain()
	models.SortGroups(groups)
	d.logger.Info("deduplication complete", "groups", len(groups))
	return groups, nil
}
