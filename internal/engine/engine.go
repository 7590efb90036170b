// Package engine turns a size table into verified groups of identical files.
//
// Candidates are narrowed in tiers so that as little content as possible is
// read: files with a unique size are dropped without any I/O, files whose
// content prefix hashes differ are separated after reading only the prefix,
// and only files that still collide are hashed in full. Every hash match is
// confirmed by a byte-for-byte comparison before files share a group.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raphaelgruber/dedup-go/internal/fileio"
	"github.com/raphaelgruber/dedup-go/internal/metrics"
	"github.com/raphaelgruber/dedup-go/internal/models"
)

// DefaultShortHashBytes is the default prefix length of the short hash.
const DefaultShortHashBytes = 4096

// DefaultProgressPercent is the default progress reporting step.
const DefaultProgressPercent = 5

// Strategy selects how candidates are stored between tiers.
type Strategy string

const (
	// StrategyTiered keys candidates in hash maps and defers prefix
	// collisions until a second file lands on the same key.
	StrategyTiered Strategy = "tiered"
	// StrategySorted hashes every candidate prefix, sorts by hash and
	// verifies runs of equal hashes.
	StrategySorted Strategy = "sorted"
)

// ParseStrategy resolves a strategy by name. An empty name selects
// StrategyTiered.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyTiered:
		return StrategyTiered, nil
	case StrategySorted:
		return StrategySorted, nil
	default:
		return "", fmt.Errorf("unknown strategy %q: must be %q or %q", s, StrategyTiered, StrategySorted)
	}
}

// ProgressFunc receives the number of processed candidates and their total.
type ProgressFunc func(processed, total int)

// Options configures a Deduplicator.
type Options struct {
	// ShortHashBytes is the prefix length of the short hash. 0 hashes whole
	// files and skips the short-hash tier.
	ShortHashBytes int64
	// HashWidth truncates hashes before they are used as keys.
	HashWidth fileio.HashWidth
	// ProgressPercent is the reporting step as a percentage of candidates.
	ProgressPercent int
	// Progress is called every ProgressPercent of candidates and once
	// more after the last one. Optional.
	Progress ProgressFunc
	// Hasher hashes and compares file content. Nil uses fileio.XXHasher.
	Hasher fileio.Hasher
	Logger *slog.Logger
	// Metrics records hash and compare timings. Nil disables recording.
	Metrics *metrics.Collector
}

// Deduplicator produces verified duplicate groups from a size table.
type Deduplicator interface {
	// Deduplicate drains table and returns every group of two or more
	// files with identical content. Per-file I/O errors are logged and the
	// file is left out; only cancellation is returned as an error.
	Deduplicate(ctx context.Context, table models.SizeTable) ([]models.Group, error)
}

// New returns a Deduplicator for the given strategy.
func New(strategy Strategy, opts Options) (Deduplicator, error) {
	b := newBase(opts)
	switch strategy {
	case "", StrategyTiered:
		return &tiered{base: b}, nil
	case StrategySorted:
		return &sorted{base: b}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// base carries what both strategies share: options, hashing with metrics,
// the size filter and progress reporting.
type base struct {
	opts   Options
	hasher fileio.Hasher
	logger *slog.Logger
}

func newBase(opts Options) base {
	if opts.ShortHashBytes < 0 {
		opts.ShortHashBytes = 0
	}
	if opts.HashWidth == 0 {
		opts.HashWidth = fileio.DefaultHashWidth
	}
	if opts.ProgressPercent <= 0 || opts.ProgressPercent > 100 {
		opts.ProgressPercent = DefaultProgressPercent
	}
	b := base{opts: opts, hasher: opts.Hasher, logger: opts.Logger}
	if b.hasher == nil {
		b.hasher = fileio.XXHasher{}
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// dropUniqueSizes applies the size filter and returns the number of
// remaining candidates.
func (b *base) dropUniqueSizes(table models.SizeTable) int {
	dropped := table.DropUniqueSizes()
	remaining := table.Count()
	b.logger.Info("discarded files with unique size",
		"discarded", dropped,
		"candidates", remaining,
	)
	return remaining
}

// shortHash hashes the configured prefix of f. The untruncated hash is
// returned so it can stand in for the full hash of files no longer than
// the prefix.
func (b *base) shortHash(f models.File) (uint64, error) {
	start := time.Now()
	h, err := b.hasher.Hash(f.Path, b.opts.ShortHashBytes)
	b.opts.Metrics.Record(metrics.OpShortHash, time.Since(start), min(f.Size, b.opts.ShortHashBytes), err)
	return h, err
}

// fullHash hashes all of f. When prefix holds the hash of a prefix that
// already covered the whole file it is reused without reading again.
func (b *base) fullHash(f models.File, prefix *uint64) (uint64, error) {
	if prefix != nil && (b.opts.ShortHashBytes == 0 || f.Size <= b.opts.ShortHashBytes) {
		return *prefix, nil
	}
	start := time.Now()
	h, err := b.hasher.Hash(f.Path, 0)
	b.opts.Metrics.Record(metrics.OpFullHash, time.Since(start), f.Size, err)
	return h, err
}

// equal compares two files byte for byte.
func (b *base) equal(x, y models.File) (bool, error) {
	start := time.Now()
	eq, err := b.hasher.Equal(x.Path, y.Path)
	b.opts.Metrics.Record(metrics.OpCompare, time.Since(start), x.Size, err)
	return eq, err
}

// exclude logs a file that is dropped from further processing.
func (b *base) exclude(op string, f models.File, err error) {
	b.logger.Warn("excluding file from deduplication",
		"op", op,
		"path", f.Path,
		"error", err,
	)
}

// progress reports processed candidates every step files and at the end.
type progress struct {
	fn    ProgressFunc
	total int
	step  int
	done  int
}

func (b *base) newProgress(total int) *progress {
	step := total * b.opts.ProgressPercent / 100
	if step < 1 {
		step = 1
	}
	return &progress{fn: b.opts.Progress, total: total, step: step}
}

func (p *progress) advance() {
	p.done++
	if p.fn != nil && (p.done%p.step == 0 || p.done == p.total) {
		p.fn(p.done, p.total)
	}
}
