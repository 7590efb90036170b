// Package scanner walks root paths and buckets candidate files by size.
package scanner

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/raphaelgruber/dedup-go/internal/metrics"
	"github.com/raphaelgruber/dedup-go/internal/models"
)

// Result is the outcome of a scan.
type Result struct {
	Table models.SizeTable
	// Count and Bytes cover every recorded file.
	Count int
	Bytes uint64
	// Errors holds per-entry problems that were skipped over.
	Errors []error
}

// Scanner collects File records from root paths. It reads metadata only,
// never file content.
type Scanner struct {
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a scanner. A nil logger uses slog.Default().
func New(logger *slog.Logger, collector *metrics.Collector) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger, metrics: collector}
}

// scan holds the state of one Scan call.
type scan struct {
	*Result
	logger *slog.Logger
	seen   map[string]struct{}
	// linked holds infos of recorded files with more than one hard link,
	// keyed by size.
	linked map[int64][]fs.FileInfo
}

// Scan walks roots in order. Files found under roots[i] get priority i.
// Directories are descended into only when recursive is set. Unreadable
// directories and entries are logged and skipped; an error is returned only
// when none of the roots could be read at all, or when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, roots []string, recursive bool) (*Result, error) {
	st := &scan{
		Result: &Result{Table: make(models.SizeTable)},
		logger: s.logger,
		seen:   make(map[string]struct{}),
		linked: make(map[int64][]fs.FileInfo),
	}

	readable := 0
	for priority, root := range roots {
		start := time.Now()
		ok, err := st.scanRoot(ctx, root, priority, recursive)
		s.metrics.Record(metrics.OpScan, time.Since(start), 0, err)
		if err != nil {
			return st.Result, err
		}
		if ok {
			readable++
		}
	}

	if readable == 0 && len(roots) > 0 {
		return st.Result, models.ErrNoReadableRoots
	}

	s.logger.Info("scan complete",
		"files", st.Count,
		"size", humanize.IBytes(st.Bytes),
		"sizes", len(st.Table),
		"skipped", len(st.Errors),
	)
	return st.Result, nil
}

// scanRoot records the files under one root. It reports whether the root
// itself could be read; the error is non-nil only on cancellation.
func (st *scan) scanRoot(ctx context.Context, root string, priority int, recursive bool) (bool, error) {
	info, err := os.Lstat(root)
	if err != nil {
		st.skip(models.KindIO, "stat root", root, err)
		return false, nil
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		st.logger.Warn("skipping symlinked root", "path", root)
		return false, nil
	}
	if !info.IsDir() {
		st.insert(root, info, priority)
		return true, nil
	}

	if recursive {
		return st.walk(ctx, root, priority)
	}
	return st.list(ctx, root, priority)
}

// walk records every file beneath root. It reports whether root itself
// could be listed.
func (st *scan) walk(ctx context.Context, root string, priority int) (bool, error) {
	readable := true
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				readable = false
			}
			if d != nil && d.IsDir() {
				// The directory itself stays; only its contents are lost.
				st.skip(models.KindDirectory, "read dir", path, err)
				return fs.SkipDir
			}
			st.skip(models.KindIO, "walk", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			st.skip(models.KindIO, "stat", path, err)
			return nil
		}
		st.insert(path, info, priority)
		return nil
	})
	return readable, err
}

// list records the files directly inside dir. It reports whether dir could
// be listed at all.
func (st *scan) list(ctx context.Context, dir string, priority int) (bool, error) {
	entries, err := os.ReadDir(dir)
	readable := err == nil || len(entries) > 0
	if err != nil {
		// ReadDir returns what it read before failing; keep those.
		st.skip(models.KindDirectory, "read dir", dir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return readable, err
		}
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			st.skip(models.KindIO, "stat", path, err)
			continue
		}
		st.insert(path, info, priority)
	}
	return readable, nil
}

// insert records path if it is a non-empty regular file that has not been
// recorded before under another path or name.
func (st *scan) insert(path string, info fs.FileInfo, priority int) {
	if !info.Mode().IsRegular() {
		st.logger.Debug("skipping non-regular file", "path", path, "mode", info.Mode().String())
		return
	}
	size := info.Size()
	if size == 0 {
		return
	}

	if _, ok := st.seen[path]; ok {
		st.logger.Debug("skipping path reached from more than one root", "path", path)
		return
	}

	if linkCount(info) > 1 {
		for _, other := range st.linked[size] {
			if os.SameFile(info, other) {
				st.logger.Debug("skipping extra hard link", "path", path)
				return
			}
		}
		st.linked[size] = append(st.linked[size], info)
	}

	st.seen[path] = struct{}{}
	st.Table.Add(models.File{
		Path:       path,
		Size:       size,
		ModifiedAt: info.ModTime(),
		Priority:   priority,
	})
	st.Count++
	st.Bytes += uint64(size)
}

// skip logs and records an entry that could not be read.
func (st *scan) skip(kind models.ErrorKind, op, path string, err error) {
	level := slog.LevelWarn
	if errors.Is(err, fs.ErrNotExist) {
		level = slog.LevelInfo
	}
	st.logger.Log(context.Background(), level, "skipping unreadable entry",
		"op", op, "path", path, "error", err)
	st.Errors = append(st.Errors, models.NewFileError(kind, op, path, err))
}
