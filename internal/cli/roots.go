package cli

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/raphaelgruber/dedup-go/internal/models"
)

// resolveRoots turns command-line paths into absolute, cleaned roots in the
// order given. Missing paths and symlinks are reported and skipped; a path
// given twice keeps its first position.
func resolveRoots(args []string, logger *slog.Logger) ([]string, error) {
	seen := make(map[string]bool, len(args))
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			logger.Warn("skipping root", "path", arg, "error", err)
			continue
		}

		info, err := os.Lstat(abs)
		if err != nil {
			logger.Warn("skipping root", "path", arg, "error", err)
			continue
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			logger.Warn("skipping symlinked root", "path", arg)
			continue
		}
		if seen[abs] {
			logger.Warn("ignoring repeated root", "path", arg)
			continue
		}

		seen[abs] = true
		roots = append(roots, abs)
	}

	if len(roots) == 0 {
		return nil, models.ErrNoReadableRoots
	}
	return roots, nil
}
