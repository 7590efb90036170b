// Package action applies the selected action to verified duplicate groups.
//
// Every mutation is preceded by a check that the file still has the size
// and modification time captured at scan time; files that changed are
// skipped and reported, never removed or overwritten.
package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/raphaelgruber/dedup-go/internal/metrics"
	"github.com/raphaelgruber/dedup-go/internal/models"
)

// Prompter is the interactive collaborator for ActionPromptDelete.
type Prompter interface {
	// Choose presents group g (number index of total) and returns the
	// indices of members to keep. Members not returned are removed.
	Choose(ctx context.Context, g models.Group, index, total int) ([]int, error)
}

// Options configures an Executor.
type Options struct {
	// DryRun reports what mutation modes would do without touching files.
	DryRun   bool
	Prompter Prompter
	Logger   *slog.Logger
	Metrics  *metrics.Collector
}

// Executor applies actions to duplicate groups.
type Executor struct {
	fs       fileSystem
	dryRun   bool
	prompter Prompter
	logger   *slog.Logger
	metrics  *metrics.Collector
}

// New creates an Executor that operates on the real filesystem.
func New(opts Options) *Executor {
	return newExecutor(opts, osFS{})
}

func newExecutor(opts Options, fs fileSystem) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		fs:       fs,
		dryRun:   opts.DryRun,
		prompter: opts.Prompter,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// Execute applies action to every group and returns the per-file outcomes.
//
// Per-file failures are recorded in the report and never stop the run. An
// error is returned for cancellation, a failing prompter, or a group with
// fewer than two members. The report gathered so far is returned with it.
func (e *Executor) Execute(ctx context.Context, action models.Action, groups []models.Group) (*models.Report, error) {
	report := &models.Report{
		Action:  action,
		Groups:  groups,
		Summary: models.Summarize(groups),
	}
	if action.ReadOnly() {
		return report, nil
	}
	if action == models.ActionPromptDelete && e.prompter == nil {
		return report, errors.New("prompt delete requires a prompter")
	}

	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if len(g.Files) < 2 {
			err := models.NewFileError(models.KindInvariant, "execute", "",
				fmt.Errorf("group %d has %d members", i, len(g.Files)))
			e.logger.Error("invalid duplicate group", "group", i, "error", err)
			return report, err
		}

		var keep []int
		switch action {
		case models.ActionPromptDelete:
			chosen, err := e.prompter.Choose(ctx, g, i, len(groups))
			if err != nil {
				return report, fmt.Errorf("prompt: %w", err)
			}
			keep = chosen
		case models.ActionNoPromptDelete, models.ActionHardLink, models.ActionSymLink:
			keep = []int{SelectKeep(g)}
		default:
			return report, fmt.Errorf("unsupported action: %s", action)
		}

		if err := e.applyGroup(ctx, action, g, keep, report); err != nil {
			return report, err
		}
	}

	e.logger.Info("actions complete",
		"action", action.String(),
		"groups", len(groups),
		"deleted", report.Count(models.OutcomeDeleted),
		"linked", report.Count(models.OutcomeLinked),
		"failed", len(report.Failed()),
	)
	return report, nil
}

// applyGroup keeps the members listed in keep and deletes or links the rest.
func (e *Executor) applyGroup(ctx context.Context, action models.Action, g models.Group, keep []int, report *models.Report) error {
	kept := make(map[int]bool, len(keep))
	for _, idx := range keep {
		kept[idx] = true
		report.Add(models.Outcome{Path: g.Files[idx].Path, Kind: models.OutcomeKept})
	}
	if len(keep) == len(g.Files) {
		return nil
	}

	// Removing the other copies is only safe while a kept copy still holds
	// the content that was verified.
	keeper := -1
	var keeperErr error
	for _, idx := range keep {
		err := e.checkUnchanged(g.Files[idx])
		if err == nil {
			keeper = idx
			break
		}
		e.logger.Warn("kept file changed since scan", "path", g.Files[idx].Path, "error", err)
		if keeperErr == nil {
			keeperErr = err
		}
	}
	if len(keep) > 0 && keeper < 0 {
		e.logger.Warn("no kept file unchanged since scan, skipping group", "files", len(g.Files))
		for i, f := range g.Files {
			if !kept[i] {
				report.Add(skipOutcome(f, keeperErr))
			}
		}
		return nil
	}

	for i, f := range g.Files {
		if kept[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		switch action {
		case models.ActionHardLink:
			report.Add(e.link(f, g.Files[keeper], false))
		case models.ActionSymLink:
			report.Add(e.link(f, g.Files[keeper], true))
		default:
			report.Add(e.remove(f))
		}
	}
	return nil
}

// checkUnchanged verifies f still matches its scan-time record.
func (e *Executor) checkUnchanged(f models.File) error {
	info, err := e.fs.Lstat(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return models.NewFileError(models.KindIO, "stat", f.Path, models.ErrNotFound)
	}
	if err != nil {
		return models.NewFileError(models.KindIO, "stat", f.Path, err)
	}
	if !info.Mode().IsRegular() || info.Size() != f.Size || !info.ModTime().Equal(f.ModifiedAt) {
		return models.NewFileError(models.KindModified, "stat", f.Path,
			fmt.Errorf("modified at %s, scanned at %s", info.ModTime().Format(time.RFC3339Nano), f.ModifiedAt.Format(time.RFC3339Nano)))
	}
	return nil
}

// remove deletes f after the safety check.
func (e *Executor) remove(f models.File) models.Outcome {
	if err := e.checkUnchanged(f); err != nil {
		return e.skip(f, err)
	}
	if e.dryRun {
		return models.Outcome{Path: f.Path, Kind: models.OutcomeWouldDelete}
	}

	start := time.Now()
	err := e.fs.Remove(f.Path)
	e.metrics.Record(metrics.OpRemove, time.Since(start), f.Size, err)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return e.skip(f, models.NewFileError(models.KindIO, "remove", f.Path, models.ErrNotFound))
	case err != nil:
		err = models.NewFileError(models.KindIO, "remove", f.Path, err)
		e.logger.Warn("failed to delete file", "path", f.Path, "error", err)
		return models.Outcome{Path: f.Path, Kind: models.OutcomeError, Err: err}
	}

	e.logger.Debug("deleted file", "path", f.Path)
	return models.Outcome{Path: f.Path, Kind: models.OutcomeDeleted}
}

// skip logs and records a file that failed its safety check.
func (e *Executor) skip(f models.File, err error) models.Outcome {
	o := skipOutcome(f, err)
	switch o.Kind {
	case models.OutcomeSkippedModified:
		e.logger.Warn("file modified since scan, skipped", "path", f.Path)
	case models.OutcomeNotFound:
		e.logger.Warn("file not found", "path", f.Path)
	default:
		e.logger.Warn("file check failed, skipped", "path", f.Path, "error", err)
	}
	return o
}

func skipOutcome(f models.File, err error) models.Outcome {
	kind := models.OutcomeError
	switch {
	case errors.Is(err, models.ErrModifiedSinceScan):
		kind = models.OutcomeSkippedModified
	case errors.Is(err, models.ErrNotFound):
		kind = models.OutcomeNotFound
	}
	return models.Outcome{Path: f.Path, Kind: kind, Err: err}
}
