package action

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/raphaelgruber/dedup-go/internal/metrics"
	"github.com/raphaelgruber/dedup-go/internal/models"
)

// link replaces f with a hard or symbolic link to keeper, keeping f's name.
func (e *Executor) link(f, keeper models.File, symbolic bool) models.Outcome {
	if err := e.checkUnchanged(f); err != nil {
		return e.skip(f, err)
	}

	target := keeper.Path
	if symbolic {
		abs, err := filepath.Abs(keeper.Path)
		if err != nil {
			err = models.NewFileError(models.KindIO, "symlink", f.Path, err)
			return models.Outcome{Path: f.Path, Kind: models.OutcomeError, Target: keeper.Path, Err: err}
		}
		target = abs
	}
	if e.dryRun {
		return models.Outcome{Path: f.Path, Kind: models.OutcomeWouldLink, Target: target}
	}

	start := time.Now()
	err := e.swap(f.Path, target, symbolic)
	e.metrics.Record(metrics.OpLink, time.Since(start), f.Size, err)
	if err != nil {
		e.logger.Warn("failed to replace file with link", "path", f.Path, "target", target, "error", err)
		return models.Outcome{Path: f.Path, Kind: models.OutcomeError, Target: target, Err: err}
	}

	e.logger.Debug("replaced file with link", "path", f.Path, "target", target, "symbolic", symbolic)
	return models.Outcome{Path: f.Path, Kind: models.OutcomeLinked, Target: target}
}

// swap moves path aside, creates the link under its name and removes the
// moved original. Any failure restores the original under path; if that
// restore fails too the error is a KindRollback FileError.
func (e *Executor) swap(path, target string, symbolic bool) (err error) {
	op := "hardlink"
	if symbolic {
		op = "symlink"
	}
	defer func() {
		var fe *models.FileError
		if err != nil && !errors.As(err, &fe) {
			err = models.NewFileError(models.KindIO, op, path, err)
		}
	}()

	temp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".dedup-"+uuid.NewString())
	if err := e.fs.Rename(path, temp); err != nil {
		return fmt.Errorf("moving original aside: %w", err)
	}

	if symbolic {
		err = e.fs.Symlink(target, path)
	} else {
		err = e.fs.Link(target, path)
	}
	if err != nil {
		linkErr := fmt.Errorf("creating link: %w", err)
		if rbErr := e.fs.Rename(temp, path); rbErr != nil {
			return e.rollbackFailed(op, path, temp, errors.Join(linkErr, rbErr))
		}
		return linkErr
	}

	if err := e.fs.Remove(temp); err != nil {
		removeErr := fmt.Errorf("removing original: %w", err)
		if rbErr := e.fs.Remove(path); rbErr != nil {
			return e.rollbackFailed(op, path, temp, errors.Join(removeErr, rbErr))
		}
		if rbErr := e.fs.Rename(temp, path); rbErr != nil {
			return e.rollbackFailed(op, path, temp, errors.Join(removeErr, rbErr))
		}
		return removeErr
	}
	return nil
}

func (e *Executor) rollbackFailed(op, path, temp string, err error) error {
	e.logger.Error("rollback failed, original left at temporary name",
		"path", path,
		"temp", temp,
		"error", err,
	)
	return models.NewFileError(models.KindRollback, op, path, err)
}
