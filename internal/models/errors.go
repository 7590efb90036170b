package models

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is() to check for these in calling code.
var (
	// ErrModifiedSinceScan indicates a file's modification time no longer
	// matches the one captured at scan time.
	ErrModifiedSinceScan = errors.New("file modified since scan")

	// ErrNotFound indicates a file vanished between scan and action.
	ErrNotFound = errors.New("file not found")

	// ErrRollbackFailed indicates a link swap failed and the original file
	// could not be restored under its name.
	ErrRollbackFailed = errors.New("rollback failed")

	// ErrNoReadableRoots indicates none of the given root paths could be used.
	ErrNoReadableRoots = errors.New("no readable root paths")

	// ErrEmptyGroup indicates a group with fewer than two members reached
	// the executor. This is a defect, not a user error.
	ErrEmptyGroup = errors.New("group has fewer than two members")

	// ErrInvalidSelection indicates malformed interactive input.
	ErrInvalidSelection = errors.New("invalid selection")
)

// ErrorKind tags a FileError with its place in the error taxonomy.
type ErrorKind int

const (
	// KindIO covers per-file read, stat and write failures.
	KindIO ErrorKind = iota
	// KindDirectory covers directories that could not be listed.
	KindDirectory
	// KindModified covers files changed between scan and action.
	KindModified
	// KindRollback covers link swaps that could not be undone.
	KindRollback
	// KindInvariant covers violated internal invariants.
	KindInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDirectory:
		return "directory"
	case KindModified:
		return "modified"
	case KindRollback:
		return "rollback"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// FileError is a per-file failure. It never aborts a run; it is logged and
// recorded in a report.
type FileError struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

// NewFileError builds a FileError.
func NewFileError(kind ErrorKind, op, path string, err error) *FileError {
	return &FileError{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the error's kind, so that
// errors.Is(err, ErrModifiedSinceScan) holds for any KindModified error.
func (e *FileError) Is(target error) bool {
	switch e.Kind {
	case KindModified:
		return target == ErrModifiedSinceScan
	case KindRollback:
		return target == ErrRollbackFailed
	case KindInvariant:
		return target == ErrEmptyGroup
	}
	return false
}
