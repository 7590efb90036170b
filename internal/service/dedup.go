package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/dedup-go/internal/action"
	"github.com/raphaelgruber/dedup-go/internal/engine"
	"github.com/raphaelgruber/dedup-go/internal/fileio"
	"github.com/raphaelgruber/dedup-go/internal/metrics"
	"github.com/raphaelgruber/dedup-go/internal/models"
	"github.com/raphaelgruber/dedup-go/internal/scanner"
)

// DedupService runs scan, deduplication and actions for one invocation.
type DedupService struct {
	logger  *slog.Logger
	metrics *metrics.Collector
	scanner *scanner.Scanner
}

// NewDedupService creates a new dedup service.
func NewDedupService(logger *slog.Logger, collector *metrics.Collector) *DedupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DedupService{
		logger:  logger,
		metrics: collector,
		scanner: scanner.New(logger, collector),
	}
}

// Options configures a run.
type Options struct {
	// Roots are validated, absolute root paths in priority order.
	Roots     []string
	Recursive bool
	// ShortHashBytes is the prefix hashed by the short-hash tier; 0 hashes
	// whole files.
	ShortHashBytes  int64
	HashWidth       fileio.HashWidth
	Strategy        engine.Strategy
	ProgressPercent int
	// Progress, when set, receives engine progress in addition to the job.
	Progress engine.ProgressFunc

	Action   models.Action
	DryRun   bool
	Prompter action.Prompter
}

// FindResult summarizes the scan and deduplication phases.
type FindResult struct {
	FilesScanned int
	BytesScanned uint64
	// ScanErrors holds entries that were skipped while scanning.
	ScanErrors []error
	Groups     []models.Group
	Summary    models.Summary
}

// Result is a complete run.
type Result struct {
	*FindResult
	Report *models.Report
}

// Find scans opts.Roots and returns verified duplicate groups. Progress is
// published to job when it is non-nil, and job is completed or failed
// before Find returns.
func (s *DedupService) Find(ctx context.Context, opts Options, job *Job) (result *FindResult, err error) {
	defer func() {
		if err != nil {
			job.Fail(err)
			return
		}
		job.Complete(result)
	}()

	job.SetPhase(PhaseScanning)
	scan, err := s.scanner.Scan(ctx, opts.Roots, opts.Recursive)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	d, err := engine.New(opts.Strategy, engine.Options{
		ShortHashBytes:  opts.ShortHashBytes,
		HashWidth:       opts.HashWidth,
		ProgressPercent: opts.ProgressPercent,
		Progress: func(processed, total int) {
			job.UpdateProgress(processed, total)
			if opts.Progress != nil {
				opts.Progress(processed, total)
			}
		},
		Logger:  s.logger,
		Metrics: s.metrics,
	})
	if err != nil {
		return nil, err
	}

	job.SetPhase(PhaseComparing)
	groups, err := d.Deduplicate(ctx, scan.Table)
	if err != nil {
		return nil, fmt.Errorf("deduplicate: %w", err)
	}

	return &FindResult{
		FilesScanned: scan.Count,
		BytesScanned: scan.Bytes,
		ScanErrors:   scan.Errors,
		Groups:       groups,
		Summary:      models.Summarize(groups),
	}, nil
}

// Apply runs opts.Action over groups.
func (s *DedupService) Apply(ctx context.Context, opts Options, groups []models.Group) (*models.Report, error) {
	exec := action.New(action.Options{
		DryRun:   opts.DryRun,
		Prompter: opts.Prompter,
		Logger:   s.logger,
		Metrics:  s.metrics,
	})
	report, err := exec.Execute(ctx, opts.Action, groups)
	if err != nil {
		return report, fmt.Errorf("execute %s: %w", opts.Action, err)
	}
	return report, nil
}

// Run performs Find followed by Apply.
func (s *DedupService) Run(ctx context.Context, opts Options) (*Result, error) {
	found, err := s.Find(ctx, opts, nil)
	if err != nil {
		return nil, err
	}
	report, err := s.Apply(ctx, opts, found.Groups)
	return &Result{FindResult: found, Report: report}, err
}
