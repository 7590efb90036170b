// Package service wires the scanner, the deduplication engine and the action
// executor into one run.
package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a run.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Phase names the stage a running job is in.
type Phase string

const (
	PhaseScanning  Phase = "scanning"
	PhaseComparing Phase = "comparing"
)

// Job tracks the progress of a Find call so that another goroutine, such
// as a terminal UI, can poll it. All methods are safe on a nil *Job.
type Job struct {
	ID          string
	Status      JobStatus
	Phase       Phase
	Progress    int
	Total       int
	Result      *FindResult
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time

	mu sync.RWMutex
}

// NewJob creates a pending job.
func NewJob() *Job {
	return &Job{
		ID:        uuid.New().String()[:8],
		Status:    JobStatusPending,
		StartedAt: time.Now(),
	}
}

// SetPhase enters phase and resets progress.
func (j *Job) SetPhase(phase Phase) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.Status = JobStatusRunning
	j.Phase = phase
	j.Progress = 0
	j.Total = 0
	j.mu.Unlock()
}

// UpdateProgress records processed out of total for the current phase.
func (j *Job) UpdateProgress(current, total int) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.Progress = current
	j.Total = total
	if j.Status == JobStatusPending {
		j.Status = JobStatusRunning
	}
	j.mu.Unlock()
}

// Complete marks the job completed with result.
func (j *Job) Complete(result *FindResult) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.Status = JobStatusCompleted
	j.Result = result
	now := time.Now()
	j.CompletedAt = &now
	j.mu.Unlock()

	slog.Debug("job completed", "job_id", j.ID, "groups", len(result.Groups))
}

// Fail marks the job failed with err.
func (j *Job) Fail(err error) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.Status = JobStatusFailed
	j.Error = err.Error()
	now := time.Now()
	j.CompletedAt = &now
	j.mu.Unlock()

	slog.Debug("job failed", "job_id", j.ID, "error", err)
}

// Done reports whether the job reached a terminal state.
func (j *Job) Done() bool {
	s := j.Snapshot()
	return s.Status == JobStatusCompleted || s.Status == JobStatusFailed
}

// Snapshot returns a thread-safe copy of job state.
func (j *Job) Snapshot() Job {
	if j == nil {
		return Job{}
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	return Job{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Progress:    j.Progress,
		Total:       j.Total,
		Result:      j.Result,
		Error:       j.Error,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}
