package models

// OutcomeKind classifies what happened to a single group member.
type OutcomeKind string

const (
	OutcomeKept            OutcomeKind = "kept"
	OutcomeDeleted         OutcomeKind = "deleted"
	OutcomeLinked          OutcomeKind = "linked"
	OutcomeSkippedModified OutcomeKind = "skipped-modified"
	OutcomeNotFound        OutcomeKind = "not-found"
	OutcomeWouldDelete     OutcomeKind = "would-delete"
	OutcomeWouldLink       OutcomeKind = "would-link"
	OutcomeError           OutcomeKind = "error"
)

// Outcome records the result of acting on one file.
type Outcome struct {
	Path string
	Kind OutcomeKind
	// Target is the kept file a link points at, when applicable.
	Target string
	Err    error
}

// Report accumulates per-file outcomes of an Execute call.
type Report struct {
	Action   Action
	Groups   []Group
	Summary  Summary
	Outcomes []Outcome
}

// Add appends an outcome.
func (r *Report) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Count returns the number of outcomes of the given kind.
func (r *Report) Count(kind OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Failed returns outcomes that ended in an error or a skip.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		switch o.Kind {
		case OutcomeError, OutcomeSkippedModified, OutcomeNotFound:
			failed = append(failed, o)
		}
	}
	return failed
}
