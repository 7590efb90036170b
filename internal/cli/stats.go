package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/raphaelgruber/dedup-go/internal/metrics"
)

// printStats displays per-operation statistics of the run.
func printStats(w io.Writer, s metrics.Snapshot) {
	fmt.Fprintf(w, "\nStatistics\n")
	fmt.Fprintf(w, "═══════════════════════════════════════\n")
	fmt.Fprintf(w, "Elapsed: %.1f seconds\n", s.ElapsedSeconds)

	ops := []struct {
		name string
		op   *metrics.OperationSnapshot
	}{
		{"Scan", s.Scan},
		{"Short hash", s.ShortHash},
		{"Full hash", s.FullHash},
		{"Compare", s.Compare},
		{"Remove", s.Remove},
		{"Link", s.Link},
	}
	for _, o := range ops {
		if o.op == nil {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", o.name)
		printOpStats(w, o.op)
	}
}

// printOpStats displays timing statistics for an operation.
func printOpStats(w io.Writer, op *metrics.OperationSnapshot) {
	fmt.Fprintf(w, "  Calls: %d, Failures: %d, Total: %dms\n", op.Count, op.Failures, op.TotalTimeMs)
	fmt.Fprintf(w, "  Time: avg %.1fms, min %dms, max %dms\n",
		op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
	if op.Bytes > 0 {
		fmt.Fprintf(w, "  Read: %s\n", humanize.IBytes(uint64(op.Bytes)))
	}
}
