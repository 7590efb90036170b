package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/raphaelgruber/dedup-go/internal/models"
	"github.com/raphaelgruber/dedup-go/internal/service"
)

// Output formats for list and summary.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q: must be text, json or yaml", f)
	}
}

// listing is the structured form of a list or summary.
type listing struct {
	Summary models.Summary `json:"summary" yaml:"summary"`
	Groups  []models.Group `json:"groups,omitempty" yaml:"groups,omitempty"`
}

func encode(w io.Writer, f string, v any) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// summaryLine is the one-line result of a run.
func summaryLine(s models.Summary) string {
	if s.Groups == 0 {
		return "Didn't find any duplicates."
	}
	return fmt.Sprintf("Found %d duplicate files in %d sets, %s reclaimable.",
		s.DuplicateFiles, s.Groups, humanize.IBytes(s.Reclaimable))
}

// printScanStats prints what the scan saw.
func printScanStats(w io.Writer, found *service.FindResult) {
	fmt.Fprintf(w, "Counted %d files occupying %s.\n", found.FilesScanned, humanize.IBytes(found.BytesScanned))
	if n := len(found.ScanErrors); n > 0 {
		fmt.Fprintln(w, defaultTheme.hintStyle().Render(fmt.Sprintf("Skipped %d unreadable entries, see the log for details.", n)))
	}
}

// printSummary prints aggregate numbers only.
func printSummary(w io.Writer, f string, s models.Summary) error {
	if f != formatText {
		return encode(w, f, listing{Summary: s})
	}
	fmt.Fprintln(w, summaryLine(s))
	return nil
}

// printGroups prints every duplicate set followed by the summary.
func printGroups(w io.Writer, f string, groups []models.Group, s models.Summary) error {
	if f != formatText {
		return encode(w, f, listing{Summary: s, Groups: groups})
	}

	header := defaultTheme.statusStyle()
	for i, g := range groups {
		fmt.Fprintln(w, header.Render(fmt.Sprintf("[%d/%d] %d files of %s",
			i+1, len(groups), len(g.Files), humanize.IBytes(uint64(g.Size())))))
		for _, file := range g.Files {
			fmt.Fprintf(w, "  %s\n", file.Path)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, summaryLine(s))
	return nil
}

// outcomeLabels are the verbs printed for each outcome.
var outcomeLabels = map[models.OutcomeKind]string{
	models.OutcomeKept:            "kept",
	models.OutcomeDeleted:         "deleted",
	models.OutcomeLinked:          "linked",
	models.OutcomeSkippedModified: "skipped",
	models.OutcomeNotFound:        "missing",
	models.OutcomeWouldDelete:     "would delete",
	models.OutcomeWouldLink:       "would link",
	models.OutcomeError:           "failed",
}

func (t Theme) outcomeStyle(kind models.OutcomeKind) lipgloss.Style {
	switch kind {
	case models.OutcomeDeleted, models.OutcomeLinked:
		return t.completedStyle()
	case models.OutcomeError:
		return t.errorStyle()
	case models.OutcomeSkippedModified, models.OutcomeNotFound:
		return lipgloss.NewStyle().Foreground(t.Warning)
	default:
		return t.statusStyle()
	}
}

// printReport prints one line per file touched by a mutation and the
// totals.
func printReport(w io.Writer, r *models.Report, dryRun bool) {
	for _, o := range r.Outcomes {
		if o.Kind == models.OutcomeKept {
			continue
		}
		label := defaultTheme.outcomeStyle(o.Kind).Render(fmt.Sprintf("%-12s", outcomeLabels[o.Kind]))
		line := fmt.Sprintf("%s %s", label, o.Path)
		if o.Target != "" {
			line += " -> " + o.Target
		}
		if o.Err != nil {
			line += defaultTheme.hintStyle().Render(fmt.Sprintf(" (%v)", o.Err))
		}
		fmt.Fprintln(w, line)
	}

	if dryRun {
		fmt.Fprintf(w, "\nDry run: %d would be deleted, %d would be linked.\n",
			r.Count(models.OutcomeWouldDelete), r.Count(models.OutcomeWouldLink))
	} else {
		fmt.Fprintf(w, "\n%d deleted, %d linked, %d kept.\n",
			r.Count(models.OutcomeDeleted), r.Count(models.OutcomeLinked), r.Count(models.OutcomeKept))
	}
	if failed := r.Failed(); len(failed) > 0 {
		fmt.Fprintln(w, defaultTheme.errorStyle().Render(fmt.Sprintf("%d files were skipped or failed.", len(failed))))
	}
}
