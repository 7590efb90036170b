package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/raphaelgruber/dedup-go/internal/action"
	"github.com/raphaelgruber/dedup-go/internal/models"
)

// prompter asks on a terminal which members of a group to keep.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// Choose implements action.Prompter. Malformed input is rejected and asked
// again; nothing is applied until a valid answer is given.
func (p *prompter) Choose(ctx context.Context, g models.Group, index, total int) ([]int, error) {
	p.render(g, index, total)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprint(p.out, "Keep which files? [indices, a=all, n=none]: ")

		line, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(p.out)
			return nil, fmt.Errorf("read input: %w", err)
		}

		keep, perr := action.ParseSelection(line, len(g.Files))
		if perr != nil {
			fmt.Fprintln(p.out, defaultTheme.errorStyle().Render(perr.Error()))
			if err != nil {
				return nil, fmt.Errorf("read input: %w", err)
			}
			continue
		}
		return keep, nil
	}
}

func (p *prompter) render(g models.Group, index, total int) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, defaultTheme.statusStyle().Render(fmt.Sprintf("[%d/%d] %d identical files of %s",
		index+1, total, len(g.Files), humanize.IBytes(uint64(g.Size())))))
	for i, f := range g.Files {
		idx := defaultTheme.completedStyle().Render(fmt.Sprintf("%3d", i+action.PromptIndexBase))
		modified := defaultTheme.hintStyle().Render(humanize.Time(f.ModifiedAt))
		fmt.Fprintf(p.out, "%s  %s  %s\n", idx, f.Path, modified)
	}
}
