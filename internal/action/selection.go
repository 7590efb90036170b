package action

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/raphaelgruber/dedup-go/internal/models"
)

// PromptIndexBase is the index of the first member shown by the
// interactive prompt.
const PromptIndexBase = 0

// SelectKeep returns the index of the member automatic modes keep: the
// lowest scan priority wins, ties go to the earliest modification time.
// Remaining ties keep group order.
func SelectKeep(g models.Group) int {
	order := make([]int, len(g.Files))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		fa, fb := g.Files[a], g.Files[b]
		if c := cmp.Compare(fa.Priority, fb.Priority); c != 0 {
			return c
		}
		return fa.ModifiedAt.Compare(fb.ModifiedAt)
	})
	return order[0]
}

// ParseSelection parses interactive input for a group of n members and
// returns the indices of members to keep, in ascending order.
//
// Accepted input is a space separated list of member indices, "a" or "all"
// to keep every member, and "n" or "none" to keep none. Any malformed token
// rejects the whole input with ErrInvalidSelection so that nothing is
// applied partially.
func ParseSelection(input string, n int) ([]int, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty input", models.ErrInvalidSelection)
	}

	if len(fields) == 1 {
		switch fields[0] {
		case "a", "all":
			keep := make([]int, n)
			for i := range keep {
				keep[i] = i
			}
			return keep, nil
		case "n", "none":
			return []int{}, nil
		}
	}

	seen := make(map[int]bool, len(fields))
	keep := make([]int, 0, len(fields))
	for _, field := range fields {
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an index", models.ErrInvalidSelection, field)
		}
		idx -= PromptIndexBase
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: %s is out of range %d-%d",
				models.ErrInvalidSelection, field, PromptIndexBase, n-1+PromptIndexBase)
		}
		if !seen[idx] {
			seen[idx] = true
			keep = append(keep, idx)
		}
	}
	slices.Sort(keep)
	return keep, nil
}
