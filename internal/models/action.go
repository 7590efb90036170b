package models

import (
	"fmt"
	"strings"
)

// Action selects what happens to verified groups.
type Action int

const (
	// ActionPromptDelete asks the user which members of each group to keep.
	ActionPromptDelete Action = iota
	// ActionList prints every group.
	ActionList
	// ActionSummarize prints only aggregate numbers.
	ActionSummarize
	// ActionNoPromptDelete keeps one member per group and deletes the rest.
	ActionNoPromptDelete
	// ActionHardLink replaces duplicates with hard links to the kept member.
	ActionHardLink
	// ActionSymLink replaces duplicates with symbolic links to the kept member.
	ActionSymLink
)

var actionNames = map[Action]string{
	ActionPromptDelete:   "prompt-delete",
	ActionList:           "list",
	ActionSummarize:      "summarize",
	ActionNoPromptDelete: "delete",
	ActionHardLink:       "hardlink",
	ActionSymLink:        "symlink",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ReadOnly reports whether the action never touches the filesystem.
func (a Action) ReadOnly() bool {
	return a == ActionList || a == ActionSummarize
}

// Automatic reports whether the kept member is chosen without asking.
func (a Action) Automatic() bool {
	return a == ActionNoPromptDelete || a == ActionHardLink || a == ActionSymLink
}

// ParseAction resolves an action by name.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action: %q", s)
}
