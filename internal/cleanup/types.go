package cleanup

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRoots is returned by Discover when none of the supplied root
// directories can be scanned. No git command has run at that point.
var ErrNoRoots = errors.New("no usable root directory")

// Classification labels a branch before it is offered for deletion.
type Classification int

const (
	// Deletable branches may be selected for deletion.
	Deletable Classification = iota
	// Default branches match a configured default branch name exactly.
	Default
	// Protected branches match a configured protection pattern.
	Protected
)

func (c Classification) String() string {
	switch c {
	case Default:
		return "default"
	case Protected:
		return "protected"
	default:
		return "deletable"
	}
}

// MarshalText implements encoding.TextMarshaler so JSON output uses the name.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// BranchEntry is one classified branch of a located repository.
type BranchEntry struct {
	Repository     string         `json:"repository"`
	Branch         string         `json:"branch"`
	Classification Classification `json:"classification"`
	Current        bool           `json:"current,omitempty"`
}

// Target returns the (repository, branch) pair of the entry.
func (e BranchEntry) Target() Target {
	return Target{Repository: e.Repository, Branch: e.Branch}
}

// Target identifies one branch selected for deletion.
type Target struct {
	Repository string
	Branch     string
}

func (t Target) String() string {
	return t.Repository + "|" + t.Branch
}

// DiscoveryFailure records a repository or directory whose branches could
// not be listed. It never aborts discovery of other repositories.
type DiscoveryFailure struct {
	Repository string `json:"repository"`
	Err        string `json:"error"`
}

// DeletionOutcome is the result of deleting one branch.
type DeletionOutcome struct {
	Repository string `json:"repository"`
	Branch     string `json:"branch"`
	Success    bool   `json:"success"`
	Err        string `json:"error,omitempty"`
}

// EnumerationError is returned when git branch fails for a repository.
type EnumerationError struct {
	Repository string
	Detail     string
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("list branches in %s: %s", e.Repository, e.Detail)
}

// RejectedError is returned by Catalog.Select when the selection contains
// branches that are not deletable entries of the catalog.
type RejectedError struct {
	Targets []Target
	Reasons []string
}

func (e *RejectedError) Error() string {
	parts := make([]string, len(e.Targets))
	for i, t := range e.Targets {
		parts[i] = fmt.Sprintf("%s (%s)", t, e.Reasons[i])
	}
	return "refusing to delete " + strings.Join(parts, ", ")
}
