package pareto

import (
	"github.com/XiaoConstantine/lambo-go/pkg/core"
)

// Archive is the frontier history: every candidate that was ever
// non-dominated, retained even after being dominated by later arrivals.
// Entries are never removed, so the archive only grows, and it never holds
// two entries with the same sequence.
type Archive struct {
	history *core.Pool
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{history: core.NewPool()}
}

// MergeFrontier appends the subset of the frontier whose sequences are not
// already archived. Returns the number of entries added.
func (a *Archive) MergeFrontier(frontier *core.Pool) int {
	return a.history.Extend(frontier)
}

// Len returns the number of archived entries.
func (a *Archive) Len() int {
	return a.history.Len()
}

// History returns the underlying pool. Callers must treat it as read-only.
func (a *Archive) History() *core.Pool {
	return a.history
}
