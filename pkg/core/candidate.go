// Package core defines the data model and collaborator contracts for
// sequential multi-objective sequence optimization: candidates, candidate
// pools, the black-box task oracle, and the inner minimizer interface.
package core

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a sequence-bearing entity with a stable unique identifier.
// Candidates are immutable once created; mutating a candidate produces a new
// one with a fresh identifier and an ancestor pointer at the parent.
type Candidate struct {
	ID         string    `json:"id"`
	Ancestor   string    `json:"ancestor"` // Originating wild-type name or parent candidate ID
	Sequence   string    `json:"sequence"`
	Generation int       `json:"generation"` // Mutation depth from the wild type
	CreatedAt  time.Time `json:"created_at"`
}

// NewCandidate creates a root candidate for a wild-type sequence.
func NewCandidate(wildName, sequence string) *Candidate {
	return &Candidate{
		ID:        uuid.New().String(),
		Ancestor:  wildName,
		Sequence:  sequence,
		CreatedAt: time.Now(),
	}
}

// Mutate derives a child candidate carrying the given sequence. The child
// gets a new identifier and its ancestor points at the parent.
func (c *Candidate) Mutate(sequence string) *Candidate {
	return &Candidate{
		ID:         uuid.New().String(),
		Ancestor:   c.ID,
		Sequence:   sequence,
		Generation: c.Generation + 1,
		CreatedAt:  time.Now(),
	}
}
