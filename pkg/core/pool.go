package core

import (
	"github.com/XiaoConstantine/lambo-go/pkg/errors"
)

// Entry pairs a candidate with its evaluated objective vector.
type Entry struct {
	Candidate  *Candidate
	Objectives []float64
}

// Pool is an ordered collection of evaluated candidates keyed by sequence.
// A pool never contains two entries with the same sequence; Append and
// Extend silently skip duplicates so callers can merge batches without
// pre-filtering.
type Pool struct {
	entries []Entry
	seqIdx  map[string]int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{seqIdx: make(map[string]int)}
}

// Len returns the number of entries.
func (p *Pool) Len() int {
	return len(p.entries)
}

// Contains reports whether a sequence is already present.
func (p *Pool) Contains(sequence string) bool {
	_, ok := p.seqIdx[sequence]
	return ok
}

// Append adds a candidate with its objectives. Returns true if the entry was
// added, false if the sequence was already present.
func (p *Pool) Append(cand *Candidate, objectives []float64) bool {
	if _, ok := p.seqIdx[cand.Sequence]; ok {
		return false
	}
	p.seqIdx[cand.Sequence] = len(p.entries)
	p.entries = append(p.entries, Entry{Candidate: cand, Objectives: objectives})
	return true
}

// Extend appends every entry of other whose sequence is not yet present.
// Returns the number of entries added.
func (p *Pool) Extend(other *Pool) int {
	added := 0
	for _, e := range other.entries {
		if p.Append(e.Candidate, e.Objectives) {
			added++
		}
	}
	return added
}

// At returns the entry at index i.
func (p *Pool) At(i int) Entry {
	return p.entries[i]
}

// Entries returns the backing entry slice. Callers must not mutate it.
func (p *Pool) Entries() []Entry {
	return p.entries
}

// Candidates returns the candidates in pool order.
func (p *Pool) Candidates() []*Candidate {
	out := make([]*Candidate, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Candidate
	}
	return out
}

// Objectives returns the objective matrix in pool order.
func (p *Pool) Objectives() [][]float64 {
	out := make([][]float64, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Objectives
	}
	return out
}

// Sequences returns the raw sequences in pool order.
func (p *Pool) Sequences() []string {
	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Candidate.Sequence
	}
	return out
}

// Clone returns a shallow copy sharing candidates but not index structures.
func (p *Pool) Clone() *Pool {
	cp := &Pool{
		entries: make([]Entry, len(p.entries)),
		seqIdx:  make(map[string]int, len(p.seqIdx)),
	}
	copy(cp.entries, p.entries)
	for k, v := range p.seqIdx {
		cp.seqIdx[k] = v
	}
	return cp
}

// Filter returns a new pool holding only entries for which keep returns true.
func (p *Pool) Filter(keep func(Entry) bool) *Pool {
	out := NewPool()
	for _, e := range p.entries {
		if keep(e) {
			out.Append(e.Candidate, e.Objectives)
		}
	}
	return out
}

// Select returns a new pool holding the entries at the given indices.
// Indices must be valid; duplicate sequences are skipped.
func (p *Pool) Select(indices []int) (*Pool, error) {
	out := NewPool()
	for _, i := range indices {
		if i < 0 || i >= len(p.entries) {
			return nil, errors.WithFields(
				errors.New(errors.InvalidInput, "pool index out of range"),
				errors.Fields{"index": i, "size": len(p.entries)})
		}
		entry := p.At(i)
		out.Append(entry.Candidate, entry.Objectives)
	}
	return out, nil
}
