package moo

import (
	"math/rand"
)

// ResidueSampler draws replacement residues for point mutations. The uniform
// sampler is the model-free default; score-biased samplers plug in an
// auxiliary scoring model without changing the optimizer contract.
type ResidueSampler interface {
	Sample(rng *rand.Rand, position int, alphabet []rune) rune
}

// UniformSampler draws residues uniformly from the alphabet.
type UniformSampler struct{}

func (UniformSampler) Sample(rng *rand.Rand, _ int, alphabet []rune) rune {
	return alphabet[rng.Intn(len(alphabet))]
}

// FrequencyScorer is a positional-frequency residue model fit on observed
// sequences. It stands in for an external learned scorer: mutation draws are
// biased toward residues frequently seen at the same position, with additive
// smoothing so unseen residues stay reachable.
type FrequencyScorer struct {
	counts []map[rune]float64
}

// NewFrequencyScorer fits positional residue counts on the given sequences.
func NewFrequencyScorer(sequences []string) *FrequencyScorer {
	maxLen := 0
	for _, s := range sequences {
		if len([]rune(s)) > maxLen {
			maxLen = len([]rune(s))
		}
	}

	counts := make([]map[rune]float64, maxLen)
	for i := range counts {
		counts[i] = make(map[rune]float64)
	}
	for _, s := range sequences {
		for i, r := range []rune(s) {
			counts[i][r]++
		}
	}
	return &FrequencyScorer{counts: counts}
}

// Score returns the smoothed positional frequency of a residue.
func (f *FrequencyScorer) Score(position int, residue rune) float64 {
	if position < 0 || position >= len(f.counts) {
		return 1
	}
	return f.counts[position][residue] + 1
}

// Sample draws a residue proportional to its positional score.
func (f *FrequencyScorer) Sample(rng *rand.Rand, position int, alphabet []rune) rune {
	total := 0.0
	for _, r := range alphabet {
		total += f.Score(position, r)
	}

	u := rng.Float64() * total
	cum := 0.0
	for _, r := range alphabet {
		cum += f.Score(position, r)
		if u < cum {
			return r
		}
	}
	return alphabet[len(alphabet)-1]
}
