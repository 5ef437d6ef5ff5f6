// Package lambo is a Go implementation of sequential multi-objective
// evolutionary optimization over discrete sequences.
//
// A run maintains a growing pool of labeled candidates and repeatedly evolves
// a small active working set with an inner population optimizer, filtering
// each round's proposals for feasibility and novelty before they join the
// pool. The Pareto frontier is recomputed every round and every point that
// was ever non-dominated is archived, so the active set can backtrack to
// previously promising regions.
//
// Key Components:
//
//   - Core: the candidate/pool data model and the collaborator contracts
//     (Task oracle, Problem, Minimizer) the loop is built against.
//
//   - Optimizers: the round-loop controller, the active-set state machine,
//     and the task strategies that bridge the outer loop to the inner
//     optimizer.
//
//   - Moo: the default inner optimizer, a sequence-encoded NSGA-II with
//     pluggable residue sampling.
//
//   - Pareto: dominance tests, frontier extraction, and the frontier
//     history archive.
//
//   - Metrics: hypervolume, R2, and hypervolume Sharpe-ratio convergence
//     indicators computed per round.
//
//   - Tracking: per-candidate and per-round record sinks (console, SQLite,
//     fan-out).
//
//   - Datasets and Tasks: initial pool loading from Parquet/CSV files and a
//     built-in synthetic benchmark oracle.
//
// The lambo-cli command under cmd/ runs the whole loop from a YAML
// configuration file.
package lambo
