// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally implements the vote counting for a two-preference
ranked-choice contest.

Two computations are provided, both pure functions over an in-memory
ballot snapshot:

  - Live: first-preference counts only, recomputed for the dashboard on
    every read. O(|ballots|), idempotent, eventually consistent with
    in-flight writes.
  - InstantRunoff: the final winner by instant-runoff voting, with a
    per-round trace (counts, elimination, winner) kept for auditability.

# Determinism

For a fixed ballot set and candidate set the outcome is fully
deterministic. Elimination ties break to the lexicographically smallest
candidate id, and zero-vote active candidates are eliminable. Both rules
are part of the published round trace, so they are contract, not
implementation detail.

# Edge Cases

Empty ballot set: no winner, zero rounds. Single-candidate contest with
any countable ballot: immediate winner in one round. Ballots whose
preferences never match an active candidate contribute zero and are
dropped from subsequent counts.
*/
package tally
