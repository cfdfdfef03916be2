// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"sort"

	"github.com/danielhkuo/easemyvote/models"
)

// Round records one elimination round of an instant-runoff count.
// Counts is keyed by candidate id and covers every candidate still active
// at the start of the round, including zero-vote candidates.
type Round struct {
	Number     int
	Counts     map[string]int
	Eliminated string // candidate id, empty if the round produced a winner
	Winner     string // candidate id, empty if no winner yet
}

// Result is a full instant-runoff outcome with its per-round audit trace.
// Winner is empty when no winner exists (no ballots, or no ballot carries a
// countable preference).
type Result struct {
	Rounds []Round
	Winner string
}

// Live computes the first-preference count per candidate across the ballot
// set. Every candidate appears in the output, zero-vote candidates
// included. Ballots whose first preference is empty or outside the
// candidate set contribute nothing. The computation is a single pass and
// idempotent: the same ballot set always yields identical counts.
func Live(ballots []models.Ballot, candidates []models.Candidate) map[string]int {
	counts := make(map[string]int, len(candidates))
	for _, c := range candidates {
		counts[c.ID] = 0
	}
	for _, b := range ballots {
		if _, ok := counts[b.Preferences.First]; ok {
			counts[b.Preferences.First]++
		}
	}
	return counts
}

// InstantRunoff determines the contest winner by repeated elimination:
//
//  1. Count current first preferences across still-active ballots.
//  2. A candidate with a strict majority of counted ballots wins.
//  3. A sole remaining candidate wins, unless no ballots remain counted.
//  4. Otherwise the candidate with the fewest first-preference votes is
//     eliminated; its ballots promote their second preference into the
//     first slot (single-level promotion, the engine ranks exactly two).
//
// Elimination ties break to the lexicographically smallest candidate id.
// Zero-vote active candidates are in the elimination pool: zero is
// strictly fewest. Both rules are observable in the round trace and
// covered by tests; changing either changes published results.
func InstantRunoff(ballots []models.Ballot, candidates []models.Candidate) Result {
	if len(candidates) == 0 || len(ballots) == 0 {
		// No winner, zero rounds
		return Result{}
	}

	active := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		active[c.ID] = true
	}

	// Work on a copy; promotion mutates preference slots
	prefs := make([]models.Preferences, len(ballots))
	for i, b := range ballots {
		prefs[i] = b.Preferences
	}

	var rounds []Round
	for number := 1; ; number++ {
		counts := make(map[string]int, len(active))
		for id := range active {
			counts[id] = 0
		}
		total := 0
		for _, p := range prefs {
			if p.First != "" && active[p.First] {
				counts[p.First]++
				total++
			}
		}

		round := Round{Number: number, Counts: counts}

		// Strict majority wins immediately
		if total > 0 {
			for id, c := range counts {
				if 2*c > total {
					round.Winner = id
					rounds = append(rounds, round)
					return Result{Rounds: rounds, Winner: id}
				}
			}
		}

		// Sole remaining candidate wins, if anyone still counts for them
		if len(active) == 1 {
			if total > 0 {
				for id := range active {
					round.Winner = id
				}
			}
			rounds = append(rounds, round)
			return Result{Rounds: rounds, Winner: round.Winner}
		}

		// Nothing countable left: no elimination can create a winner
		if total == 0 {
			rounds = append(rounds, round)
			return Result{Rounds: rounds}
		}

		eliminated := fewestVotes(counts)
		round.Eliminated = eliminated
		rounds = append(rounds, round)
		delete(active, eliminated)

		// Single-level promotion for ballots that backed the eliminated
		// candidate. A promoted preference that is itself eliminated or
		// invalid simply stops counting; it is never re-promoted.
		for i := range prefs {
			if prefs[i].First == eliminated {
				prefs[i].First = prefs[i].Second
				prefs[i].Second = ""
			}
		}
	}
}

// fewestVotes returns the candidate to eliminate: lowest count, ties
// broken by lexicographically smallest id.
func fewestVotes(counts map[string]int) string {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	loser := ids[0]
	for _, id := range ids[1:] {
		if counts[id] < counts[loser] {
			loser = id
		}
	}
	return loser
}
