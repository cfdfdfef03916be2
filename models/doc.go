// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the shared request, response, and domain types for
the EaseMyVote API.

# Domain Types

  - Voter: roster identity with verification/voting state. Voter.AnonToken
    is the only link between an identity and its ballot; it never appears
    in JSON output.
  - Candidate: immutable contest entry, grouped by Position.
  - Ballot: anonymized two-preference ballot. Keyed by anonymized token,
    never by voter identity.

# Preferences

Preferences is the validated form of the ballot payload: at most two ranked
candidate ids, empty string meaning "no preference in this slot". The ballot
store rejects ids outside the contest roster.

# Anonymity Boundary

Ballot and Voter are only joinable through Voter.AnonToken. Code that
serves tallies must not touch the voter table; code that serves the voter
roll must not touch the ballot table.
*/
package models
