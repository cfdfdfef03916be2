// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides schema creation and the persistence stores.

# Schema

CreateSchema is idempotent (IF NOT EXISTS) and portable across the two
supported backends, PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).
Queries use $1-style placeholders, which both drivers accept.

# Stores

  - VoterStore: roster identities and their verification/voting state.
    The voter table is the only place an anonymized token maps back to an
    identity.
  - BallotStore: one ballot per anonymized token, enforced by the table's
    PRIMARY KEY. PutAndMarkVoted performs the ballot upsert and the
    has-voted flag flip in one transaction.
  - CandidateStore: immutable contest rosters.

# Errors

Store failures wrap ErrStorage so callers can detect transient persistence
problems with errors.Is. Missing rows are ErrNotFound; ballots naming
candidates outside the roster are ErrInvalidPreference.
*/
package db
