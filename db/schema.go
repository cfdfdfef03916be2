// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrStorage marks transient persistence failures. Callers retry or
	// surface an error; they never partially apply related writes.
	ErrStorage = errors.New("storage error")

	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPreference is returned when a ballot names a candidate id
	// outside the contest roster.
	ErrInvalidPreference = errors.New("invalid preference")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Voters (roster identities; the only table that can reverse an anon token)
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    anon_token TEXT UNIQUE,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    rules_accepted BOOLEAN NOT NULL DEFAULT FALSE,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    voted_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voter_email ON voter(email);
CREATE INDEX IF NOT EXISTS idx_voter_anon_token ON voter(anon_token);

-- Candidates (seeded by admins, immutable afterwards)
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    position TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidate_position ON candidate(position);

-- Ballots (keyed by anon token; the PRIMARY KEY is the storage-level
-- backstop for the one-ballot-per-voter invariant)
CREATE TABLE IF NOT EXISTS ballot (
    anon_token TEXT PRIMARY KEY,
    position TEXT NOT NULL,
    first_pref TEXT,
    second_pref TEXT,
    submitted_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ballot_position ON ballot(position);
`
