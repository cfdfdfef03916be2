// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/easemyvote/models"
)

// BallotStore holds at most one ballot per anonymized token. Writes are
// insert-or-replace, never append.
type BallotStore struct {
	db *sql.DB
}

func NewBallotStore(db *sql.DB) *BallotStore {
	return &BallotStore{db: db}
}

// PutAndMarkVoted upserts the ballot and flips the owning voter's has-voted
// flag in a single transaction: the two writes succeed or fail together, so
// an abandoned request can never leave a voter marked Voted without a
// committed ballot. Preferences are validated against the contest roster
// inside the transaction; unknown candidate ids fail with
// ErrInvalidPreference. Returns whether this was an insert (first ballot
// for the token) or an update (replacement).
func (s *BallotStore) PutAndMarkVoted(ctx context.Context, voterID string, b models.Ballot) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storageErr("begin ballot tx", err)
	}
	defer tx.Rollback()

	// Validate preference candidate ids against the roster
	valid, err := contestCandidateIDs(ctx, tx, b.Position)
	if err != nil {
		return false, storageErr("load contest roster", err)
	}
	for _, id := range []string{b.Preferences.First, b.Preferences.Second} {
		if id != "" && !valid[id] {
			return false, ErrInvalidPreference
		}
	}

	// Check if a ballot already exists for this token
	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT anon_token FROM ballot WHERE anon_token = $1
	`, b.AnonToken).Scan(&existing)

	isUpdate := err != sql.ErrNoRows
	if err != nil && err != sql.ErrNoRows {
		return false, storageErr("query existing ballot", err)
	}

	first := nullable(b.Preferences.First)
	second := nullable(b.Preferences.Second)

	if isUpdate {
		// Replace the existing ballot wholesale
		_, err = tx.ExecContext(ctx, `
			UPDATE ballot
			SET position = $1, first_pref = $2, second_pref = $3, submitted_at = $4
			WHERE anon_token = $5
		`, b.Position, first, second, b.SubmittedAt, b.AnonToken)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ballot (anon_token, position, first_pref, second_pref, submitted_at)
			VALUES ($1, $2, $3, $4, $5)
		`, b.AnonToken, b.Position, first, second, b.SubmittedAt)
	}
	if err != nil {
		return false, storageErr("write ballot", err)
	}

	// Flip the voter flag in the same transaction
	_, err = tx.ExecContext(ctx, `
		UPDATE voter SET has_voted = TRUE, voted_at = $1 WHERE id = $2
	`, b.SubmittedAt, voterID)
	if err != nil {
		return false, storageErr("mark voter voted", err)
	}

	if err := tx.Commit(); err != nil {
		return false, storageErr("commit ballot tx", err)
	}

	return !isUpdate, nil
}

// Get returns the current ballot for the token, or ErrNotFound.
func (s *BallotStore) Get(ctx context.Context, anonToken string) (models.Ballot, error) {
	var b models.Ballot
	var first, second sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT anon_token, position, first_pref, second_pref, submitted_at
		FROM ballot WHERE anon_token = $1
	`, anonToken).Scan(&b.AnonToken, &b.Position, &first, &second, &b.SubmittedAt)

	if err == sql.ErrNoRows {
		return models.Ballot{}, ErrNotFound
	}
	if err != nil {
		return models.Ballot{}, storageErr("get ballot", err)
	}
	b.Preferences.First = first.String
	b.Preferences.Second = second.String
	return b, nil
}

// All returns a consistent snapshot of every ballot for a contest. The
// snapshot is taken in a single statement, so a concurrently committing
// write is either fully present or fully absent - never half-written.
func (s *BallotStore) All(ctx context.Context, position string) ([]models.Ballot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT anon_token, position, first_pref, second_pref, submitted_at
		FROM ballot WHERE position = $1
		ORDER BY anon_token
	`, position)
	if err != nil {
		return nil, storageErr("list ballots", err)
	}
	defer rows.Close()

	var ballots []models.Ballot
	for rows.Next() {
		var b models.Ballot
		var first, second sql.NullString
		if err := rows.Scan(&b.AnonToken, &b.Position, &first, &second, &b.SubmittedAt); err != nil {
			return nil, storageErr("scan ballot", err)
		}
		b.Preferences.First = first.String
		b.Preferences.Second = second.String
		ballots = append(ballots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list ballots", err)
	}
	return ballots, nil
}

func contestCandidateIDs(ctx context.Context, tx *sql.Tx, position string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM candidate WHERE position = $1
	`, position)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
