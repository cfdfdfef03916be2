// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/easemyvote/models"
)

// VoterStore reads and writes voter rows. It is the access-controlled side
// table that maps anonymized tokens back to identities; nothing else in the
// system may perform that reverse lookup.
type VoterStore struct {
	db *sql.DB
}

func NewVoterStore(db *sql.DB) *VoterStore {
	return &VoterStore{db: db}
}

const voterColumns = `id, email, name, anon_token, is_verified, rules_accepted, has_voted, voted_at, created_at`

func scanVoter(row *sql.Row) (models.Voter, error) {
	var v models.Voter
	var anonToken sql.NullString
	var votedAt sql.NullTime
	err := row.Scan(&v.ID, &v.Email, &v.Name, &anonToken, &v.IsVerified,
		&v.RulesAccepted, &v.HasVoted, &votedAt, &v.CreatedAt)
	if err != nil {
		return models.Voter{}, err
	}
	if anonToken.Valid {
		v.AnonToken = anonToken.String
	}
	if votedAt.Valid {
		t := votedAt.Time
		v.VotedAt = &t
	}
	return v, nil
}

// GetByEmail returns the voter with the given (normalized) email, or
// ErrNotFound.
func (s *VoterStore) GetByEmail(ctx context.Context, email string) (models.Voter, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+voterColumns+` FROM voter WHERE email = $1
	`, email)

	v, err := scanVoter(row)
	if err == sql.ErrNoRows {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, storageErr("get voter by email", err)
	}
	return v, nil
}

// GetByID returns the voter with the given id, or ErrNotFound.
func (s *VoterStore) GetByID(ctx context.Context, id string) (models.Voter, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+voterColumns+` FROM voter WHERE id = $1
	`, id)

	v, err := scanVoter(row)
	if err == sql.ErrNoRows {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, storageErr("get voter by id", err)
	}
	return v, nil
}

// Insert adds a new roster entry. Duplicate emails fail with ErrStorage;
// the importer checks for existing voters first and skips them.
func (s *VoterStore) Insert(ctx context.Context, v models.Voter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO voter (id, email, name, is_verified, rules_accepted, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.Email, v.Name, v.IsVerified, v.RulesAccepted, v.HasVoted, v.CreatedAt)
	if err != nil {
		return storageErr("insert voter", err)
	}
	return nil
}

// MarkVerified flips the voter to verified and records the anonymized
// token if the voter does not hold one yet. The token is minted at most
// once per voter lifetime.
func (s *VoterStore) MarkVerified(ctx context.Context, id, anonToken string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE voter
		SET is_verified = TRUE,
		    anon_token = COALESCE(anon_token, $1)
		WHERE id = $2
	`, anonToken, id)
	if err != nil {
		return storageErr("mark voter verified", err)
	}
	return nil
}

// AcceptRules records the voter's rules acknowledgment.
func (s *VoterStore) AcceptRules(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE voter SET rules_accepted = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return storageErr("accept rules", err)
	}
	return nil
}

// ResetVotingStatus returns a voter to the unverified state after the
// cool-down window has elapsed. The prior ballot is left in place; a
// re-vote replaces it through the normal submission path.
func (s *VoterStore) ResetVotingStatus(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE voter
		SET has_voted = FALSE, is_verified = FALSE, rules_accepted = FALSE
		WHERE id = $1
	`, id)
	if err != nil {
		return storageErr("reset voting status", err)
	}
	return nil
}

// All returns every roster entry ordered by email, for the admin voter
// roll.
func (s *VoterStore) All(ctx context.Context) ([]models.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+voterColumns+` FROM voter ORDER BY email
	`)
	if err != nil {
		return nil, storageErr("list voters", err)
	}
	defer rows.Close()

	var voters []models.Voter
	for rows.Next() {
		var v models.Voter
		var anonToken sql.NullString
		var votedAt sql.NullTime
		if err := rows.Scan(&v.ID, &v.Email, &v.Name, &anonToken, &v.IsVerified,
			&v.RulesAccepted, &v.HasVoted, &votedAt, &v.CreatedAt); err != nil {
			return nil, storageErr("scan voter", err)
		}
		if anonToken.Valid {
			v.AnonToken = anonToken.String
		}
		if votedAt.Valid {
			t := votedAt.Time
			v.VotedAt = &t
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list voters", err)
	}
	return voters, nil
}
