// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/easemyvote/models"
)

// CandidateStore reads and seeds contest rosters. Candidates are immutable
// after insertion.
type CandidateStore struct {
	db *sql.DB
}

func NewCandidateStore(db *sql.DB) *CandidateStore {
	return &CandidateStore{db: db}
}

// Insert seeds one candidate.
func (s *CandidateStore) Insert(ctx context.Context, c models.Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidate (id, name, position)
		VALUES ($1, $2, $3)
	`, c.ID, c.Name, c.Position)
	if err != nil {
		return storageErr("insert candidate", err)
	}
	return nil
}

// ByPosition returns a contest's candidates ordered by id, so callers see
// a stable order everywhere a roster is rendered or tallied.
func (s *CandidateStore) ByPosition(ctx context.Context, position string) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, position FROM candidate
		WHERE position = $1
		ORDER BY id
	`, position)
	if err != nil {
		return nil, storageErr("list candidates", err)
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Position); err != nil {
			return nil, storageErr("scan candidate", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list candidates", err)
	}
	return candidates, nil
}
