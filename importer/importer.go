// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/easemyvote/auth"
	"github.com/danielhkuo/easemyvote/db"
	"github.com/danielhkuo/easemyvote/models"
)

// ErrBadHeader is returned when the roster file lacks the required
// "Email ID" and "Name" columns.
var ErrBadHeader = errors.New("roster file missing Email ID or Name column")

// ImportRoster reads a CSV voter roster and inserts the entries that pass
// validation. Rows with a missing email or name, emails outside the
// membership pattern, and already-registered emails are skipped with a
// warning; a malformed row aborts the import. Import is additive only:
// existing voters are never modified or removed.
func ImportRoster(ctx context.Context, voters *db.VoterStore, r io.Reader, pattern []string) (models.ImportReport, error) {
	var report models.ImportReport

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return report, fmt.Errorf("failed to read roster header: %w", err)
	}

	emailCol, nameCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "email id":
			emailCol = i
		case "name":
			nameCol = i
		}
	}
	if emailCol < 0 || nameCol < 0 {
		return report, ErrBadHeader
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, fmt.Errorf("malformed roster row at line %d: %w", line+1, err)
		}
		line++

		email := strings.ToLower(strings.TrimSpace(record[emailCol]))
		name := strings.TrimSpace(record[nameCol])
		if email == "" || name == "" {
			slog.Warn("roster row skipped: missing field", "line", line)
			report.Skipped++
			continue
		}
		if !matchesPattern(email, pattern) {
			slog.Warn("roster row skipped: email outside membership pattern", "line", line, "email", email)
			report.Skipped++
			continue
		}

		_, err = voters.GetByEmail(ctx, email)
		if err == nil {
			slog.Warn("roster row skipped: voter already registered", "line", line, "email", email)
			report.Skipped++
			continue
		}
		if !errors.Is(err, db.ErrNotFound) {
			return report, err
		}

		id, err := auth.GenerateID(16)
		if err != nil {
			return report, fmt.Errorf("failed to generate voter id: %w", err)
		}
		voter := models.Voter{
			ID:        id,
			Email:     email,
			Name:      name,
			CreatedAt: time.Now(),
		}
		if err := voters.Insert(ctx, voter); err != nil {
			return report, err
		}
		report.Imported++
	}

	slog.Info("roster import finished", "imported", report.Imported, "skipped", report.Skipped)
	return report, nil
}

func matchesPattern(email string, pattern []string) bool {
	for _, part := range pattern {
		if !strings.Contains(email, part) {
			return false
		}
	}
	return true
}
