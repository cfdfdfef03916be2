// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danielhkuo/easemyvote/db"
	"github.com/danielhkuo/easemyvote/testutil"
)

var pattern = []string{"sias", "krea.ac.in"}

func TestImportRoster(t *testing.T) {
	database := testutil.SetupTestDB(t)
	voters := db.NewVoterStore(database)

	roster := strings.Join([]string{
		"Name,Email ID,Batch",
		"Asha Rao,asha.sias@krea.ac.in,2024",
		"Ben Thomas,BEN.SIAS@krea.ac.in,2025",
		",missing.name.sias@krea.ac.in,2024",
		"No Email,,2024",
		"Outsider,outsider@example.com,2024",
	}, "\n")

	report, err := ImportRoster(context.Background(), voters, strings.NewReader(roster), pattern)
	if err != nil {
		t.Fatalf("ImportRoster failed: %v", err)
	}

	if report.Imported != 2 {
		t.Errorf("Imported = %d, want 2", report.Imported)
	}
	if report.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", report.Skipped)
	}

	// Emails are normalized to lowercase on the way in
	voter, err := voters.GetByEmail(context.Background(), "ben.sias@krea.ac.in")
	if err != nil {
		t.Fatalf("Imported voter not found: %v", err)
	}
	if voter.Name != "Ben Thomas" {
		t.Errorf("Voter name = %q, want Ben Thomas", voter.Name)
	}
	if voter.IsVerified || voter.HasVoted {
		t.Errorf("Imported voter should start unverified: %+v", voter)
	}
}

func TestImportRosterIdempotent(t *testing.T) {
	database := testutil.SetupTestDB(t)
	voters := db.NewVoterStore(database)

	roster := "Email ID,Name\nasha.sias@krea.ac.in,Asha Rao\n"

	if _, err := ImportRoster(context.Background(), voters, strings.NewReader(roster), pattern); err != nil {
		t.Fatalf("First import failed: %v", err)
	}
	report, err := ImportRoster(context.Background(), voters, strings.NewReader(roster), pattern)
	if err != nil {
		t.Fatalf("Second import failed: %v", err)
	}

	if report.Imported != 0 || report.Skipped != 1 {
		t.Errorf("Re-import = %+v, want 0 imported / 1 skipped", report)
	}
}

func TestImportRosterBadHeader(t *testing.T) {
	database := testutil.SetupTestDB(t)
	voters := db.NewVoterStore(database)

	_, err := ImportRoster(context.Background(), voters, strings.NewReader("Mail,Person\nx,y\n"), pattern)
	if !errors.Is(err, ErrBadHeader) {
		t.Errorf("Expected ErrBadHeader, got %v", err)
	}
}

func TestImportRosterMalformedRowAborts(t *testing.T) {
	database := testutil.SetupTestDB(t)
	voters := db.NewVoterStore(database)

	roster := "Email ID,Name\nasha.sias@krea.ac.in,Asha Rao\n\"unterminated,Broken\n"

	_, err := ImportRoster(context.Background(), voters, strings.NewReader(roster), pattern)
	if err == nil {
		t.Fatal("Expected an error for a malformed row")
	}
}
