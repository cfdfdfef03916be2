// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/easemyvote/auth"
	"github.com/danielhkuo/easemyvote/cliparse"
	"github.com/danielhkuo/easemyvote/db"
	"github.com/danielhkuo/easemyvote/models"
	_ "modernc.org/sqlite"
)

// Each test gets its own named in-memory database so state never leaks
// between tests.
var dbSeq atomic.Int64

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// It is closed automatically when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:easemyvote_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes
	// writers, which SQLite requires anyway.
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	if err := db.CreateSchema(database); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return database
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8000,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		SecretKey:    "test-signing-secret",
		AdminAPIKey:  "test-admin-key",
		BaseURL:      "http://127.0.0.1:8000",
		EmailPattern: []string{"sias", "krea.ac.in"},
		CoolDown:     180 * 24 * time.Hour,
	}
}

// CreateTestVoter inserts a roster entry and returns its voter ID.
// state should be "unverified", "verified", "rules_accepted", or "voted".
func CreateTestVoter(t *testing.T, database *sql.DB, email, state string) string {
	t.Helper()

	voterID, _ := auth.GenerateID(16)
	isVerified := state == "verified" || state == "rules_accepted" || state == "voted"
	rulesAccepted := state == "rules_accepted" || state == "voted"
	hasVoted := state == "voted"

	var anonToken *string
	if isVerified {
		token := auth.NewAnonToken()
		anonToken = &token
	}
	var votedAt *time.Time
	if hasVoted {
		now := time.Now()
		votedAt = &now
	}

	_, err := database.Exec(`
		INSERT INTO voter (id, email, name, anon_token, is_verified, rules_accepted, has_voted, voted_at, created_at)
		VALUES ($1, $2, 'Test Voter', $3, $4, $5, $6, $7, $8)
	`, voterID, email, anonToken, isVerified, rulesAccepted, hasVoted, votedAt, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterID
}

// AnonTokenFor looks up the anonymized ballot key a voter was issued.
func AnonTokenFor(t *testing.T, database *sql.DB, voterID string) string {
	t.Helper()

	var token sql.NullString
	err := database.QueryRow(`SELECT anon_token FROM voter WHERE id = $1`, voterID).Scan(&token)
	if err != nil {
		t.Fatalf("Failed to read anon token: %v", err)
	}
	return token.String
}

// AddTestCandidate seeds a candidate with a fixed id for a contest.
func AddTestCandidate(t *testing.T, database *sql.DB, id, name, position string) {
	t.Helper()

	_, err := database.Exec(`
		INSERT INTO candidate (id, name, position) VALUES ($1, $2, $3)
	`, id, name, position)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
}

// SubmitTestBallot writes a ballot row directly, bypassing the session
// coordinator, for tally and admin tests.
func SubmitTestBallot(t *testing.T, database *sql.DB, anonToken, position string, prefs models.Preferences) {
	t.Helper()

	var first, second *string
	if prefs.First != "" {
		first = &prefs.First
	}
	if prefs.Second != "" {
		second = &prefs.Second
	}

	_, err := database.Exec(`
		INSERT INTO ballot (anon_token, position, first_pref, second_pref, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, anonToken, position, first, second, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
