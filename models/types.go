// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type LoginRequest struct {
	Email string `json:"email"`
}

type SubmitVoteRequest struct {
	Position   string `json:"position"`
	FirstPref  string `json:"first_pref"`
	SecondPref string `json:"second_pref"`
}

type AddCandidateRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// Response types

type LoginResponse struct {
	Message string `json:"message"`
}

type VerifyResponse struct {
	SessionToken string `json:"session_token"`
}

type SubmitVoteResponse struct {
	Message string `json:"message"`
}

type SummaryResponse struct {
	FirstPref  string `json:"first_pref"`
	SecondPref string `json:"second_pref"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

// LiveTallyResponse is the dashboard chart payload: labels[i] is the
// candidate name for votes[i].
type LiveTallyResponse struct {
	Labels []string `json:"labels"`
	Votes  []int    `json:"votes"`
}

// ResultsRound is one elimination round in the IRV trace. Counts is keyed
// by candidate name.
type ResultsRound struct {
	Round      int            `json:"round"`
	Counts     map[string]int `json:"counts"`
	Eliminated string         `json:"eliminated,omitempty"`
}

type ResultsResponse struct {
	Rounds []ResultsRound `json:"rounds"`
	Winner *string        `json:"winner"`
}

// VoterRollEntry is one row of the admin voter roll. LastVoted is a
// human-readable relative time ("3 days ago"), empty if never voted.
type VoterRollEntry struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsVerified bool   `json:"is_verified"`
	HasVoted   bool   `json:"has_voted"`
	LastVoted  string `json:"last_voted,omitempty"`
}

type ImportReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Domain types

type Voter struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	AnonToken     string     `json:"-"` // Never expose in JSON
	IsVerified    bool       `json:"is_verified"`
	RulesAccepted bool       `json:"rules_accepted"`
	HasVoted      bool       `json:"has_voted"`
	VotedAt       *time.Time `json:"voted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// Preferences is a ranked two-preference ballot payload. An empty string
// means the slot is unset. Candidate ids are validated at the store boundary.
type Preferences struct {
	First  string `json:"first_pref,omitempty"`
	Second string `json:"second_pref,omitempty"`
}

type Ballot struct {
	AnonToken   string      `json:"-"` // Never expose in JSON
	Position    string      `json:"position"`
	Preferences Preferences `json:"preferences"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
