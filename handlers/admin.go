// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/easemyvote/auth"
	"github.com/danielhkuo/easemyvote/cliparse"
	"github.com/danielhkuo/easemyvote/db"
	"github.com/danielhkuo/easemyvote/importer"
	"github.com/danielhkuo/easemyvote/middleware"
	"github.com/danielhkuo/easemyvote/models"
	"github.com/danielhkuo/easemyvote/tally"
)

type AdminHandler struct {
	cfg        cliparse.Config
	voters     *db.VoterStore
	ballots    *db.BallotStore
	candidates *db.CandidateStore
}

func NewAdminHandler(database *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{
		cfg:        cfg,
		voters:     db.NewVoterStore(database),
		ballots:    db.NewBallotStore(database),
		candidates: db.NewCandidateStore(database),
	}
}

// requireAdmin gates every admin endpoint on the X-Admin-Key header. On
// failure it has already written the error response.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminAPIKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// contestSnapshot loads the ballots and candidates a tally runs over.
func (h *AdminHandler) contestSnapshot(w http.ResponseWriter, r *http.Request) (string, []models.Ballot, []models.Candidate, bool) {
	position := r.PathValue("position")
	if position == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position is required")
		return "", nil, nil, false
	}

	candidates, err := h.candidates.ByPosition(r.Context(), position)
	if err != nil {
		slog.Error("failed to load candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return "", nil, nil, false
	}
	ballots, err := h.ballots.All(r.Context(), position)
	if err != nil {
		slog.Error("failed to load ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return "", nil, nil, false
	}
	return position, ballots, candidates, true
}

// LiveTally handles GET /admin/contests/{position}/tally
// First-preference counts only, recomputed from the ballot snapshot on
// every request.
func (h *AdminHandler) LiveTally(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	_, ballots, candidates, ok := h.contestSnapshot(w, r)
	if !ok {
		return
	}

	counts := tally.Live(ballots, candidates)

	resp := models.LiveTallyResponse{
		Labels: make([]string, 0, len(candidates)),
		Votes:  make([]int, 0, len(candidates)),
	}
	for _, c := range candidates {
		resp.Labels = append(resp.Labels, c.Name)
		resp.Votes = append(resp.Votes, counts[c.ID])
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Results handles GET /admin/contests/{position}/results
// Runs the instant-runoff computation and returns the full round trace.
func (h *AdminHandler) Results(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	_, ballots, candidates, ok := h.contestSnapshot(w, r)
	if !ok {
		return
	}

	names := make(map[string]string, len(candidates))
	for _, c := range candidates {
		names[c.ID] = c.Name
	}

	result := tally.InstantRunoff(ballots, candidates)

	resp := models.ResultsResponse{Rounds: make([]models.ResultsRound, 0, len(result.Rounds))}
	for _, round := range result.Rounds {
		counts := make(map[string]int, len(round.Counts))
		for id, n := range round.Counts {
			counts[names[id]] = n
		}
		resp.Rounds = append(resp.Rounds, models.ResultsRound{
			Round:      round.Number,
			Counts:     counts,
			Eliminated: names[round.Eliminated],
		})
	}
	if result.Winner != "" {
		winner := names[result.Winner]
		resp.Winner = &winner
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// VoterRoll handles GET /admin/voters
func (h *AdminHandler) VoterRoll(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	voters, err := h.voters.All(r.Context())
	if err != nil {
		slog.Error("failed to list voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	roll := make([]models.VoterRollEntry, 0, len(voters))
	for _, v := range voters {
		entry := models.VoterRollEntry{
			Email:      v.Email,
			Name:       v.Name,
			IsVerified: v.IsVerified,
			HasVoted:   v.HasVoted,
		}
		if v.VotedAt != nil {
			entry.LastVoted = humanize.Time(*v.VotedAt)
		}
		roll = append(roll, entry)
	}

	middleware.JSONResponse(w, http.StatusOK, roll)
}

// ImportVoters handles POST /admin/voters/import
// Accepts the roster CSV either as a multipart "file" field or as the raw
// request body.
func (h *AdminHandler) ImportVoters(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var roster io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()
		roster = file
	}

	report, err := importer.ImportRoster(r.Context(), h.voters, roster, h.cfg.EmailPattern)
	if errors.Is(err, importer.ErrBadHeader) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("roster import failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Import failed")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}

// AddCandidate handles POST /admin/candidates
func (h *AdminHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Position == "" {
		req.Position = defaultPosition
	}

	id, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate candidate id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	candidate := models.Candidate{ID: id, Name: req.Name, Position: req.Position}
	if err := h.candidates.Insert(r.Context(), candidate); err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	slog.Info("candidate added", "id", id, "position", req.Position)
	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{CandidateID: id})
}
