// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/easemyvote/db"
	"github.com/danielhkuo/easemyvote/middleware"
	"github.com/danielhkuo/easemyvote/models"
	"github.com/danielhkuo/easemyvote/session"
)

// defaultPosition is the contest used when a request does not name one.
// The election currently runs a single contest.
const defaultPosition = "MOCC"

type VotingHandler struct {
	coord *session.Coordinator
}

func NewVotingHandler(coord *session.Coordinator) *VotingHandler {
	return &VotingHandler{coord: coord}
}

// voterFromRequest resolves the X-Session-Token header. On failure it has
// already written the error response.
func (h *VotingHandler) voterFromRequest(w http.ResponseWriter, r *http.Request) (models.Voter, bool) {
	token := r.Header.Get("X-Session-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-Token header required")
		return models.Voter{}, false
	}

	voter, err := h.coord.FromSession(r.Context(), token)
	if errors.Is(err, session.ErrVerification) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session expired or invalid. Please log in again.")
		return models.Voter{}, false
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong")
		return models.Voter{}, false
	}
	return voter, true
}

// AcceptRules handles POST /rules/accept
func (h *VotingHandler) AcceptRules(w http.ResponseWriter, r *http.Request) {
	voter, ok := h.voterFromRequest(w, r)
	if !ok {
		return
	}

	err := h.coord.AcceptRules(r.Context(), voter.ID)
	if errors.Is(err, session.ErrSequence) {
		middleware.ErrorResponse(w, http.StatusConflict, "Email verification is required first")
		return
	}
	if err != nil {
		slog.Error("failed to accept rules", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Rules accepted"})
}

// ListCandidates handles GET /contests/{position}/candidates
func (h *VotingHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	position := r.PathValue("position")
	if position == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position is required")
		return
	}

	voter, ok := h.voterFromRequest(w, r)
	if !ok {
		return
	}

	candidates, err := h.coord.Candidates(r.Context(), voter.ID, position)
	if errors.Is(err, session.ErrSequence) {
		middleware.ErrorResponse(w, http.StatusConflict, "Please accept the voting rules first")
		return
	}
	if err != nil {
		slog.Error("failed to list candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// SubmitVote handles POST /vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := h.voterFromRequest(w, r)
	if !ok {
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Position == "" {
		req.Position = defaultPosition
	}
	if req.FirstPref == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "first_pref is required")
		return
	}
	if req.SecondPref != "" && req.SecondPref == req.FirstPref {
		middleware.ErrorResponse(w, http.StatusBadRequest, "first and second preference must differ")
		return
	}

	prefs := models.Preferences{First: req.FirstPref, Second: req.SecondPref}
	inserted, err := h.coord.SubmitBallot(r.Context(), voter.ID, req.Position, prefs)
	if errors.Is(err, session.ErrSequence) {
		middleware.ErrorResponse(w, http.StatusConflict, "Please accept the voting rules first")
		return
	}
	if errors.Is(err, db.ErrInvalidPreference) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown candidate in ballot")
		return
	}
	if err != nil {
		slog.Error("failed to submit ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	message := "Your vote has been updated."
	status := http.StatusOK
	if inserted {
		message = "Your vote has been recorded."
		status = http.StatusCreated
	}
	middleware.JSONResponse(w, status, models.SubmitVoteResponse{Message: message})
}

// Summary handles GET /summary
func (h *VotingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	voter, ok := h.voterFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.coord.Summary(r.Context(), voter.ID)
	if errors.Is(err, session.ErrSequence) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No ballot on record yet")
		return
	}
	if err != nil {
		slog.Error("failed to build summary", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}
