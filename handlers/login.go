// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/easemyvote/middleware"
	"github.com/danielhkuo/easemyvote/models"
	"github.com/danielhkuo/easemyvote/session"
)

// genericLoginFailure is the only message ever shown for an identity
// probe that fails. Distinguishing "unknown email" from "bad pattern"
// would let an attacker enumerate the roster.
const genericLoginFailure = "Unable to verify email."

type LoginHandler struct {
	coord *session.Coordinator
}

func NewLoginHandler(coord *session.Coordinator) *LoginHandler {
	return &LoginHandler{coord: coord}
}

// Login handles POST /login
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	err := h.coord.Login(r.Context(), req.Email)
	if errors.Is(err, session.ErrAlreadyVoted) {
		middleware.ErrorResponse(w, http.StatusForbidden, "You have already voted in the last 6 months.")
		return
	}
	if errors.Is(err, session.ErrVerification) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, genericLoginFailure)
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, genericLoginFailure)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message: "Verification email sent. Please check your inbox.",
	})
}

// Verify handles GET /verify?token=...
func (h *LoginHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "token is required")
		return
	}

	sessionToken, err := h.coord.Verify(r.Context(), token)
	if errors.Is(err, session.ErrAlreadyVoted) {
		middleware.ErrorResponse(w, http.StatusForbidden, "You have already voted in the last 6 months.")
		return
	}
	if errors.Is(err, session.ErrVerification) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, genericLoginFailure)
		return
	}
	if err != nil {
		slog.Error("verification failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, genericLoginFailure)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VerifyResponse{
		SessionToken: sessionToken,
	})
}
