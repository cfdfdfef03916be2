// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/easemyvote/cliparse"
	"github.com/danielhkuo/easemyvote/handlers"
	"github.com/danielhkuo/easemyvote/middleware"
	"github.com/danielhkuo/easemyvote/notify"
	"github.com/danielhkuo/easemyvote/session"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, notifier notify.Notifier) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	coord := session.NewCoordinator(db, cfg, notifier)
	loginHandler := handlers.NewLoginHandler(coord)
	votingHandler := handlers.NewVotingHandler(coord)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	// Credential-probing endpoints get a per-IP rate limit
	limiter := middleware.NewLoginLimiter(rate.Every(time.Second), 5)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Login and email verification (public)
	mux.HandleFunc("POST /login", middleware.WithLogging(limiter.Wrap(loginHandler.Login)))
	mux.HandleFunc("GET /verify", middleware.WithLogging(limiter.Wrap(loginHandler.Verify)))

	// Voting session operations (X-Session-Token)
	mux.HandleFunc("POST /rules/accept", middleware.WithLogging(votingHandler.AcceptRules))
	mux.HandleFunc("GET /contests/{position}/candidates", middleware.WithLogging(votingHandler.ListCandidates))
	mux.HandleFunc("POST /vote", middleware.WithLogging(votingHandler.SubmitVote))
	mux.HandleFunc("GET /summary", middleware.WithLogging(votingHandler.Summary))

	// Admin dashboard (X-Admin-Key)
	mux.HandleFunc("GET /admin/contests/{position}/tally", middleware.WithLogging(adminHandler.LiveTally))
	mux.HandleFunc("GET /admin/contests/{position}/results", middleware.WithLogging(adminHandler.Results))
	mux.HandleFunc("GET /admin/voters", middleware.WithLogging(adminHandler.VoterRoll))
	mux.HandleFunc("POST /admin/voters/import", middleware.WithLogging(adminHandler.ImportVoters))
	mux.HandleFunc("POST /admin/candidates", middleware.WithLogging(adminHandler.AddCandidate))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("easemyvote API v1"))
	})

	return mux
}
