// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the EaseMyVote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, notifier)

# Endpoints

Health:

	GET /health

Login and verification (public, rate limited per IP):

	POST /login   - Request a verification email
	GET  /verify  - Consume a verification token, returns session token

Voting session (requires X-Session-Token):

	POST /rules/accept                    - Accept the voting rules
	GET  /contests/{position}/candidates  - Contest roster
	POST /vote                            - Submit/update ballot
	GET  /summary                         - Own-ballot summary

Admin dashboard (requires X-Admin-Key):

	GET  /admin/contests/{position}/tally   - Live first-preference tally
	GET  /admin/contests/{position}/results - Instant-runoff round trace
	GET  /admin/voters                      - Voter roll
	POST /admin/voters/import               - CSV roster import
	POST /admin/candidates                  - Seed a candidate

# Handler Initialization

The router builds the session coordinator once and injects it into the
voter-facing handlers; the admin handler works directly against the
stores:

	coord := session.NewCoordinator(db, cfg, notifier)
	loginHandler := handlers.NewLoginHandler(coord)
	votingHandler := handlers.NewVotingHandler(coord)
	adminHandler := handlers.NewAdminHandler(db, cfg)
*/
package router
