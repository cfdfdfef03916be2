// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the EaseMyVote API server.

EaseMyVote is an online voting service for student government elections:
voters log in with their institutional email, verify through a signed
email link, accept the voting rules, and cast a two-preference
ranked-choice ballot. The winner is computed by instant-runoff voting
with a full per-round audit trace.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=easemyvote.db SECRET_KEY=... ADMIN_API_KEY=... go run main.go

Or with flags:

	go run main.go -p 8000 -d easemyvote.db --secret-key ... --admin-key ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SECRET_KEY (--secret-key): Secret for signing verification and
    session tokens
  - ADMIN_API_KEY (--admin-key): Key for the admin dashboard endpoints

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BASE_URL (--base-url): Public origin for verification links
  - EMAIL_PATTERN (--email-pattern): Substrings required in voter emails
  - COOL_DOWN_DAYS (--cool-down-days): Re-vote lockout (default: 180)
  - SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD: Email delivery;
    without SMTP_HOST, verification links are logged instead

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (login, voting, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - models: Request/response and domain types
  - session: The voter state machine and per-voter serialization
  - tally: Live counts and instant-runoff computation
  - importer: CSV voter roster import
  - notify: Email delivery boundary (SMTP or log)
  - auth: Token issuing and validation
  - db: Schema creation and stores
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
