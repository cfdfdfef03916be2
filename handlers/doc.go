// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP endpoints.

Three handler groups exist:

  - LoginHandler: the public entry points (POST /login, GET /verify).
    Every identity-probing failure produces the same generic message so
    the roster cannot be enumerated.
  - VotingHandler: the voter-facing session endpoints, authenticated by
    the X-Session-Token header (rules acceptance, candidate listing,
    ballot submission, own-ballot summary).
  - AdminHandler: the dashboard surface, gated by the X-Admin-Key header
    (live tally, instant-runoff results, voter roll, roster import,
    candidate seeding).

Handlers parse and validate requests, delegate to the session coordinator
or stores, and map the error taxonomy onto HTTP status codes. They hold
no business logic of their own.
*/
package handlers
