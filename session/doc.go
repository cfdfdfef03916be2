// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session coordinates each voter's path through the vote.

The state machine is linear and forward-only within a session:

	Unverified -> Verified -> RulesAccepted -> Voted

with one loop: a Voted voter whose cool-down window has elapsed is reset
to Unverified at the next login attempt. Skipping a step fails with
ErrSequence; identity-probing failures collapse into ErrVerification so
callers cannot distinguish "unknown email" from "bad token".

Concurrency: ballot submissions for the same voter serialize on a striped
in-process lock, and the storage layer's primary key on the anonymized
token backstops the one-ballot-per-voter invariant across processes.
*/
package session
