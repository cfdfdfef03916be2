// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and validation for the voting flow.

# Token Kinds

Two signed JWT kinds are issued from the same secret, separated by
audience:

  - Verification token: emailed to the voter, subject = email, 1 hour TTL.
  - Session token: returned after verification, subject = voter ID,
    30 minute TTL.

Both are issued and checked through TokenIssuer:

	issuer := auth.NewTokenIssuer(cfg.SecretKey)
	link, _ := issuer.VerificationToken("voter@example.edu", time.Hour)
	email, err := issuer.ParseVerificationToken(link)

Any parse failure (expired, tampered, wrong audience) collapses to
ErrInvalidToken; callers surface a generic message and never reveal which
check failed.

# Anonymized Tokens

NewAnonToken mints the opaque key a ballot is stored under. It is random
per voter, minted once on first verification, and stable for the voter's
lifetime. See models for the anonymity boundary it enforces.

# Admin Keys

ValidateAdminKey compares the X-Admin-Key header against the configured
key in constant time.
*/
package auth
