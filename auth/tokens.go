// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token audiences keep the two token kinds from being swapped: a
// verification link can never be replayed as a session, and vice versa.
const (
	audienceVerify  = "easemyvote/email-confirm"
	audienceSession = "easemyvote/session"
)

// TokenIssuer signs and validates the two short-lived tokens the voting
// flow uses: the emailed verification token and the post-verification
// session token.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// VerificationToken creates a signed, time-limited token binding an email
// address to the verification step.
func (ti *TokenIssuer) VerificationToken(email string, ttl time.Duration) (string, error) {
	return ti.sign(email, audienceVerify, ttl)
}

// ParseVerificationToken returns the email a verification token was issued
// for. Expired or tampered tokens return ErrInvalidToken.
func (ti *TokenIssuer) ParseVerificationToken(token string) (string, error) {
	return ti.parse(token, audienceVerify)
}

// SessionToken creates a signed session token for a verified voter.
func (ti *TokenIssuer) SessionToken(voterID string, ttl time.Duration) (string, error) {
	return ti.sign(voterID, audienceSession, ttl)
}

// ParseSessionToken returns the voter ID a session token was issued for.
func (ti *TokenIssuer) ParseSessionToken(token string) (string, error) {
	return ti.parse(token, audienceSession)
}

func (ti *TokenIssuer) sign(subject, audience string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "easemyvote",
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

func (ti *TokenIssuer) parse(token, audience string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return ti.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithIssuer("easemyvote"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
