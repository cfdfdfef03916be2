// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/easemyvote/auth"
	"github.com/danielhkuo/easemyvote/cliparse"
	"github.com/danielhkuo/easemyvote/db"
	"github.com/danielhkuo/easemyvote/models"
	"github.com/danielhkuo/easemyvote/notify"
)

var (
	// ErrVerification covers every identity-probing failure: unknown
	// email, bad membership pattern, invalid or expired token. Collapsing
	// them is deliberate; callers must not reveal which check failed.
	ErrVerification = errors.New("unable to verify")

	// ErrSequence means the voter skipped a step (e.g. voting before
	// accepting the rules). Recoverable by going back to the right step.
	ErrSequence = errors.New("out of sequence")

	// ErrAlreadyVoted means the voter's cool-down window has not elapsed.
	ErrAlreadyVoted = errors.New("already voted in the current period")
)

const (
	verifyTokenTTL  = time.Hour
	sessionTokenTTL = 30 * time.Minute

	// storageTimeout bounds every persistence call; a hung storage layer
	// surfaces as an error instead of a stuck request.
	storageTimeout = 5 * time.Second

	lockStripes = 64
)

// Coordinator drives each voter through the voting state machine:
//
//	Unverified -> Verified -> RulesAccepted -> Voted -> (cool-down) Unverified
//
// and serializes concurrent ballot submissions per voter.
type Coordinator struct {
	voters     *db.VoterStore
	ballots    *db.BallotStore
	candidates *db.CandidateStore
	tokens     *auth.TokenIssuer
	notifier   notify.Notifier
	cfg        cliparse.Config

	// Striped per-voter locks: the serialization point for the
	// read-ballot -> write-ballot -> flip-flag critical section.
	locks [lockStripes]sync.Mutex

	now func() time.Time // test seam
}

func NewCoordinator(database *sql.DB, cfg cliparse.Config, notifier notify.Notifier) *Coordinator {
	return &Coordinator{
		voters:     db.NewVoterStore(database),
		ballots:    db.NewBallotStore(database),
		candidates: db.NewCandidateStore(database),
		tokens:     auth.NewTokenIssuer(cfg.SecretKey),
		notifier:   notifier,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Login starts a voting session for an email: membership check, cool-down
// evaluation, verification link delivery. Everything that could reveal
// whether an email exists or is verified returns ErrVerification.
func (c *Coordinator) Login(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, part := range c.cfg.EmailPattern {
		if !strings.Contains(email, part) {
			slog.Warn("login rejected by membership pattern", "email", email)
			return ErrVerification
		}
	}

	sctx, cancel := c.storageCtx(ctx)
	defer cancel()

	voter, err := c.voters.GetByEmail(sctx, email)
	if errors.Is(err, db.ErrNotFound) {
		slog.Warn("login for unknown voter", "email", email)
		return ErrVerification
	}
	if err != nil {
		return err
	}

	if voter.HasVoted {
		if voter.VotedAt != nil && c.now().Sub(*voter.VotedAt) < c.cfg.CoolDown {
			slog.Info("login within cool-down window", "email", email, "voted_at", voter.VotedAt)
			return ErrAlreadyVoted
		}
		// Cool-down elapsed (or voted_at was never recorded): the voter
		// regains eligibility and starts over from Unverified. The prior
		// ballot stays for tally history until a re-vote replaces it.
		if err := c.voters.ResetVotingStatus(sctx, voter.ID); err != nil {
			return err
		}
		slog.Info("voter voting status reset", "email", email)
	}

	token, err := c.tokens.VerificationToken(email, verifyTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}
	link := c.cfg.BaseURL + "/verify?token=" + url.QueryEscape(token)

	if err := c.notifier.SendVerification(ctx, email, link); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	slog.Info("verification email sent", "email", email)
	return nil
}

// Verify consumes an emailed verification token: Unverified -> Verified.
// The anonymized token is minted here, once, on first successful
// verification; later verifications reuse it. Returns a short-lived
// session token for the remaining steps.
func (c *Coordinator) Verify(ctx context.Context, token string) (string, error) {
	email, err := c.tokens.ParseVerificationToken(token)
	if err != nil {
		slog.Warn("verification token rejected")
		return "", ErrVerification
	}

	sctx, cancel := c.storageCtx(ctx)
	defer cancel()

	voter, err := c.voters.GetByEmail(sctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return "", ErrVerification
	}
	if err != nil {
		return "", err
	}

	if voter.HasVoted {
		return "", ErrAlreadyVoted
	}

	anonToken := voter.AnonToken
	if anonToken == "" {
		anonToken = auth.NewAnonToken()
	}
	if err := c.voters.MarkVerified(sctx, voter.ID, anonToken); err != nil {
		return "", err
	}

	session, err := c.tokens.SessionToken(voter.ID, sessionTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	slog.Info("voter verified", "email", email)
	return session, nil
}

// FromSession resolves a session token to its voter.
func (c *Coordinator) FromSession(ctx context.Context, sessionToken string) (models.Voter, error) {
	voterID, err := c.tokens.ParseSessionToken(sessionToken)
	if err != nil {
		return models.Voter{}, ErrVerification
	}

	sctx, cancel := c.storageCtx(ctx)
	defer cancel()

	voter, err := c.voters.GetByID(sctx, voterID)
	if errors.Is(err, db.ErrNotFound) {
		return models.Voter{}, ErrVerification
	}
	if err != nil {
		return models.Voter{}, err
	}
	return voter, nil
}

// AcceptRules records the rules acknowledgment: Verified -> RulesAccepted.
func (c *Coordinator) AcceptRules(ctx context.Context, voterID string) error {
	sctx, cancel := c.storageCtx(ctx)
	defer cancel()

	voter, err := c.voters.GetByID(sctx, voterID)
	if errors.Is(err, db.ErrNotFound) {
		return ErrVerification
	}
	if err != nil {
		return err
	}

	if !voter.IsVerified {
		return ErrSequence
	}
	return c.voters.AcceptRules(sctx, voterID)
}

// Candidates returns the contest roster for the voting page. Access is
// denied until the voter has accepted the rules.
func (c *Coordinator) Candidates(ctx context.Context, voterID, position string) ([]models.Candidate, error) {
	sctx, cancel := c.storageCtx(ctx)
	defer cancel()

	voter, err := c.voters.GetByID(sctx, voterID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrVerification
	}
	if err != nil {
		return nil, err
	}

	if !voter.IsVerified || !voter.RulesAccepted {
		return nil, ErrSequence
	}
	return c.candidates.ByPosition(sctx, position)
}

// SubmitBallot writes the voter's ballot: RulesAccepted -> Voted. A
// resubmission within the same session replaces the prior ballot. Two
// racing submissions for the same voter serialize on a per-voter lock, so
// the store ends with exactly one ballot equal to one of the payloads,
// never a merge.
func (c *Coordinator) SubmitBallot(ctx context.Context, voterID, position string, prefs models.Preferences) (bool, error) {
	lock := c.lockFor(voterID)
	lock.Lock()
	defer lock.Unlock()

	sctx, cancel := c.storageCtx(ctx)
	defer cancel()

	voter, err := c.voters.GetByID(sctx, voterID)
	if errors.Is(err, db.ErrNotFound) {
		return false, ErrVerification
	}
	if err != nil {
		return false, err
	}

	if !voter.IsVerified || !voter.RulesAccepted {
		return false, ErrSequence
	}
	if voter.AnonToken == "" {
		// Cannot happen after Verify, but a ballot without a key would
		// break the anonymity mapping
		return false, ErrSequence
	}

	ballot := models.Ballot{
		AnonToken:   voter.AnonToken,
		Position:    position,
		Preferences: prefs,
		SubmittedAt: c.now(),
	}

	inserted, err := c.ballots.PutAndMarkVoted(sctx, voterID, ballot)
	if err != nil {
		return false, err
	}

	// The ballot is committed; a failed confirmation email must not undo it
	if err := c.notifier.SendConfirmation(ctx, voter.Email); err != nil {
		slog.Warn("vote confirmation email failed", "error", err)
	}

	slog.Info("ballot submitted", "position", position, "is_update", !inserted)
	return inserted, nil
}

// Summary returns the voter's own ballot with candidate names resolved,
// for the post-vote summary page.
func (c *Coordinator) Summary(ctx context.Context, voterID string) (models.SummaryResponse, error) {
	sctx, cancel := c.storageCtx(ctx)
	defer cancel()

	voter, err := c.voters.GetByID(sctx, voterID)
	if errors.Is(err, db.ErrNotFound) {
		return models.SummaryResponse{}, ErrVerification
	}
	if err != nil {
		return models.SummaryResponse{}, err
	}
	if voter.AnonToken == "" {
		return models.SummaryResponse{}, ErrSequence
	}

	ballot, err := c.ballots.Get(sctx, voter.AnonToken)
	if errors.Is(err, db.ErrNotFound) {
		return models.SummaryResponse{}, ErrSequence
	}
	if err != nil {
		return models.SummaryResponse{}, err
	}

	roster, err := c.candidates.ByPosition(sctx, ballot.Position)
	if err != nil {
		return models.SummaryResponse{}, err
	}
	names := make(map[string]string, len(roster))
	for _, cand := range roster {
		names[cand.ID] = cand.Name
	}

	return models.SummaryResponse{
		FirstPref:  nameOrNA(names, ballot.Preferences.First),
		SecondPref: nameOrNA(names, ballot.Preferences.Second),
	}, nil
}

func nameOrNA(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "N/A"
}

func (c *Coordinator) lockFor(voterID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(voterID))
	return &c.locks[h.Sum32()%lockStripes]
}

func (c *Coordinator) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storageTimeout)
}
