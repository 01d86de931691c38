// Package service implements the admin-gated authorization protocol: issuing
// approval requests, confirming them from the administrator's side channel,
// and answering authorization status polls.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"medgate/internal/authgate/identity"
	"medgate/internal/authgate/metrics"
	"medgate/internal/authgate/models"
	"medgate/internal/authgate/notify"
	"medgate/internal/authgate/store/authorization"
	"medgate/internal/authgate/store/nonce"
	"medgate/internal/authgate/token"
	dErrors "medgate/pkg/domain-errors"

	"log/slog"
)

// TokenCodec is the slice of the token codec the service depends on.
type TokenCodec interface {
	SignApproval(identity models.VerifiedIdentity, now time.Time) (string, string, error)
	VerifyApproval(tokenString string) (*token.ApprovalClaims, error)
	SignSession(record *models.AuthorizationRecord, now time.Time) (string, error)
	ApprovalTTL() time.Duration
	SessionTTL() time.Duration
}

// Service drives the authorization state machine. All operations are
// short-lived request handlers; the only shared mutable state lives in the
// stores, accessed through atomic key operations.
type Service struct {
	verifier   identity.Verifier
	codec      TokenCodec
	notifier   notify.Notifier
	authzStore authorization.Store
	nonceStore nonce.Store

	baseURL string
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source, used by tests to pin the protocol's
// time-bounded transitions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs the protocol service. The base URL is the externally
// reachable address used to build approval links.
func New(
	verifier identity.Verifier,
	codec TokenCodec,
	notifier notify.Notifier,
	authzStore authorization.Store,
	nonceStore nonce.Store,
	baseURL string,
	opts ...Option,
) (*Service, error) {
	if verifier == nil || codec == nil || notifier == nil || authzStore == nil || nonceStore == nil {
		return nil, fmt.Errorf("verifier, codec, notifier, and stores are required")
	}
	if baseURL == "" {
		return nil, dErrors.New(dErrors.CodeServerMisconfigured, "base url is not configured")
	}
	s := &Service{
		verifier:   verifier,
		codec:      codec,
		notifier:   notifier,
		authzStore: authzStore,
		nonceStore: nonceStore,
		baseURL:    baseURL,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// SignIn validates the external identity assertion and, when the identity
// passes the domain policy, issues an approval request. Identities outside
// the allowed domain never mint a token and never notify anyone.
func (s *Service) SignIn(ctx context.Context, rawAssertion string) (*models.SignInResult, error) {
	ctx, span := s.startSpan(ctx, "authgate.sign_in")
	var err error
	defer func() { s.endSpan(span, err) }()

	verified, err := s.verifier.Verify(ctx, rawAssertion)
	if err != nil {
		s.logger.WarnContext(ctx, "identity assertion rejected",
			"error", err,
			"reason", dErrors.CodeOf(err),
		)
		return nil, err
	}

	var result *models.SignInResult
	result, err = s.RequestApproval(ctx, verified)
	return result, err
}

// RequestApproval mints a short-lived approval reference for a verified
// identity and notifies the administrator out of band. No state is persisted
// here; the protocol stays stateless until the administrator approves.
func (s *Service) RequestApproval(ctx context.Context, verified models.VerifiedIdentity) (*models.SignInResult, error) {
	start := s.now()

	reference, _, err := s.codec.SignApproval(verified, s.now())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to mint approval reference",
			"error", err,
			"email", verified.Email,
		)
		return nil, err
	}

	approvalURL := fmt.Sprintf("%s/api/auth/approve?token=%s", s.baseURL, url.QueryEscape(reference))

	if err := s.notifier.NotifyApprovalRequest(ctx, verified, approvalURL, s.codec.ApprovalTTL()); err != nil {
		s.logger.ErrorContext(ctx, "approval notification failed",
			"error", err,
			"email", verified.Email,
		)
		s.incrementNotificationFailures()
		return nil, err
	}

	s.incrementApprovalsRequested()
	s.observeRequestApprovalDuration(s.sinceMs(start))
	s.logger.InfoContext(ctx, "approval request issued",
		"email", verified.Email,
		"ttl", s.codec.ApprovalTTL().String(),
	)

	return &models.SignInResult{
		ApprovalReference: reference,
		Email:             verified.Email,
		Notified:          true,
	}, nil
}

// ConfirmApproval consumes an approval reference presented by the
// administrator and commits an authorization record. A reference is valid at
// most once: replaying a still-unexpired link fails with link_used.
func (s *Service) ConfirmApproval(ctx context.Context, referenceToken string) (*models.ConfirmationResult, error) {
	ctx, span := s.startSpan(ctx, "authgate.confirm_approval")
	var err error
	defer func() { s.endSpan(span, err) }()

	claims, err := s.codec.VerifyApproval(referenceToken)
	if err != nil {
		s.incrementApprovalsRejected(string(dErrors.CodeOf(err)))
		s.logger.WarnContext(ctx, "approval link rejected",
			"reason", dErrors.CodeOf(err),
		)
		return nil, err
	}

	first, err := s.nonceStore.Consume(ctx, claims.ID, s.codec.ApprovalTTL())
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to check approval link reuse")
		return nil, err
	}
	if !first {
		err = dErrors.New(dErrors.CodeLinkUsed, "approval link has already been used")
		s.incrementApprovalsRejected(string(dErrors.CodeLinkUsed))
		s.logger.WarnContext(ctx, "approval link replayed",
			"email", claims.Email,
		)
		return nil, err
	}

	now := s.now()
	record := &models.AuthorizationRecord{
		Email:        claims.Email,
		Name:         claims.Name,
		Picture:      claims.Picture,
		Authorized:   true,
		AuthorizedAt: now,
	}
	if err = s.authzStore.Put(ctx, record, s.codec.SessionTTL()); err != nil {
		// The nonce was consumed but nothing was committed; hand the link
		// back so the administrator's retry is not met with link_used.
		if releaseErr := s.nonceStore.Release(ctx, claims.ID); releaseErr != nil {
			s.logger.ErrorContext(ctx, "failed to release approval nonce after commit failure",
				"error", releaseErr,
				"email", claims.Email,
			)
		}
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to store authorization record")
		s.logger.ErrorContext(ctx, "failed to commit authorization record",
			"error", err,
			"email", claims.Email,
		)
		return nil, err
	}

	s.incrementApprovalsConfirmed()
	s.logApproval(ctx, claims.Email)

	return &models.ConfirmationResult{
		Email:       claims.Email,
		Name:        claims.Name,
		ConfirmedAt: now,
	}, nil
}

// CheckStatus answers whether the identity has been approved, minting a
// session credential on success. A record older than the session window is
// deleted and treated identically to one that never existed; deletion is
// idempotent, so concurrent polls are safe.
func (s *Service) CheckStatus(ctx context.Context, email string) (*models.StatusResult, error) {
	ctx, span := s.startSpan(ctx, "authgate.check_status")
	var err error
	defer func() { s.endSpan(span, err) }()

	start := s.now()
	defer func() { s.observeCheckStatusDuration(s.sinceMs(start)) }()

	record, err := s.authzStore.Get(ctx, email)
	if errors.Is(err, authorization.ErrNotFound) {
		err = nil
		s.incrementStatusPolls("pending")
		return notAuthorized("approval pending"), nil
	}
	if err != nil {
		s.incrementStatusPolls("error")
		s.logger.ErrorContext(ctx, "failed to read authorization record",
			"error", err,
			"email", email,
			"reason", dErrors.CodeOf(err),
		)
		return nil, err
	}

	if !record.Authorized {
		s.incrementStatusPolls("unauthorized")
		return notAuthorized("not authorized"), nil
	}

	now := s.now()
	if record.Stale(now, s.codec.SessionTTL()) {
		// Deleting an already-absent key is a no-op, so concurrent polls
		// observing the same stale record are harmless.
		if err = s.authzStore.Delete(ctx, email); err != nil {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to evict stale authorization record")
			return nil, err
		}
		s.incrementStatusPolls("expired")
		s.logger.InfoContext(ctx, "stale authorization record evicted",
			"email", email,
			"authorized_at", record.AuthorizedAt,
		)
		return notAuthorized("approval expired"), nil
	}

	credential, err := s.codec.SignSession(record, now)
	if err != nil {
		return nil, err
	}

	s.incrementStatusPolls("authorized")
	s.incrementSessionsIssued()

	return &models.StatusResult{
		Authorized: true,
		User: &models.UserInfo{
			Email: record.Email,
			Name:  record.Name,
			Image: record.Picture,
		},
		SessionCredential: credential,
		AuthorizedAt:      record.AuthorizedAt,
	}, nil
}

func notAuthorized(message string) *models.StatusResult {
	return &models.StatusResult{Authorized: false, Message: message}
}

func (s *Service) sinceMs(start time.Time) float64 {
	return float64(s.now().Sub(start).Milliseconds())
}
