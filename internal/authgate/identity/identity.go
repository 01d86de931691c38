// Package identity validates inbound identity assertions from the external
// provider (Google sign-in ID tokens) and applies the clinic's email domain
// allow-list before anything else in the protocol runs.
package identity

import (
	"context"
	"strings"

	"google.golang.org/api/idtoken"

	"medgate/internal/authgate/models"
	dErrors "medgate/pkg/domain-errors"
)

// Verifier validates a raw identity assertion and returns normalized claims.
type Verifier interface {
	Verify(ctx context.Context, rawAssertion string) (models.VerifiedIdentity, error)
}

// ValidateFunc matches idtoken.Validate and is injectable for tests.
type ValidateFunc func(ctx context.Context, token string, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google ID tokens against the configured OAuth client
// ID (audience) and enforces the allowed email domain policy.
type GoogleVerifier struct {
	clientID      string
	allowedDomain string
	validate      ValidateFunc
}

// Option configures a GoogleVerifier.
type Option func(*GoogleVerifier)

// WithValidateFunc replaces the Google token validator, used in tests to
// avoid network calls to Google's JWKS endpoint.
func WithValidateFunc(fn ValidateFunc) Option {
	return func(v *GoogleVerifier) {
		if fn != nil {
			v.validate = fn
		}
	}
}

// NewGoogleVerifier constructs a verifier. Both the client ID and the allowed
// domain are deployment requirements.
func NewGoogleVerifier(clientID, allowedDomain string, opts ...Option) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, dErrors.New(dErrors.CodeServerMisconfigured, "google client id is not configured")
	}
	if allowedDomain == "" {
		return nil, dErrors.New(dErrors.CodeServerMisconfigured, "allowed email domain is not configured")
	}
	v := &GoogleVerifier{
		clientID:      clientID,
		allowedDomain: strings.ToLower(strings.TrimPrefix(allowedDomain, "@")),
		validate:      idtoken.Validate,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify validates the assertion's signature and audience with Google, then
// applies the domain allow-list. Identities outside the allowed domain are
// rejected with domain_not_allowed before any token is minted.
func (v *GoogleVerifier) Verify(ctx context.Context, rawAssertion string) (models.VerifiedIdentity, error) {
	if strings.TrimSpace(rawAssertion) == "" {
		return models.VerifiedIdentity{}, dErrors.New(dErrors.CodeInvalidInput, "identity assertion is required")
	}

	payload, err := v.validate(ctx, rawAssertion, v.clientID)
	if err != nil {
		return models.VerifiedIdentity{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "identity assertion could not be verified")
	}

	email := claimString(payload.Claims, "email")
	if email == "" {
		return models.VerifiedIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "identity assertion is missing an email claim")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return models.VerifiedIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "identity email is not verified by the provider")
	}

	if !v.domainAllowed(email) {
		return models.VerifiedIdentity{}, dErrors.New(dErrors.CodeDomainNotAllowed, "email domain is not allowed")
	}

	name := claimString(payload.Claims, "name")
	if name == "" {
		name = email
	}

	return models.VerifiedIdentity{
		Email:   strings.ToLower(email),
		Name:    name,
		Picture: claimString(payload.Claims, "picture"),
	}, nil
}

func (v *GoogleVerifier) domainAllowed(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), "@"+v.allowedDomain)
}

func claimString(claims map[string]any, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}
