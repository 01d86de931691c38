// Package token signs and verifies the two credential classes of the
// admin-gated authorization protocol: approval references (the short-lived
// token embedded in the administrator's emailed link) and session credentials
// (the 24-hour token held by an approved browser). Both classes share one
// HS256 secret but carry distinct audiences so neither can stand in for the
// other.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"medgate/internal/authgate/models"
	dErrors "medgate/pkg/domain-errors"
)

const (
	jwtIssuer        = "medgate"
	approvalAudience = "medgate/approval"
	sessionAudience  = "medgate/session"
	jwtLeeway        = 5 * time.Second
)

// ApprovalClaims is the payload of an approval reference. Validity is fully
// determined by signature and expiry; the ID (jti) backs one-time use.
type ApprovalClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// SessionClaims is the payload of a session credential. AuthorizedAt is copied
// verbatim from the authorization record, so the credential's lifetime is
// anchored to the original approval, not to issuance time.
type SessionClaims struct {
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	Picture      string           `json:"picture,omitempty"`
	Authorized   bool             `json:"authorized"`
	AuthorizedAt *jwt.NumericDate `json:"authorized_at"`
	jwt.RegisteredClaims
}

// Codec signs and verifies protocol tokens with a shared secret and
// per-class TTLs.
type Codec struct {
	signingKey  []byte
	approvalTTL time.Duration
	sessionTTL  time.Duration
}

// New constructs a Codec. A missing secret or non-positive TTL is a
// deployment fault and is reported as server_misconfigured.
func New(signingSecret string, approvalTTL, sessionTTL time.Duration) (*Codec, error) {
	if signingSecret == "" {
		return nil, dErrors.New(dErrors.CodeServerMisconfigured, "signing secret is not configured")
	}
	if approvalTTL <= 0 || sessionTTL <= 0 {
		return nil, dErrors.New(dErrors.CodeServerMisconfigured, "token TTLs must be greater than zero")
	}
	return &Codec{
		signingKey:  []byte(signingSecret),
		approvalTTL: approvalTTL,
		sessionTTL:  sessionTTL,
	}, nil
}

// ApprovalTTL reports the configured approval reference lifetime.
func (c *Codec) ApprovalTTL() time.Duration { return c.approvalTTL }

// SessionTTL reports the configured session credential lifetime.
func (c *Codec) SessionTTL() time.Duration { return c.sessionTTL }

// SignApproval mints an approval reference for a verified identity and
// returns the token together with its jti.
func (c *Codec) SignApproval(identity models.VerifiedIdentity, now time.Time) (string, string, error) {
	jti := uuid.NewString()
	claims := &ApprovalClaims{
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    jwtIssuer,
			Audience:  jwt.ClaimStrings{approvalAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.approvalTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeServerMisconfigured, "failed to sign approval reference")
	}
	return signed, jti, nil
}

// VerifyApproval validates an approval reference. Elapsed expiry wins over a
// valid signature and is reported as link_expired; everything else that fails
// verification is link_invalid.
func (c *Codec) VerifyApproval(tokenString string) (*ApprovalClaims, error) {
	claims := &ApprovalClaims{}
	if err := c.parse(tokenString, claims, approvalAudience); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeLinkExpired, "approval link has expired")
		}
		return nil, dErrors.New(dErrors.CodeLinkInvalid, "approval link is invalid")
	}
	return claims, nil
}

// SignSession mints a session credential from an authorization record. The
// expiry is computed from the record's AuthorizedAt, so re-issuing for the
// same record yields the same effective lifetime.
func (c *Codec) SignSession(record *models.AuthorizationRecord, now time.Time) (string, error) {
	claims := &SessionClaims{
		Email:        record.Email,
		Name:         record.Name,
		Picture:      record.Picture,
		Authorized:   record.Authorized,
		AuthorizedAt: jwt.NewNumericDate(record.AuthorizedAt),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    jwtIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(record.AuthorizedAt.Add(c.sessionTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeServerMisconfigured, "failed to sign session credential")
	}
	return signed, nil
}

// VerifySession validates a session credential: session_expired when the
// window has elapsed, session_invalid for anything else that fails.
func (c *Codec) VerifySession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := c.parse(tokenString, claims, sessionAudience); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeSessionExpired, "session has expired")
		}
		return nil, dErrors.New(dErrors.CodeSessionInvalid, "session credential is invalid")
	}
	if claims.AuthorizedAt == nil {
		return nil, dErrors.New(dErrors.CodeSessionInvalid, "session credential is missing approval time")
	}
	return claims, nil
}

func (c *Codec) parse(tokenString string, claims jwt.Claims, audience string) error {
	if tokenString == "" {
		return jwt.ErrTokenMalformed
	}
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenUnverifiable
			}
			return c.signingKey, nil
		},
		jwt.WithIssuer(jwtIssuer),
		jwt.WithAudience(audience),
		jwt.WithLeeway(jwtLeeway),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return jwt.ErrTokenMalformed
	}
	return nil
}
