package models

import (
	"time"
)

// VerifiedIdentity holds the normalized claims extracted from an external
// identity assertion after signature, audience, and domain policy checks.
// It is never persisted.
type VerifiedIdentity struct {
	Email   string
	Name    string
	Picture string
}

// AuthorizationRecord is the stored proof that an administrator approved an
// identity. It lives in the pending-authorization store under the email key,
// bounded by the session TTL, and is always written whole — never patched.
type AuthorizationRecord struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Picture      string    `json:"picture"`
	Authorized   bool      `json:"authorized"`
	AuthorizedAt time.Time `json:"authorized_at"`
}

// Age returns how long ago the administrator approved this record.
func (r *AuthorizationRecord) Age(now time.Time) time.Duration {
	return now.Sub(r.AuthorizedAt)
}

// Stale reports whether the record has outlived the session window. A stale
// record is treated identically to one that never existed.
func (r *AuthorizationRecord) Stale(now time.Time, sessionTTL time.Duration) bool {
	return r.Age(now) > sessionTTL
}

// SignInRequest carries the raw identity assertion from the external provider.
type SignInRequest struct {
	Credential string `json:"credential" validate:"required,notblank"`
}

// SignInResult is returned once an approval request has been issued.
type SignInResult struct {
	ApprovalReference string `json:"approval_reference"`
	Email             string `json:"email"`
	Notified          bool   `json:"notified"`
}

// StatusRequest asks whether an identity has been approved yet.
type StatusRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserInfo is the client-facing view of an approved identity.
type UserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// StatusResult answers a status poll. SessionCredential and AuthorizedAt are
// only set when Authorized is true; AuthorizedAt lets clients compute the
// credential's real expiry, which starts at approval time rather than at the
// poll that returned it.
type StatusResult struct {
	Authorized        bool      `json:"authorized"`
	Message           string    `json:"message,omitempty"`
	User              *UserInfo `json:"user,omitempty"`
	SessionCredential string    `json:"session_credential,omitempty"`
	AuthorizedAt      time.Time `json:"authorized_at,omitzero"`
}

// ConfirmationResult describes the outcome of an administrator following an
// approval link, rendered as a human-readable page by the handler.
type ConfirmationResult struct {
	Email       string
	Name        string
	ConfirmedAt time.Time
}
