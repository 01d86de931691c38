// Package authorization implements the pending-authorization store: a
// key-value store keyed by email whose entries record administrator approval
// and expire with the session window.
package authorization

import (
	"context"
	"time"

	"medgate/internal/authgate/models"
	dErrors "medgate/pkg/domain-errors"
)

// ErrNotFound is returned when no record exists for the requested email.
// Callers should check for it with errors.Is(err, authorization.ErrNotFound).
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "authorization record not found")

// Store is the contract for pending-authorization persistence.
//
// Error contract:
// - Get returns ErrNotFound when no live record exists for the email
// - Get returns a record_corrupted domain error when a stored value fails to decode
// - Delete of an absent key is a no-op and returns nil
// - Put replaces the whole record atomically, never patching in place
type Store interface {
	Put(ctx context.Context, record *models.AuthorizationRecord, ttl time.Duration) error
	Get(ctx context.Context, email string) (*models.AuthorizationRecord, error)
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
