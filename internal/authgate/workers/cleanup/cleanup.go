// Package cleanup periodically sweeps expired entries out of the in-memory
// stores. One goroutine, one coarse ticker, one lock hold per sweep; Redis
// deployments rely on native TTLs and sweep nothing.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// AuthorizationStore exposes cleanup for expired authorization records.
type AuthorizationStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// NonceStore exposes cleanup for consumed approval nonces.
type NonceStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Result summarizes the deletions performed by a cleanup run.
type Result struct {
	DeletedRecords int
	DeletedNonces  int
}

// Service periodically removes expired protocol artifacts.
type Service struct {
	authzStore AuthorizationStore
	nonceStore NonceStore
	interval   time.Duration
	logger     *slog.Logger
}

// Option configures the cleanup Service.
type Option func(*Service)

// WithInterval overrides the cleanup interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger overrides the logger used for cleanup errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a cleanup Service with required stores and options applied.
func New(authzStore AuthorizationStore, nonceStore NonceStore, opts ...Option) (*Service, error) {
	if authzStore == nil || nonceStore == nil {
		return nil, fmt.Errorf("authzStore and nonceStore are required")
	}
	svc := &Service{
		authzStore: authzStore,
		nonceStore: nonceStore,
		interval:   5 * time.Minute,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs cleanup periodically until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "authgate cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep over both stores, aggregating any errors.
func (s *Service) RunOnce(ctx context.Context) (Result, error) {
	now := time.Now()
	var res Result
	var errs []error

	deletedRecords, err := s.authzStore.DeleteExpired(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("delete expired authorization records: %w", err))
	} else {
		res.DeletedRecords = deletedRecords
	}

	deletedNonces, err := s.nonceStore.DeleteExpired(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("delete expired approval nonces: %w", err))
	} else {
		res.DeletedNonces = deletedNonces
	}

	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}
	return res, nil
}
