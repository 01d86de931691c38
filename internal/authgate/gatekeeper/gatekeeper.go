// Package gatekeeper enforces session validity on protected paths. It is a
// pure credential check over the session cookie: it never reads the
// pending-authorization store, which is what keeps it cheap enough to run on
// every request.
package gatekeeper

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medgate/internal/authgate/handler"
	"medgate/internal/authgate/metrics"
	"medgate/internal/authgate/token"
	dErrors "medgate/pkg/domain-errors"
)

// Deny statuses carried on the redirect back to the sign-in entry point.
const (
	StatusAuthRequired = "auth-required"
	StatusUnauthorized = "unauthorized"
	StatusExpired      = "expired"
	StatusInvalidToken = "invalid-token"
)

// SessionVerifier is the slice of the token codec the gatekeeper depends on.
type SessionVerifier interface {
	VerifySession(tokenString string) (*token.SessionClaims, error)
	SessionTTL() time.Duration
}

// Gatekeeper guards a configured set of protected path prefixes.
type Gatekeeper struct {
	codec             SessionVerifier
	protectedPrefixes []string
	signinPath        string
	logger            *slog.Logger
	metrics           *metrics.Metrics
	now               func() time.Time
}

// Option configures a Gatekeeper.
type Option func(*Gatekeeper)

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gatekeeper) {
		g.metrics = m
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gatekeeper) {
		if now != nil {
			g.now = now
		}
	}
}

// New constructs a Gatekeeper redirecting denied requests to signinPath.
func New(codec SessionVerifier, protectedPrefixes []string, signinPath string, logger *slog.Logger, opts ...Option) *Gatekeeper {
	if signinPath == "" {
		signinPath = "/login"
	}
	g := &Gatekeeper{
		codec:             codec,
		protectedPrefixes: protectedPrefixes,
		signinPath:        signinPath,
		logger:            logger,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type contextKeySession struct{}

// SessionFromContext returns the verified session claims for a request that
// passed the gatekeeper.
func SessionFromContext(ctx context.Context) (*token.SessionClaims, bool) {
	claims, ok := ctx.Value(contextKeySession{}).(*token.SessionClaims)
	return claims, ok
}

// Middleware validates the session cookie on protected paths. Denials always
// resolve by redirecting to sign-in with a status parameter; invalid or
// expired credentials additionally clear the cookie so the browser does not
// retry a dead token.
func (g *Gatekeeper) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.protected(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(handler.SessionCookieName)
		if err != nil || cookie.Value == "" {
			g.deny(w, r, StatusAuthRequired, false)
			return
		}

		claims, err := g.codec.VerifySession(cookie.Value)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeSessionExpired) {
				g.deny(w, r, StatusExpired, true)
				return
			}
			g.deny(w, r, StatusInvalidToken, true)
			return
		}

		if !claims.Authorized {
			g.deny(w, r, StatusUnauthorized, false)
			return
		}

		// The credential's exp already encodes authorizedAt + TTL, but the
		// window is re-checked explicitly so a token minted under a longer
		// configured TTL cannot outlive the current policy.
		if g.now().Sub(claims.AuthorizedAt.Time) > g.codec.SessionTTL() {
			g.deny(w, r, StatusExpired, true)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeySession{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gatekeeper) protected(path string) bool {
	for _, prefix := range g.protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *Gatekeeper) deny(w http.ResponseWriter, r *http.Request, status string, clearCookie bool) {
	if g.logger != nil {
		g.logger.WarnContext(r.Context(), "protected path denied",
			"path", r.URL.Path,
			"status", status,
		)
	}
	if g.metrics != nil {
		g.metrics.IncrementGatekeeperDenials(status)
	}
	if clearCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     handler.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
	http.Redirect(w, r, g.signinPath+"?status="+url.QueryEscape(status), http.StatusFound)
}
