// Package client is a small Go client for the medgate authorization flow. It
// submits the identity assertion, then polls the status endpoint at a fixed
// interval until the administrator approves, the poll budget runs out, or the
// context is cancelled.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrPollTimeout is returned by AwaitApproval when the poll budget is
// exhausted without the record turning authorized.
var ErrPollTimeout = errors.New("authorization poll budget exhausted")

// Session is the credential state returned once the flow completes.
type Session struct {
	Email        string
	Name         string
	Credential   string
	AuthorizedAt time.Time
	IssuedAt     time.Time
	TTL          time.Duration
}

// Expired reports whether the session credential has outlived its TTL. The
// window starts when the administrator approved, not when the poll returned
// the credential, so a late poll never stretches the local view past the
// credential's real expiry.
func (s *Session) Expired(now time.Time) bool {
	anchor := s.AuthorizedAt
	if anchor.IsZero() {
		anchor = s.IssuedAt
	}
	return now.Sub(anchor) > s.TTL
}

// Client talks to a medgate server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
	sessionTTL   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPollInterval overrides the delay between status polls.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithMaxPolls overrides the number of status polls before giving up.
func WithMaxPolls(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPolls = n
		}
	}
}

// WithSessionTTL sets the TTL recorded on returned sessions. It mirrors the
// server's auth.session_ttl and only affects local Expired checks.
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.sessionTTL = ttl
		}
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		pollInterval: 4 * time.Second,
		maxPolls:     150,
		sessionTTL:   24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type signInResponse struct {
	ApprovalReference string `json:"approval_reference"`
	Email             string `json:"email"`
	Notified          bool   `json:"notified"`
}

type statusResponse struct {
	Authorized        bool      `json:"authorized"`
	Message           string    `json:"message,omitempty"`
	SessionCredential string    `json:"session_credential,omitempty"`
	AuthorizedAt      time.Time `json:"authorized_at"`
	User              *struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user,omitempty"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// SignIn submits the external identity assertion. On success the server has
// emailed the administrator and the caller should start polling with
// AwaitApproval for the returned email.
func (c *Client) SignIn(ctx context.Context, rawAssertion string) (string, error) {
	body, err := json.Marshal(map[string]string{"credential": rawAssertion})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/signin", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("signin request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}

	var res signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode signin response: %w", err)
	}
	return res.Email, nil
}

// AwaitApproval polls the status endpoint for email until the administrator
// approves. A pending answer is not an error; the poll continues. It returns
// ErrPollTimeout when the budget runs out and ctx.Err() when cancelled.
func (c *Client) AwaitApproval(ctx context.Context, email string) (*Session, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < c.maxPolls; attempt++ {
		session, pending, err := c.checkStatus(ctx, email)
		if err != nil {
			return nil, err
		}
		if !pending {
			return session, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, ErrPollTimeout
}

func (c *Client) checkStatus(ctx context.Context, email string) (session *Session, pending bool, err error) {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/status", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var res statusResponse
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return nil, false, fmt.Errorf("decode status response: %w", err)
		}
		s := &Session{
			Credential:   res.SessionCredential,
			AuthorizedAt: res.AuthorizedAt,
			IssuedAt:     time.Now(),
			TTL:          c.sessionTTL,
		}
		if res.User != nil {
			s.Email = res.User.Email
			s.Name = res.User.Name
		}
		return s, false, nil
	case http.StatusUnauthorized:
		// Pending or not-yet-approved; keep polling.
		return nil, true, nil
	default:
		return nil, false, decodeError(resp)
	}
}

func decodeError(resp *http.Response) error {
	var res errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil || res.Error == "" {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if res.Description != "" {
		return fmt.Errorf("%s: %s", res.Error, res.Description)
	}
	return errors.New(res.Error)
}
