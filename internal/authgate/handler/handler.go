// Package handler is the thin HTTP layer over the authorization gate. It
// decodes and validates requests, delegates to the service, and renders the
// administrator-facing confirmation pages.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"

	"medgate/internal/authgate/models"
	"medgate/internal/platform/middleware"
	jsonResponse "medgate/internal/transport/http/json"
	"medgate/internal/transport/http/shared"
	dErrors "medgate/pkg/domain-errors"
	s "medgate/pkg/string"
	"medgate/pkg/validation"
)

// SessionCookieName is the cookie carrying the session credential.
const SessionCookieName = "authToken"

// Service defines the protocol operations the handler delegates to.
type Service interface {
	SignIn(ctx context.Context, rawAssertion string) (*models.SignInResult, error)
	ConfirmApproval(ctx context.Context, referenceToken string) (*models.ConfirmationResult, error)
	CheckStatus(ctx context.Context, email string) (*models.StatusResult, error)
}

// Handler handles the sign-in, status poll, and approval confirmation
// endpoints.
type Handler struct {
	gate       Service
	logger     *slog.Logger
	sessionTTL time.Duration
}

// New creates a new Handler. The session TTL controls the cookie max-age.
func New(gate Service, logger *slog.Logger, sessionTTL time.Duration) *Handler {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Handler{
		gate:       gate,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/signin", h.HandleSignIn)
	r.Post("/api/auth/status", h.HandleStatus)
	r.Get("/api/auth/approve", h.HandleApprove)
}

// HandleSignIn accepts the external identity assertion and, when the identity
// passes policy, issues an approval request to the administrator.
//
// Input: { "credential": "<provider id token>" }
// Output: { "approval_reference": "...", "email": "...", "notified": true }
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signin request",
			"error", err,
			"request_id", requestID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid JSON in request body"))
		return
	}
	s.TrimStrings(&req.Credential)
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	res, err := h.gate.SignIn(ctx, req.Credential)
	if err != nil {
		h.logger.WarnContext(ctx, "signin rejected",
			"reason", dErrors.CodeOf(err),
			"request_id", requestID,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "approval requested",
		"email", res.Email,
		"request_id", requestID,
	)
	jsonResponse.WriteJSON(w, http.StatusOK, res)
}

// HandleStatus answers a status poll. While pending it responds 401 with
// authorized:false so the browser keeps polling; once approved it responds
// 200 with the session credential and sets the session cookie.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode status request",
			"error", err,
			"request_id", requestID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid JSON in request body"))
		return
	}
	s.TrimStrings(&req.Email)
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	res, err := h.gate.CheckStatus(ctx, req.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "status check failed",
			"error", err,
			"email", req.Email,
			"request_id", requestID,
		)
		shared.WriteError(w, err)
		return
	}

	if !res.Authorized {
		jsonResponse.WriteJSON(w, http.StatusUnauthorized, res)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    res.SessionCredential,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteStrictMode,
	})
	jsonResponse.WriteJSON(w, http.StatusOK, res)
}

// HandleApprove consumes the approval link followed by the administrator and
// renders a human-readable outcome page. There is no redirect back into the
// application; the requesting browser discovers approval via polling.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	referenceToken := r.URL.Query().Get("token")
	if referenceToken == "" {
		renderLinkError(w, http.StatusBadRequest, "Invalid link", "This approval link is missing its token. Ask the requester to sign in again.")
		return
	}

	res, err := h.gate.ConfirmApproval(ctx, referenceToken)
	if err != nil {
		h.renderConfirmError(w, err)
		return
	}

	ua := useragent.New(r.UserAgent())
	browser, _ := ua.Browser()
	h.logger.InfoContext(ctx, "approval confirmed",
		"email", res.Email,
		"approver_browser", browser,
		"approver_os", ua.OS(),
		"request_id", requestID,
	)

	renderConfirmation(w, res)
}

func (h *Handler) renderConfirmError(w http.ResponseWriter, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeLinkExpired:
		renderLinkError(w, http.StatusGone, "Link expired", "This approval link has expired. Ask the requester to sign in again to receive a fresh link.")
	case dErrors.CodeLinkUsed:
		renderLinkError(w, http.StatusConflict, "Link already used", "This approval link has already been used. No further action is needed.")
	case dErrors.CodeLinkInvalid:
		renderLinkError(w, http.StatusBadRequest, "Invalid link", "This approval link is not valid. Ask the requester to sign in again.")
	default:
		renderLinkError(w, http.StatusInternalServerError, "Something went wrong", "The approval could not be recorded. Please try the link again.")
	}
}

func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
