package shared

import (
	"errors"
	"net/http"

	jsonResponse "medgate/internal/transport/http/json"
	dErrors "medgate/pkg/domain-errors"
)

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and
// error envelopes.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]string{
			"error": string(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		jsonResponse.WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	jsonResponse.WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": string(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeLinkInvalid:
		return http.StatusBadRequest
	case dErrors.CodeConflict, dErrors.CodeLinkUsed:
		return http.StatusConflict
	case dErrors.CodeUnauthorized, dErrors.CodeSessionExpired, dErrors.CodeSessionInvalid:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeDomainNotAllowed:
		return http.StatusForbidden
	case dErrors.CodeLinkExpired:
		return http.StatusGone
	case dErrors.CodeNotificationFailed:
		return http.StatusBadGateway
	case dErrors.CodeRecordCorrupted, dErrors.CodeServerMisconfigured, dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
