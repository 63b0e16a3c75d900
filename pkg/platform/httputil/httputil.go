package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "saasbase/pkg/domain-errors"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteData writes a success envelope carrying data.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope with a message and optional data.
func WriteMessage(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteError centralizes domain error translation to HTTP responses.
// Errors without a domain code are rendered as a bare 500 so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) && domainErr.Code != dErrors.CodeInternal {
		msg := domainErr.Message
		if msg == "" {
			msg = string(domainErr.Code)
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), Envelope{
			Error:   DomainCodeToHTTPCode(domainErr.Code),
			Message: msg,
		})
		return
	}

	WriteJSON(w, http.StatusInternalServerError, Envelope{
		Error:   DomainCodeToHTTPCode(dErrors.CodeInternal),
		Message: "internal error",
	})
}

// IsInternal reports whether err will be rendered as a 500.
func IsInternal(err error) bool {
	return dErrors.CodeOf(err) == dErrors.CodeInternal
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to the "error" field of the envelope.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound,
		dErrors.CodeBadRequest,
		dErrors.CodeValidation,
		dErrors.CodeConflict,
		dErrors.CodeUnauthorized,
		dErrors.CodeForbidden,
		dErrors.CodeTooManyRequests,
		dErrors.CodeTimeout:
		return string(code)
	case dErrors.CodeInvariantViolation:
		return string(dErrors.CodeValidation)
	default:
		return string(dErrors.CodeInternal)
	}
}
