package enrich

import (
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
)

// ErrorType represents the failure categories the enrichment service
// exposes to its callers.
type ErrorType string

const (
	ErrorTypeBadRequest ErrorType = "bad_request"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeForbidden  ErrorType = "forbidden"
	ErrorTypeUpstream   ErrorType = "upstream"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error is a structured enrichment failure. Each type maps to a distinct
// HTTP response status.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode maps the error type to its HTTP response status.
func (e *Error) StatusCode() int {
	switch e.Type {
	case ErrorTypeBadRequest:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// newError creates a new Error with the given type and message
func newError(errorType ErrorType, message string, cause error) *Error {
	return &Error{Type: errorType, Message: message, Cause: cause}
}

// wrapAPIError converts a go-github error into a structured enrichment
// error for the repository owner/name being looked up.
func wrapAPIError(err error, owner, repo string) *Error {
	if err == nil {
		return nil
	}

	if rateErr, ok := err.(*github.RateLimitError); ok {
		return newError(ErrorTypeForbidden,
			fmt.Sprintf("GitHub API rate limit exceeded, resets at %v", rateErr.Rate.Reset.Time), err)
	}

	if respErr, ok := err.(*github.ErrorResponse); ok && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return newError(ErrorTypeNotFound,
				fmt.Sprintf("repository %s/%s not found", owner, repo), err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return newError(ErrorTypeForbidden,
				fmt.Sprintf("GitHub API access denied for %s/%s: %s", owner, repo, respErr.Message), err)
		}
		return newError(ErrorTypeUpstream,
			fmt.Sprintf("GitHub API error %d for %s/%s: %s", respErr.Response.StatusCode, owner, repo, respErr.Message), err)
	}

	return newError(ErrorTypeUpstream,
		fmt.Sprintf("failed to fetch repository data for %s/%s: %v", owner, repo, err), err)
}
