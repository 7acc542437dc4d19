package inspire

import (
	"fmt"
	"strings"
	"time"
)

// Error is the base type for all upstream-facing failures. Suggestion carries
// actionable advice suitable for display to an LLM or end user.
type Error struct {
	Message    string
	Details    string
	Suggestion string
}

func (e *Error) Error() string {
	parts := []string{e.Message}
	if e.Details != "" {
		parts = append(parts, e.Details)
	}
	if e.Suggestion != "" {
		parts = append(parts, "Suggestion: "+e.Suggestion)
	}
	return strings.Join(parts, " — ")
}

// APIError is a non-success response from the InspireHEP API.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	Suggestion string
}

// NewAPIError builds an APIError, deriving a suggestion from the status code
// when none is given.
func NewAPIError(message string, statusCode int, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
		Suggestion: apiSuggestion(statusCode),
	}
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	parts := []string{msg}
	if e.Details != "" {
		parts = append(parts, e.Details)
	}
	if e.Suggestion != "" {
		parts = append(parts, "Suggestion: "+e.Suggestion)
	}
	return strings.Join(parts, " — ")
}

// apiSuggestion maps HTTP status codes to user-facing advice.
func apiSuggestion(statusCode int) string {
	switch statusCode {
	case 400:
		return "Check the query syntax. InspireHEP uses SPIRES-style search syntax."
	case 403:
		return "Access denied. This resource may require special permissions."
	case 404:
		return "The record was not found. Verify the identifier is correct."
	case 429:
		return "Rate limit exceeded. Wait a moment and try again."
	case 500:
		return "InspireHEP server error. Try again in a few minutes."
	case 502:
		return "InspireHEP is temporarily unavailable. Try again shortly."
	case 503:
		return "InspireHEP is under maintenance. Try again later."
	default:
		return "An unexpected API error occurred. Try again later."
	}
}

// NotFoundError means the upstream has no record for the identifier.
type NotFoundError struct {
	Resource   string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found (HTTP 404) — identifier=%s — Suggestion: No %s found for '%s'. "+
		"Check the identifier format: Inspire IDs are numeric, arXiv IDs look like "+
		"'2301.12345' or 'hep-ph/0123456', DOIs start with '10.'.",
		e.Resource, e.Identifier, e.Resource, e.Identifier)
}

// RateLimitError means InspireHEP itself rejected the call for pacing,
// distinct from this process's own limiter.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("Rate limit exceeded (HTTP 429) — retry after %s — Suggestion: Wait %s before retrying.",
			e.RetryAfter, e.RetryAfter)
	}
	return "Rate limit exceeded (HTTP 429) — Suggestion: Wait a few seconds before retrying."
}

// TimeoutError means the upstream call exceeded the configured timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("InspireHEP request timed out after %s — Suggestion: The service may be slow; try again or narrow the query.",
		e.Timeout)
}

// ParseError means the upstream payload had an unexpected shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse InspireHEP response: %v — Suggestion: This is likely transient; try again.", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidIdentifierError means an arXiv ID, DOI or Inspire recid is malformed.
type InvalidIdentifierError struct {
	Kind  string // "arXiv", "DOI", "Inspire" or "unknown"
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("Invalid %s identifier — '%s' — Suggestion: %s", e.Kind, e.Value, e.formatHint())
}

func (e *InvalidIdentifierError) formatHint() string {
	switch e.Kind {
	case "arXiv":
		return "Expected formats: '2301.12345', 'hep-ph/0123456', or 'https://arxiv.org/abs/...'"
	case "DOI":
		return "Expected format: '10.XXXX/...' or 'https://doi.org/10.XXXX/...'"
	case "Inspire":
		return "Expected format: a numeric ID like '3456' or '1234567'"
	default:
		return "Provide an arXiv ID, DOI, or numeric Inspire ID."
	}
}
