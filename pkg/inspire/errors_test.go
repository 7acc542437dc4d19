package inspire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMessage(t *testing.T) {
	err := NewAPIError("InspireHEP request failed", 500, "")
	msg := err.Error()
	assert.Contains(t, msg, "HTTP 500")
	assert.Contains(t, msg, "Suggestion:")
	assert.Contains(t, msg, "server error")
}

func TestAPIErrorSuggestions(t *testing.T) {
	cases := map[int]string{
		400: "query syntax",
		403: "Access denied",
		404: "not found",
		429: "Rate limit",
		500: "server error",
		502: "temporarily unavailable",
		503: "maintenance",
		418: "unexpected API error",
	}
	for code, want := range cases {
		assert.Contains(t, apiSuggestion(code), want, "status %d", code)
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Resource: "paper", Identifier: "2301.99999"}
	msg := err.Error()
	assert.Contains(t, msg, "paper not found")
	assert.Contains(t, msg, "2301.99999")
	assert.Contains(t, msg, "arXiv IDs look like")
}

func TestRateLimitError(t *testing.T) {
	withRetry := &RateLimitError{RetryAfter: 5 * time.Second}
	assert.Contains(t, withRetry.Error(), "5s")

	without := &RateLimitError{}
	assert.Contains(t, without.Error(), "a few seconds")
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Timeout: 30 * time.Second}
	assert.Contains(t, err.Error(), "30s")
	assert.Contains(t, err.Error(), "timed out")
}

func TestInvalidIdentifierHints(t *testing.T) {
	cases := map[string]string{
		"arXiv":   "2301.12345",
		"DOI":     "10.XXXX",
		"Inspire": "numeric ID",
		"unknown": "Provide an arXiv ID",
	}
	for kind, want := range cases {
		err := &InvalidIdentifierError{Kind: kind, Value: "x"}
		assert.Contains(t, err.Error(), want, kind)
	}
}
