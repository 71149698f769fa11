package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "validation", err: Validation("Missing user_id"), status: http.StatusBadRequest, message: "Missing user_id"},
		{name: "not found", err: NotFound("Item not found"), status: http.StatusNotFound, message: "Item not found"},
		{name: "auth", err: Unauthorized("Unauthorized"), status: http.StatusUnauthorized, message: "Unauthorized"},
		{
			name:    "upstream hides cause",
			err:     Upstream("Failed to fetch comments", errors.New("connection refused")),
			status:  http.StatusInternalServerError,
			message: "Failed to fetch comments",
		},
		{
			name:    "wrapped validation",
			err:     fmt.Errorf("create comment: %w", Validation("Missing required fields")),
			status:  http.StatusBadRequest,
			message: "Missing required fields",
		},
		{name: "plain error", err: errors.New("boom"), status: http.StatusInternalServerError, message: "Internal server error"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, HTTPStatus(tc.err))
			assert.Equal(t, tc.message, Message(tc.err))
		})
	}
}

func TestUpstreamUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Upstream("Failed to count posts", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to count posts: timeout", err.Error())
}
