package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestAPIError_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("login: %w", &APIError{Status: 401, Message: "Wrong password", Err: ErrUnauthenticated})

	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "Wrong password", UserMessage(err))
}

func TestAPIError_ErrorFallbacks(t *testing.T) {
	assert.Equal(t, "not found", (&APIError{Status: 404, Err: ErrNotFound}).Error())
	assert.Equal(t, "request failed with status 418", (&APIError{Status: 418}).Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("email is required")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "email is required", err.Error())
}

func TestUserMessage_Sentinels(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("dial: %w", ErrUnavailable), "The server is unavailable, please try again later"},
		{ErrUnauthenticated, "Invalid credentials or session expired"},
		{ErrForbidden, "You do not have access to this page"},
		{ErrNotFound, "Not found"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
