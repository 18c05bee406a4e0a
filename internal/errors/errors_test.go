package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsSetCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want ErrorCode
	}{
		{NotFound("x"), ErrCodeNotFound},
		{Validation("x"), ErrCodeValidation},
		{Unauthorized("x"), ErrCodeUnauthorized},
		{Forbidden("x"), ErrCodeForbidden},
		{Unavailable("x"), ErrCodeUnavailable},
		{Internal("x"), ErrCodeInternal},
		{Internalf("x %d", 1), ErrCodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Code)
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("reason", "is required")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "reason", GetField(err))
	assert.Equal(t, "is required", err.Message)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, ErrCodeUnavailable, "backend call failed")

	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "backend call failed: boom", err.Error())
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "never"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "never %d", 1))
}

func TestIsHelpersThroughWrapping(t *testing.T) {
	inner := Unauthorized("session gone")
	outer := fmt.Errorf("calling backend: %w", inner)

	assert.True(t, IsUnauthorized(outer))
	assert.False(t, IsValidation(outer))
	assert.Equal(t, ErrCodeUnauthorized, GetCode(outer))
}

func TestGetCodeNonAppError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(stderrors.New("plain")))
	assert.Equal(t, "", GetField(stderrors.New("plain")))
}
