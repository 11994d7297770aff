package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", ErrInsufficientFunds, "InsufficientFunds"},
		{"wrapped", fmt.Errorf("%w: balance is 0", ErrInsufficientFunds), "InsufficientFunds"},
		{"code not found wraps account not found",
			fmt.Errorf("%w: %w", ErrCodeNotFound, ErrAccountNotFound), "CodeNotFound"},
		{"account not found", fmt.Errorf("fetch: %w", ErrAccountNotFound), "AccountNotFound"},
		{"unknown", errors.New("boom"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(fmt.Errorf("%w: urc", ErrParameterMissing)))
	assert.True(t, IsValidation(ErrCodeAlreadyBound))
	assert.True(t, IsValidation(ErrCodeHashMismatch))
	assert.False(t, IsValidation(ErrSubmission))
	assert.False(t, IsValidation(ErrDecode))
}
