package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrAlreadyQueued", ErrAlreadyQueued},
		{"ErrGatewayClosed", ErrGatewayClosed},
		{"ErrOffline", ErrOffline},
		{"ErrLockHeld", ErrLockHeld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("submit post-1: %w", ErrAlreadyQueued)

	assert.True(t, errors.Is(wrapped, ErrAlreadyQueued))
	assert.False(t, errors.Is(wrapped, ErrGatewayClosed))
}
