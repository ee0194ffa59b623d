package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrIndexInProgress,
		ErrTaskRunning,
		ErrServiceUnavailable,
		ErrTransport,
		ErrRateLimited,
		ErrEmbeddingUnavailable,
		ErrLLMUnavailable,
		ErrCorruptVector,
	}

	for i, a := range all {
		assert.NotEmpty(t, a.Error())
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestErrors_Wrapped(t *testing.T) {
	tests := []struct {
		name   string
		target error
	}{
		{"not found", ErrNotFound},
		{"service unavailable", ErrServiceUnavailable},
		{"transport", ErrTransport},
		{"corrupt vector", ErrCorruptVector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", tt.target))
			assert.ErrorIs(t, wrapped, tt.target)
			assert.Contains(t, wrapped.Error(), tt.target.Error())
		})
	}
}

func TestErrors_Messages(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.Equal(t, "invalid input", ErrInvalidInput.Error())
	assert.Equal(t, "chat service unavailable", ErrLLMUnavailable.Error())
	assert.Equal(t, "embedding service unavailable", ErrEmbeddingUnavailable.Error())
}
