package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedKind", ErrUnsupportedKind},
		{"ErrExtractionEmpty", ErrExtractionEmpty},
		{"ErrExternalService", ErrExternalService},
		{"ErrStorage", ErrStorage},
		{"ErrConfiguration", ErrConfiguration},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrVisionUnavailable", ErrVisionUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("embed chunk 3: %w", ErrExternalService)

	assert.True(t, errors.Is(wrapped, ErrExternalService))
	assert.False(t, errors.Is(wrapped, ErrStorage))
	assert.Equal(t, "embed chunk 3: external service failure", wrapped.Error())
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrExtractionEmpty, ErrUnsupportedKind))
	assert.False(t, errors.Is(ErrConfiguration, ErrInvalidInput))
}
