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
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrCorpusNotFound", ErrCorpusNotFound},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrMaxIterations", ErrMaxIterations},
		{"ErrMissingAPIKey", ErrMissingAPIKey},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorStoreUnavailable", ErrVectorStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Distinct tests that no two sentinel errors match each other
func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrCorpusNotFound, ErrDimensionMismatch,
		ErrMaxIterations, ErrMissingAPIKey, ErrLLMUnavailable,
		ErrEmbeddingUnavailable, ErrVectorStoreUnavailable,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

// TestErrors_Wrapped tests that wrapped sentinels are still detected
func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("load data/documentos.json: %w", ErrCorpusNotFound)

	assert.True(t, errors.Is(err, ErrCorpusNotFound))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "corpus file not found")
}
