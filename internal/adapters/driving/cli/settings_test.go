package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbrag/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Pinecone key",
			input:    "pcsk_1234567890abcdefghijklmnop",
			expected: "pcsk...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsCmd_Show(t *testing.T) {
	settings, _, cleanup := setupTestServices()
	defer cleanup()
	settings.settings.Pinecone.APIKey = "pcsk_1234567890abcdef"

	out, err := execute("", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Path: data/documentos.json")
	assert.Contains(t, out, "Name: mi-base-conocimiento")
	assert.Contains(t, out, "Dimension: 1536")
	assert.Contains(t, out, "Serverless: aws/us-east-1")
	assert.Contains(t, out, "Model: gpt-4o-mini")
	assert.Contains(t, out, "Top K: 3")
	assert.Contains(t, out, "Max Iterations: 15")
	assert.Contains(t, out, "API Key: pcsk...cdef")
	assert.Contains(t, out, "API Key: (not set)")
	assert.NotContains(t, out, "pcsk_1234567890abcdef")
}

func TestSettingsCmd_ShowSubcommand(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Chunker]")
}

func TestSettingsCmd_Set(t *testing.T) {
	settings, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("", "settings", "set", "retrieval.top_k", "5")

	require.NoError(t, err)
	assert.Equal(t, "5", settings.values["retrieval.top_k"])
	assert.Contains(t, out, "retrieval.top_k = 5")
}

func TestSettingsCmd_SetMasksSecrets(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("", "settings", "set", "pinecone.api_key", "pcsk_1234567890abcdef")

	require.NoError(t, err)
	assert.Contains(t, out, "pinecone.api_key = pcsk...cdef")
}

func TestSettingsCmd_SetUnknownKey(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("", "settings", "set", "mode", "hybrid")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Valid keys: index.name, retrieval.top_k")
}

func TestSettingsCmd_SetRequiresTwoArgs(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("", "settings", "set", "index.name")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	SetSettingsService(nil)

	_, err := execute("", "settings")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
