package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_Long(t *testing.T) {
	assert.Contains(t, mcpServeCmd.Long, "buscar_contexto")
	assert.Contains(t, mcpServeCmd.Long, "--port")
}

func TestMCPServeCmd_ProviderError(t *testing.T) {
	_, provider, cleanup := setupTestServices()
	defer cleanup()
	provider.err = errBoom

	_, err := execute("", "mcp", "serve")

	assert.ErrorIs(t, err, errBoom)
}
