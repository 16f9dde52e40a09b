package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Show the context retrieved for a query", searchCmd.Short)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("", "search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSearchCmd_PrintsContext(t *testing.T) {
	_, provider, cleanup := setupTestServices()
	defer cleanup()
	provider.retrieval.text = "Fuente: Blog\nCategoría: Cloud\nAutor: Ana\nContenido: Kubernetes..."

	out, err := execute("", "search", "kubernetes", "pods")

	require.NoError(t, err)
	assert.Equal(t, []string{"kubernetes pods"}, provider.retrieval.queries)
	assert.Contains(t, out, "Fuente: Blog")
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("", "search", "nada")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}
