package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/services"
)

func setKeys(t *testing.T, openaiKey, pineconeKey string) {
	t.Helper()
	t.Setenv(services.EnvOpenAIAPIKey, openaiKey)
	t.Setenv(services.EnvPineconeAPIKey, pineconeKey)
}

func TestBootstrap_CreatesConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kbrag")

	settings, provider, err := bootstrap(dir)

	require.NoError(t, err)
	require.NotNil(t, settings)
	require.NotNil(t, provider)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBootstrap_SettingsPersist(t *testing.T) {
	dir := t.TempDir()
	settings, _, err := bootstrap(dir)
	require.NoError(t, err)

	require.NoError(t, settings.Set("retrieval.top_k", "5"))

	reopened, _, err := bootstrap(dir)
	require.NoError(t, err)
	s, err := reopened.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, s.Retrieval.TopK)
	assert.FileExists(t, filepath.Join(dir, "config.toml"))
}

func TestContainer_MissingKeys(t *testing.T) {
	setKeys(t, "", "")
	_, provider, err := bootstrap(t.TempDir())
	require.NoError(t, err)

	_, err = provider.Ingest(nil)
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)

	_, err = provider.Ask()
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)

	_, err = provider.Retrieval()
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestContainer_BuildsServices(t *testing.T) {
	setKeys(t, "sk-test", "pc-test")
	_, provider, err := bootstrap(t.TempDir())
	require.NoError(t, err)

	ingest, err := provider.Ingest(func(string, ...any) {})
	require.NoError(t, err)
	assert.NotNil(t, ingest)

	ask, err := provider.Ask()
	require.NoError(t, err)
	assert.NotNil(t, ask)

	retrieval, err := provider.Retrieval()
	require.NoError(t, err)
	assert.NotNil(t, retrieval)
}

func TestContainer_DimensionMismatch(t *testing.T) {
	setKeys(t, "sk-test", "pc-test")
	settings, provider, err := bootstrap(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, settings.Set("index.dimension", "768"))

	_, err = provider.Ingest(nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "768")
}
