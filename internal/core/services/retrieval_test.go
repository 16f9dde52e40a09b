package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
)

func newTestRetrievalTool(store *mockVectorStore, embedder *mockEmbeddingService) *RetrievalTool {
	return NewRetrievalTool(embedder, store, nil, "mi-base-conocimiento", domain.DefaultAppSettings().Retrieval)
}

func retrieved(title, category, author, text string) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		Text: text,
		Metadata: map[string]any{
			domain.MetaTitle:    title,
			domain.MetaCategory: category,
			domain.MetaAuthor:   author,
			domain.MetaText:     text,
		},
	}
}

func TestNewRetrievalTool_Defaults(t *testing.T) {
	tool := NewRetrievalTool(&mockEmbeddingService{}, newMockVectorStore(), nil, "idx", domain.RetrievalSettings{})

	assert.Equal(t, domain.DefaultTopK, tool.topK)
	assert.Equal(t, domain.DefaultExcerptLength, tool.excerptLength)
}

func TestRetrievalTool_Definition(t *testing.T) {
	tool := newTestRetrievalTool(newMockVectorStore(), &mockEmbeddingService{dims: 4})

	def := tool.Definition()

	assert.Equal(t, "buscar_contexto", def.Name)
	assert.Equal(t, defaultRetrievalDescription, def.Description)
	props, ok := def.Parameters["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "consulta")
	assert.Equal(t, []string{"consulta"}, def.Parameters["required"])
}

func TestRetrievalTool_Definition_DescriptionFromPrompts(t *testing.T) {
	prompts := &mockPromptStore{prompts: map[string]string{
		driven.PromptRetrievalTool: "Busca en la base técnica.",
	}}
	tool := NewRetrievalTool(&mockEmbeddingService{}, newMockVectorStore(), prompts, "idx", domain.RetrievalSettings{})

	assert.Equal(t, "Busca en la base técnica.", tool.Definition().Description)

	prompts.err = errors.New("unreadable")
	assert.Equal(t, defaultRetrievalDescription, tool.Definition().Description)
}

func TestRetrievalTool_Retrieve_FormatsResults(t *testing.T) {
	store := newMockVectorStore()
	store.queryResults = []domain.RetrievedChunk{
		retrieved("Microservicios", "Arquitectura", "Ana", "Texto uno"),
		retrieved("Seguridad", "Seguridad Informática", "Luis", "Texto dos"),
	}
	embedder := &mockEmbeddingService{dims: 4}
	tool := newTestRetrievalTool(store, embedder)

	out := tool.Retrieve(context.Background(), "¿Qué son los microservicios?")

	expected := "Fuente: Microservicios\nCategoría: Arquitectura\nAutor: Ana\nContenido: Texto uno...\n\n" +
		"Fuente: Seguridad\nCategoría: Seguridad Informática\nAutor: Luis\nContenido: Texto dos..."
	assert.Equal(t, expected, out)

	require.Len(t, store.queries, 1)
	assert.Equal(t, "mi-base-conocimiento", store.queries[0].index)
	assert.Equal(t, 3, store.queries[0].k)
	assert.Len(t, store.queries[0].vector, 4)
	assert.Equal(t, []string{"¿Qué son los microservicios?"}, embedder.texts)
}

func TestRetrievalTool_Retrieve_AtMostTopK(t *testing.T) {
	store := newMockVectorStore()
	for i := 0; i < 5; i++ {
		store.queryResults = append(store.queryResults, retrieved("T", "C", "A", "x"))
	}
	tool := newTestRetrievalTool(store, &mockEmbeddingService{dims: 2})

	out := tool.Retrieve(context.Background(), "q")

	assert.Equal(t, 3, strings.Count(out, "Fuente: "))
}

func TestRetrievalTool_Retrieve_NoResults(t *testing.T) {
	tool := newTestRetrievalTool(newMockVectorStore(), &mockEmbeddingService{dims: 2})

	assert.Equal(t, "", tool.Retrieve(context.Background(), "nada"))
}

func TestRetrievalTool_Retrieve_Errors(t *testing.T) {
	t.Run("embedding fails", func(t *testing.T) {
		embedder := &mockEmbeddingService{embedErr: errors.New("rate limited")}
		tool := newTestRetrievalTool(newMockVectorStore(), embedder)

		out := tool.Retrieve(context.Background(), "q")

		assert.Equal(t, "Error al buscar en la base de conocimiento: rate limited", out)
	})

	t.Run("search fails", func(t *testing.T) {
		store := newMockVectorStore()
		store.queryErr = errors.New("index unavailable")
		tool := newTestRetrievalTool(store, &mockEmbeddingService{dims: 2})

		out := tool.Retrieve(context.Background(), "q")

		assert.Equal(t, "Error al buscar en la base de conocimiento: index unavailable", out)
	})
}

func TestRetrievalTool_Call(t *testing.T) {
	store := newMockVectorStore()
	store.queryResults = []domain.RetrievedChunk{retrieved("T", "C", "A", "contenido")}
	tool := newTestRetrievalTool(store, &mockEmbeddingService{dims: 2})

	out := tool.Call(context.Background(), `{"consulta": "docker"}`)
	assert.Contains(t, out, "Contenido: contenido...")

	out = tool.Call(context.Background(), `not json`)
	assert.True(t, strings.HasPrefix(out, retrievalErrorPrefix))

	out = tool.Call(context.Background(), `{"query": "docker"}`)
	assert.True(t, strings.HasPrefix(out, retrievalErrorPrefix))
	assert.Contains(t, out, "consulta")
}

func TestFormatContext_MissingMetadata(t *testing.T) {
	out := FormatContext([]domain.RetrievedChunk{{Text: "solo texto"}}, 500)

	assert.Equal(t, "Fuente: Sin título\nCategoría: N/A\nAutor: N/A\nContenido: solo texto...", out)
}

func TestFormatContext_PresentButEmptyMetadata(t *testing.T) {
	chunk := domain.RetrievedChunk{Text: "x", Metadata: map[string]any{domain.MetaTitle: ""}}

	out := FormatContext([]domain.RetrievedChunk{chunk}, 500)

	assert.True(t, strings.HasPrefix(out, "Fuente: \n"))
}

func TestFormatContext_TruncatesByCharacters(t *testing.T) {
	text := strings.Repeat("á", 600)

	out := FormatContext([]domain.RetrievedChunk{retrieved("T", "C", "A", text)}, 500)

	assert.Contains(t, out, "Contenido: "+strings.Repeat("á", 500)+"...")
	assert.NotContains(t, out, strings.Repeat("á", 501))
}

func TestFormatContext_Empty(t *testing.T) {
	assert.Equal(t, "", FormatContext(nil, 500))
}
