package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
	"github.com/custodia-labs/kbrag/internal/core/ports/driving"
	"github.com/custodia-labs/kbrag/internal/logger"
)

// Ensure RetrievalTool implements the interfaces.
var (
	_ driving.RetrievalService = (*RetrievalTool)(nil)
	_ Tool                     = (*RetrievalTool)(nil)
)

const (
	// RetrievalToolName is the name the chat model calls the tool by.
	RetrievalToolName = "buscar_contexto"

	// RetrievalToolArg is the single string argument of the tool.
	RetrievalToolArg = "consulta"

	defaultRetrievalDescription = "Busca información relevante en la base de conocimiento."
	retrievalErrorPrefix        = "Error al buscar en la base de conocimiento: "
)

// RetrievalTool embeds a query, searches the vector index and renders the
// top results as a plain-text context block for the chat model.
type RetrievalTool struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	prompts  driven.PromptStore

	index         string
	topK          int
	excerptLength int
}

// NewRetrievalTool creates the retrieval tool for the named index.
// The prompts store supplies the tool description and may be nil.
func NewRetrievalTool(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	prompts driven.PromptStore,
	index string,
	settings domain.RetrievalSettings,
) *RetrievalTool {
	topK := settings.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	excerpt := settings.ExcerptLength
	if excerpt <= 0 {
		excerpt = domain.DefaultExcerptLength
	}
	return &RetrievalTool{
		embedder:      embedder,
		store:         store,
		prompts:       prompts,
		index:         index,
		topK:          topK,
		excerptLength: excerpt,
	}
}

// Definition describes the tool to the chat model.
func (t *RetrievalTool) Definition() domain.ToolDefinition {
	description := defaultRetrievalDescription
	if t.prompts != nil {
		if p, err := t.prompts.Load(driven.PromptRetrievalTool); err == nil && p != "" {
			description = p
		}
	}
	return domain.ToolDefinition{
		Name:        RetrievalToolName,
		Description: description,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				RetrievalToolArg: map[string]any{
					"type":        "string",
					"description": "Consulta en lenguaje natural",
				},
			},
			"required": []string{RetrievalToolArg},
		},
	}
}

// Call runs the tool with the JSON arguments produced by the model.
func (t *RetrievalTool) Call(ctx context.Context, arguments string) string {
	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return retrievalErrorPrefix + fmt.Sprintf("invalid arguments: %v", err)
	}
	query, ok := args[RetrievalToolArg].(string)
	if !ok {
		return retrievalErrorPrefix + fmt.Sprintf("missing string argument %q", RetrievalToolArg)
	}
	return t.Retrieve(ctx, query)
}

// Retrieve returns up to topK rendered results, best first. No results
// yields "". Failures are rendered as text so the agent can carry on.
func (t *RetrievalTool) Retrieve(ctx context.Context, query string) string {
	logger.Debug("Retrieving context for %q (k=%d)", query, t.topK)

	vector, err := t.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return retrievalErrorPrefix + err.Error()
	}

	results, err := t.store.Query(ctx, t.index, vector, t.topK)
	if err != nil {
		logger.Warn("Vector search failed: %v", err)
		return retrievalErrorPrefix + err.Error()
	}

	logger.Debug("Retrieved %d chunks", len(results))
	return FormatContext(results, t.excerptLength)
}

// FormatContext renders retrieved chunks separated by a blank line.
func FormatContext(results []domain.RetrievedChunk, excerptLength int) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf(
			"Fuente: %s\nCategoría: %s\nAutor: %s\nContenido: %s...",
			metaOr(r, domain.MetaTitle, "Sin título"),
			metaOr(r, domain.MetaCategory, "N/A"),
			metaOr(r, domain.MetaAuthor, "N/A"),
			truncateRunes(r.Text, excerptLength),
		))
	}
	return strings.Join(blocks, "\n\n")
}

// metaOr returns the metadata value, or fallback when the key is absent.
func metaOr(r domain.RetrievedChunk, key, fallback string) string {
	if v, ok := r.Metadata[key]; !ok || v == nil {
		return fallback
	}
	return r.MetaString(key)
}

// truncateRunes keeps the first n characters. It may cut mid-word.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
