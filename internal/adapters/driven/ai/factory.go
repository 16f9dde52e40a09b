// Package ai provides factory functions for creating AI service adapters
// from application settings.
package ai

import (
	"fmt"
	"io"

	openaiembed "github.com/custodia-labs/kbrag/internal/adapters/driven/embedding/openai"
	openaillm "github.com/custodia-labs/kbrag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/kbrag/internal/adapters/driven/vectorstore/pinecone"
	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
)

// RetrievalAdapters bundles the adapters shared by ingestion and retrieval.
type RetrievalAdapters struct {
	Embedder driven.EmbeddingService
	Store    driven.VectorStore
}

// Close releases all resources held by the adapters.
func (r *RetrievalAdapters) Close() {
	if r.Embedder != nil {
		r.Embedder.Close()
	}
	if c, ok := r.Store.(io.Closer); ok {
		c.Close()
	}
}

// CreateEmbeddingService creates the embedding service described by settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding API key is not set", domain.ErrMissingAPIKey)
	}

	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            settings.APIKey,
		BaseURL:           settings.BaseURL,
		Model:             settings.Model,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateChatModel creates the tool-calling chat model described by settings.
func CreateChatModel(settings *domain.LLMSettings) (driven.ChatModel, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: LLM API key is not set", domain.ErrMissingAPIKey)
	}

	model, err := openaillm.NewChatModel(openaillm.Config{
		APIKey:      settings.APIKey,
		BaseURL:     settings.BaseURL,
		Model:       settings.Model,
		Timeout:     settings.Timeout,
		MaxRetries:  settings.MaxRetries,
		Temperature: settings.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return model, nil
}

// CreateVectorStore creates the vector store client described by settings.
func CreateVectorStore(settings *domain.PineconeSettings) (driven.VectorStore, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: vector store API key is not set", domain.ErrMissingAPIKey)
	}

	store, err := pinecone.New(pinecone.Config{
		APIKey:        settings.APIKey,
		ControllerURL: settings.ControllerURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}
	return store, nil
}

// CreateRetrievalAdapters creates the embedder and vector store and checks
// that the embedding dimension matches the configured index.
func CreateRetrievalAdapters(settings *domain.AppSettings) (*RetrievalAdapters, error) {
	embedder, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}
	if embedder.Dimensions() != settings.Index.Spec.Dimension {
		embedder.Close()
		return nil, fmt.Errorf("%w: model %s produces %d dimensions, index.dimension is %d",
			domain.ErrDimensionMismatch, embedder.ModelName(), embedder.Dimensions(), settings.Index.Spec.Dimension)
	}

	store, err := CreateVectorStore(&settings.Pinecone)
	if err != nil {
		embedder.Close()
		return nil, err
	}
	return &RetrievalAdapters{Embedder: embedder, Store: store}, nil
}
