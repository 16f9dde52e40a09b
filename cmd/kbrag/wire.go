package main

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/kbrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/kbrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kbrag/internal/adapters/driven/corpus/jsonfile"
	"github.com/custodia-labs/kbrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
	"github.com/custodia-labs/kbrag/internal/core/ports/driving"
	"github.com/custodia-labs/kbrag/internal/core/services"
	"github.com/custodia-labs/kbrag/internal/postprocessors/chunker"
)

// container builds services on demand from the effective settings.
type container struct {
	settings *services.SettingsService
	prompts  driven.PromptStore
}

// Ensure container implements the interface.
var _ cli.ServiceProvider = (*container)(nil)

// bootstrap opens the configuration in dir, or ~/.kbrag when empty.
func bootstrap(dir string) (driving.SettingsService, cli.ServiceProvider, error) {
	if dir == "" {
		var err error
		dir, err = file.DefaultDir()
		if err != nil {
			return nil, nil, fmt.Errorf("locate config directory: %w", err)
		}
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return nil, nil, fmt.Errorf("open prompts: %w", err)
	}

	c := &container{
		settings: services.NewSettingsService(configStore),
		prompts:  prompts,
	}
	return c.settings, c, nil
}

// Ingest wires the ingestion pipeline.
func (c *container) Ingest(progress func(format string, args ...any)) (driving.IngestService, error) {
	s, err := c.settings.Get()
	if err != nil {
		return nil, err
	}
	if err := c.settings.ValidateIngest(s); err != nil {
		return nil, err
	}

	adapters, err := ai.CreateRetrievalAdapters(s)
	if err != nil {
		return nil, err
	}

	processor, err := chunker.New(
		chunker.WithChunkSize(s.Chunker.Size),
		chunker.WithOverlap(s.Chunker.Overlap),
	)
	if err != nil {
		adapters.Close()
		return nil, err
	}
	ingest := services.NewIngestService(
		jsonfile.New(),
		processor,
		services.NewIndexManager(adapters.Store, s.Index),
		adapters.Embedder,
		adapters.Store,
		s.Embedding.BatchSize,
		s.Index.UpsertBatchSize,
	)
	ingest.SetProgress(progress)
	return ingest, nil
}

// Ask wires the agent behind the ask service.
func (c *container) Ask() (driving.AskService, error) {
	s, err := c.settings.Get()
	if err != nil {
		return nil, err
	}
	if err := c.settings.ValidateQuery(s); err != nil {
		return nil, err
	}

	adapters, err := ai.CreateRetrievalAdapters(s)
	if err != nil {
		return nil, err
	}
	model, err := ai.CreateChatModel(&s.LLM)
	if err != nil {
		adapters.Close()
		return nil, err
	}

	tool := services.NewRetrievalTool(adapters.Embedder, adapters.Store, c.prompts, s.Index.Spec.Name, s.Retrieval)
	agent := services.NewAgentLoop(model, c.prompts, s.Agent.MaxIterations, tool)
	return services.NewAskService(agent), nil
}

// Retrieval wires the retrieval tool alone. It needs no chat model.
func (c *container) Retrieval() (driving.RetrievalService, error) {
	s, err := c.settings.Get()
	if err != nil {
		return nil, err
	}
	if !s.Pinecone.IsConfigured() {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrMissingAPIKey, services.EnvPineconeAPIKey)
	}
	if !s.Embedding.IsConfigured() {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrMissingAPIKey, services.EnvOpenAIAPIKey)
	}

	adapters, err := ai.CreateRetrievalAdapters(s)
	if err != nil {
		return nil, err
	}
	return services.NewRetrievalTool(adapters.Embedder, adapters.Store, c.prompts, s.Index.Spec.Name, s.Retrieval), nil
}
