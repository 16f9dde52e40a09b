package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for kbrag resources.
	uriScheme = "kbrag://"
)

// settingsView is the public shape of the settings resource. Secrets are omitted.
type settingsView struct {
	CorpusPath     string `json:"corpus_path"`
	IndexName      string `json:"index_name"`
	Dimension      int    `json:"dimension"`
	Metric         string `json:"metric"`
	EmbeddingModel string `json:"embedding_model"`
	LLMModel       string `json:"llm_model"`
	TopK           int    `json:"top_k"`
	ChunkSize      int    `json:"chunk_size"`
	ChunkOverlap   int    `json:"chunk_overlap"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Settings == nil {
		return
	}
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Effective knowledge base settings (secrets omitted)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleSettingsResource returns the effective settings as JSON.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	view := settingsView{
		CorpusPath:     settings.Corpus.Path,
		IndexName:      settings.Index.Spec.Name,
		Dimension:      settings.Index.Spec.Dimension,
		Metric:         settings.Index.Spec.Metric,
		EmbeddingModel: settings.Embedding.Model,
		LLMModel:       settings.LLM.Model,
		TopK:           settings.Retrieval.TopK,
		ChunkSize:      settings.Chunker.Size,
		ChunkOverlap:   settings.Chunker.Overlap,
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
