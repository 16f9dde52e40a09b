package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
	"github.com/custodia-labs/kbrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCorpusPath          = "corpus.path"
	keyIndexName           = "index.name"
	keyIndexDimension      = "index.dimension"
	keyIndexMetric         = "index.metric"
	keyIndexCloud          = "index.cloud"
	keyIndexRegion         = "index.region"
	keyIndexUpsertBatch    = "index.upsert_batch_size"
	keyIndexReadyPoll      = "index.ready_poll_seconds"
	keyPineconeAPIKey      = "pinecone.api_key"
	keyPineconeController  = "pinecone.controller_url"
	keyEmbedModel          = "embedding.model"
	keyEmbedBaseURL        = "embedding.base_url"
	keyEmbedAPIKey         = "embedding.api_key"
	keyEmbedBatchSize      = "embedding.batch_size"
	keyEmbedRequestsPerSec = "embedding.requests_per_second"
	keyLLMModel            = "llm.model"
	keyLLMBaseURL          = "llm.base_url"
	keyLLMAPIKey           = "llm.api_key"
	keyLLMTimeout          = "llm.timeout_seconds"
	keyLLMMaxRetries       = "llm.max_retries"
	keyLLMTemperature      = "llm.temperature"
	keyRetrievalTopK       = "retrieval.top_k"
	keyRetrievalExcerpt    = "retrieval.excerpt_length"
	keyChunkerSize         = "chunker.size"
	keyChunkerOverlap      = "chunker.overlap"
	keyAgentMaxIterations  = "agent.max_iterations"
)

// Environment variables holding secrets.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvPineconeAPIKey = "PINECONE_API_KEY"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
)

// settingKeys lists every configurable key and how its value is parsed.
var settingKeys = map[string]keyKind{
	keyCorpusPath:          kindString,
	keyIndexName:           kindString,
	keyIndexDimension:      kindInt,
	keyIndexMetric:         kindString,
	keyIndexCloud:          kindString,
	keyIndexRegion:         kindString,
	keyIndexUpsertBatch:    kindInt,
	keyIndexReadyPoll:      kindInt,
	keyPineconeAPIKey:      kindString,
	keyPineconeController:  kindString,
	keyEmbedModel:          kindString,
	keyEmbedBaseURL:        kindString,
	keyEmbedAPIKey:         kindString,
	keyEmbedBatchSize:      kindInt,
	keyEmbedRequestsPerSec: kindFloat,
	keyLLMModel:            kindString,
	keyLLMBaseURL:          kindString,
	keyLLMAPIKey:           kindString,
	keyLLMTimeout:          kindInt,
	keyLLMMaxRetries:       kindInt,
	keyLLMTemperature:      kindFloat,
	keyRetrievalTopK:       kindInt,
	keyRetrievalExcerpt:    kindInt,
	keyChunkerSize:         kindInt,
	keyChunkerOverlap:      kindInt,
	keyAgentMaxIterations:  kindInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading secrets from
// the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Corpus: domain.CorpusSettings{
			Path: s.getString(keyCorpusPath, defaults.Corpus.Path),
		},
		Index: domain.IndexSettings{
			Spec: domain.IndexSpec{
				Name:      s.getString(keyIndexName, defaults.Index.Spec.Name),
				Dimension: s.getInt(keyIndexDimension, defaults.Index.Spec.Dimension),
				Metric:    s.getString(keyIndexMetric, defaults.Index.Spec.Metric),
				Cloud:     s.getString(keyIndexCloud, defaults.Index.Spec.Cloud),
				Region:    s.getString(keyIndexRegion, defaults.Index.Spec.Region),
			},
			UpsertBatchSize:   s.getInt(keyIndexUpsertBatch, defaults.Index.UpsertBatchSize),
			ReadyPollInterval: s.getSeconds(keyIndexReadyPoll, defaults.Index.ReadyPollInterval),
		},
		Pinecone: domain.PineconeSettings{
			APIKey:        s.getSecret(EnvPineconeAPIKey, keyPineconeAPIKey),
			ControllerURL: s.configStore.GetString(keyPineconeController), // No default - empty uses the public endpoint
		},
		Embedding: domain.EmbeddingSettings{
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL),
			APIKey:            s.getSecret(EnvOpenAIAPIKey, keyEmbedAPIKey),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRequestsPerSec),
		},
		LLM: domain.LLMSettings{
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.getSecret(EnvOpenAIAPIKey, keyLLMAPIKey),
			Timeout:     s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
			MaxRetries:  s.getIntAllowZero(keyLLMMaxRetries, defaults.LLM.MaxRetries),
			Temperature: s.configStore.GetFloat(keyLLMTemperature),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:          s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			ExcerptLength: s.getInt(keyRetrievalExcerpt, defaults.Retrieval.ExcerptLength),
		},
		Chunker: domain.ChunkerSettings{
			Size:    s.getInt(keyChunkerSize, defaults.Chunker.Size),
			Overlap: s.getIntAllowZero(keyChunkerOverlap, defaults.Chunker.Overlap),
		},
		Agent: domain.AgentSettings{
			MaxIterations: s.getInt(keyAgentMaxIterations, defaults.Agent.MaxIterations),
		},
	}

	return settings, nil
}

// Set parses value according to the key and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	value = strings.TrimSpace(value)
	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		parsed = f
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every configurable key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateIngest checks the settings needed by the ingestion pipeline.
func (s *SettingsService) ValidateIngest(settings *domain.AppSettings) error {
	if !settings.Pinecone.IsConfigured() {
		return fmt.Errorf("%w: %s is not set", domain.ErrMissingAPIKey, EnvPineconeAPIKey)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: %s is not set", domain.ErrMissingAPIKey, EnvOpenAIAPIKey)
	}
	if settings.Corpus.Path == "" {
		return fmt.Errorf("%w: corpus path is empty", domain.ErrInvalidInput)
	}
	if settings.Index.Spec.Name == "" {
		return fmt.Errorf("%w: index name is empty", domain.ErrInvalidInput)
	}
	if settings.Index.Spec.Dimension <= 0 {
		return fmt.Errorf("%w: index dimension must be positive", domain.ErrInvalidInput)
	}
	if settings.Chunker.Overlap >= settings.Chunker.Size {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, settings.Chunker.Overlap, settings.Chunker.Size)
	}
	return nil
}

// ValidateQuery checks the settings needed by the query pipeline.
func (s *SettingsService) ValidateQuery(settings *domain.AppSettings) error {
	if !settings.Pinecone.IsConfigured() {
		return fmt.Errorf("%w: %s is not set", domain.ErrMissingAPIKey, EnvPineconeAPIKey)
	}
	if !settings.Embedding.IsConfigured() || !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: %s is not set", domain.ErrMissingAPIKey, EnvOpenAIAPIKey)
	}
	if settings.Index.Spec.Name == "" {
		return fmt.Errorf("%w: index name is empty", domain.ErrInvalidInput)
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval top_k must be positive", domain.ErrInvalidInput)
	}
	if settings.Agent.MaxIterations <= 0 {
		return fmt.Errorf("%w: agent max_iterations must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero treats an explicit 0 as a valid value.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

// getSecret prefers the environment over the config file.
func (s *SettingsService) getSecret(envVar, key string) string {
	if val, ok := s.lookupEnv(envVar); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return s.configStore.GetString(key)
}
