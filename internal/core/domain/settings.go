package domain

import "time"

// Default values shared by ingestion and query.
const (
	DefaultCorpusPath      = "data/documentos.json"
	DefaultIndexName       = "mi-base-conocimiento"
	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultEmbeddingDims   = 1536
	DefaultLLMModel        = "gpt-4o-mini"
	DefaultLLMTimeout      = 30 * time.Second
	DefaultLLMMaxRetries   = 2
	DefaultTopK            = 3
	DefaultExcerptLength   = 500
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 200
	DefaultMaxIterations   = 15
	DefaultEmbedBatchSize  = 1000
	DefaultUpsertBatchSize = 32
)

// CorpusSettings locates the JSON corpus.
type CorpusSettings struct {
	Path string
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// Spec is the index to ensure before upserting.
	Spec IndexSpec

	// UpsertBatchSize is the number of vectors per upsert request.
	UpsertBatchSize int

	// ReadyPollInterval is how often a freshly created index is polled.
	ReadyPollInterval time.Duration
}

// PineconeSettings holds vector store credentials and endpoint.
type PineconeSettings struct {
	// APIKey is the vector store API key (required).
	APIKey string

	// ControllerURL overrides the control plane endpoint.
	ControllerURL string
}

// IsConfigured returns true if the vector store can be reached.
func (p PineconeSettings) IsConfigured() bool {
	return p.APIKey != ""
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (required).
	APIKey string

	// BatchSize is the number of texts per embedding request.
	BatchSize int

	// RequestsPerSecond throttles embedding requests. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.APIKey != ""
}

// LLMSettings holds chat model configuration.
type LLMSettings struct {
	// Model is the chat model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (required).
	APIKey string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxRetries is the number of retries after a failed request.
	MaxRetries int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// IsConfigured returns true if the chat model is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.APIKey != ""
}

// RetrievalSettings shapes the retrieval tool output.
type RetrievalSettings struct {
	// TopK is the number of chunks returned per query.
	TopK int

	// ExcerptLength caps the characters of content shown per chunk.
	ExcerptLength int
}

// ChunkerSettings configures the text splitter.
type ChunkerSettings struct {
	Size    int
	Overlap int
}

// AgentSettings bounds the tool-calling loop.
type AgentSettings struct {
	MaxIterations int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Corpus    CorpusSettings
	Index     IndexSettings
	Pinecone  PineconeSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Retrieval RetrievalSettings
	Chunker   ChunkerSettings
	Agent     AgentSettings
}

// DefaultAppSettings returns settings matching the reference deployment:
// a 1536-dimension cosine serverless index in aws/us-east-1, OpenAI
// text-embedding-3-small and gpt-4o-mini. Secrets are left empty.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Corpus: CorpusSettings{Path: DefaultCorpusPath},
		Index: IndexSettings{
			Spec: IndexSpec{
				Name:      DefaultIndexName,
				Dimension: DefaultEmbeddingDims,
				Metric:    MetricCosine,
				Cloud:     "aws",
				Region:    "us-east-1",
			},
			UpsertBatchSize:   DefaultUpsertBatchSize,
			ReadyPollInterval: 2 * time.Second,
		},
		Embedding: EmbeddingSettings{
			Model:     DefaultEmbeddingModel,
			BatchSize: DefaultEmbedBatchSize,
		},
		LLM: LLMSettings{
			Model:      DefaultLLMModel,
			Timeout:    DefaultLLMTimeout,
			MaxRetries: DefaultLLMMaxRetries,
		},
		Retrieval: RetrievalSettings{
			TopK:          DefaultTopK,
			ExcerptLength: DefaultExcerptLength,
		},
		Chunker: ChunkerSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Agent: AgentSettings{MaxIterations: DefaultMaxIterations},
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
