package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorpusNotFound indicates the corpus file does not exist.
	ErrCorpusNotFound = errors.New("corpus file not found")

	// ErrDimensionMismatch indicates an embedding or index dimension differs
	// from the configured one. Similarity would be meaningless.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMaxIterations indicates the agent loop ran out of iterations
	// before the model produced a final answer.
	ErrMaxIterations = errors.New("agent stopped after reaching max iterations")

	// ErrMissingAPIKey indicates a required secret was not supplied.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrLLMUnavailable indicates the chat model is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)
