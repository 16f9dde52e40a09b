package driven

import (
	"context"

	"github.com/custodia-labs/kbrag/internal/core/domain"
)

// VectorStore is the external managed vector database.
// Similarity search and storage are delegated to it entirely.
type VectorStore interface {
	// ListIndexes returns the names of all indexes in the project.
	ListIndexes(ctx context.Context) ([]string, error)

	// DescribeIndex returns the index description.
	// Returns an error wrapping domain.ErrNotFound if the index does not exist.
	DescribeIndex(ctx context.Context, name string) (*domain.IndexDescription, error)

	// CreateIndex creates a serverless index. It does not wait for readiness.
	CreateIndex(ctx context.Context, spec domain.IndexSpec) error

	// Upsert writes vectors into the named index.
	Upsert(ctx context.Context, index string, vectors []domain.IndexedVector) (int, error)

	// Query returns the k nearest chunks to the query vector, best first.
	Query(ctx context.Context, index string, vector []float32, k int) ([]domain.RetrievedChunk, error)
}
