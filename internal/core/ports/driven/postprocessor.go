package driven

import (
	"context"

	"github.com/custodia-labs/kbrag/internal/core/domain"
)

// PostProcessor splits a normalised document into chunks.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the chunks of doc in order. Each chunk carries a copy
	// of the document metadata. Output is deterministic for a given
	// document and configuration.
	Process(ctx context.Context, doc *domain.NormalizedDocument) ([]domain.Chunk, error)
}
