package driving

import (
	"context"

	"github.com/custodia-labs/kbrag/internal/core/domain"
)

// IngestService runs the ingestion pipeline.
type IngestService interface {
	// Ingest loads the corpus at path, chunks and embeds it, ensures the
	// index exists and upserts every chunk.
	Ingest(ctx context.Context, path string) (*domain.IngestReport, error)
}
