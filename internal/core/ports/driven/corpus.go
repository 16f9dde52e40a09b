package driven

import (
	"context"

	"github.com/custodia-labs/kbrag/internal/core/domain"
)

// CorpusLoader reads source records from a corpus file.
type CorpusLoader interface {
	// Load returns every record of the corpus at path, in file order.
	// It fails on the first record missing a required field.
	Load(ctx context.Context, path string) ([]domain.SourceRecord, error)
}
