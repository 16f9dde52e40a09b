package driving

import "context"

// RetrievalService exposes the retrieval tool to external actors.
type RetrievalService interface {
	// Retrieve returns the rendered context block for a free-text query.
	// Failures are rendered into the returned text, never returned as errors.
	Retrieve(ctx context.Context, query string) string
}
