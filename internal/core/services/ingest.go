package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
	"github.com/custodia-labs/kbrag/internal/core/ports/driving"
	"github.com/custodia-labs/kbrag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// vectorNamespace scopes the deterministic vector ids.
var vectorNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/kbrag/vectors"))

// ProgressFunc receives human-readable progress messages.
type ProgressFunc func(format string, args ...any)

// IngestService runs load, normalise, chunk, ensure index, embed and upsert.
type IngestService struct {
	loader    driven.CorpusLoader
	processor driven.PostProcessor
	indexes   *IndexManager
	embedder  driven.EmbeddingService
	store     driven.VectorStore

	embedBatchSize  int
	upsertBatchSize int
	progress        ProgressFunc
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	loader driven.CorpusLoader,
	processor driven.PostProcessor,
	indexes *IndexManager,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	embedBatchSize int,
	upsertBatchSize int,
) *IngestService {
	if embedBatchSize <= 0 {
		embedBatchSize = domain.DefaultEmbedBatchSize
	}
	if upsertBatchSize <= 0 {
		upsertBatchSize = domain.DefaultUpsertBatchSize
	}
	return &IngestService{
		loader:          loader,
		processor:       processor,
		indexes:         indexes,
		embedder:        embedder,
		store:           store,
		embedBatchSize:  embedBatchSize,
		upsertBatchSize: upsertBatchSize,
		progress:        func(string, ...any) {},
	}
}

// SetProgress sets the progress callback. Nil disables progress output.
func (s *IngestService) SetProgress(fn ProgressFunc) {
	if fn == nil {
		fn = func(string, ...any) {}
	}
	s.progress = fn
}

// Ingest indexes the corpus at path.
func (s *IngestService) Ingest(ctx context.Context, path string) (*domain.IngestReport, error) {
	logger.Section("Ingest")
	logger.Debug("Corpus: %s", path)

	s.progress("Loading documents from %s...", path)
	records, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	docs := NormalizeAll(records)
	s.progress("%d documents loaded", len(docs))

	s.progress("Splitting documents into chunks...")
	var chunks []domain.Chunk
	for i := range docs {
		docChunks, err := s.processor.Process(ctx, &docs[i])
		if err != nil {
			return nil, fmt.Errorf("chunk document %s: %w", docs[i].ID, err)
		}
		logger.Debug("Document %s: %d chunks", docs[i].ID, len(docChunks))
		chunks = append(chunks, docChunks...)
	}
	s.progress("%d chunks created", len(chunks))

	report := &domain.IngestReport{Documents: len(docs), Chunks: len(chunks)}

	spec := s.indexes.Spec()
	s.progress("Preparing index %q...", spec.Name)
	created, err := s.indexes.EnsureIndex(ctx)
	report.IndexCreated = created
	if err != nil {
		return report, err
	}
	if created {
		s.progress("Index %q created", spec.Name)
	} else {
		s.progress("Index %q already exists", spec.Name)
	}

	s.progress("Embedding and upserting %d chunks with %s...", len(chunks), s.embedder.ModelName())
	for start := 0; start < len(chunks); start += s.embedBatchSize {
		end := min(start+s.embedBatchSize, len(chunks))
		batch := chunks[start:end]

		vectors, err := s.embedChunks(ctx, batch, spec.Dimension)
		if err != nil {
			return report, err
		}

		n, err := s.upsert(ctx, spec.Name, vectors)
		report.Vectors += n
		if err != nil {
			return report, err
		}
		logger.Info("Upserted %d/%d vectors", report.Vectors, len(chunks))
	}

	return report, nil
}

// embedChunks embeds one batch of chunks and builds their vectors.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk, dim int) ([]domain.IndexedVector, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d embeddings for %d texts", len(embeddings), len(chunks))
	}

	vectors := make([]domain.IndexedVector, len(chunks))
	for i, c := range chunks {
		if len(embeddings[i]) != dim {
			return nil, fmt.Errorf("%w: embedding has %d dimensions, index expects %d",
				domain.ErrDimensionMismatch, len(embeddings[i]), dim)
		}
		vectors[i] = domain.IndexedVector{
			ID:       VectorID(c),
			Values:   embeddings[i],
			Metadata: vectorMetadata(c),
		}
	}
	return vectors, nil
}

// upsert writes vectors in store-sized batches.
func (s *IngestService) upsert(ctx context.Context, index string, vectors []domain.IndexedVector) (int, error) {
	total := 0
	for start := 0; start < len(vectors); start += s.upsertBatchSize {
		end := min(start+s.upsertBatchSize, len(vectors))
		n, err := s.store.Upsert(ctx, index, vectors[start:end])
		total += n
		if err != nil {
			return total, fmt.Errorf("upsert vectors: %w", err)
		}
	}
	return total, nil
}

// VectorID derives a stable id from the chunk's document and position, so
// re-ingesting an unchanged corpus overwrites the same vectors.
func VectorID(c domain.Chunk) string {
	name := fmt.Sprintf("%s:%d:%d", c.DocumentID, c.Position, c.StartIndex)
	return uuid.NewSHA1(vectorNamespace, []byte(name)).String()
}

// vectorMetadata is the chunk metadata plus its text.
func vectorMetadata(c domain.Chunk) map[string]any {
	meta := make(map[string]any, len(c.Metadata)+1)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta[domain.MetaStartIndex] = c.StartIndex
	meta[domain.MetaText] = c.Text
	return meta
}
