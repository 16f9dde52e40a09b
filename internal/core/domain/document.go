package domain

// Metadata keys shared by normalised documents, chunks and indexed vectors.
// They match the field names of the corpus so answers can cite them.
const (
	MetaID          = "id"
	MetaTitle       = "titulo"
	MetaCategory    = "categoria"
	MetaSubcategory = "subcategoria"
	MetaDate        = "fecha"
	MetaAuthor      = "autor"
	MetaLevel       = "nivel"
	MetaTags        = "tags"
	MetaLanguage    = "idioma"
	MetaReadingTime = "tiempo_lectura"
	MetaStartIndex  = "start_index"

	// MetaText holds the chunk text inside vector store metadata.
	MetaText = "text"
)

// NormalizedDocument is a SourceRecord flattened for chunking.
// There is exactly one per SourceRecord.
type NormalizedDocument struct {
	// ID is the originating record id.
	ID string

	// Text is the title-prefixed full text.
	Text string

	// Metadata is the flattened record metadata (tags joined).
	Metadata map[string]string
}

// Chunk is a contiguous slice of a NormalizedDocument's text.
// Chunks have no identity beyond their position in the parent.
type Chunk struct {
	// DocumentID links to the parent document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// StartIndex is the offset of the chunk within the parent text,
	// counted in characters.
	StartIndex int

	// Text is the chunk content.
	Text string

	// Metadata is a copy of the parent metadata plus the start index.
	Metadata map[string]string
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// Documents is the number of normalised documents.
	Documents int

	// Chunks is the number of chunks produced.
	Chunks int

	// Vectors is the number of vectors upserted.
	Vectors int

	// IndexCreated reports whether the index did not exist before the run.
	IndexCreated bool
}
