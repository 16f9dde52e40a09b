package domain

import "fmt"

// Similarity metrics supported by the vector store.
const (
	MetricCosine     = "cosine"
	MetricEuclidean  = "euclidean"
	MetricDotProduct = "dotproduct"
)

// IndexSpec describes the index to create in the vector store.
type IndexSpec struct {
	// Name is the index name.
	Name string

	// Dimension must equal the embedding model dimension.
	Dimension int

	// Metric is the similarity metric (cosine by default).
	Metric string

	// Cloud and Region place a serverless index.
	Cloud  string
	Region string
}

// IndexDescription is what the vector store reports about an existing index.
type IndexDescription struct {
	Name      string
	Host      string
	Dimension int
	Metric    string
	Ready     bool
}

// IndexedVector is an embedding persisted in the vector store.
// The chunk text travels in Metadata under MetaText.
type IndexedVector struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// RetrievedChunk is one result of a similarity search.
// Rank is implied by position in the returned slice.
type RetrievedChunk struct {
	Text     string
	Metadata map[string]any
}

// MetaString returns a metadata value as a string, or "" when absent.
func (r RetrievedChunk) MetaString(key string) string {
	v, ok := r.Metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
