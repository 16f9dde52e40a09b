package domain

// SourceRecord is one entry of the JSON corpus.
// It is immutable once loaded.
type SourceRecord struct {
	// ID is the record identifier in textual form.
	// Numeric ids in the corpus are carried as their decimal text.
	ID string

	// Title is the document title.
	Title string

	// Body is the document body text.
	Body string

	// Metadata is the fixed metadata schema of the record.
	Metadata SourceMetadata
}

// SourceMetadata is the metadata bag attached to every SourceRecord.
type SourceMetadata struct {
	Category    string
	Subcategory string
	Date        string
	Author      string
	Level       string

	// Tags keeps the order found in the corpus.
	Tags []string

	Language    string
	ReadingTime string
}
