package services

import (
	"strings"

	"github.com/custodia-labs/kbrag/internal/core/domain"
)

// Normalize flattens a corpus record into the document that gets chunked.
// The title is prepended to the body and tags are joined with ", ".
func Normalize(record domain.SourceRecord) domain.NormalizedDocument {
	m := record.Metadata
	return domain.NormalizedDocument{
		ID:   record.ID,
		Text: "Título: " + record.Title + "\n\n" + record.Body,
		Metadata: map[string]string{
			domain.MetaID:          record.ID,
			domain.MetaTitle:       record.Title,
			domain.MetaCategory:    m.Category,
			domain.MetaSubcategory: m.Subcategory,
			domain.MetaDate:        m.Date,
			domain.MetaAuthor:      m.Author,
			domain.MetaLevel:       m.Level,
			domain.MetaTags:        strings.Join(m.Tags, ", "),
			domain.MetaLanguage:    m.Language,
			domain.MetaReadingTime: m.ReadingTime,
		},
	}
}

// NormalizeAll normalises every record, preserving order.
func NormalizeAll(records []domain.SourceRecord) []domain.NormalizedDocument {
	docs := make([]domain.NormalizedDocument, 0, len(records))
	for _, r := range records {
		docs = append(docs, Normalize(r))
	}
	return docs
}
