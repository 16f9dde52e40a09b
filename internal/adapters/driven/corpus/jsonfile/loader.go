// Package jsonfile loads the document corpus from a JSON array file.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
	"github.com/custodia-labs/kbrag/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.CorpusLoader = (*Loader)(nil)

// Loader reads corpus files. Every field of the record schema must be
// present; values are not otherwise checked.
type Loader struct {
	validate *validator.Validate
}

// New creates a corpus loader.
func New() *Loader {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in validation errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Loader{validate: v}
}

// record mirrors one corpus entry. Pointer fields distinguish an absent
// field from an empty one.
type record struct {
	ID       *text     `json:"id" validate:"required"`
	Title    *string   `json:"titulo" validate:"required"`
	Body     *string   `json:"contenido" validate:"required"`
	Metadata *metadata `json:"metadata" validate:"required"`
}

type metadata struct {
	Category    *string   `json:"categoria" validate:"required"`
	Subcategory *string   `json:"subcategoria" validate:"required"`
	Date        *string   `json:"fecha" validate:"required"`
	Author      *string   `json:"autor" validate:"required"`
	Level       *string   `json:"nivel" validate:"required"`
	Tags        *[]string `json:"tags" validate:"required"`
	Language    *string   `json:"idioma" validate:"required"`
	ReadingTime *text     `json:"tiempo_lectura" validate:"required"`
}

// text accepts a JSON string or number and keeps its textual form.
type text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*t = text(n.String())
	return nil
}

// Load reads and validates the corpus at path.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCorpusNotFound, path)
		}
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var raw []*record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse corpus %s: %v", domain.ErrInvalidInput, path, err)
	}

	records := make([]domain.SourceRecord, 0, len(raw))
	// Vector ids derive from record ids, so a repeated id would overwrite
	// the earlier document in the index.
	seen := make(map[string]int, len(raw))
	for i, r := range raw {
		if r == nil {
			return nil, fmt.Errorf("%w: record %d is null", domain.ErrInvalidInput, i)
		}
		if err := l.validate.Struct(r); err != nil {
			return nil, fmt.Errorf("%w: record %d: %s", domain.ErrInvalidInput, i, describe(err))
		}
		rec := r.toDomain()
		if first, ok := seen[rec.ID]; ok {
			return nil, fmt.Errorf("%w: record %d: duplicate id %q (first used by record %d)",
				domain.ErrInvalidInput, i, rec.ID, first)
		}
		seen[rec.ID] = i
		records = append(records, rec)
	}

	logger.Debug("Loaded %d records from %s", len(records), path)
	return records, nil
}

func (r *record) toDomain() domain.SourceRecord {
	m := r.Metadata
	return domain.SourceRecord{
		ID:    string(*r.ID),
		Title: *r.Title,
		Body:  *r.Body,
		Metadata: domain.SourceMetadata{
			Category:    *m.Category,
			Subcategory: *m.Subcategory,
			Date:        *m.Date,
			Author:      *m.Author,
			Level:       *m.Level,
			Tags:        append([]string(nil), *m.Tags...),
			Language:    *m.Language,
			ReadingTime: string(*m.ReadingTime),
		},
	}
}

// describe names the first missing field, e.g. "missing field metadata.autor".
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	field := verrs[0].Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return "missing field " + field
}
