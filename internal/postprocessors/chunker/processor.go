// Package chunker provides a recursive, size-bounded text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultSeparators are tried in order: paragraph, line, word, character.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Processor splits document text into overlapping chunks, preferring
// paragraph, line and word boundaries before a hard cut.
// Lengths and offsets are counted in characters, not bytes.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
// It must be smaller than the chunk size.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy.
// The empty separator, if present, must come last.
func WithSeparators(separators ...string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = append([]string(nil), separators...)
		}
	}
}

// New creates a new chunker processor with the given options.
// An overlap that is not smaller than the chunk size is rejected.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document text into chunks carrying the parent metadata
// and their start offset.
func (p *Processor) Process(_ context.Context, doc *domain.NormalizedDocument) ([]domain.Chunk, error) {
	if doc.Text == "" {
		return nil, nil
	}

	texts := p.SplitText(doc.Text)
	chunks := make([]domain.Chunk, 0, len(texts))

	index := 0
	previousLen := 0
	for position, text := range texts {
		offset := index + previousLen - p.overlap
		if offset < 0 {
			offset = 0
		}
		index = runeIndex(doc.Text, text, offset)
		previousLen = runeLen(text)

		metadata := make(map[string]string, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata[domain.MetaStartIndex] = strconv.Itoa(index)

		chunks = append(chunks, domain.Chunk{
			DocumentID: doc.ID,
			Position:   position,
			StartIndex: index,
			Text:       text,
			Metadata:   metadata,
		})
	}

	return chunks, nil
}

// SplitText splits raw text into chunk strings.
func (p *Processor) SplitText(text string) []string {
	return p.split(text, p.separators)
}

func (p *Processor) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, s := range separators {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			remaining = separators[i+1:]
			break
		}
	}

	var final, good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < p.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, p.merge(good)...)
			good = nil
		}
		if len(remaining) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, p.split(piece, remaining)...)
		}
	}
	if len(good) > 0 {
		final = append(final, p.merge(good)...)
	}

	return final
}

// merge packs pieces into chunks of at most chunkSize characters, carrying
// up to overlap characters of trailing pieces into the next chunk.
// Pieces already hold their separators, so they are joined directly.
func (p *Processor) merge(pieces []string) []string {
	var docs, current []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > p.chunkSize && len(current) > 0 {
			if doc := joinTrimmed(current); doc != "" {
				docs = append(docs, doc)
			}
			for total > p.overlap || (total+n > p.chunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if doc := joinTrimmed(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepingSeparator splits text on separator, attaching each separator
// to the start of the piece that follows it. Empty pieces are dropped.
func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, part := range parts[1:] {
		pieces = append(pieces, separator+part)
	}
	return pieces
}

func joinTrimmed(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// runeIndex returns the character index of sub in s, searching from the
// character offset from. Returns -1 if sub is not present.
func runeIndex(s, sub string, from int) int {
	byteFrom := 0
	for i := 0; i < from && byteFrom < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[byteFrom:])
		byteFrom += size
	}

	i := strings.Index(s[byteFrom:], sub)
	if i < 0 {
		return -1
	}
	return from + utf8.RuneCountInString(s[byteFrom:byteFrom+i])
}
