// Package domain defines the core business entities for kbrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceRecord: An entry of the JSON corpus as loaded
//   - NormalizedDocument: A record flattened into text plus metadata
//   - Chunk: A bounded slice of a document used as the retrieval unit
//   - IndexedVector / RetrievedChunk: What goes into and comes out of the vector store
//   - Message / ToolCall / Decision: The tool-calling agent conversation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
