// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - CorpusLoader: Reads source records from the JSON corpus
//   - EmbeddingService: Turns text into vectors (OpenAI)
//   - VectorStore: Managed index lifecycle, upsert and similarity query (Pinecone)
//   - ChatModel: Tool-calling chat completion (OpenAI)
//   - ConfigStore: Application configuration (TOML)
//   - PromptStore: User-editable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
