// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Converts raw file bytes of one kind into plain text
//   - EmbeddingService: Converts text into fixed-dimension vectors
//   - VectorStore: Persists chunks and answers nearest-neighbour queries
//   - LLMService: Generates answers from assembled prompts
//   - ObjectStore: Holds uploaded files and mints signed URLs
//   - AssetStore: Asset record persistence
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VisionService: Describes images. Without it, image uploads are rejected.
//   - ChatStore: Chat history. Without it, history is not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
