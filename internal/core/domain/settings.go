package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings, vision or answers.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's known vector size. Zero uses the
	// model default.
	Dimensions int

	// RequestsPerSecond caps embedding calls. Zero disables limiting.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds answer model configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// MaxTokens caps the answer length. Zero uses the provider default.
	MaxTokens int

	// Temperature controls randomness.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VisionSettings holds the image description model configuration.
// Only OpenAI-compatible vision endpoints are supported.
type VisionSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured returns true if the vision provider is set up.
func (v VisionSettings) IsConfigured() bool {
	return v.Provider == AIProviderOpenAI && v.APIKey != ""
}

// ChunkingSettings holds the chunk window configuration.
type ChunkingSettings struct {
	// Size is the window length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive windows.
	// Must be smaller than Size.
	Overlap int
}

// Validate checks that chunking can make progress.
func (c ChunkingSettings) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("chunk size %d must be positive: %w", c.Size, ErrConfiguration)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("chunk overlap %d must be in [0, %d): %w", c.Overlap, c.Size, ErrConfiguration)
	}
	return nil
}

// RetrievalSettings holds similarity retrieval configuration.
type RetrievalSettings struct {
	// TopK is the default number of chunks retrieved per question.
	TopK int
}

// IngestSettings holds ingestion behaviour configuration.
type IngestSettings struct {
	// StrictKinds makes unknown asset kinds an error instead of empty text.
	StrictKinds bool

	// SignedURLTTL is how long image URLs handed to the vision model stay valid.
	SignedURLTTL time.Duration
}

// PipelineSettings holds cross-cutting pipeline configuration.
type PipelineSettings struct {
	// Timeout bounds one ingestion or query run.
	Timeout time.Duration

	// MaxRetries is the number of extra attempts for failed model calls.
	MaxRetries int
}

// VectorBackend selects the VectorStore implementation.
type VectorBackend string

// Available vector store backends.
const (
	VectorBackendSQLite   VectorBackend = "sqlite"
	VectorBackendMemory   VectorBackend = "memory"
	VectorBackendQdrant   VectorBackend = "qdrant"
	VectorBackendPGVector VectorBackend = "pgvector"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendMemory, VectorBackendQdrant, VectorBackendPGVector:
		return true
	default:
		return false
	}
}

// VectorStoreSettings holds vector store configuration.
type VectorStoreSettings struct {
	// Backend selects the implementation.
	Backend VectorBackend

	// DSN is the Postgres connection string (pgvector).
	DSN string

	// Address is the Qdrant gRPC address (host:port).
	Address string

	// Collection is the Qdrant collection name.
	Collection string
}

// ObjectBackend selects the ObjectStore implementation.
type ObjectBackend string

// Available object store backends.
const (
	ObjectBackendFilesystem ObjectBackend = "filesystem"
	ObjectBackendMinio      ObjectBackend = "minio"
)

// ObjectStoreSettings holds object store configuration.
type ObjectStoreSettings struct {
	Backend ObjectBackend

	// Dir is the root directory for the filesystem backend.
	Dir string

	// Endpoint, AccessKey, SecretKey, Bucket and UseSSL configure MinIO/S3.
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// UserID is the identity used when no --user flag is given.
	UserID string

	Embedding   EmbeddingSettings
	LLM         LLMSettings
	Vision      VisionSettings
	Chunking    ChunkingSettings
	Retrieval   RetrievalSettings
	Ingest      IngestSettings
	Pipeline    PipelineSettings
	VectorStore VectorStoreSettings
	ObjectStore ObjectStoreSettings
}

// Validate checks settings that would make every request fail.
func (s *AppSettings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if s.Retrieval.TopK < 0 {
		return fmt.Errorf("retrieval top_k %d must not be negative: %w", s.Retrieval.TopK, ErrConfiguration)
	}
	if !s.VectorStore.Backend.IsValid() {
		return fmt.Errorf("unknown vector store backend %q: %w", s.VectorStore.Backend, ErrConfiguration)
	}
	if s.Pipeline.MaxRetries < 0 {
		return fmt.Errorf("max_retries %d must not be negative: %w", s.Pipeline.MaxRetries, ErrConfiguration)
	}
	return nil
}

// Default values for settings.
const (
	DefaultUserID       = "local"
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
	DefaultTopK         = 5
	DefaultSignedURLTTL = time.Hour
	DefaultTimeout      = 60 * time.Second
	DefaultCollection   = "sercha_chunks"
	DefaultBucket       = "assets"
)

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; they come from the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		UserID: DefaultUserID,
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Vision: VisionSettings{
			Provider: AIProviderOpenAI,
			Model:    "gpt-4o-mini",
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{TopK: DefaultTopK},
		Ingest: IngestSettings{
			SignedURLTTL: DefaultSignedURLTTL,
		},
		Pipeline: PipelineSettings{
			Timeout: DefaultTimeout,
		},
		VectorStore: VectorStoreSettings{
			Backend:    VectorBackendSQLite,
			Collection: DefaultCollection,
		},
		ObjectStore: ObjectStoreSettings{
			Backend: ObjectBackendFilesystem,
			Bucket:  DefaultBucket,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support answer generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
