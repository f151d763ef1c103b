package domain

import "errors"

// Domain errors represent pipeline and business logic failures.
// Adapters wrap infrastructure errors with one of these so callers can
// branch with errors.Is regardless of which backend produced them.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedKind indicates an asset kind or content type that no
	// extractor handles.
	ErrUnsupportedKind = errors.New("unsupported asset kind")

	// ErrExtractionEmpty indicates no text could be obtained from an asset.
	// Ingestion of that asset is aborted; nothing is persisted.
	ErrExtractionEmpty = errors.New("no text extracted")

	// ErrExternalService indicates an embedding, vision or language model
	// call failed or timed out.
	ErrExternalService = errors.New("external service failure")

	// ErrStorage indicates the object store or database failed.
	ErrStorage = errors.New("storage failure")

	// ErrConfiguration indicates invalid settings, such as a chunk overlap
	// that is not smaller than the chunk size.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrDimensionMismatch indicates an embedding whose length differs
	// from the configured model's dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the answer model is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVisionUnavailable indicates no vision-capable model is configured,
	// so image assets cannot be described.
	ErrVisionUnavailable = errors.New("vision service unavailable")
)
