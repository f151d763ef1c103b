package domain

import "fmt"

// Metadata keys recorded on every chunk.
const (
	MetaFilename = "filename"
	MetaType     = "type"
)

// UnknownSource is shown for chunks without a filename.
const UnknownSource = "Unknown"

// Chunk is a bounded text window of an asset paired with its embedding.
// A chunk belongs to exactly one asset and one user and never outlives
// its asset.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// UserID identifies the owning user.
	UserID string

	// AssetID links to the parent Asset.
	AssetID string

	// Position is the ordinal of this window within the asset text.
	Position int

	// Content is the text content of this chunk.
	Content string

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata holds at least MetaFilename and MetaType.
	Metadata map[string]string
}

// Validate checks the fields every vector store requires.
func (c *Chunk) Validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("nil chunk: %w", ErrInvalidInput)
	case c.UserID == "":
		return fmt.Errorf("chunk without user: %w", ErrInvalidInput)
	case c.AssetID == "":
		return fmt.Errorf("chunk without asset: %w", ErrInvalidInput)
	case len(c.Embedding) == 0:
		return fmt.Errorf("chunk without embedding: %w", ErrInvalidInput)
	}
	return nil
}

// RetrievedChunk is a chunk returned by similarity retrieval.
// It is a read-only projection and is never persisted.
type RetrievedChunk struct {
	// AssetID links to the parent Asset.
	AssetID string

	// Content is the chunk text.
	Content string

	// Metadata is the metadata stored with the chunk.
	Metadata map[string]string

	// Distance is the L2 distance to the query vector.
	Distance float64
}

// Filename returns the source filename, or UnknownSource.
func (c RetrievedChunk) Filename() string {
	if name := c.Metadata[MetaFilename]; name != "" {
		return name
	}
	return UnknownSource
}

// Kind returns the source asset kind recorded in metadata.
func (c RetrievedChunk) Kind() AssetKind {
	return AssetKind(c.Metadata[MetaType])
}
