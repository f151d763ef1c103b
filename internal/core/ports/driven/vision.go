package driven

import "context"

// VisionService describes images for ingestion.
// The description combines any visible text (OCR) with a summary of the
// meaningful visual content, and is ingested like extracted document text.
type VisionService interface {
	// Describe fetches the image at imageURL and returns its description.
	// imageURL may be an http(s) signed URL or a data: URL.
	Describe(ctx context.Context, imageURL string) (string, error)

	// ModelName returns the name of the vision model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
