package domain

import "time"

// IngestState is a state of the linear ingestion state machine.
type IngestState string

// Ingestion states, in order. Aborted is the early terminal state reached
// when extraction yields no text.
const (
	IngestStateExtracting IngestState = "extracting"
	IngestStateCleaning   IngestState = "cleaning"
	IngestStateChunking   IngestState = "chunking"
	IngestStateEmbedding  IngestState = "embedding"
	IngestStateDone       IngestState = "done"
	IngestStateAborted    IngestState = "aborted"
)

// IsTerminal returns true for Done and Aborted.
func (s IngestState) IsTerminal() bool {
	return s == IngestStateDone || s == IngestStateAborted
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// AssetID is the ingested asset.
	AssetID string

	// State is the final state reached.
	State IngestState

	// Chunks is the number of chunk records stored.
	Chunks int

	// Replaced is the number of previously stored chunks removed for the
	// asset before the new ones were written.
	Replaced int

	// TextLength is the length in characters of the cleaned text.
	TextLength int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Aborted returns true if ingestion stopped because no text was extracted.
func (r *IngestReport) Aborted() bool {
	return r != nil && r.State == IngestStateAborted
}
