package domain

import "time"

// Question is a natural-language question asked by a user.
type Question struct {
	// UserID scopes retrieval to this user's chunks.
	UserID string

	// Text is the question as typed.
	Text string

	// AssetIDs optionally restricts retrieval to these assets.
	// Empty means all of the user's assets.
	AssetIDs []string

	// TopK is the number of chunks to retrieve. Zero uses the configured default.
	TopK int
}

// NoAnswerPhrase is what the answer model is told to say when the context
// does not contain the answer.
const NoAnswerPhrase = "I'm sorry, I couldn't find that specific information in the documents " +
	"you uploaded. Would you like me to check something else?"

// Answer is the result of the query pipeline.
type Answer struct {
	// Text is the model's free-text answer.
	Text string

	// Chunks are the retrieved chunks, nearest first.
	Chunks []RetrievedChunk

	// Grounded is true when at least one chunk was retrieved and supplied
	// to the model as context.
	Grounded bool
}

// Source identifies a document that contributed context to an answer.
type Source struct {
	Filename string    `json:"filename"`
	Type     AssetKind `json:"type"`
}

// Sources returns the distinct sources of the answer's chunks, keyed by
// filename, in first-seen order.
func (a *Answer) Sources() []Source {
	seen := make(map[string]bool, len(a.Chunks))
	sources := make([]Source, 0, len(a.Chunks))
	for _, c := range a.Chunks {
		name := c.Filename()
		if seen[name] {
			continue
		}
		seen[name] = true
		sources = append(sources, Source{Filename: name, Type: c.Kind()})
	}
	return sources
}

// ChatEntry is one persisted question/answer exchange.
type ChatEntry struct {
	ID        string
	UserID    string
	Question  string
	Answer    string
	Sources   []Source
	Grounded  bool
	CreatedAt time.Time
}
