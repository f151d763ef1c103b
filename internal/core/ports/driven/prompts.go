package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptRAGAnswer is the answer prompt. The template expects two %s
	// placeholders: the rendered context, then the question.
	PromptRAGAnswer = "rag_answer"

	// PromptImageDescribe is the instruction sent with an image to the
	// vision model. It has no placeholders.
	PromptImageDescribe = "image_describe"
)
