package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

const placeholder = "%s"

// PromptBuilder renders the answer prompt from retrieved chunks and a
// question. The template holds two %s placeholders: context, then question.
type PromptBuilder struct {
	template string
}

// NewPromptBuilder validates the template and returns a builder for it.
func NewPromptBuilder(template string) (*PromptBuilder, error) {
	if n := strings.Count(template, placeholder); n != 2 {
		return nil, fmt.Errorf("answer prompt needs 2 %%s placeholders, has %d: %w", n, domain.ErrConfiguration)
	}
	return &PromptBuilder{template: template}, nil
}

// LoadPromptBuilder reads the rag_answer template from the store.
func LoadPromptBuilder(prompts driven.PromptStore) (*PromptBuilder, error) {
	template, err := prompts.Load(driven.PromptRAGAnswer)
	if err != nil {
		return nil, fmt.Errorf("load %s prompt: %w", driven.PromptRAGAnswer, err)
	}
	return NewPromptBuilder(template)
}

// Build renders each chunk as "[Source: <filename>]: <content>", joins them
// with blank lines and substitutes the result and the question into the
// template. Substitution is positional, so "%s" inside chunk text is left
// untouched.
func (b *PromptBuilder) Build(chunks []domain.RetrievedChunk, question string) string {
	return fill(b.template, RenderContext(chunks), question)
}

// RenderContext formats chunks the way the answer prompt expects.
func RenderContext(chunks []domain.RetrievedChunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, "[Source: "+c.Filename()+"]: "+c.Content)
	}
	return strings.Join(parts, "\n\n")
}

func fill(template, context, question string) string {
	i := strings.Index(template, placeholder)
	j := i + len(placeholder) + strings.Index(template[i+len(placeholder):], placeholder)

	var sb strings.Builder
	sb.Grow(len(template) + len(context) + len(question))
	sb.WriteString(template[:i])
	sb.WriteString(context)
	sb.WriteString(template[i+len(placeholder) : j])
	sb.WriteString(question)
	sb.WriteString(template[j+len(placeholder):])
	return sb.String()
}
