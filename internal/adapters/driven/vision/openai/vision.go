// Package openai provides a vision service adapter using OpenAI multimodal
// chat models.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/openaicompat"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/retry"
)

// Ensure VisionService implements the interface.
var _ driven.VisionService = (*VisionService)(nil)

// Default configuration values.
const (
	DefaultModel     = "gpt-4o-mini"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024
	DefaultPrompt    = "Extract all visible text and describe meaningful visual content."
)

// Config holds configuration for the OpenAI vision service.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Prompt is the instruction sent alongside each image.
	Prompt string

	MaxTokens  int
	MaxRetries int
}

// VisionService describes images with a multimodal chat completion.
type VisionService struct {
	client    *openai.Client
	policy    retry.Policy
	model     string
	prompt    string
	maxTokens int
}

// NewVisionService creates a new OpenAI vision service.
func NewVisionService(cfg Config) (*VisionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai vision: API key is required: %w", domain.ErrConfiguration)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(cfg.Prompt) == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	return &VisionService{
		client:    openaicompat.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout),
		policy:    retry.Policy{MaxRetries: cfg.MaxRetries, Retryable: openaicompat.Retryable},
		model:     cfg.Model,
		prompt:    cfg.Prompt,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Describe sends the image URL and the description prompt in one user
// message. The model fetches the image itself, so imageURL must be reachable
// from the API or be a data: URL.
func (s *VisionService) Describe(ctx context.Context, imageURL string) (string, error) {
	if imageURL == "" {
		return "", fmt.Errorf("openai vision: empty image URL: %w", domain.ErrInvalidInput)
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: s.prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		MaxTokens: s.maxTokens,
	}

	resp, err := retry.Do(ctx, s.policy, func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return s.client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrVisionUnavailable, openaicompat.Wrap("describe", err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai vision: no choices returned: %w", domain.ErrExternalService)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the name of the vision model being used.
func (s *VisionService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *VisionService) Close() error {
	return nil
}
