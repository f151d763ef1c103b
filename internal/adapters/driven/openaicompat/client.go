// Package openaicompat builds go-openai clients and classifies their errors
// for the OpenAI embedding, answer and vision adapters. Any endpoint that
// speaks the OpenAI API (Azure, vLLM, LM Studio) works through BaseURL.
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// DefaultBaseURL is the public OpenAI API.
const DefaultBaseURL = "https://api.openai.com/v1"

// NewClient creates a client for the given key and endpoint.
// An empty baseURL uses the public API.
func NewClient(apiKey, baseURL string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(cfg)
}

// StatusCode returns the HTTP status of a failed call, or 0 if the call
// never got a response.
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// Retryable reports whether a failed call may succeed if repeated:
// rate limiting, server errors and transport failures. Context expiry and
// client errors are final.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	status := StatusCode(err)
	return status == 0 || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// Wrap marks err as an external service failure.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("openai %s: %w: %w", op, domain.ErrExternalService, err)
}
