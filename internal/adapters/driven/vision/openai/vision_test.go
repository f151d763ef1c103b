package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

type visionPart struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	ImageURL *struct {
		URL    string `json:"url"`
		Detail string `json:"detail"`
	} `json:"image_url"`
}

func TestDescribe(t *testing.T) {
	var body struct {
		Messages []struct {
			Role    string       `json:"role"`
			Content []visionPart `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant",` +
			`"content":"A receipt showing TOTAL 12.50"}}]}`))
	}))
	defer srv.Close()

	svc, err := NewVisionService(Config{APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	out, err := svc.Describe(context.Background(), "https://example.com/receipt.png")
	require.NoError(t, err)
	assert.Equal(t, "A receipt showing TOTAL 12.50", out)

	require.Len(t, body.Messages, 1)
	parts := body.Messages[0].Content
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, DefaultPrompt, parts[0].Text)
	assert.Equal(t, "image_url", parts[1].Type)
	require.NotNil(t, parts[1].ImageURL)
	assert.Equal(t, "https://example.com/receipt.png", parts[1].ImageURL.URL)
}

func TestDescribe_EmptyURL(t *testing.T) {
	svc, err := NewVisionService(Config{APIKey: "k"})
	require.NoError(t, err)

	_, err = svc.Describe(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDescribe_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	svc, err := NewVisionService(Config{APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = svc.Describe(context.Background(), "data:image/png;base64,AAAA")
	assert.ErrorIs(t, err, domain.ErrVisionUnavailable)
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestNewVisionService_CustomPrompt(t *testing.T) {
	_, err := NewVisionService(Config{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	svc, err := NewVisionService(Config{APIKey: "k", Prompt: "Read it", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", svc.ModelName())
	assert.Equal(t, "Read it", svc.prompt)
}
