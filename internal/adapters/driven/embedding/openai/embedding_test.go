package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

type embeddingsRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions"`
}

// newEmbeddingServer answers /v1/embeddings with a vector of dims values per
// input, listed in reverse order to check index placement.
func newEmbeddingServer(t *testing.T, dims int) (*httptest.Server, *embeddingsRequest) {
	t.Helper()
	var got embeddingsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		data := make([]map[string]any, 0, len(got.Input))
		for i := len(got.Input) - 1; i >= 0; i-- {
			vec := make([]float64, dims)
			for j := range vec {
				vec[j] = float64(i + 1)
			}
			data = append(data, map[string]any{"object": "embedding", "index": i, "embedding": vec})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  got.Model,
			"data":   data,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestNewEmbeddingService_RequiresKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())

	large, err := NewEmbeddingService(Config{APIKey: "k", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, large.Dimensions())
}

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	srv, got := newEmbeddingServer(t, 3)
	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1", Dimensions: 3})
	require.NoError(t, err)

	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got.Input)
	assert.Equal(t, 3, got.Dimensions)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 1, 1}, vecs[0])
	assert.Equal(t, []float32{2, 2, 2}, vecs[1])
}

func TestEmbed_Single(t *testing.T) {
	srv, _ := newEmbeddingServer(t, 4)
	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1", Dimensions: 4})
	require.NoError(t, err)

	vec, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 4)
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "k"})
	require.NoError(t, err)

	vecs, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedBatch_DimensionMismatch(t *testing.T) {
	srv, _ := newEmbeddingServer(t, 2)
	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1", Dimensions: 3})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestEmbedBatch_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,0.5]}]}`))
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1",
		Dimensions: 2,
		MaxRetries: 2,
	})
	require.NoError(t, err)

	vec, err := svc.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, vec)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbedBatch_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1", MaxRetries: 3})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.Equal(t, int32(1), calls.Load())
}
