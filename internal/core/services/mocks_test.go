package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts listed in vectors get that vector; others get a vector whose first
// component is the text length.
type mockEmbeddingService struct {
	vectors  map[string][]float32
	dims     int
	embedErr error
	badDims  bool

	mu    sync.Mutex
	texts []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	n := m.Dimensions()
	if m.badDims {
		n++
	}
	v := make([]float32, n)
	v[0] = float32(len([]rune(text)))
	return v, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func (m *mockEmbeddingService) embedded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply string
	err   error

	prompts []string
	opts    []driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockVisionService implements driven.VisionService for testing.
type mockVisionService struct {
	description string
	err         error
	urls        []string
}

func (m *mockVisionService) Describe(_ context.Context, imageURL string) (string, error) {
	m.urls = append(m.urls, imageURL)
	if m.err != nil {
		return "", m.err
	}
	return m.description, nil
}

func (m *mockVisionService) ModelName() string {
	return "mock-vision"
}

func (m *mockVisionService) Close() error {
	return nil
}

// mockObjectStore implements driven.ObjectStore for testing.
type mockObjectStore struct {
	objects   map[string][]byte
	uploadErr error
	signErr   error
	deleteErr error
	deleted   []string
	ttls      []time.Duration
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{objects: make(map[string][]byte)}
}

func (m *mockObjectStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.objects[key] = data
	return nil
}

func (m *mockObjectStore) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.ttls = append(m.ttls, ttl)
	if m.signErr != nil {
		return "", m.signErr
	}
	return "https://objects.test/" + key + "?sig=1", nil
}

func (m *mockObjectStore) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, key)
	delete(m.objects, key)
	return nil
}

// mockExtractorRegistry implements driven.ExtractorRegistry for testing.
// Every registered kind returns its fixed text.
type mockExtractorRegistry struct {
	texts map[domain.AssetKind]string
	err   error
}

func (m *mockExtractorRegistry) Extract(_ context.Context, kind domain.AssetKind, _ []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	text, ok := m.texts[kind]
	if !ok {
		return "", domain.ErrUnsupportedKind
	}
	return text, nil
}

func (m *mockExtractorRegistry) Supports(kind domain.AssetKind) bool {
	_, ok := m.texts[kind]
	return ok
}

// failingVectorStore wraps the memory store and fails the Nth Store call.
type failingVectorStore struct {
	*memory.VectorStore
	failAt     int
	calls      int
	deleteErr  error
	replaceErr error
}

var errStoreFailed = errors.New("disk full")

func (f *failingVectorStore) Store(ctx context.Context, chunk *domain.Chunk) error {
	f.calls++
	if f.calls == f.failAt {
		return errStoreFailed
	}
	return f.VectorStore.Store(ctx, chunk)
}

func (f *failingVectorStore) DeleteByAsset(ctx context.Context, assetID string) (int, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.VectorStore.DeleteByAsset(ctx, assetID)
}

func (f *failingVectorStore) DeleteByAssetExcept(ctx context.Context, assetID string, keep []string) (int, error) {
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	return f.VectorStore.DeleteByAssetExcept(ctx, assetID, keep)
}

// failingAssetStore wraps the memory store with injectable errors.
type failingAssetStore struct {
	*memory.AssetStore
	saveErr   error
	deleteErr error
}

func (f *failingAssetStore) Save(ctx context.Context, asset *domain.Asset) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.AssetStore.Save(ctx, asset)
}

func (f *failingAssetStore) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.AssetStore.Delete(ctx, id)
}

// failingQueryStore is a vector store whose Query always fails.
type failingQueryStore struct {
	*memory.VectorStore
}

func (f *failingQueryStore) Query(context.Context, string, []float32, []string, int) ([]domain.RetrievedChunk, error) {
	return nil, errors.New("connection refused")
}
