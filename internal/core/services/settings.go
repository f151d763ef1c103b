package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyUserID = "user.id"

	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyEmbedDims     = "embedding.dimensions"
	keyEmbedRPS      = "embedding.requests_per_second"

	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMMaxTokens   = "llm.max_tokens"
	keyLLMTemperature = "llm.temperature"

	keyVisionProvider = "vision.provider"
	keyVisionModel    = "vision.model"
	keyVisionBaseURL  = "vision.base_url"
	keyVisionAPIKey   = "vision.api_key"

	keyChunkSize    = "chunking.size"
	keyChunkOverlap = "chunking.overlap"
	keyTopK         = "retrieval.top_k"

	keyStrictKinds  = "ingest.strict_kinds"
	keySignedURLTTL = "ingest.signed_url_ttl"

	keyTimeout    = "pipeline.timeout"
	keyMaxRetries = "pipeline.max_retries"

	keyVectorBackend    = "vector_store.backend"
	keyVectorDSN        = "vector_store.dsn"
	keyVectorURL        = "vector_store.url"
	keyVectorCollection = "vector_store.collection"

	keyObjectBackend   = "object_store.backend"
	keyObjectDir       = "object_store.dir"
	keyObjectEndpoint  = "object_store.endpoint"
	keyObjectAccessKey = "object_store.access_key"
	keyObjectSecretKey = "object_store.secret_key"
	keyObjectBucket    = "object_store.bucket"
	keyObjectUseSSL    = "object_store.use_ssl"
)

// Environment variables that fill settings left empty in the config file.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvAnthropicKey   = "ANTHROPIC_API_KEY"
	EnvMinioEndpoint  = "MINIO_ENDPOINT"
	EnvMinioAccessKey = "MINIO_ACCESS_KEY"
	EnvMinioSecretKey = "MINIO_SECRET_KEY"
	EnvMinioBucket    = "MINIO_BUCKET"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindDuration
	kindProvider
)

var settingKinds = map[string]valueKind{
	keyUserID:           kindString,
	keyEmbedProvider:    kindProvider,
	keyEmbedModel:       kindString,
	keyEmbedBaseURL:     kindString,
	keyEmbedAPIKey:      kindString,
	keyEmbedDims:        kindInt,
	keyEmbedRPS:         kindFloat,
	keyLLMProvider:      kindProvider,
	keyLLMModel:         kindString,
	keyLLMBaseURL:       kindString,
	keyLLMAPIKey:        kindString,
	keyLLMMaxTokens:     kindInt,
	keyLLMTemperature:   kindFloat,
	keyVisionProvider:   kindProvider,
	keyVisionModel:      kindString,
	keyVisionBaseURL:    kindString,
	keyVisionAPIKey:     kindString,
	keyChunkSize:        kindInt,
	keyChunkOverlap:     kindInt,
	keyTopK:             kindInt,
	keyStrictKinds:      kindBool,
	keySignedURLTTL:     kindDuration,
	keyTimeout:          kindDuration,
	keyMaxRetries:       kindInt,
	keyVectorBackend:    kindString,
	keyVectorDSN:        kindString,
	keyVectorURL:        kindString,
	keyVectorCollection: kindString,
	keyObjectBackend:    kindString,
	keyObjectDir:        kindString,
	keyObjectEndpoint:   kindString,
	keyObjectAccessKey:  kindString,
	keyObjectSecretKey:  kindString,
	keyObjectBucket:     kindString,
	keyObjectUseSSL:     kindBool,
}

// SettingsService reads typed settings from a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service that consults the
// process environment for API keys and MinIO credentials.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. Missing keys take their
// defaults; empty credentials are filled from the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		UserID: s.getString(keyUserID, d.UserID),
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL),
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.configStore.GetInt(keyEmbedDims),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, d.LLM.Provider),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			MaxTokens:   s.configStore.GetInt(keyLLMMaxTokens),
			Temperature: s.configStore.GetFloat(keyLLMTemperature),
		},
		Vision: domain.VisionSettings{
			Provider: s.getProvider(keyVisionProvider, d.Vision.Provider),
			Model:    s.getString(keyVisionModel, d.Vision.Model),
			BaseURL:  s.configStore.GetString(keyVisionBaseURL),
			APIKey:   s.configStore.GetString(keyVisionAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, d.Chunking.Size),
			Overlap: s.getIntAllowZero(keyChunkOverlap, d.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, d.Retrieval.TopK),
		},
		Ingest: domain.IngestSettings{
			StrictKinds:  s.getBool(keyStrictKinds, d.Ingest.StrictKinds),
			SignedURLTTL: s.getDuration(keySignedURLTTL, d.Ingest.SignedURLTTL),
		},
		Pipeline: domain.PipelineSettings{
			Timeout:    s.getDuration(keyTimeout, d.Pipeline.Timeout),
			MaxRetries: s.configStore.GetInt(keyMaxRetries),
		},
		VectorStore: domain.VectorStoreSettings{
			Backend:    domain.VectorBackend(s.getString(keyVectorBackend, string(d.VectorStore.Backend))),
			DSN:        s.configStore.GetString(keyVectorDSN),
			Address:    s.configStore.GetString(keyVectorURL),
			Collection: s.getString(keyVectorCollection, d.VectorStore.Collection),
		},
		ObjectStore: domain.ObjectStoreSettings{
			Backend:   domain.ObjectBackend(s.getString(keyObjectBackend, string(d.ObjectStore.Backend))),
			Dir:       s.configStore.GetString(keyObjectDir),
			Endpoint:  s.configStore.GetString(keyObjectEndpoint),
			AccessKey: s.configStore.GetString(keyObjectAccessKey),
			SecretKey: s.configStore.GetString(keyObjectSecretKey),
			Bucket:    s.getString(keyObjectBucket, d.ObjectStore.Bucket),
			UseSSL:    s.getBool(keyObjectUseSSL, d.ObjectStore.UseSSL),
		},
	}

	// Models default per provider, so they are resolved after the provider.
	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])

	s.applyEnv(settings)
	return settings, nil
}

// applyEnv fills empty credentials from the environment.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	keyFor := func(p domain.AIProvider) string {
		switch p {
		case domain.AIProviderOpenAI:
			return s.getenv(EnvOpenAIKey)
		case domain.AIProviderAnthropic:
			return s.getenv(EnvAnthropicKey)
		default:
			return ""
		}
	}
	fill := func(dst *string, val string) {
		if *dst == "" {
			*dst = val
		}
	}

	fill(&settings.Embedding.APIKey, keyFor(settings.Embedding.Provider))
	fill(&settings.LLM.APIKey, keyFor(settings.LLM.Provider))
	fill(&settings.Vision.APIKey, keyFor(settings.Vision.Provider))

	fill(&settings.ObjectStore.Endpoint, s.getenv(EnvMinioEndpoint))
	fill(&settings.ObjectStore.AccessKey, s.getenv(EnvMinioAccessKey))
	fill(&settings.ObjectStore.SecretKey, s.getenv(EnvMinioSecretKey))
	if b := s.getenv(EnvMinioBucket); b != "" && s.configStore.GetString(keyObjectBucket) == "" {
		settings.ObjectStore.Bucket = b
	}
}

// Set parses value according to key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer: %w", key, value, domain.ErrInvalidInput)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number: %w", key, value, domain.ErrInvalidInput)
		}
		parsed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean: %w", key, value, domain.ErrInvalidInput)
		}
		parsed = b
	case kindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %q is not a duration: %w", key, value, domain.ErrInvalidInput)
		}
		parsed = value
	case kindProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%s: unknown provider %q: %w", key, value, domain.ErrInvalidInput)
		}
		parsed = value
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised settings key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// IsSecretKey reports whether key holds a credential that should be masked
// when displayed.
func IsSecretKey(key string) bool {
	return strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, "secret_key") || key == keyVectorDSN
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero distinguishes an explicit 0 from a missing key.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getDuration accepts Go duration strings ("90s") or integer seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if str := s.configStore.GetString(key); str != "" {
		if d, err := time.ParseDuration(str); err == nil && d > 0 {
			return d
		}
		return defaultVal
	}
	if secs := s.configStore.GetInt(key); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
