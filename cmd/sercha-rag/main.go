// Command sercha-rag uploads files and answers questions about them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/file"
	fsobjects "github.com/custodia-labs/sercha-rag/internal/adapters/driven/objectstore/filesystem"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/objectstore/minio"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/pgvector"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/qdrant"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-rag/internal/chunker"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
	"github.com/custodia-labs/sercha-rag/internal/extractors"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is normal.
	_ = godotenv.Load() //nolint:errcheck // optional file

	cli.SetVersion(version)

	dir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore)

	app, err := wire(ctx, dir, settingsService)
	if err != nil {
		// Keep the settings commands usable so the problem can be fixed.
		logger.Warn("pipeline unavailable: %v", err)
		cli.SetServices(cli.Services{Settings: settingsService})
	} else {
		defer app.close()
		cli.SetServices(cli.Services{
			Assets:   app.assets,
			Chat:     app.chat,
			Settings: settingsService,
		})
	}

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// application holds the wired services and everything that must be closed.
type application struct {
	assets  *services.AssetService
	chat    *services.ChatService
	closers []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *application) onClose(fn func() error) {
	a.closers = append(a.closers, func() {
		if err := fn(); err != nil {
			logger.Warn("shutdown: %v", err)
		}
	})
}

// wire builds the ingestion and query pipelines from the current settings.
func wire(ctx context.Context, dir string, settingsService *services.SettingsService) (*application, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	app := &application{}
	built := false
	defer func() {
		if !built {
			app.close()
		}
	}()

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	models, err := ai.Init(settings, prompts)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, models.Close)
	for _, w := range models.Warnings {
		logger.Warn("%s", w)
	}

	stores, err := openStores(ctx, dir, settings, app)
	if err != nil {
		return nil, err
	}

	objects, err := openObjectStore(ctx, dir, settings)
	if err != nil {
		return nil, err
	}

	chunks, err := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		return nil, err
	}

	promptBuilder, err := services.LoadPromptBuilder(prompts)
	if err != nil {
		return nil, err
	}

	ingestion := services.NewIngestionService(
		extractors.NewDefaultRegistry(),
		chunks,
		models.EmbeddingService,
		stores.vectors,
		objects,
		models.VisionService,
		services.IngestionConfig{
			StrictKinds:  settings.Ingest.StrictKinds,
			SignedURLTTL: settings.Ingest.SignedURLTTL,
			Timeout:      settings.Pipeline.Timeout,
		},
	)
	query := services.NewQueryService(
		models.EmbeddingService,
		stores.vectors,
		promptBuilder,
		models.LLMService,
		services.QueryConfig{
			TopK:        settings.Retrieval.TopK,
			MaxTokens:   settings.LLM.MaxTokens,
			Temperature: settings.LLM.Temperature,
			Timeout:     settings.Pipeline.Timeout,
		},
	)

	app.assets = services.NewAssetService(stores.assets, objects, stores.vectors, ingestion)
	app.chat = services.NewChatService(query, stores.chats)
	built = true
	return app, nil
}

type storeSet struct {
	assets  driven.AssetStore
	vectors driven.VectorStore
	chats   driven.ChatStore
}

// openStores opens the record stores and the configured vector store.
// The memory backend keeps everything in memory; every other backend
// keeps asset and chat records in the local SQLite database.
func openStores(ctx context.Context, dir string, s *domain.AppSettings, app *application) (*storeSet, error) {
	if s.VectorStore.Backend == domain.VectorBackendMemory {
		logger.Warn("using in-memory storage; uploads are lost on exit")
		return &storeSet{
			assets:  memory.NewAssetStore(),
			vectors: memory.NewVectorStore(),
			chats:   memory.NewChatStore(),
		}, nil
	}

	db, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	app.onClose(db.Close)

	set := &storeSet{assets: db.AssetStore(), chats: db.ChatStore()}
	switch s.VectorStore.Backend {
	case domain.VectorBackendSQLite:
		set.vectors = db.VectorStore()
	case domain.VectorBackendQdrant:
		store, err := qdrant.New(qdrant.Config{
			Address:    s.VectorStore.Address,
			Collection: s.VectorStore.Collection,
		})
		if err != nil {
			return nil, err
		}
		app.onClose(store.Close)
		set.vectors = store
	case domain.VectorBackendPGVector:
		store, err := pgvector.New(ctx, pgvector.Config{DSN: s.VectorStore.DSN})
		if err != nil {
			return nil, err
		}
		app.onClose(store.Close)
		set.vectors = store
	default:
		return nil, fmt.Errorf("unknown vector store backend %q: %w", s.VectorStore.Backend, domain.ErrConfiguration)
	}
	return set, nil
}

func openObjectStore(ctx context.Context, dir string, s *domain.AppSettings) (driven.ObjectStore, error) {
	switch s.ObjectStore.Backend {
	case domain.ObjectBackendMinio:
		store, err := minio.New(ctx, minio.Config{
			Endpoint:  s.ObjectStore.Endpoint,
			AccessKey: s.ObjectStore.AccessKey,
			SecretKey: s.ObjectStore.SecretKey,
			Bucket:    s.ObjectStore.Bucket,
			UseSSL:    s.ObjectStore.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.ObjectBackendFilesystem, "":
		root := s.ObjectStore.Dir
		if root == "" {
			root = filepath.Join(dir, "objects")
		}
		store, err := fsobjects.New(root)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown object store backend %q: %w", s.ObjectStore.Backend, domain.ErrConfiguration)
	}
}
