package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"soros-rag-be/internal/config"
	"soros-rag-be/internal/controller"
	"soros-rag-be/internal/handler"
	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/internal/repository/contract"
	"soros-rag-be/internal/repository/implementation"
	"soros-rag-be/internal/repository/memory"
	"soros-rag-be/internal/service"
	"soros-rag-be/internal/websocket"
	"soros-rag-be/pkg/corpus"
	"soros-rag-be/pkg/database"
	"soros-rag-be/pkg/embedding"
	"soros-rag-be/pkg/llm"
	"soros-rag-be/pkg/llm/factory"
	"soros-rag-be/pkg/market"
	"soros-rag-be/pkg/rag/pipeline"
	"soros-rag-be/pkg/rag/prompt"
	"soros-rag-be/pkg/rag/response"
	"soros-rag-be/pkg/rag/retriever"
	"soros-rag-be/pkg/ticker"

	"github.com/redis/go-redis/v9"
)

// Container is the application handle: built once, shared by every surface.
type Container struct {
	Config    *config.Config
	Logger    logger.ILogger
	Retriever *retriever.Retriever
	Pipeline  *pipeline.AnswerPipeline

	ChatbotService    service.IChatbotService
	MarketService     service.IMarketService
	ChatbotController controller.IChatbotController
	AdminController   controller.IAdminController
	MarketController  controller.IMarketController
	ChatSocketHandler *handler.ChatSocketHandler
	WebSocketHub      *websocket.Hub

	closers closeStack
}

func NewContainer(ctx context.Context, cfg *config.Config, log logger.ILogger) (*Container, error) {
	var closers closeStack
	c, err := build(ctx, cfg, log, &closers)
	if err != nil {
		if cerr := closers.closeAll(); cerr != nil {
			log.Warn("BOOTSTRAP", "Cleanup after failed start returned errors", map[string]interface{}{"error": cerr.Error()})
		}
		return nil, err
	}
	c.closers = closers
	return c, nil
}

// build wires every component. Anything holding a connection is pushed onto closers as soon as it opens.
func build(ctx context.Context, cfg *config.Config, log logger.ILogger, closers *closeStack) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 1. Corpus
	entries, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return nil, err
	}
	log.Info("BOOTSTRAP", "Corpus loaded", map[string]interface{}{"path": cfg.Corpus.Path, "entries": len(entries)})

	// 2. Infrastructure
	rdb := newRedisClient(ctx, cfg.App.RedisURL, log)
	if rdb != nil {
		closers.push(rdb.Close)
	}

	embedder, err := newEmbeddingProvider(cfg)
	if err != nil {
		return nil, err
	}

	index, err := newCorpusIndex(ctx, cfg.Index, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", retriever.ErrRetrieverInit, err)
	}
	closers.push(index.Close)
	log.Info("BOOTSTRAP", "Vector index ready", map[string]interface{}{"backend": cfg.Index.Backend})

	// 3. Retrieval
	r, err := retriever.New(ctx, entries, embedder, index, log,
		retriever.WithBuildConcurrency(cfg.Index.BuildConcurrency),
	)
	if err != nil {
		return nil, err
	}

	// 4. Prompting
	composerOpts := []prompt.Option{
		prompt.WithStyle(cfg.Prompt.Style),
		prompt.WithTopK(cfg.Retrieval.TopK),
	}
	var snapshotProvider market.SnapshotProvider
	if cfg.Market.Enabled {
		snapshots := market.NewService(
			market.NewYahooClient(),
			log,
			market.WithCache(newSnapshotCache(cfg.Market, rdb, log), cfg.Market.CacheTTL),
		)
		snapshotProvider = snapshots
		composerOpts = append(composerOpts, prompt.WithMarket(snapshots, cfg.Market.Period))
	}

	composer, err := prompt.NewComposer(r, ticker.Default(), composerOpts...)
	if err != nil {
		return nil, err
	}

	// 5. Generation
	backend, err := factory.NewBackend(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.OllamaBaseURL, cfg.Keys.GoogleGemini)
	if err != nil {
		return nil, err
	}
	log.Info("BOOTSTRAP", "LLM backend ready", map[string]interface{}{"provider": backend.Name(), "model": cfg.LLM.Model})

	genConfig := llm.DefaultGenerationConfig().With(
		llm.WithTemperature(cfg.LLM.Temperature),
		llm.WithTopP(cfg.LLM.TopP),
		llm.WithTopK(cfg.LLM.TopK),
		llm.WithMaxOutputTokens(cfg.LLM.MaxOutputTokens),
	)
	generator := response.NewGenerator(backend, genConfig, log, response.WithTimeout(cfg.LLM.Timeout))

	answerPipeline := pipeline.NewAnswerPipeline(composer, generator, log)

	// 6. Surfaces
	hub := websocket.NewHub(rdb, log)

	chatbotService := service.NewChatbotService(answerPipeline, r, hub, service.ServiceInfo{
		IndexBackend:  cfg.Index.Backend,
		LLMProvider:   cfg.LLM.Provider,
		PromptStyle:   composer.Style(),
		MarketEnabled: cfg.Market.Enabled,
	}, log)

	marketService := service.NewMarketService(snapshotProvider, cfg.Market.Period)

	return &Container{
		Config:            cfg,
		Logger:            log,
		Retriever:         r,
		Pipeline:          answerPipeline,
		ChatbotService:    chatbotService,
		MarketService:     marketService,
		ChatbotController: controller.NewChatbotController(chatbotService),
		AdminController:   controller.NewAdminController(chatbotService, cfg.App.AdminToken),
		MarketController:  controller.NewMarketController(marketService),
		ChatSocketHandler: handler.NewChatSocketHandler(hub, chatbotService, log),
		WebSocketHub:      hub,
	}, nil
}

// Close releases the index and the Redis connection.
func (c *Container) Close() error {
	return c.closers.closeAll()
}

// closeStack closes resources in reverse order of acquisition.
type closeStack []func() error

func (s *closeStack) push(fn func() error) {
	*s = append(*s, fn)
}

func (s *closeStack) closeAll() error {
	var errs []error
	for i := len(*s) - 1; i >= 0; i-- {
		if err := (*s)[i](); err != nil {
			errs = append(errs, err)
		}
	}
	*s = nil
	return errors.Join(errs...)
}

func newEmbeddingProvider(cfg *config.Config) (embedding.EmbeddingProvider, error) {
	switch cfg.Embedding.Provider {
	case "gemini", "":
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Embedding.Model), nil
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Embedding.OllamaBaseURL, cfg.Embedding.OllamaModel), nil
	case "hashing":
		return embedding.NewHashingProvider(cfg.Embedding.HashingDimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

func newCorpusIndex(ctx context.Context, cfg config.IndexConfig, log logger.ILogger) (contract.CorpusIndexRepository, error) {
	switch cfg.Backend {
	case "sqlite", "":
		return implementation.NewCorpusIndexSQLiteRepository(cfg.Path)
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Connection, log)
		if err != nil {
			return nil, err
		}
		index, err := implementation.NewCorpusIndexRepository(ctx, db)
		if err != nil {
			database.Close(db)
			return nil, err
		}
		return index, nil
	case "memory":
		return memory.NewCorpusIndexRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported index backend: %s", cfg.Backend)
	}
}

// newRedisClient returns nil when Redis is not configured or not reachable.
func newRedisClient(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to Redis, continuing without it", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	return rdb
}

func newSnapshotCache(cfg config.MarketConfig, rdb *redis.Client, log logger.ILogger) market.SnapshotCache {
	if cfg.CacheBackend == "redis" {
		if rdb != nil {
			return market.NewRedisCache(rdb)
		}
		log.Warn("BOOTSTRAP", "Redis snapshot cache requested but Redis is unavailable, using memory", nil)
	}
	return market.NewMemoryCache(cfg.CacheTTL)
}
