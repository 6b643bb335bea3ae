package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/db"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/assistant"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/chunk"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/config"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/ingest"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/knowledge"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/log"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/prompt"
	"github.com/youssef-gamal-hassan/Game-Dev-RAG-Assistant/internal/retrieve"
)

// Setup creates and initializes the application. On failure everything
// already acquired is released before returning.
func Setup(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	logger := log.New(log.Config{Level: cfg.SlogLevel(), JSON: cfg.LogJSON})
	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, dbCleanup, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.dbCleanup = dbCleanup
	a.DBPool = pool

	g, err := provideGenkit(ctx)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := provideEmbedder(g, cfg, a)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}

	a.Store = knowledge.New(knowledge.NewQueries(pool), embedder, cfg.EmbedderDimension, logger)

	splitter, err := chunk.NewSplitter(cfg.ChunkWords, cfg.ChunkOverlapWords)
	if err != nil {
		return nil, err
	}
	a.Ingestor = ingest.New(a.Store, splitter, ingest.Config{
		SkipPages:         cfg.SkipPages,
		SectionTokenLimit: cfg.SectionTokenLimit,
	}, logger)

	retriever := retrieve.New(a.Store, cfg.TopK, cfg.ScoreThreshold, logger)
	composer := prompt.NewComposer(cfg.MaxPromptChars)
	generator := assistant.NewGenkitGenerator(g, cfg.FullModelName(), cfg.Temperature)
	a.Assistant = assistant.New(generator, retriever, a.Store, composer, logger)

	return a, nil
}

// provideGenkit initializes Genkit with the Gemini plugin. The plugin
// reads GEMINI_API_KEY from the environment.
func provideGenkit(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	return g, nil
}

// provideEmbedder wraps the Gemini embedder with throttling and retry.
func provideEmbedder(g *genkit.Genkit, cfg *config.Config, a *App) ai.Embedder {
	inner := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if inner == nil {
		return nil
	}

	retryCfg := knowledge.DefaultRetryConfig()
	retryCfg.MaxRetries = cfg.EmbedMaxRetries
	retryCfg.RequestsPerMin = cfg.EmbedRequestsPerMin
	return knowledge.NewRetryEmbedder(inner, retryCfg, a.Logger)
}

// provideDBPool runs migrations and opens a connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, func(), error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, pool.Close, nil
}
