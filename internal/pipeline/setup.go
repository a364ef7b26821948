package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/OFFIS-RIT/docvis/internal/metrics"
	"github.com/OFFIS-RIT/docvis/internal/util"
	"github.com/OFFIS-RIT/docvis/pkg/ai"
	oai "github.com/OFFIS-RIT/docvis/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/docvis/pkg/ai/openai"
	"github.com/OFFIS-RIT/docvis/pkg/analyzer"
	"github.com/OFFIS-RIT/docvis/pkg/conceptmap"
	"github.com/OFFIS-RIT/docvis/pkg/generator"
	"github.com/OFFIS-RIT/docvis/pkg/loader"
	"github.com/OFFIS-RIT/docvis/pkg/loader/doc"
	fsloader "github.com/OFFIS-RIT/docvis/pkg/loader/io"
	s3loader "github.com/OFFIS-RIT/docvis/pkg/loader/s3"
	"github.com/OFFIS-RIT/docvis/pkg/loader/web"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/nlp"
	"github.com/OFFIS-RIT/docvis/pkg/store"
	"github.com/OFFIS-RIT/docvis/pkg/store/memory"
	pgstore "github.com/OFFIS-RIT/docvis/pkg/store/pgx"
	"github.com/OFFIS-RIT/docvis/pkg/store/sqlite"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// OpenStore opens the store named by cfg.StoreDriver. Postgres schemas are
// migrated before the pool is opened.
func OpenStore(ctx context.Context, cfg util.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "", "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlite.Open(ctx, cfg.SQLitePath)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres store")
		}
		if err := pgstore.Migrate(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		return pgstore.New(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewAIClient returns nil when cfg.AIAdapter is "none".
func NewAIClient(cfg util.Config) (ai.CompletionClient, error) {
	switch cfg.AIAdapter {
	case "", "none":
		return nil, nil
	case "ollama":
		return oai.New(oai.Params{
			ChatModel:             cfg.AIChatModel,
			BaseURL:               cfg.AIChatURL,
			ApiKey:                cfg.AIChatKey,
			MaxConcurrentRequests: int64(cfg.AIParallelReq),
		})
	case "openai":
		return gai.New(gai.Params{
			ChatModel:             cfg.AIChatModel,
			ChatURL:               cfg.AIChatURL,
			ChatKey:               cfg.AIChatKey,
			MaxConcurrentRequests: int64(cfg.AIParallelReq),
		})
	default:
		return nil, fmt.Errorf("unknown AI adapter %q", cfg.AIAdapter)
	}
}

func loadLexicon(cfg util.Config) (*textutil.Lexicon, error) {
	if cfg.LexiconPath == "" {
		return textutil.Default(), nil
	}
	return textutil.LoadLexicon(cfg.LexiconPath)
}

// NewLoader builds the document loader chain: files and URLs always, S3
// when s3Client is set, with .docx extraction on top.
func NewLoader(cfg util.Config, s3Client *s3.Client) loader.DocumentLoader {
	router := &loader.Router{
		File: fsloader.NewFileLoader(),
		Web:  web.NewWebLoader(),
	}
	if s3Client != nil {
		router.S3 = s3loader.New(cfg.AWSBucket, s3Client)
	}
	return doc.NewDocLoader(router)
}

// FromConfig assembles a Pipeline from cfg. s3Client may be nil.
func FromConfig(ctx context.Context, cfg util.Config, s3Client *s3.Client) (*Pipeline, error) {
	lex, err := loadLexicon(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon: %w", err)
	}

	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := NewAIClient(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	m := metrics.New()
	var rng *rand.Rand
	if cfg.FallbackSeed != 0 {
		seed := uint64(cfg.FallbackSeed)
		rng = rand.New(rand.NewPCG(seed, seed))
	}

	var conceptMaps *conceptmap.Service
	if client != nil {
		m.WatchAI(client)
		conceptMaps = conceptmap.NewService(client, conceptmap.ServiceOptions{
			MaxPromptTokens: cfg.AIPromptMaxToken,
		})
	}

	logger.Info("Pipeline configured",
		"store", cfg.StoreDriver,
		"ai", cfg.AIAdapter,
		"s3", s3Client != nil,
	)

	return New(Params{
		Analyzer: analyzer.New(analyzer.Params{
			Extractor:        nlp.NewProcessor(lex),
			Lexicon:          lex,
			ParallelSegments: cfg.AnalyzerParallelSegments,
		}),
		Generators:  generator.NewRegistry(generator.Options{}),
		Store:       st,
		Loader:      NewLoader(cfg, s3Client),
		ConceptMaps: conceptMaps,
		AIClient:    client,
		Metrics:     m,
		Rand:        rng,
	}), nil
}
