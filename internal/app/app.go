package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hray3182/LedgerLine/internal/ai"
	"github.com/hray3182/LedgerLine/internal/banks"
	"github.com/hray3182/LedgerLine/internal/categorizer"
	"github.com/hray3182/LedgerLine/internal/config"
	"github.com/hray3182/LedgerLine/internal/database"
	"github.com/hray3182/LedgerLine/internal/parser"
	"github.com/hray3182/LedgerLine/internal/repository"
)

// App holds what both binaries share: the database, repositories and the
// parsing pipeline.
type App struct {
	DB           *database.DB
	Users        *repository.UserRepository
	Configs      *repository.ConfigRepository
	Transactions *repository.TransactionRepository
	Pipeline     *parser.Pipeline
}

// New connects to the database, runs migrations and wires the pipeline.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("DATABASE_URI is required")
	}

	model, err := SelectModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if model == nil {
		log.Warn().Msg("AI model not configured, fallback extraction and category suggestions disabled")
	} else {
		log.Info().Str("provider", cfg.AIProvider).Msg("AI model initialized")
	}

	pipeline, err := NewPipeline(cfg, model)
	if err != nil {
		return nil, err
	}

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Msg("connected to database")

	if err := db.Migrate(ctx, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &App{
		DB:           db,
		Users:        repository.NewUserRepository(db),
		Configs:      repository.NewConfigRepository(db),
		Transactions: repository.NewTransactionRepository(db),
		Pipeline:     pipeline,
	}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

// SelectModel picks the model backend from config. It returns a nil model
// when the chosen provider has no key.
func SelectModel(ctx context.Context, cfg *config.Config) (ai.Model, error) {
	switch cfg.AIProvider {
	case "openai", "":
		if cfg.AIAPIKey == "" {
			return nil, nil
		}
		return ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel), nil
	case "gemini":
		if cfg.GoogleAPIKey == "" {
			return nil, nil
		}
		return ai.NewGemini(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}
}

// NewPipeline builds the parsing pipeline. A nil model leaves the pipeline
// with rule parsing and keyword categorization only.
func NewPipeline(cfg *config.Config, model ai.Model) (*parser.Pipeline, error) {
	registry, err := banks.Default(cfg.TransactionTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to build bank registry: %w", err)
	}

	var extractor parser.Extractor
	var suggester categorizer.Suggester
	if model != nil {
		extractor = ai.NewExtractor(model, cfg.AITimeout)
		suggester = ai.NewSuggester(model, cfg.AITimeout)
	}

	return parser.New(registry, extractor, categorizer.New(suggester), cfg.TransactionTypes), nil
}
