package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/hray3182/LedgerLine/internal/ai"
	"github.com/hray3182/LedgerLine/internal/banks"
	"github.com/hray3182/LedgerLine/internal/categorizer"
	"github.com/hray3182/LedgerLine/internal/logger"
	"github.com/hray3182/LedgerLine/internal/models"
)

// Extractor is the fallback used when no bank rule matches.
type Extractor interface {
	Extract(ctx context.Context, bankText string, allowed []models.TransactionType) (*banks.ParseResult, error)
}

type Categorizer interface {
	Categorize(ctx context.Context, description, remarks, rawMessage string, keywords models.KeywordMap) string
}

// Pipeline turns forwarded bank messages into transactions. It holds no
// per-message state and is safe for concurrent use.
type Pipeline struct {
	registry    *banks.Registry
	extractor   Extractor
	categorizer Categorizer
	allowed     []models.TransactionType
}

// New builds a pipeline. extractor may be nil, in which case unmatched
// messages fail with ErrLLMParsing. A nil cat uses keyword matching only.
func New(registry *banks.Registry, extractor Extractor, cat Categorizer, allowed []models.TransactionType) *Pipeline {
	if cat == nil {
		cat = categorizer.New(nil)
	}
	return &Pipeline{
		registry:    registry,
		extractor:   extractor,
		categorizer: cat,
		allowed:     allowed,
	}
}

// ParseMessage parses a composite "{bank_text},{bank},{timestamp},{remarks}"
// message.
func (p *Pipeline) ParseMessage(ctx context.Context, raw string, cfg models.UserConfig) (*models.Transaction, error) {
	env, err := Decompose(raw)
	if err != nil {
		return nil, &ParseError{Stage: StageDecompose, Input: raw, Err: err}
	}
	return p.parse(ctx, env, raw, cfg)
}

// ParseStructured parses an envelope whose parts were sent separately.
func (p *Pipeline) ParseStructured(ctx context.Context, env Envelope, cfg models.UserConfig) (*models.Transaction, error) {
	if err := env.Validate(); err != nil {
		return nil, &ParseError{Stage: StageDecompose, Input: env.String(), Err: err}
	}
	return p.parse(ctx, env, env.String(), cfg)
}

func (p *Pipeline) parse(ctx context.Context, env Envelope, raw string, cfg models.UserConfig) (*models.Transaction, error) {
	log := logger.FromContext(ctx).With().Str("bank", env.Bank).Logger()
	ctx = logger.WithContext(ctx, log)

	bp, ok := p.registry.Get(env.Bank)
	if !ok {
		return nil, &ParseError{Stage: StageLookup, Input: env.Bank, Err: ErrUnsupportedBank}
	}

	res, err := bp.RuleParse(env.BankText)
	switch {
	case err == nil:
		log.Debug().Str("type", string(res.Type)).Msg("bank rule matched")
	case errors.Is(err, banks.ErrNoRuleMatched):
		log.Warn().Msg("no bank rule matched, using fallback extractor")
		res, err = p.fallback(ctx, env.BankText)
		if err != nil {
			return nil, &ParseError{Stage: StageFallback, Input: env.BankText, Err: err}
		}
	default:
		return nil, &ParseError{Stage: StageRuleParse, Input: env.BankText, Err: err}
	}

	rec := Reconcile(res.Timestamp, res.HasTimeWarning(), env.Timestamp)
	if rec.Note != "" {
		log.Debug().Str("note", rec.Note).Msg("timestamp reconciled")
	}

	category := p.categorizer.Categorize(ctx, res.Description, env.Remarks, raw, cfg.Keywords)

	tx, err := Assemble(env, raw, res, rec, category)
	if err != nil {
		return nil, err
	}

	event := log.Info()
	if tx.Status != "" {
		event = log.Warn().Str("status", tx.Status)
	}
	event.Str("id", tx.ID).Str("category", tx.Category).Msg("transaction parsed")
	return tx, nil
}

func (p *Pipeline) fallback(ctx context.Context, bankText string) (*banks.ParseResult, error) {
	if p.extractor == nil {
		return nil, fmt.Errorf("%w: %w", ErrLLMParsing, ai.ErrUnavailable)
	}
	res, err := p.extractor.Extract(ctx, bankText, p.allowed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLLMParsing, err)
	}
	return res, nil
}
