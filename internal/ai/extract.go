package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hray3182/LedgerLine/internal/banks"
	"github.com/hray3182/LedgerLine/internal/logger"
	"github.com/hray3182/LedgerLine/internal/models"
)

const (
	// PlaceholderBank marks results whose bank must come from the envelope.
	PlaceholderBank = "LLM"

	StatusFallbackUsed = "parsed by fallback extractor, please verify"
)

const extractSystemPrompt = `You extract a single financial transaction from a bank notification message.

Allowed transaction types: %s

Rules:
- "type" must be exactly one of the allowed types.
- "amount" is signed: negative for money leaving the account, positive for money received.
- "description" is the merchant or counterparty name as written in the message.
- "account" is the account or card suffix, or "" if the message has none.
- "timestamp" is ISO-8601 with a UTC offset (e.g. 2025-12-30T12:00:00+08:00), or "" if the message has no date.
- "error" is "" on success. Otherwise set it to NOT_A_TRANSACTION if the text is not a transaction,
  MISSING_FIELD:<field> if a required field cannot be found, or UNABLE_TO_PARSE for anything else.

Return ONLY the JSON object.`

const extractSchemaTemplate = `{
	"type": "object",
	"properties": {
		"error": {"type": "string"},
		"type": {"type": "string", "enum": %s},
		"amount": {"type": "number"},
		"description": {"type": "string"},
		"account": {"type": "string"},
		"timestamp": {"type": "string"}
	},
	"required": ["error", "type", "amount", "description", "account", "timestamp"],
	"additionalProperties": false
}`

type extraction struct {
	Error       string           `json:"error"`
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	Account     string           `json:"account"`
	Timestamp   string           `json:"timestamp"`
}

// Extractor turns free-form bank text into a parse result when no bank rule
// matches. It is never retried.
type Extractor struct {
	model   Model
	timeout time.Duration
}

// NewExtractor returns an extractor. A nil model yields ErrUnavailable on
// every call.
func NewExtractor(model Model, timeout time.Duration) *Extractor {
	return &Extractor{model: model, timeout: timeout}
}

func (e *Extractor) Extract(ctx context.Context, bankText string, allowed []models.TransactionType) (*banks.ParseResult, error) {
	if e == nil || e.model == nil {
		return nil, ErrUnavailable
	}
	log := logger.FromContext(ctx)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	names := make([]string, len(allowed))
	for i, t := range allowed {
		names[i] = string(t)
	}
	enum, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}

	raw, err := e.model.Complete(ctx, Request{
		System:      fmt.Sprintf(extractSystemPrompt, strings.Join(names, ", ")),
		Prompt:      bankText,
		SchemaName:  "transaction",
		Schema:      json.RawMessage(fmt.Sprintf(extractSchemaTemplate, enum)),
		Temperature: 0.1,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, err
	}
	log.Debug().Str("response", raw).Msg("fallback extractor replied")

	result, err := decodeExtraction(raw, allowed)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func decodeExtraction(raw string, allowed []models.TransactionType) (*banks.ParseResult, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToUpper(trimmed), "ERROR:") {
		return nil, sentinelError(strings.TrimSpace(trimmed[len("ERROR:"):]))
	}

	var ex extraction
	if err := json.Unmarshal([]byte(cleanModelJSON(trimmed)), &ex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if ex.Error != "" {
		return nil, sentinelError(ex.Error)
	}

	switch {
	case ex.Amount == nil:
		return nil, fmt.Errorf("%w: amount", ErrMissingField)
	case strings.TrimSpace(ex.Type) == "":
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	case strings.TrimSpace(ex.Description) == "":
		return nil, fmt.Errorf("%w: description", ErrMissingField)
	}

	typ := models.TransactionType(strings.TrimSpace(ex.Type))
	if !models.IsAllowedType(typ, allowed) {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotAllowed, typ)
	}

	result := &banks.ParseResult{
		Type:        typ,
		Amount:      *ex.Amount,
		Description: strings.TrimSpace(ex.Description),
		Account:     strings.TrimSpace(ex.Account),
		Bank:        PlaceholderBank,
		Status:      StatusFallbackUsed,
	}
	// A missing or unreadable time leaves the choice to the reconciler.
	if ts, err := models.ParseTimestamp(ex.Timestamp); err == nil {
		result.Timestamp = &ts
	}
	return result, nil
}

func sentinelError(code string) error {
	upper := strings.ToUpper(code)
	switch {
	case strings.HasPrefix(upper, "NOT_A_TRANSACTION"):
		return ErrNotTransaction
	case strings.HasPrefix(upper, "MISSING_FIELD"):
		field := strings.TrimSpace(strings.TrimLeft(code[len("MISSING_FIELD"):], ": "))
		if field == "" {
			return ErrMissingField
		}
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	default:
		return fmt.Errorf("%w: %s", ErrUnableToParse, code)
	}
}

// cleanModelJSON strips Markdown fences and text around the JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
