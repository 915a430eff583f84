package banks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hray3182/LedgerLine/internal/models"
)

// StatusTimeParseWarning marks a result whose bank-side time is missing or
// carries no reliable time of day.
const StatusTimeParseWarning = "TIME_PARSE_WARNING"

var (
	// ErrNoRuleMatched is the normal "try the next strategy" signal.
	ErrNoRuleMatched = errors.New("no rule matched")
	ErrInvalidAmount = errors.New("invalid amount")
)

// ParseResult is what a bank parser extracts from one message.
type ParseResult struct {
	Type        models.TransactionType
	Amount      decimal.Decimal
	Description string
	Account     string
	// Timestamp is nil when the message carried no usable time.
	Timestamp *time.Time
	// Bank is empty or a placeholder when the result came from the fallback
	// extractor.
	Bank   string
	Status string
}

// HasTimeWarning reports whether the bank-side time is unreliable.
func (r *ParseResult) HasTimeWarning() bool {
	return strings.Contains(r.Status, StatusTimeParseWarning)
}

// Parser is implemented once per issuing bank.
type Parser interface {
	// Bank returns the identifier used in message envelopes, e.g. "UOB".
	Bank() string
	// RuleParse returns ErrNoRuleMatched when no template applies. Any other
	// error means a template matched but the message was malformed.
	RuleParse(text string) (*ParseResult, error)
}

// Registry looks parsers up by bank identifier, ignoring case.
type Registry struct {
	parsers map[string]Parser
}

func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	for _, p := range parsers {
		r.parsers[strings.ToUpper(p.Bank())] = p
	}
	return r
}

// Default returns the registry of every supported bank.
func Default(allowed []models.TransactionType) (*Registry, error) {
	uob, err := NewUOB(allowed)
	if err != nil {
		return nil, fmt.Errorf("failed to build UOB parser: %w", err)
	}
	return NewRegistry(uob), nil
}

func (r *Registry) Get(bank string) (Parser, bool) {
	p, ok := r.parsers[strings.ToUpper(strings.TrimSpace(bank))]
	return p, ok
}

// Banks lists the supported identifiers in sorted order.
func (r *Registry) Banks() []string {
	names := make([]string, 0, len(r.parsers))
	for _, p := range r.parsers {
		names = append(names, p.Bank())
	}
	sort.Strings(names)
	return names
}

// parseAmount strips thousands separators and applies sign.
func parseAmount(s string, sign int64) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d.Mul(decimal.NewFromInt(sign)), nil
}
