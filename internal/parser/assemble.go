package parser

import (
	"fmt"
	"strings"

	"github.com/hray3182/LedgerLine/internal/ai"
	"github.com/hray3182/LedgerLine/internal/banks"
	"github.com/hray3182/LedgerLine/internal/models"
)

const statusSeparator = "; "

// Assemble builds the final record. It never guesses between a declared bank
// and a different bank reported by the parser.
func Assemble(env Envelope, raw string, res *banks.ParseResult, rec Reconciliation, category string) (*models.Transaction, error) {
	bank, err := resolveBank(env.Bank, res.Bank)
	if err != nil {
		return nil, &ParseError{Stage: StageAssemble, Input: res.Bank, Err: err}
	}

	if rec.Time.IsZero() {
		return nil, &ParseError{Stage: StageAssemble, Input: env.Timestamp, Err: ErrInvalidTimestamp}
	}

	tx, err := models.NewTransaction(models.Transaction{
		Type:        res.Type,
		Amount:      res.Amount,
		Description: composeDescription(env.Remarks, res.Description),
		Bank:        bank,
		Account:     res.Account,
		Timestamp:   models.FormatTimestamp(rec.Time),
		Category:    category,
		RawMessage:  raw,
		Status:      mergeStatus(res.Status, rec),
	})
	if err != nil {
		return nil, &ParseError{Stage: StageAssemble, Err: err}
	}
	return tx, nil
}

func resolveBank(declared, parsed string) (string, error) {
	if parsed == "" || parsed == ai.PlaceholderBank {
		return declared, nil
	}
	if !strings.EqualFold(parsed, declared) {
		return "", fmt.Errorf("%w: envelope says %q, parser says %q", ErrBankMismatch, declared, parsed)
	}
	return declared, nil
}

func composeDescription(remarks, parsed string) string {
	if remarks == "" {
		return fmt.Sprintf("[%s]", parsed)
	}
	return fmt.Sprintf("%s [%s]", remarks, parsed)
}

// mergeStatus appends the reconciliation note to the parse status. The time
// warning is dropped only when reconciliation resolved it.
func mergeStatus(parseStatus string, rec Reconciliation) string {
	var parts []string
	for _, p := range strings.Split(parseStatus, statusSeparator) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p == banks.StatusTimeParseWarning && !rec.KeepWarning {
			continue
		}
		parts = append(parts, p)
	}
	if rec.Note != "" {
		parts = append(parts, rec.Note)
	}
	return strings.Join(parts, statusSeparator)
}
