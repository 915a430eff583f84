package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeCard     TransactionType = "Card"
	TransactionTypeTransfer TransactionType = "Transfer"
	TransactionTypePayNow   TransactionType = "PayNow"
	TransactionTypeNETSQR   TransactionType = "NETS QR"
)

// DefaultTransactionTypes is the allow-list used when a deployment does not
// configure its own.
var DefaultTransactionTypes = []TransactionType{
	TransactionTypeTransfer,
	TransactionTypeCard,
	TransactionTypePayNow,
	TransactionTypeNETSQR,
}

// IsAllowedType reports whether t is one of allowed.
func IsAllowedType(t TransactionType, allowed []TransactionType) bool {
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

// ParseTransactionTypes turns a comma separated list into an allow-list.
// Blank entries are skipped.
func ParseTransactionTypes(s string) []TransactionType {
	var types []TransactionType
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			types = append(types, TransactionType(p))
		}
	}
	return types
}

// isoOffsetPattern requires an explicit offset or Z; naive datetimes are not
// accepted as instants.
var isoOffsetPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ParseTimestamp parses an ISO-8601 datetime carrying a UTC offset.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !isoOffsetPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, s, err)
	}
	return t, nil
}

// FormatTimestamp renders t the way records store it.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Transaction is the final record produced for one bank message. The parser
// never mutates a Transaction after returning it.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Bank        string          `json:"bank"`
	Account     string          `json:"account,omitempty"`
	Timestamp   string          `json:"timestamp"`
	Category    string          `json:"category"`
	RawMessage  string          `json:"raw_message"`
	Status      string          `json:"status,omitempty"`
}

// StatusManualEntry marks records typed in by a user rather than parsed.
const StatusManualEntry = "Manual Entry"

// TransactionCreate is a manually entered transaction.
type TransactionCreate struct {
	Type        TransactionType  `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	Bank        string           `json:"bank"`
	Account     string           `json:"account,omitempty"`
	Timestamp   string           `json:"timestamp"`
	Category    string           `json:"category,omitempty"`
}

// Build validates the entry and turns it into a record. An empty category
// becomes fallbackCategory.
func (c TransactionCreate) Build(allowed []TransactionType, fallbackCategory string) (*Transaction, error) {
	if !IsAllowedType(c.Type, allowed) {
		return nil, fmt.Errorf("type %q is not one of %v", c.Type, allowed)
	}
	if c.Amount == nil {
		return nil, errors.New("amount is required")
	}
	ts, err := ParseTimestamp(c.Timestamp)
	if err != nil {
		return nil, err
	}
	category := strings.TrimSpace(c.Category)
	if category == "" {
		category = fallbackCategory
	}
	return NewTransaction(Transaction{
		Type:        c.Type,
		Amount:      *c.Amount,
		Description: strings.TrimSpace(c.Description),
		Bank:        strings.TrimSpace(c.Bank),
		Account:     strings.TrimSpace(c.Account),
		Timestamp:   FormatTimestamp(ts),
		Category:    category,
		Status:      StatusManualEntry,
	})
}

// NewTransaction assigns a fresh id and validates the record.
func NewTransaction(tx Transaction) (*Transaction, error) {
	if _, err := ParseTimestamp(tx.Timestamp); err != nil {
		return nil, err
	}
	if tx.Bank == "" {
		return nil, errors.New("bank is required")
	}
	if tx.Category == "" {
		return nil, errors.New("category is required")
	}
	tx.ID = uuid.NewString()
	return &tx, nil
}

// Time returns the parsed timestamp. The timestamp is validated on
// construction, so the zero time only shows up for hand-built values.
func (t *Transaction) Time() time.Time {
	ts, err := ParseTimestamp(t.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func (t *Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// TransactionUpdate carries optional edits from a caller. Nil fields are left
// untouched; the id is never editable.
type TransactionUpdate struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Type        *TransactionType `json:"type,omitempty"`
	Timestamp   *string          `json:"timestamp,omitempty"`
}

// Apply returns a copy of tx with the update applied.
func (u TransactionUpdate) Apply(tx *Transaction, allowed []TransactionType) (*Transaction, error) {
	updated := *tx
	if u.Type != nil {
		if !IsAllowedType(*u.Type, allowed) {
			return nil, fmt.Errorf("type %q is not one of %v", *u.Type, allowed)
		}
		updated.Type = *u.Type
	}
	if u.Timestamp != nil {
		ts, err := ParseTimestamp(*u.Timestamp)
		if err != nil {
			return nil, err
		}
		updated.Timestamp = FormatTimestamp(ts)
	}
	if u.Amount != nil {
		updated.Amount = *u.Amount
	}
	if u.Description != nil {
		updated.Description = *u.Description
	}
	if u.Category != nil {
		if strings.TrimSpace(*u.Category) == "" {
			return nil, errors.New("category cannot be empty")
		}
		updated.Category = *u.Category
	}
	return &updated, nil
}
