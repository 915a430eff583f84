package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hray3182/LedgerLine/internal/models"
)

// envelopePattern anchors on the last ",{bank},{timestamp}" in the message.
// Bank text and remarks may both contain commas.
var envelopePattern = regexp.MustCompile(`(?s)^(.*),([^,]*),(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{2}:\d{2})(?:,(.*))?$`)

// Envelope is a forwarded message split into its parts.
type Envelope struct {
	BankText  string `json:"bank_message"`
	Bank      string `json:"bank_name"`
	Timestamp string `json:"timestamp"`
	Remarks   string `json:"remarks"`
}

// Decompose splits "{bank_text},{bank},{timestamp},{remarks}".
func Decompose(raw string) (Envelope, error) {
	m := envelopePattern.FindStringSubmatch(raw)
	if m == nil {
		return Envelope{}, fmt.Errorf("%w: no client timestamp found", ErrInvalidEnvelope)
	}
	env := Envelope{
		BankText:  strings.TrimSpace(m[1]),
		Bank:      strings.TrimSpace(m[2]),
		Timestamp: strings.TrimSpace(m[3]),
		Remarks:   strings.TrimSpace(m[4]),
	}
	if err := env.Validate(); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// Validate checks the parts a structured caller supplies.
func (e Envelope) Validate() error {
	if strings.TrimSpace(e.BankText) == "" {
		return fmt.Errorf("%w: empty bank message", ErrInvalidEnvelope)
	}
	if strings.TrimSpace(e.Bank) == "" {
		return fmt.Errorf("%w: missing bank identifier", ErrInvalidEnvelope)
	}
	if _, err := models.ParseTimestamp(e.Timestamp); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	return nil
}

// String renders the envelope in its composite form.
func (e Envelope) String() string {
	return strings.Join([]string{e.BankText, e.Bank, e.Timestamp, e.Remarks}, ",")
}
