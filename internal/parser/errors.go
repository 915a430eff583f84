package parser

import (
	"errors"
	"fmt"

	"github.com/hray3182/LedgerLine/internal/models"
)

var (
	ErrInvalidEnvelope = errors.New("invalid envelope format")
	ErrUnsupportedBank = errors.New("Unsupported bank")
	// ErrLLMParsing wraps the fallback extractor's own error.
	ErrLLMParsing       = errors.New("LLM-parsing failed")
	ErrBankMismatch     = errors.New("bank mismatch")
	ErrInvalidTimestamp = models.ErrInvalidTimestamp
)

type Stage string

const (
	StageDecompose Stage = "decompose"
	StageLookup    Stage = "bank lookup"
	StageRuleParse Stage = "rule parse"
	StageFallback  Stage = "fallback extract"
	StageAssemble  Stage = "assemble"
)

// ParseError records which stage failed and the text it was looking at, so
// callers can show the offending input back to the user.
type ParseError struct {
	Stage Stage
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v (input: %q)", e.Stage, e.Err, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
