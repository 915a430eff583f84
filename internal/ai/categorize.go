package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hray3182/LedgerLine/internal/logger"
)

const categorizePromptTemplate = `You are a financial assistant. Categorize the following transaction into one of these categories: %s using
information from the message (e.g., merchant name, time and remarks).

Transaction Message: "%s"

Return ONLY the category name. If you are unsure, return "Other".`

// Suggester asks a model for a category when no keyword matched.
type Suggester struct {
	model   Model
	timeout time.Duration
}

func NewSuggester(model Model, timeout time.Duration) *Suggester {
	return &Suggester{model: model, timeout: timeout}
}

// Suggest returns the model's raw category answer, trimmed. The caller checks
// it against the category list.
func (s *Suggester) Suggest(ctx context.Context, message string, categories []string) (string, error) {
	if s == nil || s.model == nil {
		return "", ErrUnavailable
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.model.Complete(ctx, Request{
		Prompt:      fmt.Sprintf(categorizePromptTemplate, strings.Join(categories, ", "), message),
		Temperature: 0.1,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", err
	}

	category := strings.Trim(strings.TrimSpace(reply), `"'.`)
	log := logger.FromContext(ctx)
	log.Debug().Str("category", category).Msg("model suggested category")
	return category, nil
}
