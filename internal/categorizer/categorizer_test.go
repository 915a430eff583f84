package categorizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hray3182/LedgerLine/internal/ai"
	"github.com/hray3182/LedgerLine/internal/models"
)

type stubSuggester struct {
	reply string
	err   error
	calls int
}

func (s *stubSuggester) Suggest(ctx context.Context, message string, categories []string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func userKeywords() models.KeywordMap {
	return models.NewKeywordMap(
		models.CategoryKeywords{Category: "Food", Keywords: []string{"food", "mcdonald"}},
		models.CategoryKeywords{Category: "Transport", Keywords: []string{"transport"}},
		models.CategoryKeywords{Category: "Snack", Keywords: []string{"snack", "kopi"}},
		models.CategoryKeywords{Category: "Disbursement", Keywords: []string{"disbursement"}},
	)
}

func TestCategorize_Keywords(t *testing.T) {
	tests := []struct {
		name        string
		description string
		remarks     string
		want        string
	}{
		{"user keyword", "McDonald's", "", "Food"},
		{"remarks are searched", "PAYNOW TRANSFER", "kopi with team", "Snack"},
		{"category name is implicit keyword", "SHOP", "transport top up", "Transport"},
		{"builtin augments existing category", "GRAB RIDES", "", "Transport"},
		{"builtin augments snack", "STARBUCKS", "", "Snack"},
		{"case insensitive", "MCDONALD", "", "Food"},
		{"first match wins in map order", "GRAB FOOD", "", "Food"},
	}

	c := New(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Categorize(context.Background(), tc.description, tc.remarks, "raw", userKeywords())
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCategorize_OrderIsReproducible(t *testing.T) {
	reversed := models.NewKeywordMap(
		models.CategoryKeywords{Category: "Transport", Keywords: []string{"grab"}},
		models.CategoryKeywords{Category: "Food", Keywords: []string{"food"}},
	)

	c := New(nil)
	assert.Equal(t, "Transport", c.Categorize(context.Background(), "GRAB FOOD", "", "", reversed))
	for i := 0; i < 5; i++ {
		assert.Equal(t, "Food", c.Categorize(context.Background(), "GRAB FOOD", "", "", userKeywords()))
	}
}

func TestCategorize_BuiltinsNeverInventCategories(t *testing.T) {
	kws := models.NewKeywordMap(models.CategoryKeywords{Category: "Travel", Keywords: []string{"flight"}})

	got := New(nil).Categorize(context.Background(), "GRAB RIDE", "", "", kws)
	assert.Equal(t, Uncategorized, got)
}

func TestCategorize_Disbursement(t *testing.T) {
	tests := []struct {
		name        string
		description string
		remarks     string
		keywords    models.KeywordMap
		want        string
	}{
		{
			name:        "marker beats other keywords",
			description: "McDonald's",
			remarks:     "team lunch disbursement",
			keywords:    userKeywords(),
			want:        "Disbursement",
		},
		{
			name:        "user spelling is kept",
			description: "x",
			remarks:     "Disbursement",
			keywords:    models.NewKeywordMap(models.CategoryKeywords{Category: "disbursement"}),
			want:        "disbursement",
		},
		{
			name:        "no such category falls through to keywords",
			description: "DISBURSEMENT FROM HR",
			remarks:     "lunch",
			keywords:    models.NewKeywordMap(models.CategoryKeywords{Category: "food", Keywords: []string{"lunch"}}),
			want:        "food",
		},
		{
			name:        "no such category and no keyword match",
			description: "DISBURSEMENT FROM HR",
			keywords:    models.NewKeywordMap(models.CategoryKeywords{Category: "Travel"}),
			want:        Uncategorized,
		},
	}

	c := New(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Categorize(context.Background(), tc.description, tc.remarks, "", tc.keywords)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCategorize_Fallback(t *testing.T) {
	tests := []struct {
		name      string
		suggester *stubSuggester
		want      string
	}{
		{"model picks configured category", &stubSuggester{reply: "snack"}, "Snack"},
		{"model answers outside list", &stubSuggester{reply: "Gambling"}, Other},
		{"model unavailable", &stubSuggester{err: ai.ErrUnavailable}, Uncategorized},
		{"model call fails", &stubSuggester{err: errors.New("connection refused")}, Uncategorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := New(tc.suggester).Categorize(context.Background(), "UNKNOWN MERCHANT", "", "raw", userKeywords())
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 1, tc.suggester.calls)
		})
	}
}

func TestCategorize_NoSuggester(t *testing.T) {
	got := New(nil).Categorize(context.Background(), "UNKNOWN MERCHANT", "", "raw", userKeywords())
	assert.Equal(t, Uncategorized, got)
}

func TestCategorize_WithAISuggester(t *testing.T) {
	// An unconfigured ai.Suggester degrades to Uncategorized.
	got := New(ai.NewSuggester(nil, 0)).Categorize(context.Background(), "UNKNOWN MERCHANT", "", "raw", userKeywords())
	assert.Equal(t, Uncategorized, got)
}
