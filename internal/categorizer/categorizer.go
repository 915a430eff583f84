package categorizer

import (
	"context"
	"strings"

	"github.com/hray3182/LedgerLine/internal/logger"
	"github.com/hray3182/LedgerLine/internal/models"
)

const (
	// DisbursementMarker overrides every keyword when present in the text and
	// the user has a category of the same name.
	DisbursementMarker = "disbursement"

	// Other is returned when the model answered but not with a known category.
	Other = "Other"
	// Uncategorized is returned when the model could not be asked at all.
	Uncategorized = "Uncategorized"
)

// builtinKeywords augment well-known categories the user already has.
var builtinKeywords = map[string][]string{
	"food":      {"dinner", "lunch", "breakfast", "cafe", "restaurant", "mcdonald", "kfc"},
	"snack":     {"starbucks", "coffee", "bubble tea", "tea"},
	"snacks":    {"starbucks", "coffee", "bubble tea", "tea"},
	"transport": {"grab", "gojek", "uber", "taxi", "train", "bus", "mrt"},
	"shopping":  {"shopee", "lazada", "amazon", "uniqlo"},
	"groceries": {"supermarket", "fairprice", "ntuc", "cold storage", "giant", "sheng siong"},
	"utilities": {"singtel", "starhub", "m1", "electricity", "water", "bill"},
}

// Suggester proposes a category for text no keyword matched.
type Suggester interface {
	Suggest(ctx context.Context, message string, categories []string) (string, error)
}

type Categorizer struct {
	suggester Suggester
}

// New returns a categorizer. suggester may be nil.
func New(suggester Suggester) *Categorizer {
	return &Categorizer{suggester: suggester}
}

// Categorize never returns an empty label. Keyword matches are tried in the
// order of keywords; the first category with a matching keyword wins.
func (c *Categorizer) Categorize(ctx context.Context, description, remarks, rawMessage string, keywords models.KeywordMap) string {
	log := logger.FromContext(ctx)
	text := strings.ToLower(description + " " + remarks)

	if strings.Contains(text, DisbursementMarker) {
		for _, name := range keywords.Categories() {
			if strings.EqualFold(name, DisbursementMarker) {
				return name
			}
		}
	}

	for _, entry := range keywords {
		for _, kw := range effectiveKeywords(entry) {
			if strings.Contains(text, kw) {
				log.Debug().Str("category", entry.Category).Str("keyword", kw).Msg("keyword matched")
				return entry.Category
			}
		}
	}

	return c.suggest(ctx, rawMessage, keywords.Categories())
}

func effectiveKeywords(entry models.CategoryKeywords) []string {
	name := strings.ToLower(strings.TrimSpace(entry.Category))
	kws := []string{name}
	for _, k := range entry.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kws = append(kws, k)
		}
	}
	kws = append(kws, builtinKeywords[name]...)
	if name == "" {
		return kws[1:]
	}
	return kws
}

func (c *Categorizer) suggest(ctx context.Context, rawMessage string, categories []string) string {
	if c == nil || c.suggester == nil || len(categories) == 0 {
		return Uncategorized
	}
	log := logger.FromContext(ctx)

	reply, err := c.suggester.Suggest(ctx, rawMessage, categories)
	if err != nil {
		log.Warn().Err(err).Msg("category suggestion failed")
		return Uncategorized
	}
	for _, name := range categories {
		if strings.EqualFold(name, reply) {
			return name
		}
	}
	log.Debug().Str("reply", reply).Msg("suggested category not configured")
	return Other
}
