package models

import (
	"fmt"
	"strings"
)

// CategoryKeywords associates one category with its lowercase keywords.
type CategoryKeywords struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// KeywordMap is an ordered category -> keywords mapping. Order matters: the
// categorizer returns the first category that matches.
type KeywordMap []CategoryKeywords

// NewKeywordMap builds a KeywordMap keeping the order of entries.
func NewKeywordMap(entries ...CategoryKeywords) KeywordMap {
	m := make(KeywordMap, 0, len(entries))
	return append(m, entries...)
}

func (m KeywordMap) index(category string) int {
	for i, e := range m {
		if strings.EqualFold(e.Category, category) {
			return i
		}
	}
	return -1
}

// Lookup returns the keywords for category, matched case-insensitively.
func (m KeywordMap) Lookup(category string) ([]string, bool) {
	if i := m.index(category); i >= 0 {
		return m[i].Keywords, true
	}
	return nil, false
}

// Categories returns the category names in order.
func (m KeywordMap) Categories() []string {
	names := make([]string, len(m))
	for i, e := range m {
		names[i] = e.Category
	}
	return names
}

// Clone deep-copies the map so callers can edit without touching a shared
// config.
func (m KeywordMap) Clone() KeywordMap {
	out := make(KeywordMap, len(m))
	for i, e := range m {
		out[i] = CategoryKeywords{Category: e.Category, Keywords: append([]string(nil), e.Keywords...)}
	}
	return out
}

// owner returns the category that already holds keyword, if any.
func (m KeywordMap) owner(keyword string) (string, bool) {
	for _, e := range m {
		for _, k := range e.Keywords {
			if k == keyword {
				return e.Category, true
			}
		}
	}
	return "", false
}

// UserConfig is the per-user classification configuration.
type UserConfig struct {
	Categories []string   `json:"categories"`
	Keywords   KeywordMap `json:"keywords"`
}

var defaultCategories = []string{
	"food", "snack", "transport", "shopping", "groceries", "donation",
	"entertainment", "travel", "health", "education", "subscription",
	"utilities", "tax", "insurance", "income", "disbursement", "other",
}

var defaultUserKeywords = map[string][]string{
	"food":      {"dinner", "lunch", "breakfast", "cafe", "restaurant", "mcdonald", "kfc"},
	"snack":     {"starbucks", "coffee", "bubble tea", "tea"},
	"transport": {"grab", "gojek", "uber", "taxi", "train", "bus", "mrt"},
	"shopping":  {"shopee", "lazada", "amazon", "uniqlo"},
	"utilities": {"singtel", "starhub", "electricity", "water", "bill"},
}

// DefaultUserConfig is what a new user starts with. Every category's own name
// is its first keyword.
func DefaultUserConfig() UserConfig {
	cfg := UserConfig{}
	for _, name := range defaultCategories {
		cfg.Categories = append(cfg.Categories, name)
		kws := append([]string{name}, defaultUserKeywords[name]...)
		cfg.Keywords = append(cfg.Keywords, CategoryKeywords{Category: name, Keywords: kws})
	}
	return cfg
}

// Clone deep-copies the config.
func (c UserConfig) Clone() UserConfig {
	return UserConfig{
		Categories: append([]string(nil), c.Categories...),
		Keywords:   c.Keywords.Clone(),
	}
}

// HasCategory reports whether name is configured, ignoring case.
func (c *UserConfig) HasCategory(name string) bool {
	for _, cat := range c.Categories {
		if strings.EqualFold(cat, name) {
			return true
		}
	}
	return false
}

// AddCategories adds new categories in lowercase. Each new category gets its
// own name as its only keyword.
func (c *UserConfig) AddCategories(names []string) (added []string, errs []string) {
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if c.HasCategory(name) {
			errs = append(errs, fmt.Sprintf("'%s' already exists", raw))
			continue
		}
		c.Categories = append(c.Categories, name)
		c.Keywords = append(c.Keywords, CategoryKeywords{Category: name, Keywords: []string{name}})
		added = append(added, name)
	}
	return added, errs
}

// DeleteCategories removes categories and their keyword lists.
func (c *UserConfig) DeleteCategories(names []string) (deleted []string, errs []string) {
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if !c.HasCategory(name) {
			errs = append(errs, fmt.Sprintf("'%s' not found", raw))
			continue
		}
		kept := c.Categories[:0]
		for _, cat := range c.Categories {
			if !strings.EqualFold(cat, name) {
				kept = append(kept, cat)
			}
		}
		c.Categories = kept
		if i := c.Keywords.index(name); i >= 0 {
			c.Keywords = append(c.Keywords[:i], c.Keywords[i+1:]...)
		}
		deleted = append(deleted, name)
	}
	return deleted, errs
}

// AddKeywords adds lowercase keywords to category. A keyword may belong to
// only one category. Repeats within one request are ignored silently.
func (c *UserConfig) AddKeywords(category string, keywords []string) (added []string, errs []string, err error) {
	i := c.Keywords.index(category)
	if i < 0 {
		return nil, nil, fmt.Errorf("category '%s' does not exist", category)
	}

	seen := make(map[string]bool)
	for _, raw := range keywords {
		kw := strings.ToLower(strings.TrimSpace(raw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		if owner, ok := c.Keywords.owner(kw); ok {
			if strings.EqualFold(owner, c.Keywords[i].Category) {
				errs = append(errs, fmt.Sprintf("'%s' already exists", kw))
			} else {
				errs = append(errs, fmt.Sprintf("'%s' already exists in category '%s'", kw, owner))
			}
			continue
		}
		c.Keywords[i].Keywords = append(c.Keywords[i].Keywords, kw)
		added = append(added, kw)
	}
	return added, errs, nil
}

// DeleteKeywords removes keywords from category. The category's own name
// cannot be removed.
func (c *UserConfig) DeleteKeywords(category string, keywords []string) (deleted []string, errs []string, err error) {
	i := c.Keywords.index(category)
	if i < 0 {
		return nil, nil, fmt.Errorf("category '%s' does not exist", category)
	}
	entry := &c.Keywords[i]
	catName := strings.ToLower(entry.Category)

	seen := make(map[string]bool)
	for _, raw := range keywords {
		kw := strings.ToLower(strings.TrimSpace(raw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		if kw == catName {
			errs = append(errs, fmt.Sprintf("Cannot delete category name '%s'", catName))
			continue
		}
		pos := -1
		for j, k := range entry.Keywords {
			if k == kw {
				pos = j
				break
			}
		}
		if pos < 0 {
			errs = append(errs, fmt.Sprintf("'%s' not found in '%s'", kw, catName))
			continue
		}
		entry.Keywords = append(entry.Keywords[:pos], entry.Keywords[pos+1:]...)
		deleted = append(deleted, kw)
	}
	return deleted, errs, nil
}
