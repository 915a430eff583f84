package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUserConfig(t *testing.T) {
	cfg := DefaultUserConfig()

	assert.Equal(t, cfg.Categories, cfg.Keywords.Categories())
	food, ok := cfg.Keywords.Lookup("Food")
	require.True(t, ok)
	assert.Contains(t, food, "food")
	assert.Contains(t, food, "mcdonald")

	for _, entry := range cfg.Keywords {
		assert.Equal(t, entry.Category, entry.Keywords[0], "category name is its own first keyword")
	}
}

func TestAddCategories(t *testing.T) {
	cfg := DefaultUserConfig()

	added, errs := cfg.AddCategories([]string{"Food", "Gaming", "INVESTING", "snack"})

	assert.Equal(t, []string{"gaming", "investing"}, added)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "'Food' already exists")
	assert.True(t, cfg.HasCategory("investing"))

	kws, ok := cfg.Keywords.Lookup("investing")
	require.True(t, ok)
	assert.Equal(t, []string{"investing"}, kws)
}

func TestDeleteCategories(t *testing.T) {
	cfg := DefaultUserConfig()
	cfg.AddCategories([]string{"gaming"})

	deleted, errs := cfg.DeleteCategories([]string{"Gaming", "spaceships"})

	assert.Equal(t, []string{"gaming"}, deleted)
	assert.Equal(t, []string{"'spaceships' not found"}, errs)
	assert.False(t, cfg.HasCategory("gaming"))
	_, ok := cfg.Keywords.Lookup("gaming")
	assert.False(t, ok)
}

func TestAddKeywords(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		keywords  []string
		wantAdded []string
		wantErrs  []string
	}{
		{
			name:      "new keywords are lowercased",
			category:  "Food",
			keywords:  []string{"yummy", "Delish"},
			wantAdded: []string{"yummy", "delish"},
		},
		{
			name:      "duplicates in request collapse",
			category:  "snack",
			keywords:  []string{"SNACK", "chips", "Chips"},
			wantAdded: []string{"chips"},
			wantErrs:  []string{"'snack' already exists"},
		},
		{
			name:     "keyword owned by another category",
			category: "food",
			keywords: []string{"coffee"},
			wantErrs: []string{"'coffee' already exists in category 'snack'"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultUserConfig()

			added, errs, err := cfg.AddKeywords(tc.category, tc.keywords)

			require.NoError(t, err)
			assert.Equal(t, tc.wantAdded, added)
			assert.Equal(t, tc.wantErrs, errs)

			kws, _ := cfg.Keywords.Lookup(tc.category)
			for _, a := range tc.wantAdded {
				assert.Contains(t, kws, a)
			}
		})
	}
}

func TestAddKeywords_UnknownCategory(t *testing.T) {
	cfg := DefaultUserConfig()

	_, _, err := cfg.AddKeywords("NonExistentCat", []string{"key"})
	assert.Error(t, err)

	_, _, err = cfg.DeleteKeywords("NonExistentCat", []string{"key"})
	assert.Error(t, err)
}

func TestDeleteKeywords(t *testing.T) {
	cfg := DefaultUserConfig()

	deleted, errs, err := cfg.DeleteKeywords("Food", []string{"meal", "LUNCH", "kebab", "breakfast", "food", "lunch"})
	require.NoError(t, err)

	assert.Equal(t, []string{"lunch", "breakfast"}, deleted)
	assert.ElementsMatch(t, []string{
		"'meal' not found in 'food'",
		"'kebab' not found in 'food'",
		"Cannot delete category name 'food'",
	}, errs)

	kws, _ := cfg.Keywords.Lookup("food")
	assert.NotContains(t, kws, "lunch")
	assert.Contains(t, kws, "food")
}

func TestUserConfigClone(t *testing.T) {
	cfg := DefaultUserConfig()
	clone := cfg.Clone()

	_, _, err := clone.AddKeywords("food", []string{"pasta"})
	require.NoError(t, err)

	orig, _ := cfg.Keywords.Lookup("food")
	assert.NotContains(t, orig, "pasta")
}
