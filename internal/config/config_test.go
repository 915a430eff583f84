package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/LedgerLine/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"AI_PROVIDER", "AI_TIMEOUT", "HTTP_ADDR", "ALLOWED_USER_IDS", "TRANSACTION_TYPES", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, 20*time.Second, cfg.AITimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, models.DefaultTransactionTypes, cfg.TransactionTypes)
	assert.True(t, cfg.IsUserAllowed(12345))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("ALLOWED_USER_IDS", "1, 2,3")
	t.Setenv("TRANSACTION_TYPES", "Card,PayNow")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, []int64{1, 2, 3}, cfg.AllowedUserIDs)
	assert.Equal(t, []models.TransactionType{"Card", "PayNow"}, cfg.TransactionTypes)
	assert.True(t, cfg.IsUserAllowed(2))
	assert.False(t, cfg.IsUserAllowed(4))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad timeout", "AI_TIMEOUT", "soon"},
		{"bad user id", "ALLOWED_USER_IDS", "1,abc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
