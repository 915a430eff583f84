package format

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/LedgerLine/internal/models"
)

func TestWriteCSV(t *testing.T) {
	txs := []*models.Transaction{
		{
			ID:          "a",
			Type:        models.TransactionTypeCard,
			Amount:      decimal.RequireFromString("-15"),
			Description: "McDonald's, dinner",
			Bank:        "UOB",
			Account:     "1234",
			Timestamp:   "2025-12-30T12:00:00+08:00",
			Category:    "food",
			RawMessage:  "line one\nline \"two\"",
		},
		{
			ID:        "b",
			Type:      models.TransactionTypePayNow,
			Amount:    decimal.RequireFromString("20.5"),
			Bank:      "UOB",
			Timestamp: "2025-12-31T09:00:00+08:00",
			Category:  "income",
			Status:    models.StatusManualEntry,
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, txs))

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, "-15.00", records[1][3])
	assert.Equal(t, "McDonald's, dinner", records[1][4])
	assert.Equal(t, "line one\nline \"two\"", records[1][9])
	assert.Equal(t, "20.50", records[2][3])
	assert.Equal(t, models.StatusManualEntry, records[2][8])
}

func TestWriteCSV_Empty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, nil))
	assert.Equal(t, strings.Join(CSVHeader, ",")+"\n", sb.String())
}
