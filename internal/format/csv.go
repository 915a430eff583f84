package format

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/hray3182/LedgerLine/internal/models"
)

// CSVHeader is the column order of exported transactions.
var CSVHeader = []string{
	"id", "timestamp", "type", "amount", "description", "bank", "account",
	"category", "status", "raw_message",
}

// WriteCSV writes txs as CSV with a header row.
func WriteCSV(out io.Writer, txs []*models.Transaction) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, tx := range txs {
		row := []string{
			tx.ID,
			tx.Timestamp,
			string(tx.Type),
			tx.Amount.StringFixed(2),
			tx.Description,
			tx.Bank,
			tx.Account,
			tx.Category,
			tx.Status,
			tx.RawMessage,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
