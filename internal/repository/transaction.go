package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hray3182/LedgerLine/internal/database"
	"github.com/hray3182/LedgerLine/internal/models"
)

const transactionColumns = `transaction_id::text, type, amount, description, bank, account, timestamp,
		 category, raw_message, status`

type TransactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, userID int64, tx *models.Transaction) error {
	occurredAt, err := models.ParseTimestamp(tx.Timestamp)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO transaction (transaction_id, user_id, type, amount, description, bank, account,
		 timestamp, occurred_at, category, raw_message, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		tx.ID, userID, tx.Type, tx.Amount, tx.Description, tx.Bank, tx.Account,
		tx.Timestamp, occurredAt, tx.Category, tx.RawMessage, tx.Status,
	)
	return err
}

func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction WHERE user_id = $1
		 ORDER BY occurred_at DESC, created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTransactions(rows)
}

func (r *TransactionRepository) GetByID(ctx context.Context, transactionID string, userID int64) (*models.Transaction, error) {
	if !validID(transactionID) {
		return nil, ErrNotFound
	}
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction WHERE transaction_id = $1 AND user_id = $2`,
		transactionID, userID,
	)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// GetByDateRange lists transactions that occurred in [start, end), newest
// first. A limit <= 0 returns every match.
func (r *TransactionRepository) GetByDateRange(ctx context.Context, userID int64, start, end time.Time, limit, offset int) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		 ORDER BY occurred_at DESC, created_at DESC
		 LIMIT $4 OFFSET $5`,
		userID, start, end, sqlLimit(limit), offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTransactions(rows)
}

// GetAll lists every transaction of the user, oldest first.
func (r *TransactionRepository) GetAll(ctx context.Context, userID int64) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction WHERE user_id = $1
		 ORDER BY occurred_at ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTransactions(rows)
}

// Update writes every editable field. The id and raw message never change.
func (r *TransactionRepository) Update(ctx context.Context, userID int64, tx *models.Transaction) error {
	if !validID(tx.ID) {
		return ErrNotFound
	}
	occurredAt, err := models.ParseTimestamp(tx.Timestamp)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE transaction SET type = $1, amount = $2, description = $3, timestamp = $4,
		 occurred_at = $5, category = $6
		 WHERE transaction_id = $7 AND user_id = $8`,
		tx.Type, tx.Amount, tx.Description, tx.Timestamp, occurredAt, tx.Category, tx.ID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID string, userID int64) error {
	if !validID(transactionID) {
		return ErrNotFound
	}
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM transaction WHERE transaction_id = $1 AND user_id = $2`,
		transactionID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every transaction of the user and reports how many went.
func (r *TransactionRepository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM transaction WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GetSummaryByCategory sums signed amounts per category in [start, end).
func (r *TransactionRepository) GetSummaryByCategory(ctx context.Context, userID int64, start, end time.Time) (map[string]decimal.Decimal, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT category, SUM(amount) as total
		 FROM transaction
		 WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		 GROUP BY category`,
		userID, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		summary[category] = total
	}
	return summary, rows.Err()
}

func (r *TransactionRepository) Search(ctx context.Context, userID int64, keyword string) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction WHERE user_id = $1 AND (description ILIKE $2 OR category ILIKE $2)
		 ORDER BY occurred_at DESC`,
		userID, "%"+keyword+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTransactions(rows)
}

func (r *TransactionRepository) scanTransactions(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(row interface{ Scan(dest ...any) error }) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var txType string
	if err := row.Scan(&tx.ID, &txType, &tx.Amount, &tx.Description, &tx.Bank, &tx.Account,
		&tx.Timestamp, &tx.Category, &tx.RawMessage, &tx.Status); err != nil {
		return nil, err
	}
	tx.Type = models.TransactionType(txType)
	return tx, nil
}

// validID keeps malformed ids away from the uuid column, where they would
// fail the cast instead of matching nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// sqlLimit maps a non-positive limit to NULL, which Postgres treats as no
// limit.
func sqlLimit(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
