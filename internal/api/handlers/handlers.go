package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hray3182/LedgerLine/internal/api/middleware"
	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/parser"
)

type UserStore interface {
	GetOrCreate(ctx context.Context, userID int64, userName string) (*models.User, error)
}

type ConfigStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserConfig, error)
	Edit(ctx context.Context, userID int64, fn func(cfg *models.UserConfig) (bool, error)) error
}

type TransactionStore interface {
	Create(ctx context.Context, userID int64, tx *models.Transaction) error
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Transaction, error)
	GetByDateRange(ctx context.Context, userID int64, start, end time.Time, limit, offset int) ([]*models.Transaction, error)
	GetAll(ctx context.Context, userID int64) ([]*models.Transaction, error)
	GetByID(ctx context.Context, transactionID string, userID int64) (*models.Transaction, error)
	Update(ctx context.Context, userID int64, tx *models.Transaction) error
	Delete(ctx context.Context, transactionID string, userID int64) error
	DeleteAll(ctx context.Context, userID int64) (int64, error)
}

// Parser parses an envelope whose parts arrive as separate fields.
type Parser interface {
	ParseStructured(ctx context.Context, env parser.Envelope, cfg models.UserConfig) (*models.Transaction, error)
}

// currentUser returns the authenticated user and makes sure its row exists.
// It writes the error response itself when it returns false.
func currentUser(w http.ResponseWriter, r *http.Request, users UserStore, log zerolog.Logger) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthenticated")
		return 0, false
	}
	if _, err := users.GetOrCreate(r.Context(), userID, ""); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get/create user")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load user")
		return 0, false
	}
	return userID, true
}
