package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hray3182/LedgerLine/internal/api/middleware"
	"github.com/hray3182/LedgerLine/internal/categorizer"
	"github.com/hray3182/LedgerLine/internal/format"
	"github.com/hray3182/LedgerLine/internal/logger"
	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/parser"
	"github.com/hray3182/LedgerLine/internal/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// TransactionsHandler handles transaction endpoints.
type TransactionsHandler struct {
	users   UserStore
	configs ConfigStore
	txs     TransactionStore
	parser  Parser
	allowed []models.TransactionType
	loc     *time.Location
}

func NewTransactionsHandler(users UserStore, configs ConfigStore, txs TransactionStore, p Parser, allowed []models.TransactionType) *TransactionsHandler {
	return &TransactionsHandler{
		users:   users,
		configs: configs,
		txs:     txs,
		parser:  p,
		allowed: allowed,
		loc:     time.Local,
	}
}

type parseErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage"`
	Input string `json:"input,omitempty"`
}

// Parse handles POST /api/transactions/parse
func (h *TransactionsHandler) Parse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	userID, ok := currentUser(w, r, h.users, log)
	if !ok {
		return
	}

	var env parser.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg, err := h.configs.GetOrCreate(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load user config")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load user config")
		return
	}

	tx, err := h.parser.ParseStructured(ctx, env, *cfg)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			log.Warn().Err(err).Str("stage", string(pe.Stage)).Msg("Failed to parse bank message")
			middleware.WriteJSON(w, http.StatusUnprocessableEntity, parseErrorResponse{
				Error: err.Error(),
				Stage: string(pe.Stage),
				Input: pe.Input,
			})
			return
		}
		log.Error().Err(err).Msg("Failed to parse bank message")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to parse bank message")
		return
	}

	if err := h.txs.Create(ctx, userID, tx); err != nil {
		log.Error().Err(err).Msg("Failed to save transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	log.Info().Str("transaction_id", tx.ID).Str("category", tx.Category).Msg("Transaction saved")
	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	userID, ok := currentUser(w, r, h.users, log)
	if !ok {
		return
	}

	var req models.TransactionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := req.Build(h.allowed, categorizer.Uncategorized)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.txs.Create(ctx, userID, tx); err != nil {
		log.Error().Err(err).Msg("Failed to save transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	log.Info().Str("transaction_id", tx.ID).Msg("Manual transaction saved")
	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// List handles GET /api/transactions?limit&offset&year&month
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	userID, ok := currentUser(w, r, h.users, log)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		middleware.WriteError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	period, err := h.periodFromQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var txs []*models.Transaction
	if period.set {
		txs, err = h.txs.GetByDateRange(ctx, userID, period.start, period.end, limit, offset)
	} else {
		txs, err = h.txs.GetByUserID(ctx, userID, limit, offset)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
		"limit":        limit,
		"offset":       offset,
	})
}

// Update handles PATCH /api/transactions/{id}
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	userID, ok := currentUser(w, r, h.users, log)
	if !ok {
		return
	}
	id := r.PathValue("id")

	var upd models.TransactionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.txs.GetByID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("transaction_id", id).Msg("Failed to get transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get transaction")
		return
	}

	updated, err := upd.Apply(tx, h.allowed)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.txs.Update(ctx, userID, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		log.Error().Err(err).Str("transaction_id", id).Msg("Failed to update transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	userID, ok := currentUser(w, r, h.users, log)
	if !ok {
		return
	}
	id := r.PathValue("id")

	err := h.txs.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/transactions/export?year&month
func (h *TransactionsHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	userID, ok := currentUser(w, r, h.users, log)
	if !ok {
		return
	}

	period, err := h.periodFromQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var txs []*models.Transaction
	if period.set {
		txs, err = h.txs.GetByDateRange(ctx, userID, period.start, period.end, 0, 0)
	} else {
		txs, err = h.txs.GetAll(ctx, userID)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to export transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to export transactions")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := format.WriteCSV(w, txs); err != nil {
		log.Error().Err(err).Msg("Failed to write CSV export")
	}
}

// DeleteAll handles DELETE /api/transactions
func (h *TransactionsHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	userID, ok := currentUser(w, r, h.users, log)
	if !ok {
		return
	}

	n, err := h.txs.DeleteAll(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to clear transactions")
		return
	}

	log.Info().Int64("deleted", n).Msg("Transactions cleared")
	middleware.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// dateRange is a calendar year or month in the handler's location.
type dateRange struct {
	start, end time.Time
	set        bool
}

// periodFromQuery reads the optional year and month filters. A month needs a
// year.
func (h *TransactionsHandler) periodFromQuery(r *http.Request) (dateRange, error) {
	q := r.URL.Query()
	if q.Get("year") == "" {
		if q.Get("month") != "" {
			return dateRange{}, errors.New("month requires year")
		}
		return dateRange{}, nil
	}

	year, err := queryInt(r, "year", 0)
	if err != nil || year < 1 || year > 9999 {
		return dateRange{}, errors.New("year must be between 1 and 9999")
	}
	if q.Get("month") == "" {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, h.loc)
		return dateRange{start: start, end: start.AddDate(1, 0, 0), set: true}, nil
	}
	month, err := queryInt(r, "month", 0)
	if err != nil || month < 1 || month > 12 {
		return dateRange{}, errors.New("month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, h.loc)
	return dateRange{start: start, end: start.AddDate(0, 1, 0), set: true}, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
