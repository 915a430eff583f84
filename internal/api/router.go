package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hray3182/LedgerLine/internal/api/handlers"
	"github.com/hray3182/LedgerLine/internal/api/middleware"
	"github.com/hray3182/LedgerLine/internal/models"
)

type Deps struct {
	Users        handlers.UserStore
	Configs      handlers.ConfigStore
	Transactions handlers.TransactionStore
	Parser       handlers.Parser
	Allowed      []models.TransactionType

	APIToken  string
	IsAllowed func(int64) bool
}

// NewRouter builds the HTTP handler. Everything under /api except the health
// check requires auth.
func NewRouter(deps Deps, log zerolog.Logger) http.Handler {
	txs := handlers.NewTransactionsHandler(deps.Users, deps.Configs, deps.Transactions, deps.Parser, deps.Allowed)
	cfg := handlers.NewConfigHandler(deps.Users, deps.Configs, deps.Allowed)

	auth := middleware.Auth(deps.APIToken, deps.IsAllowed)
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()

	mux.Handle("POST /api/transactions/parse", protected(txs.Parse))
	mux.Handle("POST /api/transactions", protected(txs.Create))
	mux.Handle("GET /api/transactions", protected(txs.List))
	mux.Handle("GET /api/transactions/export", protected(txs.Export))
	mux.Handle("DELETE /api/transactions", protected(txs.DeleteAll))
	mux.Handle("PATCH /api/transactions/{id}", protected(txs.Update))
	mux.Handle("DELETE /api/transactions/{id}", protected(txs.Delete))

	mux.Handle("GET /api/config", protected(cfg.Get))
	mux.Handle("POST /api/config/categories", protected(cfg.AddCategories))
	mux.Handle("DELETE /api/config/categories", protected(cfg.DeleteCategories))
	mux.Handle("POST /api/config/keywords", protected(cfg.AddKeywords))
	mux.Handle("DELETE /api/config/keywords", protected(cfg.DeleteKeywords))

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(mux),
		),
	)
}
