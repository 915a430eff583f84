package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/LedgerLine/internal/format"
	"github.com/hray3182/LedgerLine/internal/logger"
	"github.com/hray3182/LedgerLine/internal/repository"
)

const recentLimit = 10

func (h *Handlers) handleBankMessage(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.FromContext(ctx)
	userID := msg.From.ID

	cfg, err := h.repos.Config.GetOrCreate(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load user config")
		h.sendMessage(ctx, msg.Chat.ID, "Could not load your categories, please try again later.")
		return
	}

	tx, err := h.parser.ParseMessage(ctx, msg.Text, *cfg)
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse bank message")
		h.sendRendered(ctx, msg.Chat.ID, format.ParseFailure(err), nil)
		return
	}

	if err := h.repos.Transaction.Create(ctx, userID, tx); err != nil {
		log.Error().Err(err).Msg("failed to save transaction")
		h.sendMessage(ctx, msg.Chat.ID, "Parsed the message but could not save it, please try again later.")
		return
	}

	log.Info().Str("transaction_id", tx.ID).Str("category", tx.Category).Msg("transaction saved")
	h.sendRendered(ctx, msg.Chat.ID, format.Transaction(tx), nil)
}

func (h *Handlers) handleRecent(ctx context.Context, msg *tgbotapi.Message) {
	txs, err := h.repos.Transaction.GetByUserID(ctx, msg.From.ID, recentLimit, 0)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to list transactions")
		h.sendMessage(ctx, msg.Chat.ID, "Could not load transactions, please try again later.")
		return
	}
	h.sendRendered(ctx, msg.Chat.ID, format.TransactionList(txs), nil)
}

// handleDelete asks for confirmation before deleting; the callback does the
// actual delete.
func (h *Handlers) handleDelete(ctx context.Context, msg *tgbotapi.Message) {
	id := strings.TrimSpace(msg.CommandArguments())
	if id == "" {
		h.sendMessage(ctx, msg.Chat.ID, "Usage: /delete <id>")
		return
	}

	tx, err := h.repos.Transaction.GetByID(ctx, id, msg.From.ID)
	if errors.Is(err, repository.ErrNotFound) {
		h.sendMessage(ctx, msg.Chat.ID, "Transaction not found.")
		return
	}
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("transaction_id", id).Msg("failed to get transaction")
		h.sendMessage(ctx, msg.Chat.ID, "Could not load the transaction, please try again later.")
		return
	}

	b := &format.Builder{}
	b.Text("Delete ").Bold(format.Amount(tx.Amount)).Line(" · " + tx.Description + "?")
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", callbackDelete+":"+tx.ID),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", callbackCancel),
		),
	)
	h.sendRendered(ctx, msg.Chat.ID, b.Render(), keyboard)
}

// handleSummary totals the given month (YYYY-MM), or the current one.
func (h *Handlers) handleSummary(ctx context.Context, msg *tgbotapi.Message) {
	now := h.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		month, err := time.ParseInLocation("2006-01", arg, now.Location())
		if err != nil {
			h.sendMessage(ctx, msg.Chat.ID, "Usage: /summary [YYYY-MM]")
			return
		}
		start = month
	}
	end := start.AddDate(0, 1, 0)

	totals, err := h.repos.Transaction.GetSummaryByCategory(ctx, msg.From.ID, start, end)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to summarise transactions")
		h.sendMessage(ctx, msg.Chat.ID, "Could not build the summary, please try again later.")
		return
	}
	h.sendRendered(ctx, msg.Chat.ID, format.Summary(fmt.Sprintf("📊 %s", start.Format("January 2006")), totals), nil)
}

func (h *Handlers) handleSearch(ctx context.Context, msg *tgbotapi.Message) {
	keyword := strings.TrimSpace(msg.CommandArguments())
	if keyword == "" {
		h.sendMessage(ctx, msg.Chat.ID, "Usage: /search <text>")
		return
	}

	txs, err := h.repos.Transaction.Search(ctx, msg.From.ID, keyword)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to search transactions")
		h.sendMessage(ctx, msg.Chat.ID, "Search failed, please try again later.")
		return
	}
	if len(txs) > recentLimit {
		txs = txs[:recentLimit]
	}
	h.sendRendered(ctx, msg.Chat.ID, format.TransactionList(txs), nil)
}
