package handlers

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/LedgerLine/internal/logger"
	"github.com/hray3182/LedgerLine/internal/repository"
)

const (
	callbackDelete = "del"
	callbackCancel = "cancel"
)

// HandleCallbackQuery handles the inline buttons; data is "del:<id>" or
// "cancel".
func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	log := logger.FromContext(ctx)

	if _, err := h.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Error().Err(err).Msg("failed to answer callback")
	}
	if callback.Message == nil || callback.From == nil {
		return
	}
	if !h.isAllowed(callback.From.ID) {
		log.Warn().Int64("user_id", callback.From.ID).Msg("unauthorized callback")
		return
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	action, id, _ := strings.Cut(callback.Data, ":")
	switch action {
	case callbackDelete:
		err := h.repos.Transaction.Delete(ctx, id, callback.From.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.editMessageText(ctx, chatID, messageID, "Transaction not found.")
		case err != nil:
			log.Error().Err(err).Str("transaction_id", id).Msg("failed to delete transaction")
			h.editMessageText(ctx, chatID, messageID, "Delete failed, please try again later.")
		default:
			log.Info().Str("transaction_id", id).Msg("transaction deleted")
			h.editMessageText(ctx, chatID, messageID, "🗑 Transaction deleted.")
		}
	case callbackCancel:
		h.editMessageText(ctx, chatID, messageID, "❌ Cancelled.")
	}
}
