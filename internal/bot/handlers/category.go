package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/LedgerLine/internal/format"
	"github.com/hray3182/LedgerLine/internal/logger"
	"github.com/hray3182/LedgerLine/internal/models"
)

// splitKeywords splits on commas when any are present so multi-word
// keywords survive, otherwise on whitespace.
func splitKeywords(s string) []string {
	if !strings.Contains(s, ",") {
		return strings.Fields(s)
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadConfig returns the user's config, replying on failure.
func (h *Handlers) loadConfig(ctx context.Context, msg *tgbotapi.Message) (*models.UserConfig, bool) {
	cfg, err := h.repos.Config.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to load user config")
		h.sendMessage(ctx, msg.Chat.ID, "Could not load your categories, please try again later.")
		return nil, false
	}
	return cfg, true
}

// configEdit applies a change to a config and reports what it did. A non-nil
// error rejects the whole request.
type configEdit func(cfg *models.UserConfig) (changed, errs []string, err error)

// editConfig applies change atomically and replies with the outcome.
func (h *Handlers) editConfig(ctx context.Context, msg *tgbotapi.Message, verb string, change configEdit) {
	var changed, errs []string
	var rejected error
	err := h.repos.Config.Edit(ctx, msg.From.ID, func(cfg *models.UserConfig) (bool, error) {
		changed, errs, rejected = change(cfg)
		return rejected == nil && len(changed) > 0, nil
	})
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to save user config")
		h.sendMessage(ctx, msg.Chat.ID, "Could not save your changes, please try again later.")
		return
	}
	if rejected != nil {
		h.sendMessage(ctx, msg.Chat.ID, "⚠️ "+rejected.Error())
		return
	}
	h.reportChange(ctx, msg.Chat.ID, verb, changed, errs)
}

// reportChange replies with what changed and what was rejected.
func (h *Handlers) reportChange(ctx context.Context, chatID int64, verb string, changed, errs []string) {
	b := &format.Builder{}
	if len(changed) > 0 {
		b.Text("✅ " + verb + ": ").Bold(strings.Join(changed, ", ")).Line("")
	}
	for _, e := range errs {
		b.Line("⚠️ " + e)
	}
	if len(changed) == 0 && len(errs) == 0 {
		b.Text("Nothing to do.")
	}
	h.sendRendered(ctx, chatID, b.Render(), nil)
}

func (h *Handlers) handleCategories(ctx context.Context, msg *tgbotapi.Message) {
	cfg, ok := h.loadConfig(ctx, msg)
	if !ok {
		return
	}
	h.sendRendered(ctx, msg.Chat.ID, format.List("Categories", cfg.Categories), nil)
}

func (h *Handlers) handleAddCategory(ctx context.Context, msg *tgbotapi.Message) {
	names := strings.Fields(msg.CommandArguments())
	if len(names) == 0 {
		h.sendMessage(ctx, msg.Chat.ID, "Usage: /addcategory <name> [name...]")
		return
	}
	h.editConfig(ctx, msg, "Added", func(cfg *models.UserConfig) ([]string, []string, error) {
		added, errs := cfg.AddCategories(names)
		return added, errs, nil
	})
}

func (h *Handlers) handleDeleteCategory(ctx context.Context, msg *tgbotapi.Message) {
	names := strings.Fields(msg.CommandArguments())
	if len(names) == 0 {
		h.sendMessage(ctx, msg.Chat.ID, "Usage: /delcategory <name> [name...]")
		return
	}
	h.editConfig(ctx, msg, "Deleted", func(cfg *models.UserConfig) ([]string, []string, error) {
		deleted, errs := cfg.DeleteCategories(names)
		return deleted, errs, nil
	})
}

func (h *Handlers) handleKeywords(ctx context.Context, msg *tgbotapi.Message) {
	cfg, ok := h.loadConfig(ctx, msg)
	if !ok {
		return
	}
	h.sendRendered(ctx, msg.Chat.ID, format.Keywords(cfg.Keywords), nil)
}

func keywordArgs(msg *tgbotapi.Message) (string, []string) {
	category, rest, _ := strings.Cut(strings.TrimSpace(msg.CommandArguments()), " ")
	return category, splitKeywords(rest)
}

func (h *Handlers) handleAddKeyword(ctx context.Context, msg *tgbotapi.Message) {
	category, keywords := keywordArgs(msg)
	if category == "" || len(keywords) == 0 {
		h.sendMessage(ctx, msg.Chat.ID, "Usage: /addkeyword <category> <kw> [kw...]")
		return
	}
	h.editConfig(ctx, msg, "Added", func(cfg *models.UserConfig) ([]string, []string, error) {
		return cfg.AddKeywords(category, keywords)
	})
}

func (h *Handlers) handleDeleteKeyword(ctx context.Context, msg *tgbotapi.Message) {
	category, keywords := keywordArgs(msg)
	if category == "" || len(keywords) == 0 {
		h.sendMessage(ctx, msg.Chat.ID, "Usage: /delkeyword <category> <kw> [kw...]")
		return
	}
	h.editConfig(ctx, msg, "Deleted", func(cfg *models.UserConfig) ([]string, []string, error) {
		return cfg.DeleteKeywords(category, keywords)
	})
}
