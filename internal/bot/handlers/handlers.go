package handlers

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/hray3182/LedgerLine/internal/format"
	"github.com/hray3182/LedgerLine/internal/logger"
	"github.com/hray3182/LedgerLine/internal/models"
)

// Sender is the part of *tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type UserStore interface {
	GetOrCreate(ctx context.Context, userID int64, userName string) (*models.User, error)
}

// ConfigStore edits run under the store's lock; fn reports whether the
// config changed and needs writing.
type ConfigStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserConfig, error)
	Edit(ctx context.Context, userID int64, fn func(cfg *models.UserConfig) (bool, error)) error
}

type TransactionStore interface {
	Create(ctx context.Context, userID int64, tx *models.Transaction) error
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Transaction, error)
	GetByID(ctx context.Context, transactionID string, userID int64) (*models.Transaction, error)
	Delete(ctx context.Context, transactionID string, userID int64) error
	GetSummaryByCategory(ctx context.Context, userID int64, start, end time.Time) (map[string]decimal.Decimal, error)
	Search(ctx context.Context, userID int64, keyword string) ([]*models.Transaction, error)
}

// Parser turns a forwarded composite message into a transaction.
type Parser interface {
	ParseMessage(ctx context.Context, raw string, cfg models.UserConfig) (*models.Transaction, error)
}

type Repositories struct {
	User        UserStore
	Config      ConfigStore
	Transaction TransactionStore
}

type Handlers struct {
	api       Sender
	repos     *Repositories
	parser    Parser
	isAllowed func(userID int64) bool
	now       func() time.Time
}

// New wires the handlers. A nil isAllowed lets every user in.
func New(api Sender, repos *Repositories, p Parser, isAllowed func(int64) bool) *Handlers {
	if isAllowed == nil {
		isAllowed = func(int64) bool { return true }
	}
	return &Handlers{
		api:       api,
		repos:     repos,
		parser:    p,
		isAllowed: isAllowed,
		now:       time.Now,
	}
}

// authorize checks the allow-list and makes sure the user row exists.
func (h *Handlers) authorize(ctx context.Context, msg *tgbotapi.Message) bool {
	log := logger.FromContext(ctx)
	if msg.From == nil {
		return false
	}
	if !h.isAllowed(msg.From.ID) {
		log.Warn().Int64("user_id", msg.From.ID).Msg("unauthorized access attempt")
		h.sendMessage(ctx, msg.Chat.ID, "⛔ Unauthorized access.")
		return false
	}
	if _, err := h.repos.User.GetOrCreate(ctx, msg.From.ID, msg.From.UserName); err != nil {
		log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("failed to get/create user")
		h.sendMessage(ctx, msg.Chat.ID, "Something went wrong, please try again later.")
		return false
	}
	return true
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	ctx = withUpdateFields(ctx, msg)
	if !h.authorize(ctx, msg) {
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "categories":
		h.handleCategories(ctx, msg)
	case "addcategory":
		h.handleAddCategory(ctx, msg)
	case "delcategory":
		h.handleDeleteCategory(ctx, msg)
	case "keywords":
		h.handleKeywords(ctx, msg)
	case "addkeyword":
		h.handleAddKeyword(ctx, msg)
	case "delkeyword":
		h.handleDeleteKeyword(ctx, msg)
	case "recent":
		h.handleRecent(ctx, msg)
	case "delete":
		h.handleDelete(ctx, msg)
	case "summary":
		h.handleSummary(ctx, msg)
	case "search":
		h.handleSearch(ctx, msg)
	default:
		h.sendMessage(ctx, msg.Chat.ID, "Unknown command, see /help")
	}
}

// HandleMessage treats any non-command text as a forwarded bank message.
func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	ctx = withUpdateFields(ctx, msg)
	if !h.authorize(ctx, msg) {
		return
	}
	h.handleBankMessage(ctx, msg)
}

func withUpdateFields(ctx context.Context, msg *tgbotapi.Message) context.Context {
	fields := map[string]interface{}{"chat_id": msg.Chat.ID}
	if msg.From != nil {
		fields["user_id"] = msg.From.ID
	}
	log := logger.FromContext(ctx)
	return logger.WithContext(ctx, logger.WithFields(log, fields))
}

func (h *Handlers) sendMessage(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to send message")
	}
}

func (h *Handlers) sendRendered(ctx context.Context, chatID int64, r format.Rendered, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	msg.Entities = r.Entities
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := h.api.Send(msg); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to send message")
	}
}

func (h *Handlers) editMessageText(ctx context.Context, chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.api.Send(edit); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("failed to edit message")
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	text := fmt.Sprintf(`👋 Hi %s!

I'm LedgerLine. Forward me your bank notifications and I'll file them as transactions.

Send each one as:
<bank message>,<bank>,<ISO timestamp>,<remarks>

For example:
You made a Card of SGD 15.00 to McDonald's on your a/c ending 1234 at 30 Dec 2025 12:00 PM. If unauthorised,UOB,2025-12-30T12:05:00+08:00,dinner

Use /help to see all commands.`, msg.From.FirstName)
	h.sendMessage(ctx, msg.Chat.ID, text)
}

var helpText = func() format.Rendered {
	b := &format.Builder{}
	b.Bold("Commands").Line("").Line("")
	b.Bold("Transactions").Line("")
	b.Line("/recent - latest transactions")
	b.Line("/delete <id> - delete a transaction")
	b.Line("/summary [YYYY-MM] - totals by category")
	b.Line("/search <text> - find transactions").Line("")
	b.Bold("Categories").Line("")
	b.Line("/categories - list categories")
	b.Line("/addcategory <name> [name...] - add categories")
	b.Line("/delcategory <name> [name...] - delete categories")
	b.Line("/keywords - list keywords")
	b.Line("/addkeyword <category> <kw> [kw...] - add keywords")
	b.Line("/delkeyword <category> <kw> [kw...] - delete keywords").Line("")
	b.Italic("Separate multi-word keywords with commas: /addkeyword snack bubble tea, kopi")
	return b.Render()
}()

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	h.sendRendered(ctx, msg.Chat.ID, helpText, nil)
}
