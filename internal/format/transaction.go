package format

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/parser"
)

// Amount renders a signed amount with two decimals and an explicit sign.
func Amount(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

func account(tx *models.Transaction) string {
	if tx.Account == "" {
		return tx.Bank
	}
	return fmt.Sprintf("%s ····%s", tx.Bank, tx.Account)
}

func writeTransaction(b *Builder, tx *models.Transaction) {
	icon := "💰"
	if tx.IsOutflow() {
		icon = "💸"
	}
	b.Text(icon + " ").Bold(Amount(tx.Amount)).Line(fmt.Sprintf(" · %s", tx.Type))
	b.Line("📝 " + tx.Description)
	b.Line("🏷 " + tx.Category)
	b.Line("🏦 " + account(tx))
	b.Line("🕒 " + tx.Time().Format("2006-01-02 15:04 (-07:00)"))
	if tx.Status != "" {
		b.Text("⚠️ ").Italic(tx.Status).Line("")
	}
}

// Transaction renders a saved record.
func Transaction(tx *models.Transaction) Rendered {
	b := &Builder{}
	b.Line("✅ Transaction saved").Line("")
	writeTransaction(b, tx)
	b.Text("🆔 ").Code(tx.ID)
	return b.Render()
}

// TransactionList renders records newest first as given.
func TransactionList(txs []*models.Transaction) Rendered {
	b := &Builder{}
	if len(txs) == 0 {
		b.Text("No transactions yet.")
		return b.Render()
	}
	b.Bold("Recent transactions").Line("").Line("")
	for _, tx := range txs {
		writeTransaction(b, tx)
		b.Text("🆔 ").Code(tx.ID).Line("").Line("")
	}
	return b.Render()
}

// ParseFailure explains why a message could not be parsed and quotes the
// bank text back in a collapsed block.
func ParseFailure(err error) Rendered {
	b := &Builder{}
	b.Bold("❌ Could not parse this message").Line("")

	var pe *parser.ParseError
	if errors.As(err, &pe) {
		b.Line(fmt.Sprintf("Stage: %s", pe.Stage))
		b.Line("Reason: " + unwrapReason(pe.Err))
		if pe.Input != "" {
			b.Line("").Quote(pe.Input)
		}
		return b.Render()
	}
	b.Text("Reason: " + err.Error())
	return b.Render()
}

func unwrapReason(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}

// Summary renders per-category totals, largest spend first.
func Summary(title string, totals map[string]decimal.Decimal) Rendered {
	b := &Builder{}
	b.Bold(title).Line("")
	if len(totals) == 0 {
		b.Text("No transactions in this period.")
		return b.Render()
	}

	categories := make([]string, 0, len(totals))
	for c := range totals {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		ti, tj := totals[categories[i]], totals[categories[j]]
		if !ti.Equal(tj) {
			return ti.LessThan(tj)
		}
		return categories[i] < categories[j]
	})

	net := decimal.Zero
	for _, c := range categories {
		net = net.Add(totals[c])
		b.Line(fmt.Sprintf("• %s: %s", c, Amount(totals[c])))
	}
	b.Line("").Text("Net: ").Bold(Amount(net))
	return b.Render()
}

// List renders a titled bullet list, e.g. categories.
func List(title string, items []string) Rendered {
	b := &Builder{}
	b.Bold(title).Line("")
	if len(items) == 0 {
		b.Text("(none)")
	}
	b.Text(strings.Join(prefixAll("• ", items), "\n"))
	return b.Render()
}

func prefixAll(prefix string, items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = prefix + s
	}
	return out
}

// Keywords renders each category with its keywords, in map order.
func Keywords(m models.KeywordMap) Rendered {
	b := &Builder{}
	b.Bold("Keywords").Line("")
	for _, e := range m {
		b.Text("• ").Bold(e.Category).Line(": " + strings.Join(e.Keywords, ", "))
	}
	return b.Render()
}
