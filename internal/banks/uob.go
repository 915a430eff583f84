package banks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hray3182/LedgerLine/internal/models"
)

const (
	BankUOB = "UOB"

	unknownDescription = "Unknown"
)

// rule is one UOB notification template. Named groups: method, amount,
// recipient, account, datetime, date.
type rule struct {
	pattern *regexp.Regexp
	sign    int64
	// method and description are used when the template has no such group.
	method      string
	description string
}

var uobRules = []rule{
	{
		pattern: regexp.MustCompile(`You made a (?P<method>.+?) of SGD (?P<amount>[\d\.,]+) to (?P<recipient>.+?) on your a/c ending (?P<account>\d+) at (?P<datetime>.+?)\. If unauthorised`),
		sign:    -1,
	},
	{
		pattern: regexp.MustCompile(`You made a (?P<method>.+?) of SGD (?P<amount>[\d\.,]+) to (?P<recipient>.+?) at (?P<datetime>.+?), on your a/c ending (?P<account>\d+)\. If unauthorised`),
		sign:    -1,
	},
	{
		pattern: regexp.MustCompile(`You have received SGD (?P<amount>[\d\.,]+) in your (?P<method>PayNow)-linked account ending (?P<account>\d+) on (?P<datetime>.+?)\.(?:\s|$)`),
		sign:    1,
	},
	{
		pattern: regexp.MustCompile(`A transaction of SGD (?P<amount>[\d\.,]+) was made with your UOB (?P<method>Card) ending (?P<account>\d+) on (?P<date>.+?) at (?P<recipient>.+?)\. If unauthorised`),
		sign:    -1,
	},
	{
		pattern:     regexp.MustCompile(`UOB Instalment Payment Plan: Your monthly instalment of SGD (?P<amount>[\d\.,]+) has been billed to your UOB card ending (?P<account>\d+) on (?P<date>\d{1,2}/\d{1,2}/\d{2,4})`),
		sign:        -1,
		method:      "Card",
		description: "UOB Instalment Payment Plan",
	},
}

type typeAlias struct {
	label string
	typ   models.TransactionType
}

// uobTypes is checked in order; the first label contained in the raw method
// wins when there is no exact match.
var uobTypes = []typeAlias{
	{"NETS QR payment", models.TransactionTypeNETSQR},
	{"one-time transfer", models.TransactionTypeTransfer},
	{"fund transfer", models.TransactionTypeTransfer},
	{"fund transfer(s)", models.TransactionTypeTransfer},
	{"PayNow transfer", models.TransactionTypePayNow},
	{"PayNow", models.TransactionTypePayNow},
	{"Card", models.TransactionTypeCard},
}

type UOBParser struct {
	rules []rule
	types []typeAlias
}

// NewUOB checks that every type the parser can emit is in allowed.
func NewUOB(allowed []models.TransactionType) (*UOBParser, error) {
	for _, a := range uobTypes {
		if !models.IsAllowedType(a.typ, allowed) {
			return nil, fmt.Errorf("unknown transaction type mapping: %q", a.typ)
		}
	}
	return &UOBParser{rules: uobRules, types: uobTypes}, nil
}

// MustNewUOB is like NewUOB but panics on a bad type table.
func MustNewUOB(allowed []models.TransactionType) *UOBParser {
	p, err := NewUOB(allowed)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *UOBParser) Bank() string {
	return BankUOB
}

func (p *UOBParser) RuleParse(text string) (*ParseResult, error) {
	for _, r := range p.rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		group := func(name string) string {
			if i := r.pattern.SubexpIndex(name); i >= 0 {
				return strings.TrimSpace(m[i])
			}
			return ""
		}

		amount, err := parseAmount(group("amount"), r.sign)
		if err != nil {
			return nil, err
		}

		method := group("method")
		if method == "" {
			method = r.method
		}
		description := group("recipient")
		if description == "" {
			description = r.description
		}
		if description == "" {
			description = unknownDescription
		}

		result := &ParseResult{
			Type:        p.normalizeType(method),
			Amount:      amount,
			Description: description,
			Account:     group("account"),
			Bank:        BankUOB,
		}

		raw := group("datetime")
		if raw == "" {
			raw = group("date")
		}
		if raw != "" {
			ts, dateOnly, err := parseBankTime(raw, singapore)
			switch {
			case err != nil:
				result.Status = StatusTimeParseWarning
			case dateOnly:
				result.Timestamp = &ts
				result.Status = StatusTimeParseWarning
			default:
				result.Timestamp = &ts
			}
		}
		return result, nil
	}
	return nil, ErrNoRuleMatched
}

// normalizeType maps a raw label to a standard type. Unknown labels are
// returned verbatim.
func (p *UOBParser) normalizeType(raw string) models.TransactionType {
	for _, a := range p.types {
		if a.label == raw {
			return a.typ
		}
	}
	for _, a := range p.types {
		if strings.Contains(raw, a.label) {
			return a.typ
		}
	}
	return models.TransactionType(raw)
}
