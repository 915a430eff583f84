package parser

import (
	"time"

	"github.com/hray3182/LedgerLine/internal/models"
)

const StatusSameDayOverride = "time of day taken from client timestamp (same-day heuristic)"

// Reconciliation is the chosen transaction time.
type Reconciliation struct {
	Time time.Time
	// KeepWarning is false once the client time has resolved an ambiguous
	// bank time.
	KeepWarning bool
	Note        string
}

// Reconcile picks between the bank-side time and the client timestamp.
// flagged means the bank time has no reliable time of day.
//
// A clean bank time always wins. A flagged bank time on the same calendar day
// as the client time gives way to the client time; on any other day it is
// kept together with its warning.
func Reconcile(bankTime *time.Time, flagged bool, clientTimestamp string) Reconciliation {
	if bankTime != nil && !flagged {
		return Reconciliation{Time: *bankTime}
	}

	client, err := models.ParseTimestamp(clientTimestamp)
	if err != nil {
		// Keep whatever the bank gave us, possibly nothing.
		rec := Reconciliation{KeepWarning: flagged}
		if bankTime != nil {
			rec.Time = *bankTime
		}
		return rec
	}

	if bankTime == nil {
		return Reconciliation{Time: client, KeepWarning: flagged}
	}

	if sameDate(*bankTime, client) {
		return Reconciliation{Time: client, Note: StatusSameDayOverride}
	}
	return Reconciliation{Time: *bankTime, KeepWarning: true}
}

// sameDate compares calendar dates, each in its own zone.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
