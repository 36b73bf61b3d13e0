package metrics

import (
	"cmp"
	"slices"

	"github.com/Veraticus/klaro/internal/model"
)

// maxOccurrencesPerRule bounds the expansion of a single daily rule.
const maxOccurrencesPerRule = 366

// Bill is one upcoming occurrence of a recurring transaction.
type Bill struct {
	Due         model.Date            `json:"due"`
	RecurringID string                `json:"recurringId"`
	Description string                `json:"description"`
	Type        model.TransactionType `json:"type"`
	Amount      float64               `json:"amount"`
	DaysUntil   int                   `json:"daysUntil"`
}

// UpcomingBills lists occurrences of recurring transactions due between today and
// today+days, inclusive, soonest first. With billsOnly set, rules not flagged as
// bills are skipped.
func UpcomingBills(recurring []model.RecurringTransaction, today model.Date, days int, billsOnly bool) []Bill {
	if days < 0 {
		return []Bill{}
	}
	horizon := today.AddDays(days)

	out := []Bill{}
	for i := range recurring {
		rt := &recurring[i]
		if billsOnly && !rt.IsBill {
			continue
		}
		for _, due := range rt.Occurrences(today, horizon, maxOccurrencesPerRule) {
			out = append(out, Bill{
				Due:         due,
				RecurringID: rt.ID,
				Description: rt.Description,
				Type:        rt.Type,
				Amount:      rt.Amount,
				DaysUntil:   today.DaysUntil(due),
			})
		}
	}

	slices.SortStableFunc(out, func(a, b Bill) int {
		if c := a.Due.Compare(b.Due); c != 0 {
			return c
		}
		return cmp.Compare(a.Description, b.Description)
	})
	return out
}
