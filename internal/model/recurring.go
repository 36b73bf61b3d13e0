package model

// Frequency is the unit a recurring transaction repeats in.
type Frequency string

// Frequency values.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringTransaction is a template for a repeating transaction. The core never
// materializes it into ledger transactions.
type RecurringTransaction struct {
	StartDate   Date            `json:"startDate"`
	NextDueDate Date            `json:"nextDueDate"`
	EndDate     *Date           `json:"endDate,omitempty"`
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	CategoryID  string          `json:"categoryId,omitempty"`
	GoalID      string          `json:"goalId,omitempty"`
	Frequency   Frequency       `json:"frequency"`
	Amount      float64         `json:"amount"`
	Interval    int             `json:"interval"`
	IsBill      bool            `json:"isBill,omitempty"`
}

// Step returns the occurrence following d.
func (r *RecurringTransaction) Step(d Date) Date {
	n := r.Interval
	if n < 1 {
		n = 1
	}
	switch r.Frequency {
	case FrequencyDaily:
		return d.AddDays(n)
	case FrequencyWeekly:
		return d.AddDays(7 * n)
	case FrequencyYearly:
		return Date{d.AddDate(n, 0, 0)}
	default:
		return d.AddMonths(n)
	}
}

// Occurrences lists the due dates in [from, to], starting at NextDueDate and
// stopping at EndDate. The result is capped at limit entries.
func (r *RecurringTransaction) Occurrences(from, to Date, limit int) []Date {
	next := r.NextDueDate
	if next.IsZero() {
		next = r.StartDate
	}
	if next.IsZero() {
		return nil
	}

	var out []Date
	for !next.After(to) && len(out) < limit {
		if r.EndDate != nil && next.After(*r.EndDate) {
			break
		}
		if !next.Before(from) {
			out = append(out, next)
		}
		next = r.Step(next)
	}
	return out
}
