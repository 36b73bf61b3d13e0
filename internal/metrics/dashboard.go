package metrics

import (
	"math"

	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/query"
)

// DashboardStats are the totals of the filtered window with their change against
// the previous period of equal length, in percent.
type DashboardStats struct {
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	Saving       float64 `json:"saving"`
	Balance      float64 `json:"balance"`
	IncomeTrend  float64 `json:"incomeTrend"`
	ExpenseTrend float64 `json:"expenseTrend"`
	SavingTrend  float64 `json:"savingTrend"`
	BalanceTrend float64 `json:"balanceTrend"`
}

// Trend returns the change from previous to current in percent. A zero previous
// value yields 100 when current is positive and 0 otherwise.
func Trend(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// Dashboard computes the stats for the window selected by filters. The previous
// period is not the raw ledger over the prior window: it applies the same
// non-date filters and view mode as the current one, so a filtered view trends
// against its own history. When there is no previous period (all_time, open
// custom ranges) every trend is zero.
func Dashboard(all []model.Transaction, filters model.Filters, viewMode model.ViewMode, today model.Date) DashboardStats {
	current := Sum(query.FilteredView(all, filters, viewMode, today))
	stats := DashboardStats{
		Income:  current.Income,
		Expense: current.Expense,
		Saving:  current.Saving,
		Balance: current.Balance(),
	}

	window, ok := query.Previous(filters.DateRange, today)
	if !ok {
		return stats
	}
	previous := Sum(query.FilterWindow(all, filters, viewMode, window))

	stats.IncomeTrend = Trend(current.Income, previous.Income)
	stats.ExpenseTrend = Trend(current.Expense, previous.Expense)
	stats.SavingTrend = Trend(current.Saving, previous.Saving)
	stats.BalanceTrend = Trend(current.Balance(), previous.Balance())
	return stats
}
