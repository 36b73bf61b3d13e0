package metrics

import (
	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/query"
)

// Report bundles every derived view of a ledger snapshot.
type Report struct {
	Categories []CategorySlice     `json:"categories"`
	Budgets    []BudgetRow         `json:"budgets"`
	Projects   []ProjectRow        `json:"projects"`
	Cashflow   []CashflowMonth     `json:"cashflow"`
	Filtered   []model.Transaction `json:"-"`
	Flow       FlowGraph           `json:"flow"`
	Stats      DashboardStats      `json:"stats"`
}

// Build computes the report for s using its own filters and view mode. The
// filtered view is resolved once and shared by every filter-dependent figure.
func Build(s ledger.State, today model.Date) Report {
	filtered := query.FilteredView(s.Transactions, s.Filters, s.ViewMode, today)
	return Report{
		Filtered:   filtered,
		Stats:      Dashboard(s.Transactions, s.Filters, s.ViewMode, today),
		Budgets:    BudgetOverview(filtered, s.Categories),
		Categories: CategoryBreakdown(filtered, s.Categories),
		Projects:   ProjectReport(filtered, s.Projects),
		Cashflow:   Cashflow(s.Transactions, today),
		Flow:       Flow(filtered, s.Categories),
	}
}
