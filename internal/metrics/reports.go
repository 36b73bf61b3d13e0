package metrics

import (
	"cmp"
	"slices"

	"github.com/Veraticus/klaro/internal/model"
)

// Uncategorized is the bucket for expenses without a known category.
const Uncategorized = "Uncategorized"

// BudgetRow is the utilization of one budgeted expense category.
type BudgetRow struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Spent      float64 `json:"spent"`
	Budget     float64 `json:"budget"`
	Percentage float64 `json:"percentage"`
}

// Over reports whether spending exceeds the budget.
func (b BudgetRow) Over() bool {
	return b.Spent > b.Budget
}

// BudgetOverview returns one row per expense category with a positive budget,
// in category order. Percentage may exceed 100.
func BudgetOverview(filtered []model.Transaction, categories []model.Category) []BudgetRow {
	spent := newAccumulator()
	for i := range filtered {
		if t := &filtered[i]; t.Type == model.TypeExpense && t.CategoryID != "" {
			spent.add(t.CategoryID, t.Amount)
		}
	}

	rows := make([]BudgetRow, 0, len(categories))
	for i := range categories {
		c := &categories[i]
		if !c.HasBudget() {
			continue
		}
		row := BudgetRow{ID: c.ID, Name: c.Name, Budget: *c.Budget, Spent: spent.get(c.ID)}
		row.Percentage = row.Spent / row.Budget * 100
		rows = append(rows, row)
	}
	return rows
}

// CategorySlice is one segment of the expense breakdown.
type CategorySlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CategoryBreakdown sums filtered expenses by category name, largest first.
// Expenses without a category or with an unknown one land in Uncategorized.
func CategoryBreakdown(filtered []model.Transaction, categories []model.Category) []CategorySlice {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	acc := newAccumulator()
	for i := range filtered {
		t := &filtered[i]
		if t.Type != model.TypeExpense {
			continue
		}
		name, ok := names[t.CategoryID]
		if !ok {
			name = Uncategorized
		}
		acc.add(name, t.Amount)
	}

	out := make([]CategorySlice, 0, len(acc.order))
	for _, name := range acc.order {
		out = append(out, CategorySlice{Name: name, Value: acc.get(name)})
	}
	slices.SortStableFunc(out, func(a, b CategorySlice) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// ProjectRow is the profit and loss of one project.
type ProjectRow struct {
	IncomeBudget  *float64 `json:"incomeBudget,omitempty"`
	ExpenseBudget *float64 `json:"expenseBudget,omitempty"`
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Tag           string   `json:"tag"`
	Income        float64  `json:"income"`
	Expense       float64  `json:"expense"`
	Profit        float64  `json:"profit"`
}

// ProjectReport partitions the filtered transactions carrying each project's tag
// into income and expense. Tag matching is exact.
func ProjectReport(filtered []model.Transaction, projects []model.Project) []ProjectRow {
	rows := make([]ProjectRow, 0, len(projects))
	for _, p := range projects {
		var tagged []model.Transaction
		for i := range filtered {
			if filtered[i].HasTag(p.Tag) {
				tagged = append(tagged, filtered[i])
			}
		}
		totals := Sum(tagged)
		rows = append(rows, ProjectRow{
			ID:            p.ID,
			Name:          p.Name,
			Tag:           p.Tag,
			Income:        totals.Income,
			Expense:       totals.Expense,
			Profit:        totals.Balance(),
			IncomeBudget:  p.IncomeBudget,
			ExpenseBudget: p.ExpenseBudget,
		})
	}
	return rows
}

// CashflowMonth is the income and expense of one calendar month.
type CashflowMonth struct {
	Month   string  `json:"month"` // YYYY-MM
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CashflowMonths is the length of the cashflow series.
const CashflowMonths = 12

// Cashflow returns the trailing twelve calendar months ending with today's month,
// oldest first. It ignores filters and always reads the full collection.
func Cashflow(all []model.Transaction, today model.Date) []CashflowMonth {
	start := today.StartOfMonth().AddMonths(-(CashflowMonths - 1))
	out := make([]CashflowMonth, CashflowMonths)
	index := make(map[string]int, CashflowMonths)
	for i := range out {
		key := start.AddMonths(i).MonthKey()
		out[i].Month = key
		index[key] = i
	}

	income, expense := newAccumulator(), newAccumulator()
	for i := range all {
		t := &all[i]
		key := t.Date.MonthKey()
		if _, ok := index[key]; !ok {
			continue
		}
		switch t.Type {
		case model.TypeIncome:
			income.add(key, t.Amount)
		case model.TypeExpense:
			expense.add(key, t.Amount)
		}
	}
	for i := range out {
		out[i].Income = income.get(out[i].Month)
		out[i].Expense = expense.get(out[i].Month)
	}
	return out
}
