package model

// CategoryType indicates whether a category is for income or expense.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// Category groups transactions. Only expense categories carry a budget.
type Category struct {
	Budget *float64     `json:"budget,omitempty"`
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Type   CategoryType `json:"type"`
}

// HasBudget reports whether the category takes part in budget views.
func (c *Category) HasBudget() bool {
	return c.Type == CategoryTypeExpense && c.Budget != nil && *c.Budget > 0
}
