package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
)

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// FixedClock returns a clock that always reports the given day at noon UTC.
func FixedClock(day model.Date) func() time.Time {
	return func() time.Time {
		return day.Add(12 * time.Hour)
	}
}

// NewReducer returns a reducer with sequential ids and a fixed clock.
func NewReducer(today model.Date) *ledger.Reducer {
	return ledger.NewReducer(
		ledger.WithIDGenerator(SequentialIDs("id")),
		ledger.WithClock(FixedClock(today)),
	)
}

// StateBuilder assembles ledger states for tests.
//
// Example:
//
//	s := testutil.NewStateBuilder(t).
//		WithExpenseCategory("c1", "Housing", 1000).
//		WithTransaction("t1", model.TypeExpense, 500, "2024-03-01").
//		Build()
type StateBuilder struct {
	t     *testing.T
	state ledger.State
}

// NewStateBuilder starts from an empty ledger with default filters.
func NewStateBuilder(t *testing.T) *StateBuilder {
	t.Helper()
	return &StateBuilder{
		t: t,
		state: ledger.State{
			Theme:    model.DefaultTheme,
			ViewMode: model.ViewAll,
			Filters:  model.DefaultFilters(model.NewDate(2024, time.March, 15)),
		},
	}
}

// WithTransaction adds a transaction dated YYYY-MM-DD.
func (b *StateBuilder) WithTransaction(id string, typ model.TransactionType, amount float64, date string, opts ...func(*model.Transaction)) *StateBuilder {
	b.t.Helper()
	tx := model.Transaction{
		ID:          id,
		Type:        typ,
		Amount:      amount,
		Date:        b.date(date),
		Description: id,
	}
	for _, opt := range opts {
		opt(&tx)
	}
	b.state.Transactions = append(b.state.Transactions, tx)
	return b
}

// WithExpenseCategory adds an expense category; a zero budget leaves it unbudgeted.
func (b *StateBuilder) WithExpenseCategory(id, name string, budget float64) *StateBuilder {
	c := model.Category{ID: id, Name: name, Type: model.CategoryTypeExpense}
	if budget > 0 {
		c.Budget = &budget
	}
	b.state.Categories = append(b.state.Categories, c)
	return b
}

// WithIncomeCategory adds an income category.
func (b *StateBuilder) WithIncomeCategory(id, name string) *StateBuilder {
	b.state.Categories = append(b.state.Categories, model.Category{ID: id, Name: name, Type: model.CategoryTypeIncome})
	return b
}

// WithGoal adds a savings goal.
func (b *StateBuilder) WithGoal(id string, target float64) *StateBuilder {
	b.state.Goals = append(b.state.Goals, model.Goal{ID: id, Name: id, Type: model.GoalTypeGoal, TargetAmount: target})
	return b
}

// WithLiability adds a debt or loan.
func (b *StateBuilder) WithLiability(id string, typ model.LiabilityType, initial, rate float64) *StateBuilder {
	b.state.Liabilities = append(b.state.Liabilities, model.Liability{
		ID:            id,
		Name:          id,
		Type:          typ,
		InitialAmount: initial,
		InterestRate:  rate,
		StartDate:     model.NewDate(2023, time.January, 1),
	})
	return b
}

// WithProject adds a project tracked by tag.
func (b *StateBuilder) WithProject(id, tag string) *StateBuilder {
	b.state.Projects = append(b.state.Projects, model.Project{ID: id, Name: id, Tag: tag})
	return b
}

// WithRecurring adds a recurring transaction.
func (b *StateBuilder) WithRecurring(rt model.RecurringTransaction) *StateBuilder {
	b.state.RecurringTransactions = append(b.state.RecurringTransactions, rt)
	return b
}

// Build returns the assembled state.
func (b *StateBuilder) Build() ledger.State {
	return b.state
}

func (b *StateBuilder) date(s string) model.Date {
	b.t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		b.t.Fatalf("invalid fixture date %q: %v", s, err)
	}
	return d
}

// Category sets the category id of a fixture transaction.
func Category(id string) func(*model.Transaction) {
	return func(t *model.Transaction) { t.CategoryID = id }
}

// Goal sets the goal id of a fixture transaction.
func Goal(id string) func(*model.Transaction) {
	return func(t *model.Transaction) { t.GoalID = id }
}

// Liability sets the liability id of a fixture transaction.
func Liability(id string) func(*model.Transaction) {
	return func(t *model.Transaction) { t.LiabilityID = id }
}

// Tags sets the tags of a fixture transaction.
func Tags(tags ...string) func(*model.Transaction) {
	return func(t *model.Transaction) { t.Tags = tags }
}

// Description sets the description of a fixture transaction.
func Description(d string) func(*model.Transaction) {
	return func(t *model.Transaction) { t.Description = d }
}
