//go:build integration

package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"

	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/metrics"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/paydown"
	"github.com/Veraticus/klaro/internal/testutil"
)

// TestFeatures runs the ledger feature files.
func TestFeatures(t *testing.T) {
	opts := godog.Options{
		Format:      "pretty",
		Paths:       []string{"features"},
		Output:      colors.Colored(os.Stdout),
		Concurrency: 1,
		Strict:      true,
		TestingT:    t,
	}
	if tags := os.Getenv("GODOG_TAGS"); tags != "" {
		opts.Tags = tags
	}

	suite := godog.TestSuite{
		Name:                "ledger",
		ScenarioInitializer: initializeScenario,
		Options:             &opts,
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// world is the per-scenario ledger under test.
type world struct {
	reducer *ledger.Reducer
	state   ledger.State
	today   model.Date
}

type worldKey struct{}

func worldFrom(ctx context.Context) *world {
	return ctx.Value(worldKey{}).(*world)
}

func initializeScenario(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return context.WithValue(ctx, worldKey{}, &world{}), nil
	})

	sc.Step(`^a sample ledger dated "([^"]*)"$`, aSampleLedger)
	sc.Step(`^an empty ledger dated "([^"]*)"$`, anEmptyLedger)
	sc.Step(`^an expense category "([^"]*)" with a budget of ([\d.]+)$`, anExpenseCategory)
	sc.Step(`^a debt "([^"]*)" of ([\d.]+) at ([\d.]+)% interest$`, aDebt)

	sc.Step(`^I record a saving of ([\d.]+) "([^"]*)" on "([^"]*)" for goal "([^"]*)"$`, iRecordASaving)
	sc.Step(`^I record an expense of ([\d.]+) "([^"]*)" on "([^"]*)" against "([^"]*)"$`, iRecordARepayment)
	sc.Step(`^I record an expense of ([\d.]+) "([^"]*)" on "([^"]*)" in category "([^"]*)"$`, iRecordAnExpense)
	sc.Step(`^I merge "([^"]*)" and "([^"]*)" into "([^"]*)"$`, iMerge)
	sc.Step(`^I delete the goal "([^"]*)"$`, iDeleteTheGoal)
	sc.Step(`^I delete the category "([^"]*)"$`, iDeleteTheCategory)
	sc.Step(`^I delete the transaction "([^"]*)"$`, iDeleteTheTransaction)

	sc.Step(`^the ledger should hold (\d+) transactions$`, theLedgerShouldHold)
	sc.Step(`^the transaction "([^"]*)" should amount to ([\d.]+)$`, theTransactionShouldAmountTo)
	sc.Step(`^the goal "([^"]*)" should have saved ([\d.]+)$`, theGoalShouldHaveSaved)
	sc.Step(`^no transaction should reference a goal$`, noTransactionShouldReferenceAGoal)
	sc.Step(`^(\d+) transactions should be uncategorized$`, transactionsShouldBeUncategorized)
	sc.Step(`^"([^"]*)" should have ([\d.]+) outstanding$`, shouldHaveOutstanding)
	sc.Step(`^the budget for "([^"]*)" should be ([\d.]+)% used$`, theBudgetShouldBeUsed)
	sc.Step(`^the "([^"]*)" plan with ([\d.]+) per month should take (\d+) months$`, thePlanShouldTake)
	sc.Step(`^the "([^"]*)" plan with ([\d.]+) per month should pay "([^"]*)" off first$`, thePlanShouldPayOffFirst)
}

func (w *world) dispatch(a ledger.Action) {
	w.state = w.reducer.Apply(w.state, a)
}

func (w *world) start(day string, state func(model.Date) ledger.State) error {
	d, err := model.ParseDate(day)
	if err != nil {
		return err
	}
	w.today = d
	w.reducer = testutil.NewReducer(d)
	w.state = state(d)
	return nil
}

func aSampleLedger(ctx context.Context, day string) error {
	return worldFrom(ctx).start(day, ledger.Seed)
}

func anEmptyLedger(ctx context.Context, day string) error {
	return worldFrom(ctx).start(day, func(d model.Date) ledger.State {
		return ledger.State{
			Filters:  model.DefaultFilters(d),
			Theme:    model.DefaultTheme,
			ViewMode: model.ViewAll,
		}
	})
}

func anExpenseCategory(ctx context.Context, name string, budget float64) error {
	worldFrom(ctx).dispatch(ledger.AddCategory{Category: model.Category{
		Name:   name,
		Type:   model.CategoryTypeExpense,
		Budget: &budget,
	}})
	return nil
}

func aDebt(ctx context.Context, name string, amount, rate float64) error {
	w := worldFrom(ctx)
	w.dispatch(ledger.AddLiability{Liability: model.Liability{
		Name:          name,
		Type:          model.LiabilityTypeDebt,
		InitialAmount: amount,
		InterestRate:  rate,
		StartDate:     w.today,
	}})
	return nil
}

func (w *world) record(tx model.Transaction, day string) error {
	d, err := model.ParseDate(day)
	if err != nil {
		return err
	}
	tx.Date = d
	before := len(w.state.Transactions)
	w.dispatch(ledger.AddTransaction{Transaction: tx})
	if len(w.state.Transactions) != before+1 {
		return fmt.Errorf("transaction %q was rejected", tx.Description)
	}
	return nil
}

func iRecordASaving(ctx context.Context, amount float64, desc, day, goal string) error {
	w := worldFrom(ctx)
	g, err := w.goal(goal)
	if err != nil {
		return err
	}
	return w.record(model.Transaction{Type: model.TypeSaving, Amount: amount, Description: desc, GoalID: g.ID}, day)
}

func iRecordARepayment(ctx context.Context, amount float64, desc, day, liability string) error {
	w := worldFrom(ctx)
	l, err := w.liability(liability)
	if err != nil {
		return err
	}
	return w.record(model.Transaction{Type: model.TypeExpense, Amount: amount, Description: desc, LiabilityID: l.ID}, day)
}

func iRecordAnExpense(ctx context.Context, amount float64, desc, day, category string) error {
	w := worldFrom(ctx)
	c, err := w.category(category)
	if err != nil {
		return err
	}
	return w.record(model.Transaction{Type: model.TypeExpense, Amount: amount, Description: desc, CategoryID: c.ID}, day)
}

func iMerge(ctx context.Context, first, second, description string) error {
	w := worldFrom(ctx)
	a, err := w.transaction(first)
	if err != nil {
		return err
	}
	b, err := w.transaction(second)
	if err != nil {
		return err
	}
	w.dispatch(ledger.MergeTransactions{Description: description, IDs: []string{a.ID, b.ID}})
	return nil
}

func iDeleteTheGoal(ctx context.Context, name string) error {
	w := worldFrom(ctx)
	g, err := w.goal(name)
	if err != nil {
		return err
	}
	w.dispatch(ledger.DeleteGoal{ID: g.ID})
	return nil
}

func iDeleteTheCategory(ctx context.Context, name string) error {
	w := worldFrom(ctx)
	c, err := w.category(name)
	if err != nil {
		return err
	}
	w.dispatch(ledger.DeleteCategory{ID: c.ID})
	return nil
}

func iDeleteTheTransaction(ctx context.Context, desc string) error {
	w := worldFrom(ctx)
	t, err := w.transaction(desc)
	if err != nil {
		return err
	}
	w.dispatch(ledger.DeleteTransactions{IDs: []string{t.ID}})
	return nil
}

func theLedgerShouldHold(ctx context.Context, n int) error {
	if got := len(worldFrom(ctx).state.Transactions); got != n {
		return fmt.Errorf("expected %d transactions, got %d", n, got)
	}
	return nil
}

func theTransactionShouldAmountTo(ctx context.Context, desc string, amount float64) error {
	t, err := worldFrom(ctx).transaction(desc)
	if err != nil {
		return err
	}
	return near("amount of "+desc, t.Amount, amount)
}

func theGoalShouldHaveSaved(ctx context.Context, name string, amount float64) error {
	w := worldFrom(ctx)
	g, err := w.goal(name)
	if err != nil {
		return err
	}
	status, _ := w.state.GoalStatus(g.ID)
	return near("saved towards "+name, status.CurrentAmount, amount)
}

func noTransactionShouldReferenceAGoal(ctx context.Context) error {
	for _, t := range worldFrom(ctx).state.Transactions {
		if t.GoalID != "" {
			return fmt.Errorf("transaction %q still references goal %s", t.Description, t.GoalID)
		}
	}
	return nil
}

func transactionsShouldBeUncategorized(ctx context.Context, n int) error {
	got := 0
	for _, t := range worldFrom(ctx).state.Transactions {
		if t.CategoryID == "" {
			got++
		}
	}
	if got != n {
		return fmt.Errorf("expected %d uncategorized transactions, got %d", n, got)
	}
	return nil
}

func shouldHaveOutstanding(ctx context.Context, name string, amount float64) error {
	w := worldFrom(ctx)
	l, err := w.liability(name)
	if err != nil {
		return err
	}
	status, _ := w.state.LiabilityStatus(l.ID)
	return near("outstanding on "+name, status.Outstanding(), amount)
}

func theBudgetShouldBeUsed(ctx context.Context, name string, used float64) error {
	w := worldFrom(ctx)
	for _, row := range metrics.Build(w.state, w.today).Budgets {
		if row.Name == name {
			return near("budget used for "+name, row.Percentage, used)
		}
	}
	return fmt.Errorf("no budget row for %q", name)
}

func (w *world) plan(strategy string, extra float64) (*paydown.Plan, error) {
	p := paydown.Simulate(w.state.LiabilityStatuses(), paydown.Strategy(strategy), extra)
	if p == nil {
		return nil, errors.New("no open debts")
	}
	return p, nil
}

func thePlanShouldTake(ctx context.Context, strategy string, extra float64, months int) error {
	p, err := worldFrom(ctx).plan(strategy, extra)
	if err != nil {
		return err
	}
	if p.Summary.TotalMonths != months {
		return fmt.Errorf("expected %d months, got %d", months, p.Summary.TotalMonths)
	}
	return nil
}

func thePlanShouldPayOffFirst(ctx context.Context, strategy string, extra float64, name string) error {
	p, err := worldFrom(ctx).plan(strategy, extra)
	if err != nil {
		return err
	}
	for _, m := range p.Months {
		for _, pay := range m.Payments {
			if pay.RemainingBalance <= 0 {
				if pay.Name != name {
					return fmt.Errorf("expected %q to be paid off first, got %q in month %d", name, pay.Name, m.Month)
				}
				return nil
			}
		}
	}
	return errors.New("no debt was paid off")
}

func (w *world) transaction(desc string) (model.Transaction, error) {
	for _, t := range w.state.Transactions {
		if t.Description == desc {
			return t, nil
		}
	}
	return model.Transaction{}, fmt.Errorf("no transaction %q", desc)
}

func (w *world) category(name string) (model.Category, error) {
	for _, c := range w.state.Categories {
		if c.Name == name {
			return c, nil
		}
	}
	return model.Category{}, fmt.Errorf("no category %q", name)
}

func (w *world) goal(name string) (model.Goal, error) {
	for _, g := range w.state.Goals {
		if g.Name == name {
			return g, nil
		}
	}
	return model.Goal{}, fmt.Errorf("no goal %q", name)
}

func (w *world) liability(name string) (model.Liability, error) {
	for _, l := range w.state.Liabilities {
		if l.Name == name {
			return l, nil
		}
	}
	return model.Liability{}, fmt.Errorf("no liability %q", name)
}

func near(what string, got, want float64) error {
	if math.Abs(got-want) > 1e-6 {
		return fmt.Errorf("%s: expected %v, got %v", what, want, got)
	}
	return nil
}
