package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/testutil"
)

var today = model.NewDate(2024, time.March, 15)

func tx(typ model.TransactionType, amount float64, date string, opts ...func(*model.Transaction)) model.Transaction {
	t := model.Transaction{Type: typ, Amount: amount, Date: model.MustParseDate(date), Description: string(typ)}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func goalAmount(t *testing.T, s ledger.State, id string) float64 {
	t.Helper()
	g, ok := s.GoalStatus(id)
	require.True(t, ok, "goal %s missing", id)
	return g.CurrentAmount
}

func paidAmount(t *testing.T, s ledger.State, id string) float64 {
	t.Helper()
	l, ok := s.LiabilityStatus(id)
	require.True(t, ok, "liability %s missing", id)
	return l.PaidAmount
}

// expectedTotals recomputes goal and liability totals by brute force.
func expectedTotals(s ledger.State) (map[string]float64, map[string]float64) {
	goals := map[string]float64{}
	liabs := map[string]float64{}
	for _, g := range s.Goals {
		for _, t := range s.Transactions {
			if t.Type == model.TypeSaving && t.GoalID == g.ID {
				goals[g.ID] += t.Amount
			}
		}
	}
	for _, l := range s.Liabilities {
		for _, t := range s.Transactions {
			if t.LiabilityID != l.ID {
				continue
			}
			if (l.Type == model.LiabilityTypeDebt && t.Type == model.TypeExpense) ||
				(l.Type == model.LiabilityTypeLoan && t.Type == model.TypeIncome) {
				liabs[l.ID] += t.Amount
			}
		}
	}
	return goals, liabs
}

func TestApply_AddTransactionAssignsFreshID(t *testing.T) {
	r := testutil.NewReducer(today)
	s := testutil.NewStateBuilder(t).Build()
	s = r.Apply(s, ledger.OpenDialog{Name: "transaction"})

	payload := tx(model.TypeExpense, 12.5, "2024-03-10")
	payload.ID = "caller-chosen"

	got := r.Apply(s, ledger.AddTransaction{Transaction: payload})

	require.Len(t, got.Transactions, 1)
	assert.Equal(t, "id-1", got.Transactions[0].ID)
	assert.Equal(t, 12.5, got.Transactions[0].Amount)
	assert.Empty(t, got.ActiveDialog)
	assert.Empty(t, s.Transactions, "input state must not change")
}

func TestApply_MalformedActionsAreNoOps(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithExpenseCategory("c1", "Housing", 1000).
		WithGoal("g1", 1000).
		WithLiability("d1", model.LiabilityTypeDebt, 1000, 5).
		WithTransaction("t1", model.TypeExpense, 10, "2024-03-01").
		WithTransaction("t2", model.TypeExpense, 20, "2024-03-02").
		WithRecurring(model.RecurringTransaction{
			ID: "r1", Type: model.TypeExpense, Amount: 5, Frequency: model.FrequencyMonthly,
			Interval: 1, StartDate: model.MustParseDate("2024-01-01"), NextDueDate: model.MustParseDate("2024-04-01"),
		}).
		Build()

	tests := []struct {
		action ledger.Action
		name   string
	}{
		{name: "nil action", action: nil},
		{name: "negative amount", action: ledger.AddTransaction{Transaction: tx(model.TypeExpense, -5, "2024-03-01")}},
		{name: "unknown transaction type", action: ledger.AddTransaction{Transaction: tx("transfer", 5, "2024-03-01")}},
		{name: "missing date", action: ledger.AddTransaction{Transaction: model.Transaction{Type: model.TypeIncome, Amount: 1}}},
		{name: "update unknown transaction", action: ledger.UpdateTransaction{Transaction: model.Transaction{ID: "nope", Type: model.TypeIncome, Amount: 1, Date: today}}},
		{name: "delete unknown transaction", action: ledger.DeleteTransactions{IDs: []string{"nope"}}},
		{name: "merge single id", action: ledger.MergeTransactions{IDs: []string{"t1"}, Description: "x"}},
		{name: "merge with unknown partner", action: ledger.MergeTransactions{IDs: []string{"t1", "nope"}, Description: "x"}},
		{name: "merge same id twice", action: ledger.MergeTransactions{IDs: []string{"t1", "t1"}, Description: "x"}},
		{name: "categorize unknown", action: ledger.CategorizeTransactions{IDs: []string{"nope"}, CategoryID: "c1"}},
		{name: "category without name", action: ledger.AddCategory{Category: model.Category{Type: model.CategoryTypeExpense}}},
		{name: "delete unknown category", action: ledger.DeleteCategory{ID: "nope"}},
		{name: "goal with zero target", action: ledger.AddGoal{Goal: model.Goal{Name: "x"}}},
		{name: "goal with unknown type", action: ledger.AddGoal{Goal: model.Goal{Name: "x", TargetAmount: 1, Type: "wish"}}},
		{name: "liability with negative rate", action: ledger.AddLiability{Liability: model.Liability{Type: model.LiabilityTypeDebt, InterestRate: -1}}},
		{name: "liability with negative amount", action: ledger.AddLiability{Liability: model.Liability{Type: model.LiabilityTypeDebt, InitialAmount: -1}}},
		{name: "project without name or tag", action: ledger.AddProject{Project: model.Project{Name: "  "}}},
		{name: "recurring with zero interval", action: ledger.AddRecurring{Recurring: model.RecurringTransaction{
			Type: model.TypeExpense, Frequency: model.FrequencyMonthly, StartDate: today,
		}}},
		{name: "recurring with unknown frequency", action: ledger.AddRecurring{Recurring: model.RecurringTransaction{
			Type: model.TypeExpense, Frequency: "hourly", Interval: 1, StartDate: today,
		}}},
		{name: "update unknown recurring", action: ledger.UpdateRecurring{Recurring: model.RecurringTransaction{
			ID: "nope", Type: model.TypeExpense, Frequency: model.FrequencyMonthly, Interval: 1, StartDate: today,
		}}},
		{name: "reorder with foreign id", action: ledger.ReorderCategories{Categories: []model.Category{{ID: "zz"}}}},
		{name: "unknown view mode", action: ledger.SetViewMode{Mode: "team"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testutil.NewReducer(today).Apply(s, tt.action)
			assert.Equal(t, s, got)
		})
	}
}

func TestApply_DerivedTotalsFollowEveryMutation(t *testing.T) {
	r := testutil.NewReducer(today)
	s := testutil.NewStateBuilder(t).
		WithGoal("g1", 1000).
		WithGoal("g2", 500).
		WithLiability("d1", model.LiabilityTypeDebt, 1000, 5).
		WithLiability("l1", model.LiabilityTypeLoan, 300, 0).
		Build()

	steps := []ledger.Action{
		ledger.AddTransaction{Transaction: tx(model.TypeSaving, 100, "2024-03-01", testutil.Goal("g1"))},
		ledger.AddTransaction{Transaction: tx(model.TypeSaving, 50, "2024-03-02", testutil.Goal("g2"))},
		ledger.AddTransaction{Transaction: tx(model.TypeExpense, 40, "2024-03-02", testutil.Goal("g1"))},
		ledger.AddTransaction{Transaction: tx(model.TypeExpense, 200, "2024-03-03", testutil.Liability("d1"))},
		ledger.AddTransaction{Transaction: tx(model.TypeIncome, 70, "2024-03-03", testutil.Liability("d1"))},
		ledger.AddTransaction{Transaction: tx(model.TypeIncome, 80, "2024-03-04", testutil.Liability("l1"))},
		ledger.UpdateTransaction{Transaction: model.Transaction{
			ID: "id-1", Type: model.TypeSaving, Amount: 150, GoalID: "g1", Date: model.MustParseDate("2024-03-01"),
		}},
		ledger.MergeTransactions{IDs: []string{"id-2", "id-3"}, Description: "merged"},
		ledger.DeleteTransactions{IDs: []string{"id-4"}},
		ledger.UpdateGoal{Goal: model.Goal{ID: "g1", Name: "renamed", Type: model.GoalTypeGoal, TargetAmount: 2000}},
		ledger.UpdateLiability{Liability: model.Liability{ID: "l1", Name: "l1", Type: model.LiabilityTypeLoan, InitialAmount: 400}},
	}

	for i, a := range steps {
		s = r.Apply(s, a)
		wantGoals, wantLiabs := expectedTotals(s)
		for _, g := range s.GoalStatuses() {
			assert.InDelta(t, wantGoals[g.ID], g.CurrentAmount, 1e-9, "step %d (%s) goal %s", i, a.Kind(), g.ID)
		}
		for _, l := range s.LiabilityStatuses() {
			assert.InDelta(t, wantLiabs[l.ID], l.PaidAmount, 1e-9, "step %d (%s) liability %s", i, a.Kind(), l.ID)
		}
	}

	assert.InDelta(t, 150.0, goalAmount(t, s, "g1"), 1e-9)
	assert.InDelta(t, 90.0, goalAmount(t, s, "g2"), 1e-9, "merged record inherits the saving type and goal of its earliest member")
	assert.InDelta(t, 0.0, paidAmount(t, s, "d1"), 1e-9, "income does not repay a debt")
	assert.InDelta(t, 80.0, paidAmount(t, s, "l1"), 1e-9)

	l1, _ := s.LiabilityStatus("l1")
	assert.InDelta(t, 320.0, l1.Outstanding(), 1e-9)
}

func TestApply_OverpaymentLeavesNegativeOutstanding(t *testing.T) {
	r := testutil.NewReducer(today)
	s := testutil.NewStateBuilder(t).
		WithLiability("d1", model.LiabilityTypeDebt, 100, 0).
		Build()

	s = r.Apply(s, ledger.AddTransaction{Transaction: tx(model.TypeExpense, 150, "2024-03-01", testutil.Liability("d1"))})

	l, ok := s.LiabilityStatus("d1")
	require.True(t, ok)
	assert.InDelta(t, -50.0, l.Outstanding(), 1e-9)
}

func TestApply_MergeTransactions(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithTransaction("a", model.TypeExpense, 10, "2024-03-05", testutil.Tags("x", "y"), testutil.Category("c-late")).
		WithTransaction("b", model.TypeIncome, 15.5, "2024-03-01", testutil.Tags("y", "z"), testutil.Category("c-early"), testutil.Liability("l1")).
		WithTransaction("c", model.TypeExpense, 4.5, "2024-03-09").
		WithTransaction("keep", model.TypeExpense, 1, "2024-03-02").
		Build()
	s.Selection = []string{"a", "b", "c"}

	got := testutil.NewReducer(today).Apply(s, ledger.MergeTransactions{IDs: []string{"a", "b", "c"}, Description: "Combined"})

	require.Len(t, got.Transactions, len(s.Transactions)-2)
	assert.Equal(t, "keep", got.Transactions[0].ID)

	merged := got.Transactions[1]
	assert.Equal(t, "id-1", merged.ID)
	assert.Equal(t, "Combined", merged.Description)
	assert.InDelta(t, 30.0, merged.Amount, 1e-9)
	assert.Equal(t, "2024-03-09", merged.Date.String())
	assert.Equal(t, []string{"x", "y", "z"}, merged.Tags)
	assert.Equal(t, model.TypeIncome, merged.Type, "earliest-dated member wins")
	assert.Equal(t, "c-early", merged.CategoryID)
	assert.Equal(t, "l1", merged.LiabilityID)
	assert.Empty(t, got.Selection)
}

func TestApply_MergeTieBreakKeepsCollectionOrder(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithTransaction("first", model.TypeSaving, 1, "2024-03-01", testutil.Goal("g1")).
		WithTransaction("second", model.TypeExpense, 2, "2024-03-01", testutil.Category("c1")).
		Build()

	got := testutil.NewReducer(today).Apply(s, ledger.MergeTransactions{IDs: []string{"second", "first"}})

	require.Len(t, got.Transactions, 1)
	assert.Equal(t, model.TypeSaving, got.Transactions[0].Type)
	assert.Equal(t, "g1", got.Transactions[0].GoalID)
	assert.Equal(t, "first", got.Transactions[0].Description, "empty description falls back to the primary record")
}

func TestApply_DeleteTransactionsClearsSelection(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithTransaction("t1", model.TypeExpense, 1, "2024-03-01").
		WithTransaction("t2", model.TypeExpense, 2, "2024-03-01").
		Build()
	s.Selection = []string{"t1"}

	got := ledger.Apply(s, ledger.DeleteTransactions{IDs: []string{"t1"}})

	require.Len(t, got.Transactions, 1)
	assert.Equal(t, "t2", got.Transactions[0].ID)
	assert.Nil(t, got.Selection)
	assert.Len(t, s.Transactions, 2)
}

func TestApply_CategorizeTransactions(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithExpenseCategory("c1", "Food", 0).
		WithTransaction("t1", model.TypeExpense, 1, "2024-03-01").
		WithTransaction("t2", model.TypeExpense, 2, "2024-03-01").
		WithTransaction("t3", model.TypeExpense, 3, "2024-03-01").
		Build()

	got := ledger.Apply(s, ledger.CategorizeTransactions{IDs: []string{"t1", "t3"}, CategoryID: "c1"})

	assert.Equal(t, "c1", got.Transactions[0].CategoryID)
	assert.Empty(t, got.Transactions[1].CategoryID)
	assert.Equal(t, "c1", got.Transactions[2].CategoryID)
	assert.Empty(t, s.Transactions[0].CategoryID, "input state must not change")
}

func TestApply_DeleteCategoryUnsetsReferences(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithExpenseCategory("c1", "Food", 300).
		WithExpenseCategory("c2", "Rent", 0).
		WithTransaction("t1", model.TypeExpense, 1, "2024-03-01", testutil.Category("c1")).
		WithTransaction("t2", model.TypeExpense, 2, "2024-03-02", testutil.Category("c1")).
		WithTransaction("t3", model.TypeExpense, 3, "2024-03-03", testutil.Category("c1")).
		WithTransaction("t4", model.TypeExpense, 4, "2024-03-04", testutil.Category("c2")).
		WithRecurring(model.RecurringTransaction{ID: "r1", CategoryID: "c1", Frequency: model.FrequencyMonthly, Interval: 1}).
		Build()

	got := ledger.Apply(s, ledger.DeleteCategory{ID: "c1"})

	require.Len(t, got.Categories, 1)
	assert.Equal(t, "c2", got.Categories[0].ID)
	require.Len(t, got.Transactions, 4)
	for _, txn := range got.Transactions[:3] {
		assert.Empty(t, txn.CategoryID, txn.ID)
	}
	assert.Equal(t, "c2", got.Transactions[3].CategoryID)
	assert.Empty(t, got.RecurringTransactions[0].CategoryID)
	assert.Equal(t, "c1", s.Transactions[0].CategoryID, "input state must not change")
}

func TestApply_DeleteGoalAndLiabilityUnsetReferences(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithGoal("g1", 100).
		WithLiability("d1", model.LiabilityTypeDebt, 100, 0).
		WithTransaction("t1", model.TypeSaving, 10, "2024-03-01", testutil.Goal("g1")).
		WithTransaction("t2", model.TypeExpense, 10, "2024-03-01", testutil.Liability("d1")).
		WithRecurring(model.RecurringTransaction{ID: "r1", GoalID: "g1", Frequency: model.FrequencyMonthly, Interval: 1}).
		Build()

	got := ledger.Apply(s, ledger.DeleteGoal{ID: "g1"})
	got = ledger.Apply(got, ledger.DeleteLiability{ID: "d1"})

	assert.Empty(t, got.Goals)
	assert.Empty(t, got.Liabilities)
	require.Len(t, got.Transactions, 2)
	assert.Empty(t, got.Transactions[0].GoalID)
	assert.Empty(t, got.Transactions[1].LiabilityID)
	assert.Empty(t, got.RecurringTransactions[0].GoalID)
}

func TestApply_CategoryHousekeeping(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithExpenseCategory("c1", "Food", 0).
		WithExpenseCategory("c2", "Unused", 0).
		WithIncomeCategory("c3", "Salary").
		WithTransaction("t1", model.TypeExpense, 1, "2024-03-01", testutil.Category("c1")).
		WithTransaction("t2", model.TypeIncome, 1, "2024-03-01", testutil.Category("c3")).
		Build()

	t.Run("delete unused", func(t *testing.T) {
		got := ledger.Apply(s, ledger.DeleteUnusedCategories{})
		require.Len(t, got.Categories, 2)
		assert.Equal(t, "c1", got.Categories[0].ID)
		assert.Equal(t, "c3", got.Categories[1].ID)
	})

	t.Run("reorder permutation", func(t *testing.T) {
		renamed := model.Category{ID: "c1", Name: "ignored", Type: model.CategoryTypeExpense}
		got := ledger.Apply(s, ledger.ReorderCategories{Categories: []model.Category{s.Categories[2], renamed, s.Categories[1]}})
		require.Len(t, got.Categories, 3)
		assert.Equal(t, []string{"c3", "c1", "c2"}, []string{got.Categories[0].ID, got.Categories[1].ID, got.Categories[2].ID})
		assert.Equal(t, "Food", got.Categories[1].Name, "only the order is taken from the payload")
	})

	t.Run("reorder with duplicate is rejected", func(t *testing.T) {
		got := ledger.Apply(s, ledger.ReorderCategories{Categories: []model.Category{s.Categories[0], s.Categories[0], s.Categories[1]}})
		assert.Equal(t, s.Categories, got.Categories)
	})

	t.Run("income category drops budget", func(t *testing.T) {
		budget := 50.0
		got := testutil.NewReducer(today).Apply(s, ledger.AddCategory{Category: model.Category{Name: "Bonus", Type: model.CategoryTypeIncome, Budget: &budget}})
		require.Len(t, got.Categories, 4)
		assert.Nil(t, got.Categories[3].Budget)
		assert.False(t, got.Categories[3].HasBudget())
	})
}

func TestApply_ProjectTagIsNormalizedOnCreate(t *testing.T) {
	r := testutil.NewReducer(today)
	s := testutil.NewStateBuilder(t).Build()

	s = r.Apply(s, ledger.AddProject{Project: model.Project{Name: "Project Alpha"}})
	s = r.Apply(s, ledger.AddProject{Project: model.Project{Name: "Beta", Tag: "Client Beta 2024"}})

	require.Len(t, s.Projects, 2)
	assert.Equal(t, "project-alpha", s.Projects[0].Tag)
	assert.Equal(t, "client-beta-2024", s.Projects[1].Tag)

	s = r.Apply(s, ledger.DeleteProject{ID: s.Projects[0].ID})
	require.Len(t, s.Projects, 1)
	assert.Equal(t, "Beta", s.Projects[0].Name)
}

func TestApply_RecurringNextDueDate(t *testing.T) {
	r := testutil.NewReducer(today)
	s := testutil.NewStateBuilder(t).Build()

	s = r.Apply(s, ledger.AddRecurring{Recurring: model.RecurringTransaction{
		Description: "Rent",
		Type:        model.TypeExpense,
		Amount:      850,
		Frequency:   model.FrequencyMonthly,
		Interval:    1,
		StartDate:   model.MustParseDate("2024-01-01"),
		NextDueDate: model.MustParseDate("2030-01-01"),
	}})
	require.Len(t, s.RecurringTransactions, 1)
	assert.Equal(t, "2024-01-01", s.RecurringTransactions[0].NextDueDate.String())

	existing := s.RecurringTransactions[0]
	existing.NextDueDate = model.MustParseDate("2024-04-01")
	s.RecurringTransactions = []model.RecurringTransaction{existing}

	edited := existing
	edited.Amount = 900
	edited.StartDate = model.MustParseDate("2024-02-01")
	edited.NextDueDate = model.Date{}
	s = r.Apply(s, ledger.UpdateRecurring{Recurring: edited})

	assert.InDelta(t, 900.0, s.RecurringTransactions[0].Amount, 1e-9)
	assert.Equal(t, "2024-04-01", s.RecurringTransactions[0].NextDueDate.String(), "next due date survives edits")

	missing := s.RecurringTransactions[0]
	missing.NextDueDate = model.Date{}
	s.RecurringTransactions = []model.RecurringTransaction{missing}
	s = r.Apply(s, ledger.UpdateRecurring{Recurring: missing})
	assert.Equal(t, "2024-02-01", s.RecurringTransactions[0].NextDueDate.String(), "absent next due date falls back to the start date")

	s = r.Apply(s, ledger.DeleteRecurring{ID: missing.ID})
	assert.Empty(t, s.RecurringTransactions)
}

func TestApply_ImportIgnoresDerivedFields(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithExpenseCategory("c1", "Kept", 0).
		WithTransaction("old", model.TypeSaving, 5, "2024-03-01", testutil.Goal("g1")).
		Build()
	s.UserProfile = model.UserProfile{Name: "Existing"}
	s.ActiveDialog = "import"

	imp, err := ledger.ParseImport([]byte(`{
		"transactions": [
			{"id": "t1", "type": "saving", "amount": 40, "date": "2024-02-01", "goalId": "g1"},
			{"type": "expense", "amount": 60, "date": "2024-02-03T10:00:00.000Z", "liabilityId": "d1"}
		],
		"goals": [{"id": "g1", "name": "Car", "type": "goal", "targetAmount": 1000, "currentAmount": 9999}],
		"liabilities": [{"id": "d1", "name": "Card", "type": "debt", "initialAmount": 500, "paidAmount": 9999, "interestRate": 20}],
		"theme": "dark"
	}`))
	require.NoError(t, err)

	got := testutil.NewReducer(today).Apply(s, ledger.ImportData{Data: imp})

	require.Len(t, got.Transactions, 2)
	assert.Equal(t, "t1", got.Transactions[0].ID)
	assert.Equal(t, "id-1", got.Transactions[1].ID, "records without id get a fresh one")
	assert.Equal(t, "2024-02-03", got.Transactions[1].Date.String())
	assert.InDelta(t, 40.0, goalAmount(t, got, "g1"), 1e-9)
	assert.InDelta(t, 60.0, paidAmount(t, got, "d1"), 1e-9)

	assert.Equal(t, s.Categories, got.Categories, "absent collections are kept")
	assert.Equal(t, "Existing", got.UserProfile.Name, "absent profile is kept")
	assert.Equal(t, model.Theme("dark"), got.Theme)
	assert.Empty(t, got.ActiveDialog)
}

func TestApply_ImportDropsInvalidRecords(t *testing.T) {
	imp, err := ledger.ParseImport([]byte(`{
		"transactions": [
			{"id": "ok", "type": "expense", "amount": 10, "date": "2024-03-01"},
			{"id": "negative", "type": "expense", "amount": -5, "date": "2024-03-01"},
			{"id": "untyped", "type": "transfer", "amount": 5, "date": "2024-03-01"},
			{"id": "undated", "type": "income", "amount": 5}
		],
		"categories": [
			{"id": "c1", "name": "Food", "type": "expense", "budget": 200},
			{"id": "c2", "name": "", "type": "expense"},
			{"id": "c3", "name": "Broken", "type": "expense", "budget": -1}
		],
		"goals": [
			{"id": "g1", "name": "Car", "targetAmount": 1000},
			{"id": "g2", "name": "Nothing", "targetAmount": 0}
		],
		"liabilities": [
			{"id": "l1", "name": "Card", "type": "debt", "initialAmount": 500},
			{"id": "l2", "name": "Odd", "type": "mortgage", "initialAmount": 500}
		],
		"projects": [
			{"id": "p1", "name": "Side Gig"},
			{"id": "p2", "name": ""}
		],
		"recurringTransactions": [
			{"id": "r1", "description": "Rent", "type": "expense", "amount": 800, "frequency": "monthly", "interval": 1, "startDate": "2024-01-01"},
			{"id": "r2", "description": "Never", "type": "expense", "amount": 800, "frequency": "monthly", "interval": 0, "startDate": "2024-01-01"}
		]
	}`))
	require.NoError(t, err)

	got := testutil.NewReducer(today).Apply(ledger.State{}, ledger.ImportData{Data: imp})

	ids := func(n int, id func(int) string) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = id(i)
		}
		return out
	}
	assert.Equal(t, []string{"ok"}, ids(len(got.Transactions), func(i int) string { return got.Transactions[i].ID }))
	assert.Equal(t, []string{"c1"}, ids(len(got.Categories), func(i int) string { return got.Categories[i].ID }))
	assert.Equal(t, []string{"g1"}, ids(len(got.Goals), func(i int) string { return got.Goals[i].ID }))
	assert.Equal(t, []string{"l1"}, ids(len(got.Liabilities), func(i int) string { return got.Liabilities[i].ID }))
	assert.Equal(t, []string{"p1"}, ids(len(got.Projects), func(i int) string { return got.Projects[i].ID }))
	assert.Equal(t, []string{"r1"}, ids(len(got.RecurringTransactions), func(i int) string { return got.RecurringTransactions[i].ID }))

	assert.Equal(t, model.GoalTypeGoal, got.Goals[0].Type)
	assert.Equal(t, "side-gig", got.Projects[0].Tag)
	assert.Equal(t, "2024-01-01", got.RecurringTransactions[0].NextDueDate.String())
}

func TestApply_ImportEmptyCollectionReplaces(t *testing.T) {
	s := testutil.NewStateBuilder(t).
		WithTransaction("t1", model.TypeExpense, 1, "2024-03-01").
		Build()

	imp, err := ledger.ParseImport([]byte(`{"transactions": [], "goals": null}`))
	require.NoError(t, err)

	got := ledger.Apply(s, ledger.ImportData{Data: imp})
	assert.Empty(t, got.Transactions)
	assert.NotNil(t, got.Transactions)
}

func TestParseImport_RejectsMalformedJSON(t *testing.T) {
	_, err := ledger.ParseImport([]byte(`{"transactions": [`))
	require.Error(t, err)
}

func TestExport_RoundTripsThroughImport(t *testing.T) {
	s := ledger.Seed(today)
	s.Selection = []string{"1"}

	got := ledger.Apply(ledger.State{}, ledger.ImportData{Data: ledger.Export(s)})

	assert.Equal(t, s.Persistable(), got)
}

func TestApply_ResetKeepsTheme(t *testing.T) {
	r := testutil.NewReducer(today)
	s := testutil.NewStateBuilder(t).
		WithTransaction("t1", model.TypeExpense, 1, "2024-03-01").
		Build()
	s.Theme = "midnight"
	s.Selection = []string{"t1"}

	got := r.Apply(s, ledger.ResetState{})

	want := ledger.Seed(today)
	want.Theme = "midnight"
	assert.Equal(t, want, got)
}

func TestApply_PreferenceActions(t *testing.T) {
	s := testutil.NewStateBuilder(t).Build()
	search := "rent"
	name := "Ada"

	s = ledger.Apply(s, ledger.SetTheme{Theme: "light"})
	s = ledger.Apply(s, ledger.SetViewMode{Mode: model.ViewBusiness})
	s = ledger.Apply(s, ledger.UpdateFilters{Patch: model.FilterPatch{SearchTerm: &search, Tags: []string{"home"}}})
	s = ledger.Apply(s, ledger.SetSubscribed{Subscribed: true})
	s = ledger.Apply(s, ledger.UpdateUserProfile{Patch: model.ProfilePatch{Name: &name}})
	s = ledger.Apply(s, ledger.SetSelection{IDs: []string{"a", "b", "a"}})
	s = ledger.Apply(s, ledger.OpenDialog{Name: "settings"})

	assert.Equal(t, model.Theme("light"), s.Theme)
	assert.Equal(t, model.ViewBusiness, s.ViewMode)
	assert.Equal(t, "rent", s.Filters.SearchTerm)
	assert.Equal(t, []string{"home"}, s.Filters.Tags)
	assert.Equal(t, model.PresetThisMonth, s.Filters.DateRange.Preset, "unpatched filter fields are kept")
	assert.True(t, s.IsSubscribed)
	assert.Equal(t, "Ada", s.UserProfile.Name)
	assert.Equal(t, []string{"a", "b"}, s.Selection)
	assert.True(t, s.IsSelected("b"))
	assert.Equal(t, "settings", s.ActiveDialog)

	s = ledger.Apply(s, ledger.CloseDialog{})
	assert.Empty(t, s.ActiveDialog)
}

func TestKind_Persistent(t *testing.T) {
	tests := []struct {
		action ledger.Action
		want   bool
	}{
		{ledger.AddTransaction{}, true},
		{ledger.MergeTransactions{}, true},
		{ledger.ImportData{}, true},
		{ledger.ResetState{}, true},
		{ledger.SetTheme{}, true},
		{ledger.UpdateFilters{}, false},
		{ledger.SetSelection{}, false},
		{ledger.OpenDialog{}, false},
		{ledger.CloseDialog{}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action.Kind()), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.Kind().Persistent())
		})
	}
}
