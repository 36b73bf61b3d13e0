package ledger

import "github.com/Veraticus/klaro/internal/model"

// Seed returns the sample ledger a new installation starts with. Transaction dates
// are relative to today so the default month view is populated.
func Seed(today model.Date) State {
	month := today.StartOfMonth()
	lastMonth := month.AddMonths(-1)
	day := func(base model.Date, d int) model.Date { return base.AddDays(d - 1) }
	budget := func(v float64) *float64 { return &v }

	return State{
		Filters: model.DefaultFilters(today),
		UserProfile: model.UserProfile{
			Name:     "User",
			Currency: "EUR",
			Language: "en",
		},
		Transactions: []model.Transaction{
			{ID: "1", Type: model.TypeIncome, Amount: 3200, Description: "Salary", Date: today, CategoryID: "c1"},
			{ID: "2", Type: model.TypeExpense, Amount: 850, Description: "Rent", Date: day(month, 1), CategoryID: "c2", Tags: []string{"private"}},
			{ID: "3", Type: model.TypeExpense, Amount: 75.50, Description: "Weekly groceries", Date: day(lastMonth, 20), CategoryID: "c3", Tags: []string{"private"}},
			{ID: "4", Type: model.TypeSaving, Amount: 200, Description: "ETF savings plan", Date: day(month, 15), CategoryID: "c4", GoalID: "g1"},
			{ID: "5", Type: model.TypeIncome, Amount: 500, Description: "Freelance project", Date: day(month, 10), CategoryID: "c5", Tags: []string{model.BusinessTag, "project-alpha"}},
			{ID: "6", Type: model.TypeExpense, Amount: 49.99, Description: "Software subscription", Date: day(month, 5), CategoryID: "c6", Tags: []string{model.BusinessTag, "project-alpha"}},
			{ID: "7", Type: model.TypeExpense, Amount: 120, Description: "Insurance", Date: day(month, 2), CategoryID: "c2", Tags: []string{"private"}},
		},
		Categories: []model.Category{
			{ID: "c1", Name: "Salary", Type: model.CategoryTypeIncome},
			{ID: "c2", Name: "Housing", Type: model.CategoryTypeExpense, Budget: budget(1000)},
			{ID: "c3", Name: "Groceries", Type: model.CategoryTypeExpense, Budget: budget(400)},
			{ID: "c4", Name: "Investments", Type: model.CategoryTypeExpense},
			{ID: "c5", Name: "Freelance", Type: model.CategoryTypeIncome},
			{ID: "c6", Name: "Software", Type: model.CategoryTypeExpense, Budget: budget(100)},
		},
		Goals: []model.Goal{
			{ID: "g1", Name: "New car", TargetAmount: 20000, Type: model.GoalTypeGoal},
			{ID: "g2", Name: "Vacation", TargetAmount: 1500, Type: model.GoalTypeSinkingFund},
		},
		Liabilities: []model.Liability{
			{ID: "l1", Name: "Student loan", Type: model.LiabilityTypeDebt, InitialAmount: 15000, InterestRate: 3.5, Creditor: "KfW Bank", StartDate: model.MustParseDate("2022-10-01")},
			{ID: "l2", Name: "Loan to Max", Type: model.LiabilityTypeLoan, InitialAmount: 1000, Debtor: "Max Mustermann", StartDate: model.MustParseDate("2023-05-15")},
		},
		Projects: []model.Project{
			{ID: "p1", Name: "Project Alpha", Tag: "project-alpha"},
		},
		RecurringTransactions: []model.RecurringTransaction{
			{
				ID:          "r1",
				Description: "Rent",
				Amount:      850,
				Type:        model.TypeExpense,
				CategoryID:  "c2",
				Frequency:   model.FrequencyMonthly,
				Interval:    1,
				StartDate:   model.MustParseDate("2023-01-01"),
				NextDueDate: month,
				IsBill:      true,
			},
		},
		Theme:    model.DefaultTheme,
		ViewMode: model.ViewAll,
	}
}
