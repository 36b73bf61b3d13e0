package ledger

import "github.com/Veraticus/klaro/internal/model"

// GoalAmounts sums saving transactions by goal id in one pass over the full
// transaction collection.
func GoalAmounts(transactions []model.Transaction) map[string]float64 {
	amounts := make(map[string]float64)
	for i := range transactions {
		t := &transactions[i]
		if t.Type == model.TypeSaving && t.GoalID != "" {
			amounts[t.GoalID] += t.Amount
		}
	}
	return amounts
}

// LiabilityAmounts sums repayments by liability id in one pass over the full
// transaction collection. Expenses repay debts, income repays loans; transactions
// pointing at unknown liabilities are ignored.
func LiabilityAmounts(transactions []model.Transaction, liabilities []model.Liability) map[string]float64 {
	kinds := make(map[string]*model.Liability, len(liabilities))
	for i := range liabilities {
		kinds[liabilities[i].ID] = &liabilities[i]
	}

	amounts := make(map[string]float64)
	for i := range transactions {
		t := &transactions[i]
		if t.LiabilityID == "" {
			continue
		}
		l, ok := kinds[t.LiabilityID]
		if !ok || !l.Repays(t.Type) {
			continue
		}
		amounts[t.LiabilityID] += t.Amount
	}
	return amounts
}
