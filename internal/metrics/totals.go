// Package metrics derives dashboard and report figures from the ledger. Nothing
// here mutates its input; every function is a pure view over the transactions it
// is given.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/klaro/internal/model"
)

// Totals are the per-type sums over a set of transactions.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Saving  float64 `json:"saving"`
}

// Balance is income minus expense. Savings do not reduce it.
func (t Totals) Balance() float64 {
	return t.Income - t.Expense
}

// Sum totals txs by type. Amounts are accumulated in decimal so repeated cents do not drift.
func Sum(txs []model.Transaction) Totals {
	var income, expense, saving decimal.Decimal
	for i := range txs {
		amount := decimal.NewFromFloat(txs[i].Amount)
		switch txs[i].Type {
		case model.TypeIncome:
			income = income.Add(amount)
		case model.TypeExpense:
			expense = expense.Add(amount)
		case model.TypeSaving:
			saving = saving.Add(amount)
		}
	}
	return Totals{
		Income:  income.InexactFloat64(),
		Expense: expense.InexactFloat64(),
		Saving:  saving.InexactFloat64(),
	}
}

// accumulator sums amounts by key, remembering first-seen order.
type accumulator struct {
	sums  map[string]decimal.Decimal
	order []string
}

func newAccumulator() *accumulator {
	return &accumulator{sums: make(map[string]decimal.Decimal)}
}

func (a *accumulator) add(key string, amount float64) {
	cur, ok := a.sums[key]
	if !ok {
		a.order = append(a.order, key)
	}
	a.sums[key] = cur.Add(decimal.NewFromFloat(amount))
}

func (a *accumulator) get(key string) float64 {
	return a.sums[key].InexactFloat64()
}
