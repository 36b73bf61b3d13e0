// Package paydown projects month-by-month debt repayment under the avalanche and
// snowball strategies. Interest accrues monthly at annualRate/12 on the running
// balance; a shared monthly pool pays debts down in a fixed priority order.
package paydown

import (
	"cmp"
	"math"
	"slices"

	"github.com/Veraticus/klaro/internal/model"
)

// Strategy orders debts for repayment.
type Strategy string

// Supported strategies.
const (
	// Avalanche pays the highest interest rate first.
	Avalanche Strategy = "avalanche"
	// Snowball pays the smallest balance first.
	Snowball Strategy = "snowball"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == Avalanche || s == Snowball
}

// MaxMonths caps the simulation. A plan that hits it is truncated, not failed.
const MaxMonths = 1200

// Payment is what happened to one debt in one month.
type Payment struct {
	LiabilityID      string  `json:"liabilityId"`
	Name             string  `json:"name"`
	Payment          float64 `json:"payment"`
	InterestPaid     float64 `json:"interestPaid"`
	PrincipalPaid    float64 `json:"principalPaid"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// Month is one simulated month. Paid debts come first in priority order,
// followed by debts that only accrued interest.
type Month struct {
	Payments      []Payment `json:"payments"`
	Month         int       `json:"month"`
	TotalPaid     float64   `json:"totalPaid"`
	TotalInterest float64   `json:"totalInterest"`
}

// Summary aggregates a plan.
type Summary struct {
	TotalMonths    int     `json:"totalMonths"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	CapReached     bool    `json:"capReached"`
}

// Plan is the result of a simulation.
type Plan struct {
	Strategy     Strategy `json:"strategy"`
	Months       []Month  `json:"months"`
	Summary      Summary  `json:"summary"`
	MonthlyExtra float64  `json:"monthlyExtra"`
}

type debt struct {
	id      string
	name    string
	rate    float64
	balance float64
}

// Simulate runs the repayment of every open debt among liabilities. Loans and
// debts with nothing outstanding are ignored; nil is returned when no debt is
// open. An unknown strategy falls back to Avalanche and a negative extra to zero.
func Simulate(liabilities []model.LiabilityStatus, strategy Strategy, monthlyExtra float64) *Plan {
	debts := openDebts(liabilities)
	if len(debts) == 0 {
		return nil
	}
	if !strategy.Valid() {
		strategy = Avalanche
	}
	if monthlyExtra < 0 || math.IsNaN(monthlyExtra) {
		monthlyExtra = 0
	}

	prioritize(debts, strategy)

	plan := &Plan{Strategy: strategy, MonthlyExtra: monthlyExtra}
	for _, d := range debts {
		plan.Summary.TotalPrincipal += d.balance
	}

	for month := 1; len(debts) > 0; month++ {
		if month > MaxMonths {
			plan.Summary.CapReached = true
			break
		}
		m := step(debts, monthlyExtra)
		m.Month = month
		plan.Months = append(plan.Months, m)
		plan.Summary.TotalInterest += m.TotalInterest
		plan.Summary.TotalMonths = month

		debts = slices.DeleteFunc(debts, func(d *debt) bool { return d.balance <= 0 })
	}
	return plan
}

func openDebts(liabilities []model.LiabilityStatus) []*debt {
	var debts []*debt
	for _, l := range liabilities {
		if l.Type != model.LiabilityTypeDebt || l.Outstanding() <= 0 {
			continue
		}
		debts = append(debts, &debt{
			id:      l.ID,
			name:    l.Name,
			rate:    l.InterestRate,
			balance: l.Outstanding(),
		})
	}
	return debts
}

// prioritize sorts once; the order holds for the whole simulation.
func prioritize(debts []*debt, strategy Strategy) {
	slices.SortStableFunc(debts, func(a, b *debt) int {
		if strategy == Snowball {
			return cmp.Compare(a.balance, b.balance)
		}
		return cmp.Compare(b.rate, a.rate)
	})
}

// step simulates one month: accrue interest on every open debt, then walk the
// priority list paying from the shared pool. Payments cover the month's interest
// before principal.
func step(debts []*debt, pool float64) Month {
	var m Month
	interest := make(map[string]float64, len(debts))

	for _, d := range debts {
		if d.balance <= 0 {
			continue
		}
		accrued := d.balance * (d.rate / 100) / 12
		d.balance += accrued
		interest[d.id] = accrued
		m.TotalInterest += accrued
	}

	paid := make(map[string]bool, len(debts))
	for _, d := range debts {
		if pool <= 0 || d.balance <= 0 {
			continue
		}
		payment := math.Min(d.balance, pool)
		interestPaid := math.Min(payment, interest[d.id])
		d.balance -= payment
		pool -= payment
		m.TotalPaid += payment
		paid[d.id] = true
		m.Payments = append(m.Payments, Payment{
			LiabilityID:      d.id,
			Name:             d.name,
			Payment:          payment,
			InterestPaid:     interestPaid,
			PrincipalPaid:    payment - interestPaid,
			RemainingBalance: d.balance,
		})
	}

	for _, d := range debts {
		accrued, ok := interest[d.id]
		if !ok || paid[d.id] || d.balance <= 0 {
			continue
		}
		m.Payments = append(m.Payments, Payment{
			LiabilityID:      d.id,
			Name:             d.name,
			InterestPaid:     accrued,
			RemainingBalance: d.balance,
		})
	}
	return m
}

// Comparison runs both strategies on the same inputs.
type Comparison struct {
	Avalanche *Plan `json:"avalanche"`
	Snowball  *Plan `json:"snowball"`
}

// Compare simulates both strategies. It returns nil when no debt is open.
func Compare(liabilities []model.LiabilityStatus, monthlyExtra float64) *Comparison {
	avalanche := Simulate(liabilities, Avalanche, monthlyExtra)
	if avalanche == nil {
		return nil
	}
	return &Comparison{
		Avalanche: avalanche,
		Snowball:  Simulate(liabilities, Snowball, monthlyExtra),
	}
}

// InterestSaved is how much less interest avalanche pays than snowball.
func (c *Comparison) InterestSaved() float64 {
	return c.Snowball.Summary.TotalInterest - c.Avalanche.Summary.TotalInterest
}

// MonthsSaved is how many months sooner avalanche finishes than snowball.
func (c *Comparison) MonthsSaved() int {
	return c.Snowball.Summary.TotalMonths - c.Avalanche.Summary.TotalMonths
}
