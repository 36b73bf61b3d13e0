package model

// LiabilityType distinguishes money owed by the user from money owed to the user.
type LiabilityType string

const (
	// LiabilityTypeDebt is money the user owes; repaid by expense transactions.
	LiabilityTypeDebt LiabilityType = "debt"
	// LiabilityTypeLoan is money owed to the user; repaid by income transactions.
	LiabilityTypeLoan LiabilityType = "loan"
)

// Liability is a debt or a loan. The paid amount is derived; see LiabilityStatus.
type Liability struct {
	StartDate     Date          `json:"startDate"`
	DueDate       *Date         `json:"dueDate,omitempty"`
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          LiabilityType `json:"type"`
	Creditor      string        `json:"creditor,omitempty"`
	Debtor        string        `json:"debtor,omitempty"`
	InitialAmount float64       `json:"initialAmount"`
	InterestRate  float64       `json:"interestRate"` // annual, in percent
}

// Repays reports whether a transaction of type t counts towards this liability.
func (l *Liability) Repays(t TransactionType) bool {
	return (l.Type == LiabilityTypeDebt && t == TypeExpense) ||
		(l.Type == LiabilityTypeLoan && t == TypeIncome)
}

// LiabilityStatus is a liability together with the amount repaid so far.
type LiabilityStatus struct {
	Liability
	PaidAmount float64 `json:"paidAmount"`
}

// Outstanding returns the remaining balance. Negative means overpaid.
func (l LiabilityStatus) Outstanding() float64 {
	return l.InitialAmount - l.PaidAmount
}

// Progress returns the repaid share in percent; a zero initial amount counts as fully repaid.
func (l LiabilityStatus) Progress() float64 {
	if l.InitialAmount <= 0 {
		return 100
	}
	return l.PaidAmount / l.InitialAmount * 100
}
