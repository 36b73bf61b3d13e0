package model

import (
	"crypto/sha256"
	"fmt"
	"slices"
)

// TransactionType is the direction of a transaction. Amounts are always magnitudes.
type TransactionType string

const (
	// TypeIncome is money coming in.
	TypeIncome TransactionType = "income"
	// TypeExpense is money going out.
	TypeExpense TransactionType = "expense"
	// TypeSaving is money moved towards a goal.
	TypeSaving TransactionType = "saving"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeSaving:
		return true
	}
	return false
}

// BusinessTag marks a transaction as belonging to the business view.
const BusinessTag = "business"

// Transaction represents a single ledger entry.
type Transaction struct {
	Date        Date            `json:"date"`
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId,omitempty"`  // weak reference
	GoalID      string          `json:"goalId,omitempty"`      // weak reference
	LiabilityID string          `json:"liabilityId,omitempty"` // weak reference
	Tags        []string        `json:"tags,omitempty"`
	Amount      float64         `json:"amount"`
}

// HasTag reports whether the transaction carries tag exactly.
func (t *Transaction) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Clone returns a copy that shares no slices with t.
func (t Transaction) Clone() Transaction {
	t.Tags = slices.Clone(t.Tags)
	return t
}

// Fingerprint identifies a transaction by content for duplicate detection on import.
func (t *Transaction) Fingerprint() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.String(),
		t.Amount,
		t.Type,
		t.Description)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
