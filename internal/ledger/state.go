// Package ledger owns the canonical ledger records and the pure state transition
// function that keeps them consistent.
//
// A State is treated as immutable: Apply never modifies the slices of the state it
// receives, it builds new ones for every collection it touches and shares the rest.
// Goal and liability totals are not stored; they are derived from the full
// transaction collection on read (GoalStatuses, LiabilityStatuses), so no action can
// desynchronize them.
package ledger

import (
	"slices"

	"github.com/Veraticus/klaro/internal/model"
)

// State is the aggregate root of the ledger.
type State struct {
	Filters               model.Filters                `json:"filters"`
	UserProfile           model.UserProfile            `json:"userProfile"`
	Transactions          []model.Transaction          `json:"transactions"`
	Categories            []model.Category             `json:"categories"`
	Goals                 []model.Goal                 `json:"goals"`
	Projects              []model.Project              `json:"projects"`
	RecurringTransactions []model.RecurringTransaction `json:"recurringTransactions"`
	Liabilities           []model.Liability            `json:"liabilities"`
	Theme                 model.Theme                  `json:"theme"`
	ViewMode              model.ViewMode               `json:"viewMode"`
	IsSubscribed          bool                         `json:"isSubscribed"`

	// Transient fields. Never persisted.
	ActiveDialog string   `json:"-"`
	Selection    []string `json:"-"`
}

// Persistable returns s with its transient fields zeroed.
func (s State) Persistable() State {
	s.ActiveDialog = ""
	s.Selection = nil
	return s
}

// IsSelected reports whether the transaction id is part of the current selection.
func (s *State) IsSelected(id string) bool {
	return slices.Contains(s.Selection, id)
}

// Transaction looks up a transaction by id.
func (s *State) Transaction(id string) (model.Transaction, bool) {
	i := slices.IndexFunc(s.Transactions, func(t model.Transaction) bool { return t.ID == id })
	if i < 0 {
		return model.Transaction{}, false
	}
	return s.Transactions[i], true
}

// Category looks up a category by id.
func (s *State) Category(id string) (model.Category, bool) {
	i := slices.IndexFunc(s.Categories, func(c model.Category) bool { return c.ID == id })
	if i < 0 {
		return model.Category{}, false
	}
	return s.Categories[i], true
}

// CategoryNames maps category ids to names.
func (s *State) CategoryNames() map[string]string {
	names := make(map[string]string, len(s.Categories))
	for _, c := range s.Categories {
		names[c.ID] = c.Name
	}
	return names
}

// GoalStatuses returns every goal with its current amount: the sum of all saving
// transactions that reference it.
func (s *State) GoalStatuses() []model.GoalStatus {
	amounts := GoalAmounts(s.Transactions)
	out := make([]model.GoalStatus, len(s.Goals))
	for i, g := range s.Goals {
		out[i] = model.GoalStatus{Goal: g, CurrentAmount: amounts[g.ID]}
	}
	return out
}

// GoalStatus returns a single goal with its current amount.
func (s *State) GoalStatus(id string) (model.GoalStatus, bool) {
	for _, g := range s.GoalStatuses() {
		if g.ID == id {
			return g, true
		}
	}
	return model.GoalStatus{}, false
}

// LiabilityStatuses returns every liability with its paid amount, counting only
// transactions whose direction repays it.
func (s *State) LiabilityStatuses() []model.LiabilityStatus {
	amounts := LiabilityAmounts(s.Transactions, s.Liabilities)
	out := make([]model.LiabilityStatus, len(s.Liabilities))
	for i, l := range s.Liabilities {
		out[i] = model.LiabilityStatus{Liability: l, PaidAmount: amounts[l.ID]}
	}
	return out
}

// LiabilityStatus returns a single liability with its paid amount.
func (s *State) LiabilityStatus(id string) (model.LiabilityStatus, bool) {
	for _, l := range s.LiabilityStatuses() {
		if l.ID == id {
			return l, true
		}
	}
	return model.LiabilityStatus{}, false
}
