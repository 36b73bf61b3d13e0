package query

import (
	"slices"
	"strings"

	"github.com/Veraticus/klaro/internal/model"
)

// FilteredView returns the transactions matching filters and viewMode, newest
// first. Transactions on the same day keep their collection order. txs is not modified.
func FilteredView(txs []model.Transaction, filters model.Filters, viewMode model.ViewMode, today model.Date) []model.Transaction {
	return FilterWindow(txs, filters, viewMode, Resolve(filters.DateRange, today))
}

// FilterWindow is FilteredView with an explicit date window replacing the date range of filters.
func FilterWindow(txs []model.Transaction, filters model.Filters, viewMode model.ViewMode, w Window) []model.Transaction {
	m := newMatcher(filters, viewMode, w)
	out := make([]model.Transaction, 0, len(txs))
	for i := range txs {
		if m.match(&txs[i]) {
			out = append(out, txs[i])
		}
	}
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

type matcher struct {
	filters    model.Filters
	window     Window
	search     string
	viewMode   model.ViewMode
	typ        string
	goalID     string
	liabID     string
	status     model.CategoryStatus
	tagsNeeded []string
}

func newMatcher(f model.Filters, viewMode model.ViewMode, w Window) matcher {
	return matcher{
		filters:    f,
		window:     w,
		search:     strings.ToLower(strings.TrimSpace(f.SearchTerm)),
		viewMode:   viewMode,
		typ:        selector(f.TransactionType),
		goalID:     selector(f.GoalID),
		liabID:     selector(f.LiabilityID),
		status:     model.CategoryStatus(selector(string(f.CategoryStatus))),
		tagsNeeded: f.Tags,
	}
}

// selector maps the empty selector to All.
func selector(v string) string {
	if v == "" {
		return model.All
	}
	return v
}

func (m *matcher) match(t *model.Transaction) bool {
	if !m.window.Contains(t.Date) {
		return false
	}

	if m.typ != model.All && string(t.Type) != m.typ {
		return false
	}

	if r := m.filters.AmountRange; (r.Min != nil && t.Amount < *r.Min) || (r.Max != nil && t.Amount > *r.Max) {
		return false
	}

	if m.search != "" && !matchesSearch(t, m.search) {
		return false
	}

	for _, tag := range m.tagsNeeded {
		if !t.HasTag(tag) {
			return false
		}
	}

	switch m.viewMode {
	case model.ViewPrivate:
		if t.HasTag(model.BusinessTag) {
			return false
		}
	case model.ViewBusiness:
		if !t.HasTag(model.BusinessTag) {
			return false
		}
	}

	switch m.status {
	case model.CategoryStatusCategorized:
		if t.CategoryID == "" {
			return false
		}
	case model.CategoryStatusUncategorized:
		if t.CategoryID != "" {
			return false
		}
	}

	if m.goalID != model.All && t.GoalID != m.goalID {
		return false
	}
	if m.liabID != model.All && t.LiabilityID != m.liabID {
		return false
	}
	return true
}

func matchesSearch(t *model.Transaction, term string) bool {
	if strings.Contains(strings.ToLower(t.Description), term) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
