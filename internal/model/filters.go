package model

import "slices"

// All is the wildcard value for the selector fields of Filters.
const All = "all"

// DatePreset names a date window relative to the current day.
type DatePreset string

// Date presets.
const (
	PresetThisMonth DatePreset = "this_month"
	PresetLastMonth DatePreset = "last_month"
	PresetThisYear  DatePreset = "this_year"
	PresetAllTime   DatePreset = "all_time"
	PresetCustom    DatePreset = "custom"
)

// Valid reports whether p is a known preset.
func (p DatePreset) Valid() bool {
	switch p {
	case PresetThisMonth, PresetLastMonth, PresetThisYear, PresetAllTime, PresetCustom:
		return true
	}
	return false
}

// ViewMode partitions transactions into private and business by tag convention.
type ViewMode string

// View modes.
const (
	ViewAll      ViewMode = "all"
	ViewPrivate  ViewMode = "private"
	ViewBusiness ViewMode = "business"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	return m == ViewAll || m == ViewPrivate || m == ViewBusiness
}

// CategoryStatus filters on whether a transaction has a category.
type CategoryStatus string

// Category status values.
const (
	CategoryStatusAll           CategoryStatus = "all"
	CategoryStatusCategorized   CategoryStatus = "categorized"
	CategoryStatusUncategorized CategoryStatus = "uncategorized"
)

// DateRange selects a preset or, for PresetCustom, the literal From/To days.
type DateRange struct {
	From   Date       `json:"from"`
	To     Date       `json:"to"`
	Preset DatePreset `json:"preset"`
}

// AmountRange bounds amounts inclusively. A nil bound is open.
type AmountRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Filters is the declarative input of the query layer. Empty selector fields behave like All.
type Filters struct {
	DateRange       DateRange      `json:"dateRange"`
	AmountRange     AmountRange    `json:"amountRange"`
	SearchTerm      string         `json:"searchTerm"`
	TransactionType string         `json:"transactionType"`
	LiabilityID     string         `json:"liabilityId"`
	GoalID          string         `json:"goalId"`
	CategoryStatus  CategoryStatus `json:"categoryStatus"`
	Tags            []string       `json:"tags"`
}

// DefaultFilters returns the filters a fresh ledger starts with: this month, everything else open.
func DefaultFilters(today Date) Filters {
	return Filters{
		DateRange: DateRange{
			Preset: PresetThisMonth,
			From:   today.StartOfMonth(),
			To:     today.EndOfMonth(),
		},
		TransactionType: All,
		LiabilityID:     All,
		GoalID:          All,
		CategoryStatus:  CategoryStatusAll,
		Tags:            []string{},
	}
}

// Clone returns a copy that shares no slices or pointers with f.
func (f Filters) Clone() Filters {
	f.Tags = slices.Clone(f.Tags)
	if f.AmountRange.Min != nil {
		v := *f.AmountRange.Min
		f.AmountRange.Min = &v
	}
	if f.AmountRange.Max != nil {
		v := *f.AmountRange.Max
		f.AmountRange.Max = &v
	}
	return f
}

// FilterPatch is a partial update of Filters. Nil fields are left untouched.
type FilterPatch struct {
	DateRange       *DateRange      `json:"dateRange,omitempty"`
	AmountRange     *AmountRange    `json:"amountRange,omitempty"`
	SearchTerm      *string         `json:"searchTerm,omitempty"`
	TransactionType *string         `json:"transactionType,omitempty"`
	LiabilityID     *string         `json:"liabilityId,omitempty"`
	GoalID          *string         `json:"goalId,omitempty"`
	CategoryStatus  *CategoryStatus `json:"categoryStatus,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
}

// Apply merges the patch into f and returns the result.
func (p FilterPatch) Apply(f Filters) Filters {
	f = f.Clone()
	if p.DateRange != nil {
		f.DateRange = *p.DateRange
	}
	if p.AmountRange != nil {
		f.AmountRange = AmountRange{Min: p.AmountRange.Min, Max: p.AmountRange.Max}
		f = f.Clone()
	}
	if p.SearchTerm != nil {
		f.SearchTerm = *p.SearchTerm
	}
	if p.TransactionType != nil {
		f.TransactionType = *p.TransactionType
	}
	if p.LiabilityID != nil {
		f.LiabilityID = *p.LiabilityID
	}
	if p.GoalID != nil {
		f.GoalID = *p.GoalID
	}
	if p.CategoryStatus != nil {
		f.CategoryStatus = *p.CategoryStatus
	}
	if p.Tags != nil {
		f.Tags = slices.Clone(p.Tags)
	}
	return f
}
