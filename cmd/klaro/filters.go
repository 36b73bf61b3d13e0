package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
)

// filterFlags are the query flags shared by tx list and the report commands.
type filterFlags struct {
	period    string
	from      string
	to        string
	search    string
	txType    string
	goal      string
	liability string
	status    string
	view      string
	tags      []string
	min       float64
	max       float64
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.period, "period", "p", "", "date window (this_month, last_month, this_year, all_time)")
	flags.StringVar(&f.from, "from", "", "start of a custom range (YYYY-MM-DD)")
	flags.StringVar(&f.to, "to", "", "end of a custom range (YYYY-MM-DD)")
	flags.StringVarP(&f.search, "search", "s", "", "match description or tags")
	flags.StringVarP(&f.txType, "type", "t", "", "only income, expense or saving")
	flags.StringVar(&f.goal, "goal", "", "only transactions for this goal")
	flags.StringVar(&f.liability, "liability", "", "only transactions for this liability")
	flags.StringVar(&f.status, "status", "", "category status (all, categorized, uncategorized)")
	flags.StringVar(&f.view, "view", "", "view mode override (all, private, business)")
	flags.StringSliceVar(&f.tags, "tag", nil, "require every given tag")
	flags.Float64Var(&f.min, "min", 0, "minimum amount")
	flags.Float64Var(&f.max, "max", 0, "maximum amount")
}

// patch converts the flags that were set into a filter update.
func (f *filterFlags) patch(cmd *cobra.Command, s ledger.State) (model.FilterPatch, error) {
	var p model.FilterPatch
	flags := cmd.Flags()

	switch {
	case f.from != "" || f.to != "":
		r := model.DateRange{Preset: model.PresetCustom}
		if f.from != "" {
			d, err := model.ParseDate(f.from)
			if err != nil {
				return p, fmt.Errorf("invalid --from %q: use YYYY-MM-DD", f.from)
			}
			r.From = d
		}
		if f.to != "" {
			d, err := model.ParseDate(f.to)
			if err != nil {
				return p, fmt.Errorf("invalid --to %q: use YYYY-MM-DD", f.to)
			}
			r.To = d
		}
		if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
			return p, fmt.Errorf("--to %s is before --from %s", r.To, r.From)
		}
		p.DateRange = &r
	case f.period != "":
		preset := model.DatePreset(strings.ToLower(f.period))
		if !preset.Valid() || preset == model.PresetCustom {
			return p, fmt.Errorf("invalid period %q: must be this_month, last_month, this_year or all_time", f.period)
		}
		p.DateRange = &model.DateRange{Preset: preset}
	}

	if flags.Changed("search") {
		p.SearchTerm = &f.search
	}
	if f.txType != "" {
		t, err := parseTransactionType(f.txType)
		if err != nil {
			return p, err
		}
		typ := string(t)
		p.TransactionType = &typ
	}
	if f.goal != "" {
		id, err := goalIDOf(s)(f.goal)
		if err != nil {
			return p, err
		}
		p.GoalID = &id
	}
	if f.liability != "" {
		id, err := liabilityIDOf(s)(f.liability)
		if err != nil {
			return p, err
		}
		p.LiabilityID = &id
	}
	if f.status != "" {
		status := model.CategoryStatus(strings.ToLower(f.status))
		switch status {
		case model.CategoryStatusAll, model.CategoryStatusCategorized, model.CategoryStatusUncategorized:
		default:
			return p, fmt.Errorf("invalid status %q: must be all, categorized or uncategorized", f.status)
		}
		p.CategoryStatus = &status
	}
	if flags.Changed("min") || flags.Changed("max") {
		r := model.AmountRange{}
		if flags.Changed("min") {
			r.Min = &f.min
		}
		if flags.Changed("max") {
			r.Max = &f.max
		}
		p.AmountRange = &r
	}
	if len(f.tags) > 0 {
		p.Tags = f.tags
	}
	return p, nil
}

// viewMode returns the --view override, or the ledger's own view mode.
func (f *filterFlags) viewMode(s ledger.State) (model.ViewMode, error) {
	if f.view == "" {
		return s.ViewMode, nil
	}
	m := model.ViewMode(strings.ToLower(f.view))
	if !m.Valid() {
		return "", fmt.Errorf("invalid view %q: must be all, private or business", f.view)
	}
	return m, nil
}

// apply dispatches the filter update and returns the resulting state with the
// view override in place. Neither change is persisted.
func (f *filterFlags) apply(cmd *cobra.Command, a *app) (ledger.State, error) {
	s := a.state()
	p, err := f.patch(cmd, s)
	if err != nil {
		return s, err
	}
	mode, err := f.viewMode(s)
	if err != nil {
		return s, err
	}
	s = a.engine.Dispatch(ledger.UpdateFilters{Patch: p})
	s.ViewMode = mode
	return s, nil
}
