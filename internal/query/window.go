// Package query resolves declarative filters against the transaction collection.
// Every function is pure; "today" is always passed in by the caller.
package query

import "github.com/Veraticus/klaro/internal/model"

// Window is an inclusive range of calendar days. A zero bound is open.
type Window struct {
	From model.Date
	To   model.Date
}

// Unbounded is the window containing every day.
var Unbounded = Window{}

// Contains reports whether d lies inside the window.
func (w Window) Contains(d model.Date) bool {
	if !w.From.IsZero() && d.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && d.After(w.To) {
		return false
	}
	return true
}

// Bounded reports whether both ends of the window are set.
func (w Window) Bounded() bool {
	return !w.From.IsZero() && !w.To.IsZero()
}

// Days returns the number of days in a bounded window, counting both ends.
func (w Window) Days() int {
	if !w.Bounded() || w.To.Before(w.From) {
		return 0
	}
	return w.From.DaysUntil(w.To) + 1
}

// Resolve turns a date range into a concrete window relative to today.
// all_time, unknown and empty presets are unbounded.
func Resolve(r model.DateRange, today model.Date) Window {
	switch r.Preset {
	case model.PresetThisMonth:
		return Window{From: today.StartOfMonth(), To: today.EndOfMonth()}
	case model.PresetLastMonth:
		last := today.StartOfMonth().AddMonths(-1)
		return Window{From: last, To: last.EndOfMonth()}
	case model.PresetThisYear:
		return Window{From: today.StartOfYear(), To: today.EndOfYear()}
	case model.PresetCustom:
		return Window{From: r.From, To: r.To}
	default:
		return Unbounded
	}
}

// Previous returns the window of equal length immediately before the one r
// resolves to: the prior calendar month or year for the calendar presets, the
// same number of days for custom ranges. ok is false when no previous period
// exists (all_time, open custom ranges).
func Previous(r model.DateRange, today model.Date) (w Window, ok bool) {
	cur := Resolve(r, today)
	switch r.Preset {
	case model.PresetThisMonth, model.PresetLastMonth:
		prev := cur.From.AddMonths(-1)
		return Window{From: prev, To: prev.EndOfMonth()}, true
	case model.PresetThisYear:
		prev := cur.From.AddDays(-1).StartOfYear()
		return Window{From: prev, To: prev.EndOfYear()}, true
	case model.PresetCustom:
		days := cur.Days()
		if days == 0 {
			return Unbounded, false
		}
		end := cur.From.AddDays(-1)
		return Window{From: end.AddDays(-(days - 1)), To: end}, true
	default:
		return Unbounded, false
	}
}
