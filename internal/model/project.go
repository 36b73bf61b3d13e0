package model

import (
	"strings"
	"unicode"
)

// Project groups transactions by tag membership rather than by foreign key.
type Project struct {
	IncomeBudget  *float64 `json:"incomeBudget,omitempty"`
	ExpenseBudget *float64 `json:"expenseBudget,omitempty"`
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Tag           string   `json:"tag"`
}

// NormalizeTag applies the lowercase-hyphen tag convention: "Project Alpha" becomes "project-alpha".
func NormalizeTag(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
