package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/klaro/internal/model"
)

// Money formats amount with two decimals, thousands separators and an optional
// currency code, e.g. "-1,234.50 EUR".
func Money(amount float64, currency string) string {
	s := decimal.NewFromFloat(amount).Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if s == "0.00" {
		sign = ""
	}

	whole, frac, _ := strings.Cut(s, ".")
	out := sign + groupThousands(whole) + "." + frac
	if currency != "" {
		out += " " + currency
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Percent formats p (already in percent) with one decimal.
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}

// Trend renders a period-over-period change with an arrow. Rising is styled as
// good unless inverted, which suits expense trends.
func Trend(p float64, inverted bool) string {
	switch {
	case p > 0:
		style := SuccessStyle
		if inverted {
			style = ErrorStyle
		}
		return style.Render("▲ " + Percent(p))
	case p < 0:
		style := ErrorStyle
		if inverted {
			style = SuccessStyle
		}
		return style.Render("▼ " + Percent(-p))
	default:
		return SubtleStyle.Render("– 0.0%")
	}
}

// TypedAmount colors an amount by transaction type and signs expenses.
func TypedAmount(t model.TransactionType, amount float64, currency string) string {
	switch t {
	case model.TypeIncome:
		return IncomeStyle.Render("+" + Money(amount, currency))
	case model.TypeExpense:
		return ExpenseStyle.Render(Money(-amount, currency))
	default:
		return SavingStyle.Render(Money(amount, currency))
	}
}

// Bar draws a horizontal gauge of width cells for p percent, capped at 100.
func Bar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(p, 100)) / 100 * float64(width)))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if p > 100 {
		return ErrorStyle.Render(bar)
	}
	return bar
}

// Months formats a month count as years and months.
func Months(n int) string {
	years, months := n/12, n%12
	switch {
	case years == 0:
		return fmt.Sprintf("%d mo", months)
	case months == 0:
		return fmt.Sprintf("%d yr", years)
	default:
		return fmt.Sprintf("%d yr %d mo", years, months)
	}
}
