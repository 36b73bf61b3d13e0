package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/paydown"
)

func paydownCmd() *cobra.Command {
	var (
		strategy string
		extra    float64
		months   int
		compare  bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "paydown",
		Short: "Plan how to pay off your debts",
		Long: `Simulate paying off every open debt with a fixed monthly amount.

Interest accrues monthly at the annual rate divided by twelve. The avalanche
strategy pays the highest interest rate first, snowball the smallest balance
first. Loans (money owed to you) are not part of the plan.

Defaults come from paydown.strategy and paydown.extra in the config file.`,
		Example: `  klaro paydown --extra 300
  klaro paydown --strategy snowball --extra 300 --months 24
  klaro paydown --extra 300 --compare`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				st := a.cfg.Paydown.Strategy
				if cmd.Flags().Changed("strategy") {
					st = paydown.Strategy(strings.ToLower(strategy))
					if !st.Valid() {
						return fmt.Errorf("invalid strategy %q: must be avalanche or snowball", strategy)
					}
				}
				pool := a.cfg.Paydown.Extra
				if cmd.Flags().Changed("extra") {
					if extra < 0 {
						return fmt.Errorf("invalid --extra %v: must not be negative", extra)
					}
					pool = extra
				}

				s := a.state()
				liabilities := s.LiabilityStatuses()
				currency := a.currency()

				if compare {
					c := paydown.Compare(liabilities, pool)
					if c == nil {
						fmt.Fprintln(a.out, cli.FormatSuccess("No open debts. Nothing to pay down."))
						return nil
					}
					if asJSON {
						return writeJSON(a.out, c)
					}
					renderComparison(a.out, c, currency)
					return nil
				}

				plan := paydown.Simulate(liabilities, st, pool)
				if plan == nil {
					fmt.Fprintln(a.out, cli.FormatSuccess("No open debts. Nothing to pay down."))
					return nil
				}
				if asJSON {
					return writeJSON(a.out, plan)
				}
				renderPlan(a.out, plan, months, currency)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&strategy, "strategy", "s", string(paydown.Avalanche), "avalanche or snowball")
	flags.Float64VarP(&extra, "extra", "e", 0, "amount available for debt repayment each month")
	flags.IntVarP(&months, "months", "m", 12, "months of the schedule to show (0 for all)")
	flags.BoolVar(&compare, "compare", false, "compare both strategies")
	flags.BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderPlan(w io.Writer, plan *paydown.Plan, months int, currency string) {
	s := plan.Summary
	content := fmt.Sprintf("Strategy:        %s\nMonthly amount:  %s\nDebt:            %s\nInterest:        %s\nDebt-free in:    %s",
		plan.Strategy,
		cli.Money(plan.MonthlyExtra, currency),
		cli.Money(s.TotalPrincipal, currency),
		cli.Money(s.TotalInterest, currency),
		cli.Months(s.TotalMonths))
	fmt.Fprintln(w, cli.RenderBox(cli.DebtIcon+" Paydown plan", content))

	if s.CapReached {
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf(
			"Not paid off within %s: the monthly amount does not cover the interest. Try a larger --extra.",
			cli.Months(paydown.MaxMonths))))
	}

	// Month in which each debt reaches zero, in payoff order.
	order := cli.NewTable("Debt", "Paid off").AlignRight(1)
	for _, m := range plan.Months {
		for _, p := range m.Payments {
			if p.Payment > 0 && p.RemainingBalance <= 0 {
				order.AddRow(p.Name, fmt.Sprintf("month %d", m.Month))
			}
		}
	}
	if order.Len() > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, order.Render())
	}

	shown := plan.Months
	if months > 0 && len(shown) > months {
		shown = shown[:months]
	}
	if len(shown) == 0 {
		return
	}

	schedule := cli.NewTable("Month", "Debt", "Payment", "Interest", "Principal", "Remaining").AlignRight(0, 2, 3, 4, 5)
	for _, m := range shown {
		for i, p := range m.Payments {
			month := ""
			if i == 0 {
				month = fmt.Sprint(m.Month)
			}
			schedule.AddRow(month, p.Name,
				cli.Money(p.Payment, currency),
				cli.Money(p.InterestPaid, currency),
				cli.Money(p.PrincipalPaid, currency),
				cli.Money(p.RemainingBalance, currency))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, schedule.Render())
	if len(shown) < len(plan.Months) {
		fmt.Fprintln(w, cli.SubtleStyle.Render(fmt.Sprintf("… %d more months (use --months 0 to show all)", len(plan.Months)-len(shown))))
	}
}

func renderComparison(w io.Writer, c *paydown.Comparison, currency string) {
	table := cli.NewTable("", "Avalanche", "Snowball").AlignRight(1, 2)
	table.AddRow("Months", cli.Months(c.Avalanche.Summary.TotalMonths), cli.Months(c.Snowball.Summary.TotalMonths))
	table.AddRow("Interest", cli.Money(c.Avalanche.Summary.TotalInterest, currency), cli.Money(c.Snowball.Summary.TotalInterest, currency))
	table.AddRow("Total paid",
		cli.Money(c.Avalanche.Summary.TotalPrincipal+c.Avalanche.Summary.TotalInterest, currency),
		cli.Money(c.Snowball.Summary.TotalPrincipal+c.Snowball.Summary.TotalInterest, currency))
	fmt.Fprintln(w, cli.FormatTitle("Avalanche vs. snowball"))
	fmt.Fprintln(w, table.Render())

	if c.Avalanche.Summary.CapReached || c.Snowball.Summary.CapReached {
		fmt.Fprintln(w, cli.FormatWarning("The monthly amount does not cover the interest; both plans are truncated."))
		return
	}

	saved := c.InterestSaved()
	switch {
	case saved > 0.005 && c.MonthsSaved() > 0:
		fmt.Fprintln(w, "\n"+cli.FormatInfo(fmt.Sprintf("Avalanche saves %s in interest and finishes %d month(s) sooner.",
			cli.Money(saved, currency), c.MonthsSaved())))
	case saved > 0.005:
		fmt.Fprintln(w, "\n"+cli.FormatInfo(fmt.Sprintf("Avalanche saves %s in interest.", cli.Money(saved, currency))))
	default:
		fmt.Fprintln(w, "\n"+cli.FormatInfo("Both strategies cost the same. Snowball clears individual debts sooner."))
	}
}
