package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/metrics"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/query"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Dashboards derived from the ledger",
		Long: `Show figures derived from the transactions in the current filter window.

Every report accepts the same filter flags as 'klaro tx list'. The cashflow
report always covers the trailing twelve months regardless of filters.`,
	}

	cmd.AddCommand(reportSubCmd("stats", "Income, expense, saving and balance with trends", renderStats))
	cmd.AddCommand(reportSubCmd("budget", "Spending against category budgets", renderBudgets))
	cmd.AddCommand(reportSubCmd("categories", "Expense breakdown by category", renderCategories))
	cmd.AddCommand(reportSubCmd("projects", "Profit and loss per project", renderProjects))
	cmd.AddCommand(reportSubCmd("cashflow", "Income and expense of the last twelve months", renderCashflow))
	cmd.AddCommand(reportSubCmd("flow", "How income flows into expense categories", renderFlow))

	return cmd
}

type reportRenderer func(w io.Writer, r metrics.Report, currency string)

func reportSubCmd(use, short string, render reportRenderer) *cobra.Command {
	var (
		filters filterFlags
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s, err := filters.apply(cmd, a)
				if err != nil {
					return err
				}

				report := metrics.Build(s, a.today)
				if asJSON {
					enc := json.NewEncoder(a.out)
					enc.SetIndent("", "  ")
					return enc.Encode(report)
				}

				w := query.Resolve(s.Filters.DateRange, a.today)
				fmt.Fprintln(a.out, cli.FormatTitle(fmt.Sprintf("%s · %s", short, describeWindow(s.Filters.DateRange.Preset, w))))
				render(a.out, report, a.currency())
				return nil
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func describeWindow(preset model.DatePreset, w query.Window) string {
	switch {
	case preset == model.PresetAllTime || (w.From.IsZero() && w.To.IsZero()):
		return "all time"
	case w.From.IsZero():
		return "until " + w.To.String()
	case w.To.IsZero():
		return "since " + w.From.String()
	default:
		return fmt.Sprintf("%s to %s", w.From, w.To)
	}
}

func renderStats(w io.Writer, r metrics.Report, currency string) {
	st := r.Stats
	table := cli.NewTable("", "Amount", "vs. previous").AlignRight(1, 2)
	table.AddRow("Income", cli.Money(st.Income, currency), cli.Trend(st.IncomeTrend, false))
	table.AddRow("Expense", cli.Money(st.Expense, currency), cli.Trend(st.ExpenseTrend, true))
	table.AddRow("Saving", cli.Money(st.Saving, currency), cli.Trend(st.SavingTrend, false))
	table.AddRow("Balance", cli.Money(st.Balance, currency), cli.Trend(st.BalanceTrend, false))
	fmt.Fprintln(w, table.Render())
	fmt.Fprintf(w, "\n%d transactions in view\n", len(r.Filtered))
}

func renderBudgets(w io.Writer, r metrics.Report, currency string) {
	if len(r.Budgets) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No budgeted expense categories. Set one with 'klaro category edit <name> --budget <amount>'"))
		return
	}

	table := cli.NewTable("Category", "Spent", "Budget", "Used", "").AlignRight(1, 2, 3)
	over := 0
	for _, b := range r.Budgets {
		used := cli.Percent(b.Percentage)
		if b.Over() {
			used = cli.StyleError(used)
			over++
		} else if b.Percentage >= 80 {
			used = cli.StyleWarning(used)
		}
		table.AddRow(b.Name, cli.Money(b.Spent, currency), cli.Money(b.Budget, currency), used, cli.Bar(b.Percentage, 20))
	}
	fmt.Fprintln(w, table.Render())
	if over > 0 {
		fmt.Fprintln(w, "\n"+cli.FormatWarning(fmt.Sprintf("%d categories over budget", over)))
	}
}

func renderCategories(w io.Writer, r metrics.Report, currency string) {
	if len(r.Categories) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No expenses in this window"))
		return
	}

	var total float64
	for _, c := range r.Categories {
		total += c.Value
	}
	table := cli.NewTable("Category", "Spent", "Share").AlignRight(1, 2)
	for _, c := range r.Categories {
		table.AddRow(c.Name, cli.Money(c.Value, currency), cli.Percent(c.Value/total*100))
	}
	fmt.Fprintln(w, table.Render())
}

func renderProjects(w io.Writer, r metrics.Report, currency string) {
	if len(r.Projects) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No projects. Add one with 'klaro project add'"))
		return
	}

	table := cli.NewTable("Project", "Tag", "Income", "Expense", "Profit", "Budget used").AlignRight(2, 3, 4, 5)
	for _, p := range r.Projects {
		used := "—"
		if p.ExpenseBudget != nil && *p.ExpenseBudget > 0 {
			used = cli.Percent(p.Expense / *p.ExpenseBudget * 100)
		}
		profit := cli.Money(p.Profit, currency)
		if p.Profit < 0 {
			profit = cli.StyleError(profit)
		}
		table.AddRow(p.Name, p.Tag, cli.Money(p.Income, currency), cli.Money(p.Expense, currency), profit, used)
	}
	fmt.Fprintln(w, table.Render())
}

func renderCashflow(w io.Writer, r metrics.Report, currency string) {
	table := cli.NewTable("Month", "Income", "Expense", "Net").AlignRight(1, 2, 3)
	for _, m := range r.Cashflow {
		table.AddRow(m.Month, cli.Money(m.Income, currency), cli.Money(m.Expense, currency), cli.Money(m.Income-m.Expense, currency))
	}
	fmt.Fprintln(w, table.Render())
}

func renderFlow(w io.Writer, r metrics.Report, currency string) {
	if len(r.Flow.Links) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No income or categorized expenses in this window"))
		return
	}

	table := cli.NewTable("From", "", "To", "Amount").AlignRight(3)
	for _, l := range r.Flow.Links {
		table.AddRow(r.Flow.Nodes[l.Source].Name, "→", r.Flow.Nodes[l.Target].Name, cli.Money(l.Value, currency))
	}
	fmt.Fprintln(w, table.Render())
}
