package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/metrics"
	"github.com/Veraticus/klaro/internal/model"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recurring",
		Aliases: []string{"bills"},
		Short:   "Manage recurring transactions and upcoming bills",
		Long: `Manage recurring transactions. They are templates: nothing is booked
automatically, 'klaro recurring due' lists what is coming up.`,
	}

	cmd.AddCommand(recurringListCmd())
	cmd.AddCommand(recurringAddCmd())
	cmd.AddCommand(recurringDeleteCmd())
	cmd.AddCommand(recurringDueCmd())

	return cmd
}

func recurringListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				if len(s.RecurringTransactions) == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo("No recurring transactions"))
					return nil
				}

				names := s.CategoryNames()
				currency := a.currency()
				table := cli.NewTable("ID", "Description", "Every", "Next due", "Category", "Bill", "Amount").AlignRight(6)
				for _, rt := range s.RecurringTransactions {
					bill := ""
					if rt.IsBill {
						bill = "yes"
					}
					table.AddRow(rt.ID, rt.Description, every(rt), rt.NextDueDate.String(),
						nameOr(names, rt.CategoryID, "—"), bill, cli.TypedAmount(rt.Type, rt.Amount, currency))
				}
				fmt.Fprintln(a.out, table.Render())
				return nil
			})
		},
	}
}

// every renders the repeat rule: "month", "2 weeks".
func every(rt model.RecurringTransaction) string {
	unit := map[model.Frequency]string{
		model.FrequencyDaily:   "day",
		model.FrequencyWeekly:  "week",
		model.FrequencyMonthly: "month",
		model.FrequencyYearly:  "year",
	}[rt.Frequency]
	if rt.Interval <= 1 {
		return unit
	}
	return fmt.Sprintf("%d %ss", rt.Interval, unit)
}

func recurringAddCmd() *cobra.Command {
	var (
		frequency string
		interval  int
		start     string
		end       string
		category  string
		goal      string
		bill      bool
	)

	cmd := &cobra.Command{
		Use:   "add <income|expense|saving> <amount> <description>",
		Short: "Add a recurring transaction",
		Example: `  klaro recurring add expense 850 Rent --frequency monthly --start 2024-04-01 --bill
  klaro recurring add saving 100 "Holiday fund" --frequency weekly --interval 2 --goal Holiday`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := parseTransactionType(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			freq := model.Frequency(strings.ToLower(frequency))
			if !freq.Valid() {
				return fmt.Errorf("invalid frequency %q: must be daily, weekly, monthly or yearly", frequency)
			}
			if interval < 1 {
				return fmt.Errorf("invalid interval %d: must be at least 1", interval)
			}

			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				rt := model.RecurringTransaction{
					Type:        typ,
					Amount:      amount,
					Description: strings.TrimSpace(args[2]),
					Frequency:   freq,
					Interval:    interval,
					IsBill:      bill,
				}
				if rt.StartDate, err = parseDateFlag(start, a.today); err != nil {
					return err
				}
				if end != "" {
					d, err := model.ParseDate(end)
					if err != nil {
						return fmt.Errorf("invalid end date %q: use YYYY-MM-DD", end)
					}
					if d.Before(rt.StartDate) {
						return fmt.Errorf("end date %s is before the start date %s", d, rt.StartDate)
					}
					rt.EndDate = &d
				}
				if rt.CategoryID, err = optionalRef(category, categoryIDOf(s)); err != nil {
					return err
				}
				if rt.GoalID, err = optionalRef(goal, goalIDOf(s)); err != nil {
					return err
				}

				s = a.engine.Dispatch(ledger.AddRecurring{Recurring: rt})
				added := s.RecurringTransactions[len(s.RecurringTransactions)-1]
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Added %s every %s, first due %s (%s)",
					added.Description, every(added), added.NextDueDate, added.ID)))
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&frequency, "frequency", "f", string(model.FrequencyMonthly), "daily, weekly, monthly or yearly")
	flags.IntVarP(&interval, "interval", "i", 1, "repeat every n periods")
	flags.StringVar(&start, "start", "", "first due date (YYYY-MM-DD, default today)")
	flags.StringVar(&end, "end", "", "last possible due date (YYYY-MM-DD)")
	flags.StringVarP(&category, "category", "c", "", "category id or name")
	flags.StringVarP(&goal, "goal", "g", "", "goal id or name")
	flags.BoolVar(&bill, "bill", false, "mark as a bill")
	return cmd
}

func recurringDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <recurring>",
		Aliases: []string{"rm"},
		Short:   "Delete a recurring transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				rt, err := findRecurring(a.state(), args[0])
				if err != nil {
					return err
				}
				a.engine.Dispatch(ledger.DeleteRecurring{ID: rt.ID})
				fmt.Fprintln(a.out, cli.FormatSuccess("Deleted "+rt.Description))
				return nil
			})
		},
	}
}

func recurringDueCmd() *cobra.Command {
	var (
		days      int
		billsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List occurrences due in the coming days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 0 {
				return fmt.Errorf("invalid --days %d: must not be negative", days)
			}

			return withEngine(cmd, func(_ context.Context, a *app) error {
				bills := metrics.UpcomingBills(a.state().RecurringTransactions, a.today, days, billsOnly)
				if len(bills) == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo(fmt.Sprintf("Nothing due in the next %d days", days)))
					return nil
				}

				currency := a.currency()
				table := cli.NewTable("Due", "In", "Description", "Amount").AlignRight(1, 3)
				var total float64
				for _, b := range bills {
					table.AddRow(b.Due.String(), dueIn(b.DaysUntil), b.Description, cli.TypedAmount(b.Type, b.Amount, currency))
					if b.Type == model.TypeExpense {
						total += b.Amount
					}
				}
				fmt.Fprintln(a.out, table.Render())
				fmt.Fprintf(a.out, "\nOutgoing in the next %d days: %s\n", days, cli.Money(total, currency))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "look-ahead in days")
	cmd.Flags().BoolVar(&billsOnly, "bills-only", false, "only recurring transactions marked as bills")
	return cmd
}

func dueIn(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}
