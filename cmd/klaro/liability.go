package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
)

func liabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "liability",
		Aliases: []string{"liabilities", "debt"},
		Short:   "Manage debts and loans",
		Long: `Manage debts (money you owe) and loans (money owed to you).

A debt is repaid by expense transactions linked to it, a loan by income
transactions linked to it.`,
	}

	cmd.AddCommand(liabilityListCmd())
	cmd.AddCommand(liabilityAddCmd())
	cmd.AddCommand(liabilityEditCmd())
	cmd.AddCommand(liabilityDeleteCmd())

	return cmd
}

func parseLiabilityType(s string) (model.LiabilityType, error) {
	switch t := model.LiabilityType(strings.ToLower(s)); t {
	case model.LiabilityTypeDebt, model.LiabilityTypeLoan:
		return t, nil
	}
	return "", fmt.Errorf("invalid liability type %q: must be debt or loan", s)
}

func liabilityListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show outstanding balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				statuses := s.LiabilityStatuses()
				if len(statuses) == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo("No debts or loans recorded"))
					return nil
				}

				currency := a.currency()
				table := cli.NewTable("ID", "Name", "Type", "Rate", "Paid", "Outstanding", "Progress").AlignRight(3, 4, 5, 6)
				var owed, owedToYou float64
				for _, l := range statuses {
					table.AddRow(l.ID, l.Name, string(l.Type),
						cli.Percent(l.InterestRate),
						cli.Money(l.PaidAmount, currency),
						cli.Money(l.Outstanding(), currency),
						cli.Percent(l.Progress()))
					if l.Outstanding() <= 0 {
						continue
					}
					if l.Type == model.LiabilityTypeDebt {
						owed += l.Outstanding()
					} else {
						owedToYou += l.Outstanding()
					}
				}
				fmt.Fprintln(a.out, cli.FormatTitle("Debts & Loans"))
				fmt.Fprintln(a.out, table.Render())
				fmt.Fprintf(a.out, "\nYou owe %s · owed to you %s\n", cli.Money(owed, currency), cli.Money(owedToYou, currency))
				return nil
			})
		},
	}
}

type liabilityFields struct {
	typ      string
	creditor string
	debtor   string
	start    string
	due      string
	rate     float64
}

func (f *liabilityFields) register(cmd *cobra.Command, defaultType string) {
	flags := cmd.Flags()
	flags.StringVarP(&f.typ, "type", "t", defaultType, "debt or loan")
	flags.Float64VarP(&f.rate, "rate", "r", 0, "annual interest rate in percent")
	flags.StringVar(&f.creditor, "creditor", "", "who is owed")
	flags.StringVar(&f.debtor, "debtor", "", "who owes")
	flags.StringVar(&f.start, "start", "", "start date (YYYY-MM-DD, default today)")
	flags.StringVar(&f.due, "due", "", "due date (YYYY-MM-DD)")
}

func liabilityAddCmd() *cobra.Command {
	var fields liabilityFields

	cmd := &cobra.Command{
		Use:   "add <name> <amount>",
		Short: "Record a debt or loan",
		Example: `  klaro liability add "Car loan" 15000 --rate 3.5 --creditor Bank
  klaro liability add "Loan to Sam" 500 --type loan --debtor Sam`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lt, err := parseLiabilityType(fields.typ)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if fields.rate < 0 {
				return fmt.Errorf("invalid rate %v: must not be negative", fields.rate)
			}

			return withEngine(cmd, func(_ context.Context, a *app) error {
				l := model.Liability{
					Name:          strings.TrimSpace(args[0]),
					Type:          lt,
					InitialAmount: amount,
					InterestRate:  fields.rate,
					Creditor:      fields.creditor,
					Debtor:        fields.debtor,
				}
				if l.StartDate, err = parseDateFlag(fields.start, a.today); err != nil {
					return err
				}
				if fields.due != "" {
					due, err := model.ParseDate(fields.due)
					if err != nil {
						return fmt.Errorf("invalid due date %q: use YYYY-MM-DD", fields.due)
					}
					l.DueDate = &due
				}

				s := a.engine.Dispatch(ledger.AddLiability{Liability: l})
				added := s.Liabilities[len(s.Liabilities)-1]
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Added %s %s: %s (%s)",
					added.Type, added.Name, cli.Money(added.InitialAmount, a.currency()), added.ID)))
				return nil
			})
		},
	}

	fields.register(cmd, string(model.LiabilityTypeDebt))
	return cmd
}

func liabilityEditCmd() *cobra.Command {
	var (
		fields liabilityFields
		name   string
		amount float64
	)

	cmd := &cobra.Command{
		Use:   "edit <liability>",
		Short: "Change a debt or loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				l, err := findLiability(a.state(), args[0])
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					l.Name = strings.TrimSpace(name)
				}
				if flags.Changed("type") {
					if l.Type, err = parseLiabilityType(fields.typ); err != nil {
						return err
					}
				}
				if flags.Changed("amount") {
					if amount <= 0 {
						return fmt.Errorf("invalid amount %v: must be a positive number", amount)
					}
					l.InitialAmount = amount
				}
				if flags.Changed("rate") {
					if fields.rate < 0 {
						return fmt.Errorf("invalid rate %v: must not be negative", fields.rate)
					}
					l.InterestRate = fields.rate
				}
				if flags.Changed("creditor") {
					l.Creditor = fields.creditor
				}
				if flags.Changed("debtor") {
					l.Debtor = fields.debtor
				}
				if flags.Changed("start") {
					if l.StartDate, err = parseDateFlag(fields.start, a.today); err != nil {
						return err
					}
				}
				if flags.Changed("due") {
					l.DueDate = nil
					if fields.due != "" {
						due, err := model.ParseDate(fields.due)
						if err != nil {
							return fmt.Errorf("invalid due date %q: use YYYY-MM-DD", fields.due)
						}
						l.DueDate = &due
					}
				}

				a.engine.Dispatch(ledger.UpdateLiability{Liability: l})
				fmt.Fprintln(a.out, cli.FormatSuccess("Updated "+l.Name))
				return nil
			})
		},
	}

	fields.register(cmd, "")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "initial amount")
	return cmd
}

func liabilityDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <liability>",
		Aliases: []string{"rm"},
		Short:   "Delete a debt or loan",
		Long:    `Delete a debt or loan. Linked transactions are kept and unlinked.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(ctx context.Context, a *app) error {
				l, err := findLiability(a.state(), args[0])
				if err != nil {
					return err
				}
				ok, err := a.confirm(ctx, yes, fmt.Sprintf("Delete %s %s?", l.Type, l.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, cli.FormatInfo("Nothing deleted"))
					return nil
				}

				a.engine.Dispatch(ledger.DeleteLiability{ID: l.ID})
				fmt.Fprintln(a.out, cli.FormatSuccess("Deleted "+l.Name))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
