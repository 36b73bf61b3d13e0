package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/metrics"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/query"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Manage transactions",
		Long: `Record, list and clean up ledger transactions.

Amounts are always positive; the type (income, expense, saving) gives the direction.`,
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txEditCmd())
	cmd.AddCommand(txDeleteCmd())
	cmd.AddCommand(txMergeCmd())
	cmd.AddCommand(txCategorizeCmd())

	return cmd
}

type txFields struct {
	date      string
	category  string
	goal      string
	liability string
	tags      []string
}

func (f *txFields) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.date, "date", "d", "", "transaction date (YYYY-MM-DD, today, yesterday)")
	flags.StringVarP(&f.category, "category", "c", "", "category id or name")
	flags.StringVarP(&f.goal, "goal", "g", "", "goal id or name (saving transactions)")
	flags.StringVarP(&f.liability, "liability", "l", "", "liability id or name")
	flags.StringSliceVar(&f.tags, "tag", nil, "tags (repeatable)")
}

func txAddCmd() *cobra.Command {
	var fields txFields

	cmd := &cobra.Command{
		Use:   "add <income|expense|saving> <amount> <description>",
		Short: "Record a transaction",
		Example: `  klaro tx add expense 12.50 "Lunch" --category Food
  klaro tx add saving 200 "Emergency fund" --goal "Emergency Fund"
  klaro tx add income 500 "Invoice 42" --tag business --tag project-alpha`,
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

			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				tx := model.Transaction{
					Type:        typ,
					Amount:      amount,
					Description: strings.TrimSpace(args[2]),
					Tags:        normalizeTags(fields.tags),
				}
				if err := fields.fill(&tx, s, a.today); err != nil {
					return err
				}

				before := len(s.Transactions)
				s = a.engine.Dispatch(ledger.AddTransaction{Transaction: tx})
				if len(s.Transactions) == before {
					return fmt.Errorf("transaction rejected: check the type, amount and date")
				}

				added := s.Transactions[len(s.Transactions)-1]
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Added %s %s on %s (%s)",
					added.Type, cli.Money(added.Amount, a.currency()), added.Date, added.ID)))
				return nil
			})
		},
	}

	fields.register(cmd)
	return cmd
}

// fill resolves the reference flags onto tx.
func (f *txFields) fill(tx *model.Transaction, s ledger.State, today model.Date) error {
	d, err := parseDateFlag(f.date, today)
	if err != nil {
		return err
	}
	tx.Date = d

	if tx.CategoryID, err = optionalRef(f.category, categoryIDOf(s)); err != nil {
		return err
	}
	if tx.GoalID, err = optionalRef(f.goal, goalIDOf(s)); err != nil {
		return err
	}
	if tx.LiabilityID, err = optionalRef(f.liability, liabilityIDOf(s)); err != nil {
		return err
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = model.NormalizeTag(t); t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func txListCmd() *cobra.Command {
	var (
		filters filterFlags
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions matching the filters",
		Long: `List transactions in the current filter window, newest first.

Without flags the saved filters apply (this month by default).`,
		Example: `  klaro tx list --period last_month --type expense
  klaro tx list --from 2024-01-01 --to 2024-03-31 --search rent
  klaro tx list --view business --tag project-alpha`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s, err := filters.apply(cmd, a)
				if err != nil {
					return err
				}

				view := query.FilteredView(s.Transactions, s.Filters, s.ViewMode, a.today)
				if len(view) == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo("No transactions match the current filters"))
					return nil
				}

				slices.SortStableFunc(view, func(x, y model.Transaction) int {
					return y.Date.Compare(x.Date)
				})

				names := s.CategoryNames()
				currency := a.currency()
				table := cli.NewTable("Date", "ID", "Description", "Category", "Tags", "Amount").AlignRight(5)
				for i, t := range view {
					if limit > 0 && i >= limit {
						break
					}
					table.AddRow(
						t.Date.String(),
						t.ID,
						t.Description,
						nameOr(names, t.CategoryID, "—"),
						strings.Join(t.Tags, ","),
						cli.TypedAmount(t.Type, t.Amount, currency),
					)
				}
				fmt.Fprintln(a.out, table.Render())

				totals := metrics.Sum(view)
				fmt.Fprintf(a.out, "\n%d transactions  income %s  expense %s  saving %s  balance %s\n",
					len(view),
					cli.Money(totals.Income, currency),
					cli.Money(totals.Expense, currency),
					cli.Money(totals.Saving, currency),
					cli.Money(totals.Balance(), currency))
				return nil
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n rows (0 for all)")
	return cmd
}

func txEditCmd() *cobra.Command {
	var (
		fields      txFields
		typ         string
		amount      float64
		description string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Long: `Change fields of a transaction. Only the flags given are changed.
Pass an empty value (--category "") to clear a reference.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				tx, err := findTransaction(s, args[0])
				if err != nil {
					return err
				}
				tx = tx.Clone()

				flags := cmd.Flags()
				if flags.Changed("type") {
					if tx.Type, err = parseTransactionType(typ); err != nil {
						return err
					}
				}
				if flags.Changed("amount") {
					if amount <= 0 {
						return fmt.Errorf("invalid amount %v: must be a positive number", amount)
					}
					tx.Amount = amount
				}
				if flags.Changed("description") {
					tx.Description = strings.TrimSpace(description)
				}
				if flags.Changed("date") {
					if tx.Date, err = parseDateFlag(fields.date, a.today); err != nil {
						return err
					}
				}
				if flags.Changed("category") {
					if tx.CategoryID, err = optionalRef(fields.category, categoryIDOf(s)); err != nil {
						return err
					}
				}
				if flags.Changed("goal") {
					if tx.GoalID, err = optionalRef(fields.goal, goalIDOf(s)); err != nil {
						return err
					}
				}
				if flags.Changed("liability") {
					if tx.LiabilityID, err = optionalRef(fields.liability, liabilityIDOf(s)); err != nil {
						return err
					}
				}
				if flags.Changed("tag") {
					tx.Tags = normalizeTags(fields.tags)
				}

				next := a.engine.Dispatch(ledger.UpdateTransaction{Transaction: tx})
				if got, _ := next.Transaction(tx.ID); got.Amount != tx.Amount || got.Type != tx.Type || !got.Date.Equal(tx.Date) {
					return fmt.Errorf("update of %s rejected: check the type, amount and date", tx.ID)
				}
				fmt.Fprintln(a.out, cli.FormatSuccess("Updated transaction "+tx.ID))
				return nil
			})
		},
	}

	fields.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&typ, "type", "t", "", "income, expense or saving")
	flags.Float64VarP(&amount, "amount", "a", 0, "amount")
	flags.StringVar(&description, "description", "", "description")
	return cmd
}

func txDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete transactions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(ctx context.Context, a *app) error {
				s := a.state()
				for _, id := range args {
					if _, err := findTransaction(s, id); err != nil {
						return err
					}
				}

				a.engine.Dispatch(ledger.SetSelection{IDs: args})
				ok, err := a.confirm(ctx, yes, fmt.Sprintf("Delete %d transaction(s)?", len(args)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, cli.FormatInfo("Nothing deleted"))
					return nil
				}

				after := a.engine.Dispatch(ledger.DeleteTransactions{IDs: a.engine.State().Selection})
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Deleted %d transaction(s)", len(s.Transactions)-len(after.Transactions))))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func txMergeCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "merge <id> <id>...",
		Short: "Merge transactions into one",
		Long: `Merge two or more transactions into a single one.

Amounts are summed and tags are united. The merged transaction takes the
latest date, and the earliest transaction supplies its type and references.
Goal and liability totals are unchanged.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				for _, id := range args {
					if _, err := findTransaction(s, id); err != nil {
						return err
					}
				}

				after := a.engine.Dispatch(ledger.MergeTransactions{Description: description, IDs: args})
				if len(after.Transactions) == len(s.Transactions) {
					return fmt.Errorf("nothing merged: at least two distinct transactions are required")
				}

				merged := after.Transactions[len(after.Transactions)-1]
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Merged %d transactions into %s (%s)",
					len(s.Transactions)-len(after.Transactions)+1, merged.ID, cli.Money(merged.Amount, a.currency()))))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "description of the merged transaction")
	return cmd
}

func txCategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <category> <id>...",
		Short: "Assign a category to transactions",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				c, err := findCategory(s, args[0])
				if err != nil {
					return err
				}
				for _, id := range args[1:] {
					if _, err := findTransaction(s, id); err != nil {
						return err
					}
				}

				a.engine.Dispatch(ledger.CategorizeTransactions{CategoryID: c.ID, IDs: args[1:]})
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Categorized %d transaction(s) as %s", len(args)-1, c.Name)))
				return nil
			})
		},
	}
}
