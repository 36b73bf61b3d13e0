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

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "Manage categories",
		Long: `Manage income and expense categories.

Expense categories may carry a monthly budget; they then appear in the budget report.`,
	}

	cmd.AddCommand(categoryListCmd())
	cmd.AddCommand(categoryAddCmd())
	cmd.AddCommand(categoryEditCmd())
	cmd.AddCommand(categoryDeleteCmd())
	cmd.AddCommand(categoryPruneCmd())
	cmd.AddCommand(categoryReorderCmd())

	return cmd
}

func categoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				if len(s.Categories) == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo("No categories yet. Add one with 'klaro category add'"))
					return nil
				}

				used := make(map[string]int)
				for _, t := range s.Transactions {
					used[t.CategoryID]++
				}

				table := cli.NewTable("ID", "Name", "Type", "Budget", "Transactions").AlignRight(3, 4)
				for _, c := range s.Categories {
					budget := "—"
					if c.HasBudget() {
						budget = cli.Money(*c.Budget, a.currency())
					}
					table.AddRow(c.ID, c.Name, string(c.Type), budget, fmt.Sprint(used[c.ID]))
				}
				fmt.Fprintln(a.out, cli.FormatTitle("Categories"))
				fmt.Fprintln(a.out, table.Render())
				return nil
			})
		},
	}
}

func parseCategoryType(s string) (model.CategoryType, error) {
	switch t := model.CategoryType(strings.ToLower(s)); t {
	case model.CategoryTypeIncome, model.CategoryTypeExpense:
		return t, nil
	}
	return "", fmt.Errorf("invalid category type %q: must be income or expense", s)
}

func categoryAddCmd() *cobra.Command {
	var (
		typ    string
		budget float64
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Example: `  klaro category add Groceries --budget 400
  klaro category add Salary --type income`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := parseCategoryType(typ)
			if err != nil {
				return err
			}
			if budget < 0 {
				return fmt.Errorf("invalid budget %v: must not be negative", budget)
			}

			return withEngine(cmd, func(_ context.Context, a *app) error {
				name := strings.TrimSpace(args[0])
				if _, err := findCategory(a.state(), name); err == nil {
					return fmt.Errorf("category %q already exists", name)
				}

				before := len(a.state().Categories)
				s := a.engine.Dispatch(ledger.AddCategory{Category: model.Category{
					Name:   name,
					Type:   ct,
					Budget: optionalBudget(budget),
				}})
				if len(s.Categories) == before {
					return fmt.Errorf("category rejected: a name is required")
				}

				c := s.Categories[len(s.Categories)-1]
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Added %s category %s (%s)", c.Type, c.Name, c.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", string(model.CategoryTypeExpense), "income or expense")
	cmd.Flags().Float64VarP(&budget, "budget", "b", 0, "monthly budget for expense categories (0 for none)")
	return cmd
}

func categoryEditCmd() *cobra.Command {
	var (
		name   string
		typ    string
		budget float64
	)

	cmd := &cobra.Command{
		Use:   "edit <category>",
		Short: "Rename a category or change its budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				c, err := findCategory(a.state(), args[0])
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					c.Name = strings.TrimSpace(name)
				}
				if flags.Changed("type") {
					if c.Type, err = parseCategoryType(typ); err != nil {
						return err
					}
				}
				if flags.Changed("budget") {
					if budget < 0 {
						return fmt.Errorf("invalid budget %v: must not be negative", budget)
					}
					c.Budget = optionalBudget(budget)
				}

				s := a.engine.Dispatch(ledger.UpdateCategory{Category: c})
				if got, _ := s.Category(c.ID); got.Name != c.Name || got.Type != c.Type {
					return fmt.Errorf("update of %s rejected: a name is required", c.ID)
				}
				fmt.Fprintln(a.out, cli.FormatSuccess("Updated category "+c.Name))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "income or expense")
	cmd.Flags().Float64VarP(&budget, "budget", "b", 0, "monthly budget (0 removes it)")
	return cmd
}

func categoryDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <category>",
		Aliases: []string{"rm"},
		Short:   "Delete a category",
		Long: `Delete a category. Transactions and recurring transactions that used it
become uncategorized; nothing else is removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(ctx context.Context, a *app) error {
				s := a.state()
				c, err := findCategory(s, args[0])
				if err != nil {
					return err
				}

				affected := 0
				for _, t := range s.Transactions {
					if t.CategoryID == c.ID {
						affected++
					}
				}

				question := fmt.Sprintf("Delete category %s?", c.Name)
				if affected > 0 {
					question = fmt.Sprintf("Delete category %s? %d transaction(s) will become uncategorized.", c.Name, affected)
				}
				ok, err := a.confirm(ctx, yes, question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, cli.FormatInfo("Nothing deleted"))
					return nil
				}

				a.engine.Dispatch(ledger.DeleteCategory{ID: c.ID})
				fmt.Fprintln(a.out, cli.FormatSuccess("Deleted category "+c.Name))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func categoryPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete every category no transaction uses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				before := len(a.state().Categories)
				s := a.engine.Dispatch(ledger.DeleteUnusedCategories{})
				removed := before - len(s.Categories)
				if removed == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo("Every category is in use"))
					return nil
				}
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Removed %d unused categories", removed)))
				return nil
			})
		},
	}
}

func categoryReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <category>...",
		Short: "Move categories to the front in the given order",
		Long: `Move the named categories to the front of the list in the given order.
Categories not named keep their relative order after them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				order := make([]model.Category, 0, len(s.Categories))
				moved := make(map[string]bool, len(args))
				for _, ref := range args {
					c, err := findCategory(s, ref)
					if err != nil {
						return err
					}
					if moved[c.ID] {
						continue
					}
					moved[c.ID] = true
					order = append(order, c)
				}
				for _, c := range s.Categories {
					if !moved[c.ID] {
						order = append(order, c)
					}
				}

				s = a.engine.Dispatch(ledger.ReorderCategories{Categories: order})
				names := make([]string, len(s.Categories))
				for i, c := range s.Categories {
					names[i] = c.Name
				}
				fmt.Fprintln(a.out, cli.FormatSuccess("Order: "+strings.Join(names, ", ")))
				return nil
			})
		},
	}
}
