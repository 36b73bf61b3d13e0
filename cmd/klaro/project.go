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

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage tag-based projects",
		Long: `Manage projects. A project tracks every transaction carrying its tag;
use 'klaro report projects' for income, expense and profit per project.`,
	}

	cmd.AddCommand(projectListCmd())
	cmd.AddCommand(projectAddCmd())
	cmd.AddCommand(projectEditCmd())
	cmd.AddCommand(projectDeleteCmd())

	return cmd
}

func projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				if len(s.Projects) == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo("No projects yet. Add one with 'klaro project add'"))
					return nil
				}

				currency := a.currency()
				table := cli.NewTable("ID", "Name", "Tag", "Income budget", "Expense budget").AlignRight(3, 4)
				for _, p := range s.Projects {
					table.AddRow(p.ID, p.Name, p.Tag, budgetCell(p.IncomeBudget, currency), budgetCell(p.ExpenseBudget, currency))
				}
				fmt.Fprintln(a.out, table.Render())
				return nil
			})
		},
	}
}

func budgetCell(b *float64, currency string) string {
	if b == nil {
		return "—"
	}
	return cli.Money(*b, currency)
}

func projectAddCmd() *cobra.Command {
	var (
		tag           string
		incomeBudget  float64
		expenseBudget float64
	)

	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a project",
		Long:    `Add a project. The tag defaults to the name in lowercase-hyphen form ("Project Alpha" becomes project-alpha).`,
		Example: `  klaro project add "Website Relaunch" --expense-budget 2000`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if incomeBudget < 0 || expenseBudget < 0 {
				return fmt.Errorf("budgets must not be negative")
			}

			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				p := model.Project{
					Name:          strings.TrimSpace(args[0]),
					Tag:           tag,
					IncomeBudget:  optionalBudget(incomeBudget),
					ExpenseBudget: optionalBudget(expenseBudget),
				}
				before := len(s.Projects)
				s = a.engine.Dispatch(ledger.AddProject{Project: p})
				if len(s.Projects) == before {
					return fmt.Errorf("project rejected: the name or tag must contain letters or digits")
				}

				added := s.Projects[len(s.Projects)-1]
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Added project %s tracking tag %q (%s)", added.Name, added.Tag, added.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "tag to track (default: derived from the name)")
	cmd.Flags().Float64Var(&incomeBudget, "income-budget", 0, "expected income (0 for none)")
	cmd.Flags().Float64Var(&expenseBudget, "expense-budget", 0, "expense budget (0 for none)")
	return cmd
}

func projectEditCmd() *cobra.Command {
	var (
		name          string
		tag           string
		incomeBudget  float64
		expenseBudget float64
	)

	cmd := &cobra.Command{
		Use:   "edit <project>",
		Short: "Change a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				p, err := findProject(a.state(), args[0])
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					p.Name = strings.TrimSpace(name)
				}
				if flags.Changed("tag") {
					if p.Tag = model.NormalizeTag(tag); p.Tag == "" {
						return fmt.Errorf("invalid tag %q", tag)
					}
				}
				if flags.Changed("income-budget") {
					p.IncomeBudget = optionalBudget(incomeBudget)
				}
				if flags.Changed("expense-budget") {
					p.ExpenseBudget = optionalBudget(expenseBudget)
				}

				a.engine.Dispatch(ledger.UpdateProject{Project: p})
				fmt.Fprintln(a.out, cli.FormatSuccess("Updated project "+p.Name))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&tag, "tag", "", "new tag")
	cmd.Flags().Float64Var(&incomeBudget, "income-budget", 0, "expected income (0 removes it)")
	cmd.Flags().Float64Var(&expenseBudget, "expense-budget", 0, "expense budget (0 removes it)")
	return cmd
}

func projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <project>",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Long:    `Delete a project. Tagged transactions keep their tags.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				p, err := findProject(a.state(), args[0])
				if err != nil {
					return err
				}
				a.engine.Dispatch(ledger.DeleteProject{ID: p.ID})
				fmt.Fprintln(a.out, cli.FormatSuccess("Deleted project "+p.Name))
				return nil
			})
		},
	}
}
