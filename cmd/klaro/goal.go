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

func goalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals"},
		Short:   "Manage savings goals",
		Long: `Manage savings goals and sinking funds.

The saved amount of a goal is the sum of its saving transactions.`,
	}

	cmd.AddCommand(goalListCmd())
	cmd.AddCommand(goalAddCmd())
	cmd.AddCommand(goalEditCmd())
	cmd.AddCommand(goalDeleteCmd())

	return cmd
}

func parseGoalType(s string) (model.GoalType, error) {
	switch t := model.GoalType(strings.ToLower(strings.ReplaceAll(s, "-", "_"))); t {
	case model.GoalTypeGoal, model.GoalTypeSinkingFund:
		return t, nil
	}
	return "", fmt.Errorf("invalid goal type %q: must be goal or sinking_fund", s)
}

func goalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show progress towards every goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.state()
				statuses := s.GoalStatuses()
				if len(statuses) == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo("No goals yet. Add one with 'klaro goal add'"))
					return nil
				}

				currency := a.currency()
				table := cli.NewTable("ID", "Name", "Type", "Saved", "Target", "Progress", "").AlignRight(3, 4, 5)
				for _, g := range statuses {
					name := g.Name
					if g.Reached() {
						name += " " + cli.SuccessIcon
					}
					table.AddRow(g.ID, name, string(g.Type),
						cli.Money(g.CurrentAmount, currency),
						cli.Money(g.TargetAmount, currency),
						cli.Percent(g.Progress()),
						cli.Bar(g.Progress(), 20))
				}
				fmt.Fprintln(a.out, cli.FormatTitle("Goals"))
				fmt.Fprintln(a.out, table.Render())
				return nil
			})
		},
	}
}

func goalAddCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:     "add <name> <target>",
		Short:   "Add a savings goal",
		Example: `  klaro goal add "New Laptop" 1500 --type sinking_fund`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gt, err := parseGoalType(typ)
			if err != nil {
				return err
			}
			target, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			return withEngine(cmd, func(_ context.Context, a *app) error {
				s := a.engine.Dispatch(ledger.AddGoal{Goal: model.Goal{
					Name:         strings.TrimSpace(args[0]),
					Type:         gt,
					TargetAmount: target,
				}})
				g := s.Goals[len(s.Goals)-1]
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Added goal %s: %s (%s)",
					g.Name, cli.Money(g.TargetAmount, a.currency()), g.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", string(model.GoalTypeGoal), "goal or sinking_fund")
	return cmd
}

func goalEditCmd() *cobra.Command {
	var (
		name   string
		typ    string
		target float64
	)

	cmd := &cobra.Command{
		Use:   "edit <goal>",
		Short: "Change a goal's name, type or target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				g, err := findGoal(a.state(), args[0])
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					g.Name = strings.TrimSpace(name)
				}
				if flags.Changed("type") {
					if g.Type, err = parseGoalType(typ); err != nil {
						return err
					}
				}
				if flags.Changed("target") {
					if target <= 0 {
						return fmt.Errorf("invalid target %v: must be a positive number", target)
					}
					g.TargetAmount = target
				}

				a.engine.Dispatch(ledger.UpdateGoal{Goal: g})
				fmt.Fprintln(a.out, cli.FormatSuccess("Updated goal "+g.Name))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "goal or sinking_fund")
	cmd.Flags().Float64Var(&target, "target", 0, "target amount")
	return cmd
}

func goalDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <goal>",
		Aliases: []string{"rm"},
		Short:   "Delete a goal",
		Long:    `Delete a goal. Its saving transactions are kept but no longer count towards any goal.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(ctx context.Context, a *app) error {
				g, err := findGoal(a.state(), args[0])
				if err != nil {
					return err
				}
				ok, err := a.confirm(ctx, yes, fmt.Sprintf("Delete goal %s?", g.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, cli.FormatInfo("Nothing deleted"))
					return nil
				}

				a.engine.Dispatch(ledger.DeleteGoal{ID: g.ID})
				fmt.Fprintln(a.out, cli.FormatSuccess("Deleted goal "+g.Name))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
