package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/ledger"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the ledger with the sample data",
		Long: `Reset discards every transaction, category, goal, liability, project and
recurring transaction and loads the sample ledger. The theme is kept.

This is a destructive operation. Create a checkpoint first if you may want
the current data back.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, a *app) error {
				s := a.state()
				ok, err := a.confirm(ctx, force,
					fmt.Sprintf("This will delete %d transactions and every other record. Continue?", len(s.Transactions)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, cli.FormatInfo("Reset cancelled."))
					return nil
				}

				a.engine.Dispatch(ledger.ResetState{})
				fmt.Fprintln(a.out, cli.FormatSuccess("Ledger reset to the sample data"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
