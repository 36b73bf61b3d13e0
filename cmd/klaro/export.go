package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/ledger"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "json [file]",
		Short: "Write the ledger as JSON (stdout when no file is given)",
		Long: `Write every persisted collection and setting as JSON. The output can be
read back with 'klaro import json'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(_ context.Context, a *app) error {
				data, err := json.MarshalIndent(ledger.Export(a.state()), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode ledger: %w", err)
				}
				data = append(data, '\n')

				if len(args) == 0 || args[0] == "-" {
					_, err = a.out.Write(data)
					return err
				}
				if err := os.WriteFile(args[0], data, 0o600); err != nil {
					return fmt.Errorf("failed to write %s: %w", args[0], err)
				}
				fmt.Fprintln(a.out, cli.FormatSuccess("Exported ledger to "+args[0]))
				return nil
			})
		},
	})

	return cmd
}
