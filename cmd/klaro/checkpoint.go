package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/common"
	"github.com/Veraticus/klaro/internal/config"
	"github.com/Veraticus/klaro/internal/storage"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage ledger checkpoints",
		Long: `Create, list, restore, and delete ledger checkpoints.

Checkpoints save a copy of the ledger before risky changes such as a large
import, so it can be restored later. They need the sqlite backend.`,
		Example: `  # Create a checkpoint before importing new data
  klaro checkpoint create --tag pre-2024-import

  # List all checkpoints
  klaro checkpoint list

  # Restore from a checkpoint
  klaro checkpoint restore pre-2024-import`,
	}

	cmd.AddCommand(createCheckpointCmd())
	cmd.AddCommand(listCheckpointsCmd())
	cmd.AddCommand(restoreCheckpointCmd())
	cmd.AddCommand(deleteCheckpointCmd())

	return cmd
}

// withSQLite opens the sqlite backend for commands that need more than the
// snapshot store interface.
func withSQLite(cmd *cobra.Command, fn func(ctx context.Context, store *storage.SQLiteStorage) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		return common.NewUserError("Checkpoints need the sqlite backend", fmt.Errorf("storage backend is %q", cfg.Storage.Backend))
	}

	store, err := openSQLite(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	return fn(ctx, store)
}

func createCheckpointCmd() *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new checkpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSQLite(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				info, err := store.CreateCheckpoint(ctx, tag, description)
				switch {
				case errors.Is(err, common.ErrNotFound):
					return common.NewUserError("Nothing has been saved yet, so there is nothing to checkpoint", err)
				case errors.Is(err, storage.ErrCheckpointExists):
					return common.NewUserError(fmt.Sprintf("A checkpoint named %q already exists", tag), err)
				case err != nil:
					return fmt.Errorf("failed to create checkpoint: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created checkpoint %s (%s)",
					cli.StyleInfo(info.ID), formatSize(info.Size))))
				if info.Description != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  Description: %s\n", info.Description)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "checkpoint name (generated from the time if empty)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description of the checkpoint")
	return cmd
}

func listCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all checkpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSQLite(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				checkpoints, err := store.ListCheckpoints(ctx)
				if err != nil {
					return fmt.Errorf("failed to list checkpoints: %w", err)
				}
				if len(checkpoints) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No checkpoints found."))
					return nil
				}

				table := cli.NewTable("Name", "Created", "Size", "Description").AlignRight(2)
				for _, cp := range checkpoints {
					table.AddRow(cp.ID, cp.CreatedAt.Local().Format("2006-01-02 15:04"), formatSize(cp.Size), cp.Description)
				}
				fmt.Fprintln(cmd.OutOrStdout(), table.Render())
				return nil
			})
		},
	}
}

func restoreCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <checkpoint>",
		Short: "Replace the ledger with a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQLite(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				out := cmd.OutOrStdout()
				if !force {
					ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out,
						fmt.Sprintf("%s This will replace your current ledger with checkpoint %s. Continue?", cli.WarningIcon, args[0]))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, cli.FormatInfo("Restore cancelled."))
						return nil
					}
				}

				if err := store.RestoreCheckpoint(ctx, args[0]); err != nil {
					if errors.Is(err, storage.ErrCheckpointNotFound) {
						return common.NewUserError(fmt.Sprintf("No checkpoint named %q", args[0]), err)
					}
					return fmt.Errorf("failed to restore checkpoint: %w", err)
				}
				fmt.Fprintln(out, cli.FormatSuccess("Restored from checkpoint "+args[0]))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

func deleteCheckpointCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <checkpoint>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQLite(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				if err := store.DeleteCheckpoint(ctx, args[0]); err != nil {
					if errors.Is(err, storage.ErrCheckpointNotFound) {
						return common.NewUserError(fmt.Sprintf("No checkpoint named %q", args[0]), err)
					}
					return fmt.Errorf("failed to delete checkpoint: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted checkpoint "+args[0]))
				return nil
			})
		},
	}
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
