package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/common"
	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/ofx"
	"github.com/Veraticus/klaro/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import data into the ledger",
	}

	cmd.AddCommand(importJSONCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importJSONCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "json <file|->",
		Short: "Replace ledger collections from a JSON export",
		Long: `Import a JSON document as produced by 'klaro export json'.

Every collection present in the document replaces the current one; collections
that are missing are kept. Goal and liability totals are recomputed from the
imported transactions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			imp, err := ledger.ParseImport(data)
			if err != nil {
				return common.NewUserError("The file is not a valid klaro export", err)
			}

			return withEngine(cmd, func(ctx context.Context, a *app) error {
				replaced := importedCollections(imp)
				if len(replaced) == 0 && imp.UserProfile == nil && imp.Theme == nil {
					fmt.Fprintln(a.out, cli.FormatInfo("Nothing to import"))
					return nil
				}

				if len(replaced) > 0 {
					ok, err := a.confirm(ctx, yes, "Replace "+strings.Join(replaced, ", ")+"?")
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(a.out, cli.FormatInfo("Nothing imported"))
						return nil
					}
				}

				s := a.engine.Dispatch(ledger.ImportData{Data: imp})
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions, %d categories, %d goals, %d liabilities",
					len(s.Transactions), len(s.Categories), len(s.Goals), len(s.Liabilities))))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func importedCollections(imp ledger.Import) []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(imp.Transactions != nil, "transactions")
	add(imp.Categories != nil, "categories")
	add(imp.Goals != nil, "goals")
	add(imp.Projects != nil, "projects")
	add(imp.RecurringTransactions != nil, "recurring transactions")
	add(imp.Liabilities != nil, "liabilities")
	return names
}

func importOFXCmd() *cobra.Command {
	var (
		tags     []string
		category string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "ofx <file|dir>...",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.

Directories are searched for .ofx and .qfx files. Debits become expenses and
credits income. Transactions already in the ledger (same date, amount, type
and description) are skipped.`,
		Example: `  klaro import ofx ~/Downloads/checking_2024_03.qfx
  klaro import ofx ~/Downloads/statements/ --tag business
  klaro import ofx ~/Downloads/*.ofx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := statementFiles(args)
			if err != nil {
				return err
			}

			return withEngine(cmd, func(ctx context.Context, a *app) error {
				categoryID, err := optionalRef(category, categoryIDOf(a.state()))
				if err != nil {
					return err
				}

				handler := cli.NewInterruptHandler(a.out, "Import")
				ctx = handler.HandleInterrupts(ctx)

				parser := ofx.NewParser(ofx.WithTags(normalizeTags(tags)...))
				drafts, err := extractAll(ctx, a.out, parser, files)
				if err != nil {
					return err
				}

				fresh := ofx.FilterDuplicates(a.state().Transactions, drafts)
				skipped := len(drafts) - len(fresh)

				if dryRun {
					renderDrafts(a.out, fresh, a.currency())
					fmt.Fprintln(a.out, cli.FormatInfo(fmt.Sprintf("Dry run: %d new, %d already in the ledger. Nothing saved.", len(fresh), skipped)))
					return nil
				}

				imported := 0
				for _, t := range fresh {
					if handler.WasInterrupted() {
						break
					}
					if categoryID != "" && t.Type == model.TypeExpense {
						t.CategoryID = categoryID
					}
					a.engine.Dispatch(ledger.AddTransaction{Transaction: t})
					imported++
				}

				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions from %d file(s), skipped %d duplicates",
					imported, len(files), skipped)))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag every imported transaction (repeatable)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "assign this category to imported expenses")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the import without saving")
	return cmd
}

// statementFiles expands globs and directories into a sorted list of statement files.
func statementFiles(args []string) ([]string, error) {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}

		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil {
				slog.Warn("No files found matching pattern", "pattern", path)
				continue
			}
			if !info.IsDir() {
				files = append(files, path)
				continue
			}
			err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && isStatement(p) {
					files = append(files, p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", path, err)
			}
		}
	}

	slices.Sort(files)
	files = slices.Compact(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func isStatement(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return true
	}
	return false
}

// extractAll parses every file. Unreadable files are logged and skipped; an
// interrupt stops after the current file.
func extractAll(ctx context.Context, w io.Writer, ex service.Extractor, files []string) ([]model.Transaction, error) {
	var drafts []model.Transaction
	bar := cli.NewProgressBar(w, len(files), "Parsing statements")
	defer func() { _ = bar.Finish() }()

	failed := 0
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}

		got, err := extractFile(ctx, ex, path)
		_ = bar.Add(1)
		switch {
		case errors.Is(err, common.ErrNoTransactions):
			slog.Warn("No transactions found in file", "file", filepath.Base(path))
		case err != nil:
			failed++
			slog.Error("Failed to parse statement", "file", path, "error", err)
		default:
			slog.Debug("Processed file", "file", filepath.Base(path), "transactions_found", len(got))
			drafts = append(drafts, ofx.FilterDuplicates(drafts, got)...)
		}
	}

	if failed == len(files) {
		return nil, fmt.Errorf("none of the %d file(s) could be parsed", len(files))
	}
	return drafts, nil
}

func extractFile(ctx context.Context, ex service.Extractor, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ex.Extract(ctx, f)
}

func renderDrafts(w io.Writer, drafts []model.Transaction, currency string) {
	if len(drafts) == 0 {
		return
	}
	table := cli.NewTable("Date", "Description", "Amount").AlignRight(2)
	for _, t := range drafts {
		table.AddRow(t.Date.String(), t.Description, cli.TypedAmount(t.Type, t.Amount, currency))
	}
	fmt.Fprintln(w, table.Render())
}
