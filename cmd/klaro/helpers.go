package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/klaro/internal/cli"
	"github.com/Veraticus/klaro/internal/common"
	"github.com/Veraticus/klaro/internal/config"
	"github.com/Veraticus/klaro/internal/engine"
	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/service"
	"github.com/Veraticus/klaro/internal/storage"
)

// app is what every ledger command runs against.
type app struct {
	cfg    *config.Config
	engine *engine.Engine
	out    io.Writer
	in     io.Reader
	today  model.Date
}

func (a *app) state() ledger.State {
	return a.engine.State()
}

func (a *app) currency() string {
	return a.engine.State().UserProfile.Currency
}

// openStore initializes the configured snapshot backend.
func openStore(ctx context.Context, cfg *config.Config) (service.SnapshotStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return storage.NewRedisStore(ctx, storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			Key:      cfg.Redis.Key,
			DB:       cfg.Redis.DB,
		})
	default:
		return openSQLite(ctx, cfg)
	}
}

func openSQLite(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		if errors.Is(err, common.ErrDatabaseCorrupted) {
			return nil, common.NewUserError(fmt.Sprintf("The database at %s is corrupted", cfg.Storage.DatabasePath), err)
		}
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// withEngine loads the ledger, runs fn and flushes pending writes before returning.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	e, err := engine.Open(ctx, store,
		engine.WithDebounce(cfg.Debounce),
		engine.WithClock(now),
		engine.WithLogger(slog.Default()),
	)
	if err != nil {
		_ = store.Close()
		return err
	}
	defer func() {
		// Flush with a fresh context so an interrupt does not drop the last write.
		if closeErr := e.Close(context.WithoutCancel(ctx)); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to save ledger: %w", closeErr))
		}
	}()

	return fn(ctx, &app{
		cfg:    cfg,
		engine: e,
		out:    cmd.OutOrStdout(),
		in:     cmd.InOrStdin(),
		today:  model.DateOf(now()),
	})
}

// confirm asks before a destructive operation unless skip is set.
func (a *app) confirm(ctx context.Context, skip bool, question string) (bool, error) {
	if skip {
		return true, nil
	}
	return cli.Confirm(ctx, cli.NewNonBlockingReader(a.in), a.out, question)
}

// resolveRef finds a record by exact id, then by case-insensitive name.
func resolveRef[T any](items []T, ref string, id, name func(*T) string) (T, bool) {
	var zero T
	for i := range items {
		if id(&items[i]) == ref {
			return items[i], true
		}
	}
	for i := range items {
		if strings.EqualFold(name(&items[i]), ref) {
			return items[i], true
		}
	}
	return zero, false
}

func findCategory(s ledger.State, ref string) (model.Category, error) {
	c, ok := resolveRef(s.Categories, ref,
		func(c *model.Category) string { return c.ID },
		func(c *model.Category) string { return c.Name })
	if !ok {
		return c, fmt.Errorf("category %q: %w", ref, common.ErrNotFound)
	}
	return c, nil
}

func findGoal(s ledger.State, ref string) (model.Goal, error) {
	g, ok := resolveRef(s.Goals, ref,
		func(g *model.Goal) string { return g.ID },
		func(g *model.Goal) string { return g.Name })
	if !ok {
		return g, fmt.Errorf("goal %q: %w", ref, common.ErrNotFound)
	}
	return g, nil
}

func findLiability(s ledger.State, ref string) (model.Liability, error) {
	l, ok := resolveRef(s.Liabilities, ref,
		func(l *model.Liability) string { return l.ID },
		func(l *model.Liability) string { return l.Name })
	if !ok {
		return l, fmt.Errorf("liability %q: %w", ref, common.ErrNotFound)
	}
	return l, nil
}

func findProject(s ledger.State, ref string) (model.Project, error) {
	p, ok := resolveRef(s.Projects, ref,
		func(p *model.Project) string { return p.ID },
		func(p *model.Project) string { return p.Name })
	if !ok {
		return p, fmt.Errorf("project %q: %w", ref, common.ErrNotFound)
	}
	return p, nil
}

func findRecurring(s ledger.State, ref string) (model.RecurringTransaction, error) {
	r, ok := resolveRef(s.RecurringTransactions, ref,
		func(r *model.RecurringTransaction) string { return r.ID },
		func(r *model.RecurringTransaction) string { return r.Description })
	if !ok {
		return r, fmt.Errorf("recurring transaction %q: %w", ref, common.ErrNotFound)
	}
	return r, nil
}

func findTransaction(s ledger.State, id string) (model.Transaction, error) {
	t, ok := s.Transaction(id)
	if !ok {
		return t, fmt.Errorf("transaction %q: %w", id, common.ErrNotFound)
	}
	return t, nil
}

// optionalRef resolves an optional reference flag to an id; empty stays empty.
func optionalRef(ref string, find func(string) (string, error)) (string, error) {
	if ref == "" {
		return "", nil
	}
	return find(ref)
}

func categoryIDOf(s ledger.State) func(string) (string, error) {
	return func(ref string) (string, error) {
		c, err := findCategory(s, ref)
		return c.ID, err
	}
}

func goalIDOf(s ledger.State) func(string) (string, error) {
	return func(ref string) (string, error) {
		g, err := findGoal(s, ref)
		return g.ID, err
	}
}

func liabilityIDOf(s ledger.State) func(string) (string, error) {
	return func(ref string) (string, error) {
		l, err := findLiability(s, ref)
		return l.ID, err
	}
}

func parseTransactionType(s string) (model.TransactionType, error) {
	t := model.TransactionType(strings.ToLower(s))
	if !t.Valid() {
		return "", fmt.Errorf("invalid transaction type %q: must be income, expense or saving", s)
	}
	return t, nil
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid amount %q: must be a positive number", s)
	}
	return v, nil
}

// parseDateFlag accepts YYYY-MM-DD or the words today and yesterday.
func parseDateFlag(s string, today model.Date) (model.Date, error) {
	switch strings.ToLower(s) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return d, nil
}

// optionalBudget maps a zero flag value to "no budget".
func optionalBudget(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func nameOr(names map[string]string, id, fallback string) string {
	if id == "" {
		return fallback
	}
	if n, ok := names[id]; ok {
		return n
	}
	return id
}
