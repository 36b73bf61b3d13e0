package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/klaro/internal/common"
	"github.com/Veraticus/klaro/internal/ledger"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/service"
	"github.com/Veraticus/klaro/internal/testutil"
)

var today = model.NewDate(2024, time.March, 15)

type manualTimer struct {
	f       func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// manualScheduler records timers and fires them only when told to.
type manualScheduler struct {
	timers []*manualTimer
	mu     sync.Mutex
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) service.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f, delay: d}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) active() []*manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			active = append(active, t)
		}
	}
	return active
}

// fire runs every active timer and returns how many ran.
func (s *manualScheduler) fire() int {
	active := s.active()
	for _, t := range active {
		t.fired = true
		t.f()
	}
	return len(active)
}

// countingStore wraps a store and counts writes.
type countingStore struct {
	service.SnapshotStore
	saveErr error
	saves   int
}

func (c *countingStore) Save(ctx context.Context, data []byte) error {
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	return c.SnapshotStore.Save(ctx, data)
}

func openTestEngine(t *testing.T, store service.SnapshotStore) (*Engine, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	e, err := Open(context.Background(), store,
		WithScheduler(sched),
		WithReducer(testutil.NewReducer(today)),
		WithClock(testutil.FixedClock(today)),
	)
	require.NoError(t, err)
	return e, sched
}

func expense(amount float64) ledger.AddTransaction {
	return ledger.AddTransaction{Transaction: model.Transaction{
		Date:        today,
		Type:        model.TypeExpense,
		Description: "coffee",
		Amount:      amount,
	}}
}

func TestOpen_EmptyStoreStartsFromSeed(t *testing.T) {
	store := &countingStore{SnapshotStore: testutil.SetupTestDB(t)}
	e, sched := openTestEngine(t, store)

	assert.Equal(t, ledger.Seed(today), e.State())
	assert.False(t, e.Pending())
	assert.Empty(t, sched.active())
	assert.Zero(t, store.saves)
}

func TestOpen_RestoresSavedSnapshot(t *testing.T) {
	saved := testutil.NewStateBuilder(t).
		WithExpenseCategory("c1", "Housing", 1000).
		WithTransaction("t1", model.TypeExpense, 500, "2024-03-01", testutil.Category("c1")).
		Build()
	data, err := ledger.MarshalSnapshot(saved)
	require.NoError(t, err)

	e, _ := openTestEngine(t, testutil.SetupTestDBWithSnapshot(t, data))
	assert.Equal(t, saved.Persistable(), e.State())
}

func TestOpen_CorruptedSnapshotFallsBackToSeed(t *testing.T) {
	e, _ := openTestEngine(t, testutil.SetupTestDBWithSnapshot(t, []byte(`{"version":`)))
	assert.Equal(t, ledger.Seed(today), e.State())
}

func TestOpen_LoadFailure(t *testing.T) {
	store := testutil.SetupTestDB(t)
	require.NoError(t, store.Close())

	_, err := Open(context.Background(), store)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)

	_, err = Open(context.Background(), nil)
	assert.Error(t, err)
}

func TestDispatch_DebouncesWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := &countingStore{SnapshotStore: db}
	e, sched := openTestEngine(t, store)

	e.Dispatch(expense(1))
	e.Dispatch(expense(2))
	final := e.Dispatch(expense(3))

	active := sched.active()
	require.Len(t, active, 1, "each persistent action restarts the timer")
	assert.Equal(t, DefaultDebounce, active[0].delay)
	assert.Len(t, sched.timers, 3)
	assert.Zero(t, store.saves)
	assert.True(t, e.Pending())

	assert.Equal(t, 1, sched.fire())
	assert.Equal(t, 1, store.saves)
	assert.False(t, e.Pending())

	data, err := db.Load(context.Background())
	require.NoError(t, err)
	got, err := ledger.UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, final.Persistable(), got)
}

func TestDispatch_TransientActionsDoNotPersist(t *testing.T) {
	store := &countingStore{SnapshotStore: testutil.SetupTestDB(t)}
	e, sched := openTestEngine(t, store)

	e.Dispatch(ledger.OpenDialog{Name: "merge"})
	e.Dispatch(ledger.SetSelection{IDs: []string{"1"}})
	e.Dispatch(ledger.UpdateFilters{Patch: model.FilterPatch{SearchTerm: ptr("rent")}})
	state := e.Dispatch(ledger.CloseDialog{})

	assert.Empty(t, sched.timers)
	assert.False(t, e.Pending())
	assert.Equal(t, []string{"1"}, state.Selection)
	assert.Equal(t, "rent", state.Filters.SearchTerm)

	require.NoError(t, e.Flush(context.Background()))
	assert.Zero(t, store.saves)
}

func TestDispatch_NilActionIsNoOp(t *testing.T) {
	store := &countingStore{SnapshotStore: testutil.SetupTestDB(t)}
	e, sched := openTestEngine(t, store)
	before := e.State()

	var state ledger.State
	require.NotPanics(t, func() { state = e.Dispatch(nil) })

	assert.Equal(t, before, state)
	assert.Empty(t, sched.timers)
	assert.False(t, e.Pending())
}

func TestFlush_WritesImmediately(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := &countingStore{SnapshotStore: db}
	e, sched := openTestEngine(t, store)

	e.Dispatch(ledger.SetTheme{Theme: "dark"})
	require.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, 1, store.saves)
	assert.Empty(t, sched.active(), "flush cancels the pending timer")

	require.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, 1, store.saves, "nothing new to write")

	data, err := db.Load(context.Background())
	require.NoError(t, err)
	got, err := ledger.UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, model.Theme("dark"), got.Theme)
}

func TestFlush_FailureKeepsChangesPending(t *testing.T) {
	store := &countingStore{SnapshotStore: testutil.SetupTestDB(t), saveErr: errors.New("disk full")}
	e, sched := openTestEngine(t, store)

	state := e.Dispatch(expense(10))
	assert.Len(t, state.Transactions, len(ledger.Seed(today).Transactions)+1)

	err := e.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, e.Pending())

	// A failed timer write is logged, not surfaced.
	e.Dispatch(expense(11))
	assert.Equal(t, 1, sched.fire())
	assert.Equal(t, 2, store.saves)

	store.saveErr = nil
	require.NoError(t, e.Flush(context.Background()))
	assert.False(t, e.Pending())
}

func TestClose_FlushesAndClosesStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e, _ := openTestEngine(t, db)

	e.Dispatch(expense(42))
	require.NoError(t, e.Close(context.Background()))

	_, err := db.Load(context.Background())
	assert.Error(t, err, "store is closed")
}

func TestWithDebounce(t *testing.T) {
	sched := &manualScheduler{}
	e, err := Open(context.Background(), testutil.SetupTestDB(t),
		WithScheduler(sched),
		WithDebounce(2*time.Second),
		WithClock(testutil.FixedClock(today)),
	)
	require.NoError(t, err)

	e.Dispatch(ledger.SetSubscribed{Subscribed: true})
	require.Len(t, sched.active(), 1)
	assert.Equal(t, 2*time.Second, sched.active()[0].delay)
}

func TestSystemScheduler(t *testing.T) {
	done := make(chan struct{})
	SystemScheduler().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timer never fired")
	}

	timer := SystemScheduler().AfterFunc(time.Hour, func() {})
	assert.True(t, timer.Stop())
}

func ptr[T any](v T) *T {
	return &v
}
