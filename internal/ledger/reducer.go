package ledger

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/klaro/internal/model"
)

// Reducer applies actions to states. Its only inputs besides the state and the
// action are the id generator and the clock, both injectable for deterministic tests.
type Reducer struct {
	newID func() string
	now   func() time.Time
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithIDGenerator sets the function used to assign ids to new records.
func WithIDGenerator(f func() string) Option {
	return func(r *Reducer) {
		if f != nil {
			r.newID = f
		}
	}
}

// WithClock sets the clock used to date the seed dataset on reset.
func WithClock(f func() time.Time) Option {
	return func(r *Reducer) {
		if f != nil {
			r.now = f
		}
	}
}

// NewReducer creates a reducer with random UUIDs and the wall clock.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultReducer = NewReducer()

// Apply applies a with the default reducer.
func Apply(s State, a Action) State {
	return defaultReducer.Apply(s, a)
}

// Apply returns the state that results from applying a to s. It never fails:
// nil, unknown and malformed actions return s unchanged.
func (r *Reducer) Apply(s State, a Action) State {
	switch a := a.(type) {
	case AddTransaction:
		return r.addTransaction(s, a)
	case UpdateTransaction:
		return updateTransaction(s, a)
	case DeleteTransactions:
		return deleteTransactions(s, a)
	case MergeTransactions:
		return r.mergeTransactions(s, a)
	case CategorizeTransactions:
		return categorizeTransactions(s, a)

	case AddCategory:
		return r.addCategory(s, a)
	case UpdateCategory:
		return updateCategory(s, a)
	case DeleteCategory:
		return deleteCategory(s, a)
	case DeleteUnusedCategories:
		return deleteUnusedCategories(s)
	case ReorderCategories:
		return reorderCategories(s, a)

	case AddGoal:
		return r.addGoal(s, a)
	case UpdateGoal:
		return updateGoal(s, a)
	case DeleteGoal:
		return deleteGoal(s, a)

	case AddLiability:
		return r.addLiability(s, a)
	case UpdateLiability:
		return updateLiability(s, a)
	case DeleteLiability:
		return deleteLiability(s, a)

	case AddProject:
		return r.addProject(s, a)
	case UpdateProject:
		return updateProject(s, a)
	case DeleteProject:
		return deleteProject(s, a)

	case AddRecurring:
		return r.addRecurring(s, a)
	case UpdateRecurring:
		return updateRecurring(s, a)
	case DeleteRecurring:
		s.RecurringTransactions, _ = removeByID(s.RecurringTransactions, recurringID, a.ID)
		return s

	case ImportData:
		return r.importData(s, a.Data)
	case ResetState:
		seed := Seed(model.DateOf(r.now()))
		if s.Theme != "" {
			seed.Theme = s.Theme
		}
		return seed

	case SetTheme:
		if a.Theme != "" {
			s.Theme = a.Theme
		}
		return s
	case SetViewMode:
		if a.Mode.Valid() {
			s.ViewMode = a.Mode
		}
		return s
	case UpdateFilters:
		s.Filters = a.Patch.Apply(s.Filters)
		return s
	case SetSubscribed:
		s.IsSubscribed = a.Subscribed
		return s
	case UpdateUserProfile:
		s.UserProfile = a.Patch.Apply(s.UserProfile)
		return s
	case OpenDialog:
		s.ActiveDialog = a.Name
		return s
	case CloseDialog:
		s.ActiveDialog = ""
		return s
	case SetSelection:
		s.Selection = dedupe(a.IDs)
		return s
	}
	return s
}

// Transactions.

func (r *Reducer) addTransaction(s State, a AddTransaction) State {
	t := a.Transaction.Clone()
	if !validTransaction(&t) {
		return s
	}
	t.ID = r.newID()
	s.Transactions = appendClone(s.Transactions, t)
	s.ActiveDialog = ""
	return s
}

func updateTransaction(s State, a UpdateTransaction) State {
	t := a.Transaction.Clone()
	if !validTransaction(&t) {
		return s
	}
	txs, ok := replaceByID(s.Transactions, transactionID, t)
	if !ok {
		return s
	}
	s.Transactions = txs
	s.ActiveDialog = ""
	return s
}

func deleteTransactions(s State, a DeleteTransactions) State {
	ids := toSet(a.IDs)
	txs := slices.DeleteFunc(slices.Clone(s.Transactions), func(t model.Transaction) bool {
		_, ok := ids[t.ID]
		return ok
	})
	if len(txs) == len(s.Transactions) {
		return s
	}
	s.Transactions = txs
	s.Selection = nil
	return s
}

// mergeTransactions replaces two or more transactions by one. The amount is the
// sum, the date is the latest, the tags are the union. Type and references come
// from the earliest-dated transaction; equal dates keep collection order.
func (r *Reducer) mergeTransactions(s State, a MergeTransactions) State {
	ids := toSet(a.IDs)
	var merged []model.Transaction
	var rest []model.Transaction
	for _, t := range s.Transactions {
		if _, ok := ids[t.ID]; ok {
			merged = append(merged, t)
		} else {
			rest = append(rest, t)
		}
	}
	if len(merged) < 2 {
		return s
	}

	primary := merged[0]
	out := model.Transaction{Date: merged[0].Date}
	seen := make(map[string]struct{})
	for _, t := range merged {
		out.Amount += t.Amount
		if t.Date.After(out.Date) {
			out.Date = t.Date
		}
		if t.Date.Before(primary.Date) {
			primary = t
		}
		for _, tag := range t.Tags {
			if _, dup := seen[tag]; !dup {
				seen[tag] = struct{}{}
				out.Tags = append(out.Tags, tag)
			}
		}
	}

	out.ID = r.newID()
	out.Type = primary.Type
	out.CategoryID = primary.CategoryID
	out.GoalID = primary.GoalID
	out.LiabilityID = primary.LiabilityID
	out.Description = a.Description
	if out.Description == "" {
		out.Description = primary.Description
	}

	s.Transactions = append(rest, out)
	s.Selection = nil
	s.ActiveDialog = ""
	return s
}

func categorizeTransactions(s State, a CategorizeTransactions) State {
	ids := toSet(a.IDs)
	changed := false
	txs := slices.Clone(s.Transactions)
	for i := range txs {
		if _, ok := ids[txs[i].ID]; ok {
			txs[i].CategoryID = a.CategoryID
			changed = true
		}
	}
	if !changed {
		return s
	}
	s.Transactions = txs
	s.Selection = nil
	return s
}

// Categories.

func (r *Reducer) addCategory(s State, a AddCategory) State {
	c, ok := normalizeCategory(a.Category)
	if !ok {
		return s
	}
	c.ID = r.newID()
	s.Categories = appendClone(s.Categories, c)
	return s
}

func updateCategory(s State, a UpdateCategory) State {
	c, ok := normalizeCategory(a.Category)
	if !ok {
		return s
	}
	if cats, found := replaceByID(s.Categories, categoryID, c); found {
		s.Categories = cats
	}
	return s
}

func deleteCategory(s State, a DeleteCategory) State {
	cats, ok := removeByID(s.Categories, categoryID, a.ID)
	if !ok {
		return s
	}
	s.Categories = cats
	s.Transactions = mapMatching(s.Transactions,
		func(t *model.Transaction) bool { return t.CategoryID == a.ID },
		func(t *model.Transaction) { t.CategoryID = "" })
	s.RecurringTransactions = mapMatching(s.RecurringTransactions,
		func(rt *model.RecurringTransaction) bool { return rt.CategoryID == a.ID },
		func(rt *model.RecurringTransaction) { rt.CategoryID = "" })
	return s
}

func deleteUnusedCategories(s State) State {
	used := make(map[string]struct{}, len(s.Categories))
	for _, t := range s.Transactions {
		if t.CategoryID != "" {
			used[t.CategoryID] = struct{}{}
		}
	}
	cats := slices.DeleteFunc(slices.Clone(s.Categories), func(c model.Category) bool {
		_, ok := used[c.ID]
		return !ok
	})
	if len(cats) == len(s.Categories) {
		return s
	}
	s.Categories = cats
	return s
}

// reorderCategories accepts only a permutation of the current ids. The stored
// records are kept; only their order is taken from the payload.
func reorderCategories(s State, a ReorderCategories) State {
	if len(a.Categories) != len(s.Categories) {
		return s
	}
	byID := make(map[string]model.Category, len(s.Categories))
	for _, c := range s.Categories {
		byID[c.ID] = c
	}
	out := make([]model.Category, 0, len(a.Categories))
	for _, c := range a.Categories {
		existing, ok := byID[c.ID]
		if !ok {
			return s
		}
		delete(byID, c.ID)
		out = append(out, existing)
	}
	s.Categories = out
	return s
}

// Goals.

func (r *Reducer) addGoal(s State, a AddGoal) State {
	g, ok := normalizeGoal(a.Goal)
	if !ok {
		return s
	}
	g.ID = r.newID()
	s.Goals = appendClone(s.Goals, g)
	return s
}

func updateGoal(s State, a UpdateGoal) State {
	g, ok := normalizeGoal(a.Goal)
	if !ok {
		return s
	}
	if goals, found := replaceByID(s.Goals, goalID, g); found {
		s.Goals = goals
	}
	return s
}

func deleteGoal(s State, a DeleteGoal) State {
	goals, ok := removeByID(s.Goals, goalID, a.ID)
	if !ok {
		return s
	}
	s.Goals = goals
	s.Transactions = mapMatching(s.Transactions,
		func(t *model.Transaction) bool { return t.GoalID == a.ID },
		func(t *model.Transaction) { t.GoalID = "" })
	s.RecurringTransactions = mapMatching(s.RecurringTransactions,
		func(rt *model.RecurringTransaction) bool { return rt.GoalID == a.ID },
		func(rt *model.RecurringTransaction) { rt.GoalID = "" })
	return s
}

// Liabilities.

func (r *Reducer) addLiability(s State, a AddLiability) State {
	l, ok := normalizeLiability(a.Liability)
	if !ok {
		return s
	}
	l.ID = r.newID()
	s.Liabilities = appendClone(s.Liabilities, l)
	return s
}

func updateLiability(s State, a UpdateLiability) State {
	l, ok := normalizeLiability(a.Liability)
	if !ok {
		return s
	}
	if liabs, found := replaceByID(s.Liabilities, liabilityID, l); found {
		s.Liabilities = liabs
	}
	return s
}

func deleteLiability(s State, a DeleteLiability) State {
	liabs, ok := removeByID(s.Liabilities, liabilityID, a.ID)
	if !ok {
		return s
	}
	s.Liabilities = liabs
	s.Transactions = mapMatching(s.Transactions,
		func(t *model.Transaction) bool { return t.LiabilityID == a.ID },
		func(t *model.Transaction) { t.LiabilityID = "" })
	return s
}

// Projects.

func (r *Reducer) addProject(s State, a AddProject) State {
	p := a.Project
	p.Tag = model.NormalizeTag(p.Tag)
	if p.Tag == "" {
		p.Tag = model.NormalizeTag(p.Name)
	}
	if p.Tag == "" || !validBudget(p.IncomeBudget) || !validBudget(p.ExpenseBudget) {
		return s
	}
	if p.Name == "" {
		p.Name = p.Tag
	}
	p.ID = r.newID()
	s.Projects = appendClone(s.Projects, p)
	return s
}

func updateProject(s State, a UpdateProject) State {
	p := a.Project
	if p.Tag == "" || !validBudget(p.IncomeBudget) || !validBudget(p.ExpenseBudget) {
		return s
	}
	if projects, found := replaceByID(s.Projects, projectID, p); found {
		s.Projects = projects
	}
	return s
}

func deleteProject(s State, a DeleteProject) State {
	if projects, ok := removeByID(s.Projects, projectID, a.ID); ok {
		s.Projects = projects
	}
	return s
}

// Recurring transactions.

func (r *Reducer) addRecurring(s State, a AddRecurring) State {
	rt := a.Recurring
	if !validRecurring(&rt) {
		return s
	}
	rt.ID = r.newID()
	rt.NextDueDate = rt.StartDate
	s.RecurringTransactions = appendClone(s.RecurringTransactions, rt)
	return s
}

func updateRecurring(s State, a UpdateRecurring) State {
	rt := a.Recurring
	if !validRecurring(&rt) {
		return s
	}
	i := slices.IndexFunc(s.RecurringTransactions, func(e model.RecurringTransaction) bool { return e.ID == rt.ID })
	if i < 0 {
		return s
	}
	rt.NextDueDate = s.RecurringTransactions[i].NextDueDate
	if rt.NextDueDate.IsZero() {
		rt.NextDueDate = rt.StartDate
	}
	out := slices.Clone(s.RecurringTransactions)
	out[i] = rt
	s.RecurringTransactions = out
	return s
}

// Import.

func (r *Reducer) importData(s State, imp Import) State {
	if imp.Transactions != nil {
		s.Transactions = withIDs(keepValid(imp.Transactions, importedTransaction), transactionID, func(t *model.Transaction, id string) { t.ID = id }, r.newID)
	}
	if imp.Categories != nil {
		s.Categories = withIDs(keepValid(imp.Categories, normalizeCategory), categoryID, func(c *model.Category, id string) { c.ID = id }, r.newID)
	}
	if imp.Goals != nil {
		s.Goals = withIDs(keepValid(imp.Goals, normalizeGoal), goalID, func(g *model.Goal, id string) { g.ID = id }, r.newID)
	}
	if imp.Projects != nil {
		s.Projects = withIDs(keepValid(imp.Projects, importedProject), projectID, func(p *model.Project, id string) { p.ID = id }, r.newID)
	}
	if imp.RecurringTransactions != nil {
		s.RecurringTransactions = withIDs(keepValid(imp.RecurringTransactions, importedRecurring), recurringID, func(rt *model.RecurringTransaction, id string) { rt.ID = id }, r.newID)
	}
	if imp.Liabilities != nil {
		s.Liabilities = withIDs(keepValid(imp.Liabilities, normalizeLiability), liabilityID, func(l *model.Liability, id string) { l.ID = id }, r.newID)
	}
	if imp.UserProfile != nil {
		s.UserProfile = *imp.UserProfile
	}
	if imp.Theme != nil && *imp.Theme != "" {
		s.Theme = *imp.Theme
	}
	if imp.ViewMode != nil && imp.ViewMode.Valid() {
		s.ViewMode = *imp.ViewMode
	}
	if imp.Filters != nil {
		s.Filters = imp.Filters.Clone()
	}
	if imp.IsSubscribed != nil {
		s.IsSubscribed = *imp.IsSubscribed
	}
	s.ActiveDialog = ""
	return s
}

// Validation. A record that fails validation turns its action into a no-op.

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validBudget(b *float64) bool {
	return b == nil || validAmount(*b)
}

func validTransaction(t *model.Transaction) bool {
	return t.Type.Valid() && validAmount(t.Amount) && !t.Date.IsZero()
}

func normalizeCategory(c model.Category) (model.Category, bool) {
	if c.Name == "" || (c.Type != model.CategoryTypeIncome && c.Type != model.CategoryTypeExpense) {
		return c, false
	}
	if !validBudget(c.Budget) {
		return c, false
	}
	if c.Type == model.CategoryTypeIncome {
		c.Budget = nil
	}
	if c.Budget != nil {
		b := *c.Budget
		c.Budget = &b
	}
	return c, true
}

func normalizeGoal(g model.Goal) (model.Goal, bool) {
	if g.Type == "" {
		g.Type = model.GoalTypeGoal
	}
	if g.Type != model.GoalTypeGoal && g.Type != model.GoalTypeSinkingFund {
		return g, false
	}
	return g, g.TargetAmount > 0 && validAmount(g.TargetAmount)
}

func normalizeLiability(l model.Liability) (model.Liability, bool) {
	if l.Type != model.LiabilityTypeDebt && l.Type != model.LiabilityTypeLoan {
		return l, false
	}
	if l.DueDate != nil {
		d := *l.DueDate
		l.DueDate = &d
	}
	return l, validAmount(l.InitialAmount) && validAmount(l.InterestRate)
}

func validRecurring(rt *model.RecurringTransaction) bool {
	return rt.Type.Valid() &&
		rt.Frequency.Valid() &&
		rt.Interval >= 1 &&
		validAmount(rt.Amount) &&
		!rt.StartDate.IsZero()
}

func importedTransaction(t model.Transaction) (model.Transaction, bool) {
	t = t.Clone()
	return t, validTransaction(&t)
}

func importedProject(p model.Project) (model.Project, bool) {
	p.Tag = model.NormalizeTag(p.Tag)
	if p.Tag == "" {
		p.Tag = model.NormalizeTag(p.Name)
	}
	if p.Name == "" {
		p.Name = p.Tag
	}
	return p, p.Tag != "" && validBudget(p.IncomeBudget) && validBudget(p.ExpenseBudget)
}

func importedRecurring(rt model.RecurringTransaction) (model.RecurringTransaction, bool) {
	if rt.NextDueDate.IsZero() {
		rt.NextDueDate = rt.StartDate
	}
	return rt, validRecurring(&rt)
}

// Collection helpers. None of them modify their input slice.

func transactionID(t *model.Transaction) string        { return t.ID }
func categoryID(c *model.Category) string              { return c.ID }
func goalID(g *model.Goal) string                      { return g.ID }
func liabilityID(l *model.Liability) string            { return l.ID }
func projectID(p *model.Project) string                { return p.ID }
func recurringID(r *model.RecurringTransaction) string { return r.ID }

func appendClone[T any](items []T, v T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, v)
}

func replaceByID[T any](items []T, id func(*T) string, v T) ([]T, bool) {
	target := id(&v)
	if target == "" {
		return items, false
	}
	for i := range items {
		if id(&items[i]) == target {
			out := slices.Clone(items)
			out[i] = v
			return out, true
		}
	}
	return items, false
}

func removeByID[T any](items []T, id func(*T) string, target string) ([]T, bool) {
	out := slices.DeleteFunc(slices.Clone(items), func(v T) bool { return id(&v) == target })
	if len(out) == len(items) {
		return items, false
	}
	return out, true
}

// mapMatching returns a copy of items with update applied to every element that
// matches. Without matches items is returned as is.
func mapMatching[T any](items []T, match func(*T) bool, update func(*T)) []T {
	var out []T
	for i := range items {
		if !match(&items[i]) {
			continue
		}
		if out == nil {
			out = slices.Clone(items)
		}
		update(&out[i])
	}
	if out == nil {
		return items
	}
	return out
}

// keepValid returns the normalized items that pass validation. The result is
// never nil so an empty import still replaces the collection.
func keepValid[T any](items []T, normalize func(T) (T, bool)) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if v, ok := normalize(item); ok {
			out = append(out, v)
		}
	}
	return out
}

func withIDs[T any](items []T, id func(*T) string, setID func(*T, string), newID func() string) []T {
	out := slices.Clone(items)
	for i := range out {
		if id(&out[i]) == "" {
			setID(&out[i], newID())
		}
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
