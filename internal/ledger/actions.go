package ledger

import "github.com/Veraticus/klaro/internal/model"

// Kind names an action for logging and persistence decisions.
type Kind string

// Action kinds.
const (
	KindAddTransaction         Kind = "ADD_TRANSACTION"
	KindUpdateTransaction      Kind = "UPDATE_TRANSACTION"
	KindDeleteTransactions     Kind = "DELETE_TRANSACTIONS"
	KindMergeTransactions      Kind = "MERGE_TRANSACTIONS"
	KindCategorizeTransactions Kind = "CATEGORIZE_TRANSACTIONS"
	KindAddCategory            Kind = "ADD_CATEGORY"
	KindUpdateCategory         Kind = "UPDATE_CATEGORY"
	KindDeleteCategory         Kind = "DELETE_CATEGORY"
	KindDeleteUnusedCategories Kind = "DELETE_UNUSED_CATEGORIES"
	KindReorderCategories      Kind = "REORDER_CATEGORIES"
	KindAddGoal                Kind = "ADD_GOAL"
	KindUpdateGoal             Kind = "UPDATE_GOAL"
	KindDeleteGoal             Kind = "DELETE_GOAL"
	KindAddLiability           Kind = "ADD_LIABILITY"
	KindUpdateLiability        Kind = "UPDATE_LIABILITY"
	KindDeleteLiability        Kind = "DELETE_LIABILITY"
	KindAddProject             Kind = "ADD_PROJECT"
	KindUpdateProject          Kind = "UPDATE_PROJECT"
	KindDeleteProject          Kind = "DELETE_PROJECT"
	KindAddRecurring           Kind = "ADD_RECURRING"
	KindUpdateRecurring        Kind = "UPDATE_RECURRING"
	KindDeleteRecurring        Kind = "DELETE_RECURRING"
	KindImportData             Kind = "IMPORT_DATA"
	KindResetState             Kind = "RESET_STATE"
	KindSetTheme               Kind = "SET_THEME"
	KindSetViewMode            Kind = "SET_VIEW_MODE"
	KindUpdateFilters          Kind = "UPDATE_FILTERS"
	KindSetSubscribed          Kind = "SET_IS_SUBSCRIBED"
	KindUpdateUserProfile      Kind = "UPDATE_USER_PROFILE"
	KindOpenDialog             Kind = "OPEN_DIALOG"
	KindCloseDialog            Kind = "CLOSE_DIALOG"
	KindSetSelection           Kind = "SET_SELECTION"
)

// Persistent reports whether the resulting state should be written to storage.
// Dialog, selection and filter changes only affect the running session.
func (k Kind) Persistent() bool {
	switch k {
	case KindOpenDialog, KindCloseDialog, KindSetSelection, KindUpdateFilters:
		return false
	}
	return true
}

// Action is a command for the ledger. The set of implementations is closed.
type Action interface {
	Kind() Kind
}

// AddTransaction appends a transaction. Any id in the payload is replaced.
type AddTransaction struct{ Transaction model.Transaction }

// UpdateTransaction replaces the transaction with the same id.
type UpdateTransaction struct{ Transaction model.Transaction }

// DeleteTransactions removes every listed transaction and clears the selection.
type DeleteTransactions struct{ IDs []string }

// MergeTransactions collapses two or more transactions into one with the given description.
type MergeTransactions struct {
	Description string
	IDs         []string
}

// CategorizeTransactions assigns one category to every listed transaction.
type CategorizeTransactions struct {
	CategoryID string
	IDs        []string
}

// AddCategory appends a category. Any id in the payload is replaced.
type AddCategory struct{ Category model.Category }

// UpdateCategory replaces the category with the same id.
type UpdateCategory struct{ Category model.Category }

// DeleteCategory removes a category and unsets every reference to it.
type DeleteCategory struct{ ID string }

// DeleteUnusedCategories removes categories no transaction references.
type DeleteUnusedCategories struct{}

// ReorderCategories replaces the category order. Categories must be a permutation
// of the existing ones.
type ReorderCategories struct{ Categories []model.Category }

// AddGoal appends a goal. Any id in the payload is replaced.
type AddGoal struct{ Goal model.Goal }

// UpdateGoal replaces the goal with the same id.
type UpdateGoal struct{ Goal model.Goal }

// DeleteGoal removes a goal and unsets every reference to it.
type DeleteGoal struct{ ID string }

// AddLiability appends a liability. Any id in the payload is replaced.
type AddLiability struct{ Liability model.Liability }

// UpdateLiability replaces the liability with the same id.
type UpdateLiability struct{ Liability model.Liability }

// DeleteLiability removes a liability and unsets every reference to it.
type DeleteLiability struct{ ID string }

// AddProject appends a project and normalizes its tag.
type AddProject struct{ Project model.Project }

// UpdateProject replaces the project with the same id.
type UpdateProject struct{ Project model.Project }

// DeleteProject removes a project. Tagged transactions are left alone.
type DeleteProject struct{ ID string }

// AddRecurring appends a recurring transaction due first on its start date.
type AddRecurring struct{ Recurring model.RecurringTransaction }

// UpdateRecurring replaces a recurring transaction, keeping its next due date.
type UpdateRecurring struct{ Recurring model.RecurringTransaction }

// DeleteRecurring removes a recurring transaction.
type DeleteRecurring struct{ ID string }

// ImportData replaces the collections present in Data.
type ImportData struct{ Data Import }

// ResetState restores the seed dataset, keeping the theme.
type ResetState struct{}

// SetTheme changes the display theme.
type SetTheme struct{ Theme model.Theme }

// SetViewMode switches between all, private and business views.
type SetViewMode struct{ Mode model.ViewMode }

// UpdateFilters merges a partial filter update.
type UpdateFilters struct{ Patch model.FilterPatch }

// SetSubscribed toggles the subscription flag.
type SetSubscribed struct{ Subscribed bool }

// UpdateUserProfile merges a partial profile update.
type UpdateUserProfile struct{ Patch model.ProfilePatch }

// OpenDialog records which dialog is open.
type OpenDialog struct{ Name string }

// CloseDialog clears the open dialog.
type CloseDialog struct{}

// SetSelection replaces the selected transaction ids.
type SetSelection struct{ IDs []string }

func (AddTransaction) Kind() Kind         { return KindAddTransaction }
func (UpdateTransaction) Kind() Kind      { return KindUpdateTransaction }
func (DeleteTransactions) Kind() Kind     { return KindDeleteTransactions }
func (MergeTransactions) Kind() Kind      { return KindMergeTransactions }
func (CategorizeTransactions) Kind() Kind { return KindCategorizeTransactions }
func (AddCategory) Kind() Kind            { return KindAddCategory }
func (UpdateCategory) Kind() Kind         { return KindUpdateCategory }
func (DeleteCategory) Kind() Kind         { return KindDeleteCategory }
func (DeleteUnusedCategories) Kind() Kind { return KindDeleteUnusedCategories }
func (ReorderCategories) Kind() Kind      { return KindReorderCategories }
func (AddGoal) Kind() Kind                { return KindAddGoal }
func (UpdateGoal) Kind() Kind             { return KindUpdateGoal }
func (DeleteGoal) Kind() Kind             { return KindDeleteGoal }
func (AddLiability) Kind() Kind           { return KindAddLiability }
func (UpdateLiability) Kind() Kind        { return KindUpdateLiability }
func (DeleteLiability) Kind() Kind        { return KindDeleteLiability }
func (AddProject) Kind() Kind             { return KindAddProject }
func (UpdateProject) Kind() Kind          { return KindUpdateProject }
func (DeleteProject) Kind() Kind          { return KindDeleteProject }
func (AddRecurring) Kind() Kind           { return KindAddRecurring }
func (UpdateRecurring) Kind() Kind        { return KindUpdateRecurring }
func (DeleteRecurring) Kind() Kind        { return KindDeleteRecurring }
func (ImportData) Kind() Kind             { return KindImportData }
func (ResetState) Kind() Kind             { return KindResetState }
func (SetTheme) Kind() Kind               { return KindSetTheme }
func (SetViewMode) Kind() Kind            { return KindSetViewMode }
func (UpdateFilters) Kind() Kind          { return KindUpdateFilters }
func (SetSubscribed) Kind() Kind          { return KindSetSubscribed }
func (UpdateUserProfile) Kind() Kind      { return KindUpdateUserProfile }
func (OpenDialog) Kind() Kind             { return KindOpenDialog }
func (CloseDialog) Kind() Kind            { return KindCloseDialog }
func (SetSelection) Kind() Kind           { return KindSetSelection }
