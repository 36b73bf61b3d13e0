package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/klaro/internal/common"
	"github.com/Veraticus/klaro/internal/model"
)

// Import is a partial state. A nil collection is absent and keeps the current one;
// a non-nil collection, even an empty one, replaces it. Derived amounts present in
// the source document (currentAmount, paidAmount) have no field here and are dropped.
type Import struct {
	UserProfile           *model.UserProfile           `json:"userProfile,omitempty"`
	Theme                 *model.Theme                 `json:"theme,omitempty"`
	ViewMode              *model.ViewMode              `json:"viewMode,omitempty"`
	Filters               *model.Filters               `json:"filters,omitempty"`
	IsSubscribed          *bool                        `json:"isSubscribed,omitempty"`
	Transactions          []model.Transaction          `json:"transactions"`
	Categories            []model.Category             `json:"categories"`
	Goals                 []model.Goal                 `json:"goals"`
	Projects              []model.Project              `json:"projects"`
	RecurringTransactions []model.RecurringTransaction `json:"recurringTransactions"`
	Liabilities           []model.Liability            `json:"liabilities"`
}

// ParseImport decodes a JSON export. Keys that are missing or null stay absent.
func ParseImport(data []byte) (Import, error) {
	var imp Import
	if err := json.Unmarshal(data, &imp); err != nil {
		return Import{}, fmt.Errorf("%w: %w", common.ErrInvalidImport, err)
	}
	return imp, nil
}

// Export returns the persistable part of s as an Import, so an export can be
// imported again unchanged.
func Export(s State) Import {
	s = s.Persistable()
	return Import{
		UserProfile:           &s.UserProfile,
		Theme:                 &s.Theme,
		ViewMode:              &s.ViewMode,
		Filters:               &s.Filters,
		IsSubscribed:          &s.IsSubscribed,
		Transactions:          nonNil(s.Transactions),
		Categories:            nonNil(s.Categories),
		Goals:                 nonNil(s.Goals),
		Projects:              nonNil(s.Projects),
		RecurringTransactions: nonNil(s.RecurringTransactions),
		Liabilities:           nonNil(s.Liabilities),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
