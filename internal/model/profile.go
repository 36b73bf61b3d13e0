package model

// Theme is the display preference kept across resets.
type Theme string

// DefaultTheme is the theme of a fresh ledger.
const DefaultTheme Theme = "grandeur"

// UserProfile holds the owner's display settings.
type UserProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
	Language string `json:"language"`
}

// ProfilePatch is a partial update of UserProfile. Nil fields are left untouched.
type ProfilePatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Currency *string `json:"currency,omitempty"`
	Language *string `json:"language,omitempty"`
}

// Apply merges the patch into p and returns the result.
func (pp ProfilePatch) Apply(p UserProfile) UserProfile {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Email != nil {
		p.Email = *pp.Email
	}
	if pp.Currency != nil {
		p.Currency = *pp.Currency
	}
	if pp.Language != nil {
		p.Language = *pp.Language
	}
	return p
}
