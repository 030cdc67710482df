package portfel

import (
	"slices"
	"strings"
)

// Filter selects holdings by account, category and currency. An empty list
// selects everything for that criterion.
type Filter struct {
	Accounts   []Account  `json:"accounts,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	Currencies []string   `json:"currencies,omitempty"`
}

// Match reports whether h is selected by f.
func (f Filter) Match(h Holding) bool {
	if len(f.Accounts) > 0 && !slices.Contains(f.Accounts, h.Account()) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, h.Category()) {
		return false
	}
	if len(f.Currencies) > 0 && !slices.ContainsFunc(f.Currencies, func(c string) bool { return strings.EqualFold(c, h.Currency()) }) {
		return false
	}
	return true
}

// IsZero reports whether f selects everything.
func (f Filter) IsZero() bool {
	return len(f.Accounts) == 0 && len(f.Categories) == 0 && len(f.Currencies) == 0
}
