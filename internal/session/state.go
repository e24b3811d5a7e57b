// Package session owns the per-session mutable state: where the user
// is, what they selected, and their pagination/search cursors. It is
// the single source of truth for the UI-transient data; durable data
// stays in the repositories and is refetched after every write.
package session

import (
	"freshmarket/internal/cart"
	"freshmarket/internal/models"
	"freshmarket/internal/nav"
)

// EditTarget identifies the product a manager is editing, keyed the way
// the catalog identifies rows: name plus brand label.
type EditTarget struct {
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
}

// State is the per-session snapshot described by the data model. It is
// never persisted and is lost on process restart.
type State struct {
	View     nav.View    `json:"view"`
	LoggedIn bool        `json:"logged_in"`
	Role     models.Role `json:"role"`
	Username string      `json:"username"`

	Cart            *cart.Cart `json:"-"`
	RecommendedCart *cart.Cart `json:"-"`

	CurrentPage        int    `json:"current_page"`
	ManagerCurrentPage int    `json:"manager_current_page"`
	CustomerSearch     string `json:"customer_search"`
	ManagerSearch      string `json:"manager_search"`
	Category           string `json:"category"`

	ShowAddForm  bool        `json:"show_add_form"`
	ShowEditForm bool        `json:"show_edit_form"`
	EditTarget   *EditTarget `json:"edit_target,omitempty"`
}

// NewState returns the defaults every fresh session starts with.
func NewState() *State {
	return &State{
		View:               nav.Initial(),
		Cart:               cart.New(),
		RecommendedCart:    cart.New(),
		CurrentPage:        1,
		ManagerCurrentPage: 1,
	}
}

// ResetIdentity clears everything tied to the logged-in user. Called on
// logout; carts and cursors go back to their defaults.
func (s *State) ResetIdentity() {
	s.LoggedIn = false
	s.Role = ""
	s.Username = ""
	s.View = nav.Initial()
	s.Cart = cart.New()
	s.RecommendedCart = cart.New()
	s.CurrentPage = 1
	s.ManagerCurrentPage = 1
	s.CustomerSearch = ""
	s.ManagerSearch = ""
	s.Category = ""
	s.ShowAddForm = false
	s.ShowEditForm = false
	s.EditTarget = nil
}

// FormMode applies the explicit add/edit priority rule.
func (s *State) FormMode() nav.FormMode {
	return nav.ResolveFormMode(s.ShowAddForm, s.ShowEditForm)
}
