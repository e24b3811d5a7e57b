// Package nav is the explicit view-mode state machine: which page a
// session is on, and which button events may move it where. Only
// explicit events transition; failed input keeps the current view.
package nav

import (
	"errors"
	"fmt"

	"freshmarket/internal/models"
)

// View identifies the page/panel currently rendered for a session.
type View string

const (
	ViewLogin             View = "login"
	ViewRegistration      View = "registration"
	ViewProducts          View = "products"
	ViewSearch            View = "search"
	ViewCart              View = "cart"
	ViewCheckout          View = "checkout"
	ViewShoppingHistory   View = "shopping_history"
	ViewRecommendedCart   View = "recommended_cart"
	ViewProfile           View = "profile"
	ViewManagerProducts   View = "manager_products"
	ViewAdminRegistration View = "admin_registration"
	ViewManageCustomer    View = "manage_customer"
	ViewDemandForecasting View = "demand_forecasting"
)

// Event is a button press that may move the session to another view.
type Event string

const (
	EventLoginSucceeded    Event = "login_succeeded"
	EventRegisterClicked   Event = "register_clicked"
	EventRegistered        Event = "registered"
	EventBackToLogin       Event = "back_to_login"
	EventLogout            Event = "logout"
	EventHome              Event = "home"
	EventSearch            Event = "search"
	EventOpenProfile       Event = "open_profile"
	EventOpenCart          Event = "open_cart"
	EventOpenRecommended   Event = "open_recommended"
	EventOpenHistory       Event = "open_history"
	EventProceedToCheckout Event = "proceed_to_checkout"
	EventBackToCart        Event = "back_to_cart"
	EventOrderConfirmed    Event = "order_confirmed"
	EventOpenAdminRegister Event = "open_admin_registration"
	EventOpenManageCust    Event = "open_manage_customers"
	EventOpenForecasting   Event = "open_forecasting"
	EventManagerRegistered Event = "manager_registered"
)

// ErrInvalidTransition is returned for an event that has no meaning in
// the current view for the current role; callers keep the current view.
var ErrInvalidTransition = errors.New("invalid view transition")

var customerViews = map[View]bool{
	ViewProducts: true, ViewSearch: true, ViewCart: true, ViewCheckout: true,
	ViewShoppingHistory: true, ViewRecommendedCart: true, ViewProfile: true,
}

var managerViews = map[View]bool{
	ViewManagerProducts: true, ViewAdminRegistration: true,
	ViewManageCustomer: true, ViewDemandForecasting: true,
}

// Initial is the view every fresh session starts in.
func Initial() View { return ViewLogin }

// Transition maps (role, current view, event) to the next view. There
// are no timeouts and no terminal state.
func Transition(role models.Role, current View, ev Event) (View, error) {
	// Pre-auth pages.
	switch current {
	case ViewLogin:
		switch ev {
		case EventLoginSucceeded:
			switch role {
			case models.RoleManager:
				return ViewManagerProducts, nil
			case models.RoleCustomer:
				return ViewProducts, nil
			}
			return current, fmt.Errorf("%w: login without role", ErrInvalidTransition)
		case EventRegisterClicked:
			return ViewRegistration, nil
		}
		return current, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, current)
	case ViewRegistration:
		switch ev {
		case EventRegistered, EventBackToLogin:
			return ViewLogin, nil
		}
		return current, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, current)
	}

	// Logout is available from every authenticated view.
	if ev == EventLogout && (customerViews[current] || managerViews[current]) {
		return ViewLogin, nil
	}

	switch role {
	case models.RoleCustomer:
		return customerTransition(current, ev)
	case models.RoleManager:
		return managerTransition(current, ev)
	}
	return current, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, current)
}

func customerTransition(current View, ev Event) (View, error) {
	if !customerViews[current] {
		return current, fmt.Errorf("%w: customer event %s from %s", ErrInvalidTransition, ev, current)
	}
	// Header navigation reachable from any customer view.
	switch ev {
	case EventHome:
		return ViewProducts, nil
	case EventSearch:
		return ViewSearch, nil
	case EventOpenProfile:
		return ViewProfile, nil
	case EventOpenCart:
		return ViewCart, nil
	case EventOpenRecommended:
		return ViewRecommendedCart, nil
	case EventOpenHistory:
		return ViewShoppingHistory, nil
	}
	switch {
	case current == ViewCart && ev == EventProceedToCheckout:
		return ViewCheckout, nil
	case current == ViewCheckout && ev == EventBackToCart:
		return ViewCart, nil
	case current == ViewCheckout && ev == EventOrderConfirmed:
		return ViewProducts, nil
	}
	return current, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, current)
}

func managerTransition(current View, ev Event) (View, error) {
	if !managerViews[current] {
		return current, fmt.Errorf("%w: manager event %s from %s", ErrInvalidTransition, ev, current)
	}
	switch ev {
	case EventHome, EventSearch:
		return ViewManagerProducts, nil
	case EventOpenAdminRegister:
		return ViewAdminRegistration, nil
	case EventOpenManageCust:
		return ViewManageCustomer, nil
	case EventOpenForecasting:
		return ViewDemandForecasting, nil
	case EventManagerRegistered:
		if current == ViewAdminRegistration {
			return ViewManagerProducts, nil
		}
	}
	return current, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, current)
}

// FormMode selects which sidebar product form, if any, is shown on the
// manager console.
type FormMode string

const (
	FormNone FormMode = "none"
	FormAdd  FormMode = "add"
	FormEdit FormMode = "edit"
)

// ResolveFormMode applies the explicit priority rule for the two
// mutually exclusive form flags: edit wins over add. The source system
// left this to handler evaluation order.
func ResolveFormMode(showAdd, showEdit bool) FormMode {
	switch {
	case showEdit:
		return FormEdit
	case showAdd:
		return FormAdd
	}
	return FormNone
}
