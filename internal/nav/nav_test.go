package nav_test

import (
	"testing"

	"freshmarket/internal/models"
	"freshmarket/internal/nav"

	"github.com/stretchr/testify/assert"
)

func TestTransition_LoginFlow(t *testing.T) {
	assert.Equal(t, nav.ViewLogin, nav.Initial())

	next, err := nav.Transition(models.RoleCustomer, nav.ViewLogin, nav.EventLoginSucceeded)
	assert.NoError(t, err)
	assert.Equal(t, nav.ViewProducts, next)

	next, err = nav.Transition(models.RoleManager, nav.ViewLogin, nav.EventLoginSucceeded)
	assert.NoError(t, err)
	assert.Equal(t, nav.ViewManagerProducts, next)

	next, err = nav.Transition("", nav.ViewLogin, nav.EventRegisterClicked)
	assert.NoError(t, err)
	assert.Equal(t, nav.ViewRegistration, next)

	next, err = nav.Transition("", nav.ViewRegistration, nav.EventRegistered)
	assert.NoError(t, err)
	assert.Equal(t, nav.ViewLogin, next)
}

func TestTransition_FailedLoginKeepsView(t *testing.T) {
	// Invalid credentials never transition: no event fires, and an
	// unexpected event from the login view errors out in place.
	next, err := nav.Transition("", nav.ViewLogin, nav.EventOpenCart)
	assert.ErrorIs(t, err, nav.ErrInvalidTransition)
	assert.Equal(t, nav.ViewLogin, next)
}

func TestTransition_CustomerNavigation(t *testing.T) {
	cases := []struct {
		from nav.View
		ev   nav.Event
		want nav.View
	}{
		{nav.ViewProducts, nav.EventSearch, nav.ViewSearch},
		{nav.ViewSearch, nav.EventHome, nav.ViewProducts},
		{nav.ViewProducts, nav.EventOpenCart, nav.ViewCart},
		{nav.ViewCart, nav.EventProceedToCheckout, nav.ViewCheckout},
		{nav.ViewCheckout, nav.EventBackToCart, nav.ViewCart},
		{nav.ViewCheckout, nav.EventOrderConfirmed, nav.ViewProducts},
		{nav.ViewProducts, nav.EventOpenHistory, nav.ViewShoppingHistory},
		{nav.ViewProducts, nav.EventOpenRecommended, nav.ViewRecommendedCart},
		{nav.ViewRecommendedCart, nav.EventOpenProfile, nav.ViewProfile},
		{nav.ViewProfile, nav.EventLogout, nav.ViewLogin},
	}
	for _, tc := range cases {
		next, err := nav.Transition(models.RoleCustomer, tc.from, tc.ev)
		assert.NoError(t, err, "%s from %s", tc.ev, tc.from)
		assert.Equal(t, tc.want, next)
	}
}

func TestTransition_ManagerNavigation(t *testing.T) {
	cases := []struct {
		from nav.View
		ev   nav.Event
		want nav.View
	}{
		{nav.ViewManagerProducts, nav.EventOpenAdminRegister, nav.ViewAdminRegistration},
		{nav.ViewManagerProducts, nav.EventOpenManageCust, nav.ViewManageCustomer},
		{nav.ViewManagerProducts, nav.EventOpenForecasting, nav.ViewDemandForecasting},
		{nav.ViewDemandForecasting, nav.EventHome, nav.ViewManagerProducts},
		{nav.ViewAdminRegistration, nav.EventManagerRegistered, nav.ViewManagerProducts},
		{nav.ViewManagerProducts, nav.EventLogout, nav.ViewLogin},
	}
	for _, tc := range cases {
		next, err := nav.Transition(models.RoleManager, tc.from, tc.ev)
		assert.NoError(t, err, "%s from %s", tc.ev, tc.from)
		assert.Equal(t, tc.want, next)
	}
}

func TestTransition_RoleGates(t *testing.T) {
	// A customer cannot drive manager views, and vice versa.
	next, err := nav.Transition(models.RoleCustomer, nav.ViewManagerProducts, nav.EventOpenForecasting)
	assert.ErrorIs(t, err, nav.ErrInvalidTransition)
	assert.Equal(t, nav.ViewManagerProducts, next)

	next, err = nav.Transition(models.RoleManager, nav.ViewCart, nav.EventProceedToCheckout)
	assert.ErrorIs(t, err, nav.ErrInvalidTransition)
	assert.Equal(t, nav.ViewCart, next)
}

func TestResolveFormMode_EditWins(t *testing.T) {
	assert.Equal(t, nav.FormNone, nav.ResolveFormMode(false, false))
	assert.Equal(t, nav.FormAdd, nav.ResolveFormMode(true, false))
	assert.Equal(t, nav.FormEdit, nav.ResolveFormMode(false, true))
	// Both flags set: explicit priority rule, edit wins.
	assert.Equal(t, nav.FormEdit, nav.ResolveFormMode(true, true))
}
