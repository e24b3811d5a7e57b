package session_test

import (
	"testing"
	"time"

	"freshmarket/internal/nav"
	"freshmarket/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)

	sess, err := store.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, nav.ViewLogin, sess.State.View)
	assert.Equal(t, 1, sess.State.CurrentPage)
	assert.True(t, sess.State.Cart.IsEmpty())

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestMemoryStore_UnknownSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := session.NewMemoryStore(-time.Second) // already expired

	sess, err := store.Create()
	require.NoError(t, err)

	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)

	sess, err := store.Create()
	require.NoError(t, err)
	require.NoError(t, store.Delete(sess.ID))

	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.NoError(t, store.Delete("absent"))
}

func TestState_ResetIdentity(t *testing.T) {
	st := session.NewState()
	st.LoggedIn = true
	st.Username = "alice"
	st.Role = "Customer"
	st.View = nav.ViewCheckout
	st.Cart.Add("Milk")
	st.CurrentPage = 3
	st.ShowEditForm = true

	st.ResetIdentity()

	assert.False(t, st.LoggedIn)
	assert.Empty(t, st.Username)
	assert.Equal(t, nav.ViewLogin, st.View)
	assert.True(t, st.Cart.IsEmpty())
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, nav.FormNone, st.FormMode())
}
