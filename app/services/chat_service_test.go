package services

import (
	"fmt"
	"testing"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendAndHistory(t *testing.T) {
	db := setupTest(t)
	svc := NewChatService()

	alice := createUser(t, db, "alice", "alice@example.com", models.RoleBusiness)
	bob := createUser(t, db, "bob", "bob@example.com", models.RoleInfluencer)

	// Whitespace-only content is a malformed request, not a permission
	// problem.
	_, err := svc.Send(alice.ID, bob.ID, "   ")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Send(alice.ID, alice.ID, "self talk")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Send(alice.ID, 9999, "hello?")
	assert.ErrorIs(t, err, ErrNotFound)

	for i := 0; i < 5; i++ {
		_, err := svc.Send(alice.ID, bob.ID, fmt.Sprintf("a->b %d", i))
		require.NoError(t, err)
		_, err = svc.Send(bob.ID, alice.ID, fmt.Sprintf("b->a %d", i))
		require.NoError(t, err)
	}

	msgs, err := svc.History(alice.ID, bob.ID, 100, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 10)
	assert.Equal(t, "a->b 0", msgs[0].Content)
	assert.Equal(t, "b->a 4", msgs[9].Content)
}

func TestChatHistoryCursor(t *testing.T) {
	db := setupTest(t)
	svc := NewChatService()

	a := createUser(t, db, "a", "a@example.com", models.RoleBusiness)
	b := createUser(t, db, "b", "b@example.com", models.RoleInfluencer)

	var ids []uint
	for i := 0; i < 6; i++ {
		m, err := svc.Send(a.ID, b.ID, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	// Latest page of 2.
	page, err := svc.History(a.ID, b.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "msg 4", page[0].Content)
	assert.Equal(t, "msg 5", page[1].Content)

	// Older page before the first of the previous page.
	page, err = svc.History(a.ID, b.ID, 2, ids[4])
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "msg 2", page[0].Content)
	assert.Equal(t, "msg 3", page[1].Content)
}

func TestChatPartners(t *testing.T) {
	db := setupTest(t)
	svc := NewChatService()

	a := createUser(t, db, "a", "a@example.com", models.RoleBusiness)
	b := createUser(t, db, "b", "b@example.com", models.RoleInfluencer)
	c := createUser(t, db, "c", "c@example.com", models.RoleInfluencer)

	_, err := svc.Send(a.ID, b.ID, "hi b")
	require.NoError(t, err)
	_, err = svc.Send(c.ID, a.ID, "hi a")
	require.NoError(t, err)

	partners, err := svc.Partners(a.ID)
	require.NoError(t, err)
	require.Len(t, partners, 2)
	// Most recent conversation first.
	assert.Equal(t, c.ID, partners[0].ID)
	assert.Equal(t, b.ID, partners[1].ID)
}
