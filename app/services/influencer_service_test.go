package services

import (
	"testing"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfluencerList(t *testing.T) {
	db := setupTest(t)
	svc := NewInfluencerService()

	createUser(t, db, "biz", "biz@example.com", models.RoleBusiness)
	for _, u := range []models.User{
		{Name: "small", Username: "small", Email: "s@example.com", Password: "x", Role: models.RoleInfluencer, Category: "fashion", Followers: 1_000},
		{Name: "mid", Username: "mid", Email: "m@example.com", Password: "x", Role: models.RoleInfluencer, Category: "tech", Followers: 50_000},
		{Name: "big", Username: "big", Email: "b@example.com", Password: "x", Role: models.RoleInfluencer, Category: "fashion", Followers: 900_000},
	} {
		u := u
		require.NoError(t, db.Create(&u).Error)
	}

	users, pagination, err := svc.List("", 1, 10)
	require.NoError(t, err)
	require.Len(t, users, 3)
	// Biggest reach first, and the business account never shows up.
	assert.Equal(t, "big", users[0].Name)
	assert.Equal(t, "small", users[2].Name)
	assert.Equal(t, int64(3), pagination.Total)

	users, _, err = svc.List("fashion", 1, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)

	users, pagination, err = svc.List("", 2, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 2, pagination.Page)
}

func TestInfluencerGet(t *testing.T) {
	db := setupTest(t)
	svc := NewInfluencerService()

	biz := createUser(t, db, "biz", "biz@example.com", models.RoleBusiness)
	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	got, err := svc.Get(inf.ID)
	require.NoError(t, err)
	assert.Equal(t, inf.ID, got.ID)

	_, err = svc.Get(biz.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWishlistToggle(t *testing.T) {
	db := setupTest(t)
	svc := NewInfluencerService()

	biz := createUser(t, db, "biz", "biz@example.com", models.RoleBusiness)
	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	saved, err := svc.ToggleWishlist(biz.ID, inf.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	list, err := svc.Wishlist(biz.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inf.ID, list[0].ID)

	saved, err = svc.ToggleWishlist(biz.ID, inf.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	list, err = svc.Wishlist(biz.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.ToggleWishlist(biz.ID, biz.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestService(t *testing.T) {
	db := setupTest(t)
	svc := NewInfluencerService()

	biz := createUser(t, db, "biz", "biz@example.com", models.RoleBusiness)
	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	err := svc.RequestService(&models.ServiceRequest{
		UserID: biz.ID, InfluencerID: inf.ID,
		ServiceName: "Unboxing video", Details: "60s reel", Budget: 2500,
	})
	require.NoError(t, err)

	err = svc.RequestService(&models.ServiceRequest{UserID: biz.ID, InfluencerID: 9999, ServiceName: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}
