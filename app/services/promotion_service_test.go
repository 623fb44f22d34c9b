package services

import (
	"testing"
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateURLIsIdempotent(t *testing.T) {
	db := setupTest(t)
	svc := NewPromotionService()

	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	promo1, url1, err := svc.GenerateURL(inf.ID, "https://shop.example.com/drop")
	require.NoError(t, err)
	assert.Contains(t, url1, "/p/"+promo1.Code)

	promo2, url2, err := svc.GenerateURL(inf.ID, "https://shop.example.com/drop")
	require.NoError(t, err)
	assert.Equal(t, promo1.ID, promo2.ID)
	assert.Equal(t, url1, url2)

	// A different target gets its own link.
	promo3, _, err := svc.GenerateURL(inf.ID, "https://shop.example.com/other")
	require.NoError(t, err)
	assert.NotEqual(t, promo1.Code, promo3.Code)

	_, _, err = svc.GenerateURL(inf.ID, "not a url")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestTrackCountsUniqueClicks(t *testing.T) {
	db := setupTest(t)
	svc := NewPromotionService()

	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)
	promo, _, err := svc.GenerateURL(inf.ID, "https://shop.example.com/drop")
	require.NoError(t, err)

	target, err := svc.Track(promo.Code, "10.0.0.1", "curl/8")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/drop", target)

	// Same address again: still redirected, not recounted.
	_, err = svc.Track(promo.Code, "10.0.0.1", "curl/8")
	require.NoError(t, err)

	_, err = svc.Track(promo.Code, "10.0.0.2", "curl/8")
	require.NoError(t, err)

	var stored models.Promotion
	require.NoError(t, db.First(&stored, promo.ID).Error)
	assert.Equal(t, int64(2), stored.ClickCount)
	require.NotNil(t, stored.LastClickAt)

	_, err = svc.Track("nope", "10.0.0.1", "curl/8")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTrackInactivePromotion(t *testing.T) {
	db := setupTest(t)
	svc := NewPromotionService()

	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)
	promo, _, err := svc.GenerateURL(inf.ID, "https://shop.example.com/drop")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Promotion{}).Where("id = ?", promo.ID).
		Update("active", false).Error)

	_, err = svc.Track(promo.Code, "10.0.0.1", "curl/8")
	assert.ErrorIs(t, err, ErrInactive)
}

func TestDeactivateStale(t *testing.T) {
	db := setupTest(t)
	repo := repositories.NewPromotionRepository()

	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	old := models.Promotion{UserID: inf.ID, Code: "old-code", TargetURL: "https://a.example.com", Active: true}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).Update("created_at", time.Now().AddDate(0, 0, -120)).Error)

	fresh := models.Promotion{UserID: inf.ID, Code: "fresh-code", TargetURL: "https://b.example.com", Active: true}
	require.NoError(t, db.Create(&fresh).Error)

	n, err := repo.DeactivateStale(time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var stored models.Promotion
	require.NoError(t, db.First(&stored, old.ID).Error)
	assert.False(t, stored.Active)
	require.NoError(t, db.First(&stored, fresh.ID).Error)
	assert.True(t, stored.Active)
}
