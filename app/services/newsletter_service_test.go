package services

import (
	"testing"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsletterSubscribe(t *testing.T) {
	db := setupTest(t)
	svc := NewNewsletterService()

	require.NoError(t, svc.Subscribe("reader@example.com"))
	// Subscribing twice stays a single row.
	require.NoError(t, svc.Subscribe("reader@example.com"))

	var count int64
	require.NoError(t, db.Model(&models.NewsletterSubscriber{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.Unsubscribe("reader@example.com"))
	require.NoError(t, db.Model(&models.NewsletterSubscriber{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewsletterUnsubscribeUnknownEmail(t *testing.T) {
	setupTest(t)
	svc := NewNewsletterService()

	assert.ErrorIs(t, svc.Unsubscribe("ghost@example.com"), ErrNotFound)
}

func TestNewsletterEmailCaseInsensitive(t *testing.T) {
	db := setupTest(t)
	svc := NewNewsletterService()

	require.NoError(t, svc.Subscribe("Reader@Example.com"))
	require.NoError(t, svc.Subscribe("reader@example.com"))

	var subs []models.NewsletterSubscriber
	require.NoError(t, db.Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, "reader@example.com", subs[0].Email)

	require.NoError(t, svc.Unsubscribe("READER@example.com"))

	var count int64
	require.NoError(t, db.Model(&models.NewsletterSubscriber{}).Count(&count).Error)
	assert.Zero(t, count)
}
