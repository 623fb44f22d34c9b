package repositories

import (
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/orm"
)

// NewsletterRepository handles database operations for subscribers.
type NewsletterRepository struct{}

func NewNewsletterRepository() *NewsletterRepository {
	return &NewsletterRepository{}
}

// Subscribe inserts the email if it is not already present. Returns true
// when a new row was created.
func (r *NewsletterRepository) Subscribe(email string) (bool, error) {
	inserted, err := orm.DB().CreateIgnoreConflict(&models.NewsletterSubscriber{
		Email:        email,
		SubscribedAt: time.Now(),
	})
	return inserted > 0, err
}

// Unsubscribe removes the email and reports how many rows it hit, so the
// caller can tell an unknown address apart from a real removal.
func (r *NewsletterRepository) Unsubscribe(email string) (int64, error) {
	return orm.DB().Where("email = ?", email).DeleteWithCount(&models.NewsletterSubscriber{})
}

// All returns every subscriber, oldest first.
func (r *NewsletterRepository) All() ([]models.NewsletterSubscriber, error) {
	var subs []models.NewsletterSubscriber
	err := orm.DB().Model(&models.NewsletterSubscriber{}).Order("id ASC").Get(&subs)
	return subs, err
}
