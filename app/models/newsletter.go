package models

import "time"

// NewsletterSubscriber holds one opted-in email. Subscribing twice is an
// upsert, not an error.
type NewsletterSubscriber struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}
