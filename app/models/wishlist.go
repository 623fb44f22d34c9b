package models

import "time"

// WishlistItem bookmarks an influencer for a user. The composite unique
// index makes add idempotent; toggle removes the row if it exists.
type WishlistItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_wishlist_pair" json:"user_id"`
	InfluencerID uint      `gorm:"not null;uniqueIndex:idx_wishlist_pair" json:"influencer_id"`
	CreatedAt    time.Time `json:"created_at"`
}
