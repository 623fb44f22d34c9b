package models

import "time"

// Promotion is a trackable short link owned by an influencer. Code is a
// UUID fragment embedded in the public URL; generation is idempotent per
// (user, target URL).
type Promotion struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Code        string     `gorm:"uniqueIndex;size:64;not null" json:"code"`
	TargetURL   string     `gorm:"size:1024;not null" json:"target_url"`
	Active      bool       `gorm:"default:true" json:"active"`
	ClickCount  int64      `json:"click_count"`
	LastClickAt *time.Time `json:"last_click_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PromotionClick records one unique visitor per promotion. The composite
// unique index makes repeat clicks from the same address a no-op.
type PromotionClick struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PromotionID uint      `gorm:"not null;uniqueIndex:idx_promo_ip" json:"promotion_id"`
	IPAddress   string    `gorm:"size:64;not null;uniqueIndex:idx_promo_ip" json:"ip_address"`
	UserAgent   string    `gorm:"size:512" json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
