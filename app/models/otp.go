package models

import "time"

// OTP is a short-lived email verification code. A code must be marked
// Verified before signup for that email can complete; all rows for the
// email are purged once the account is created.
type OTP struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Code      string    `gorm:"size:10;not null" json:"-"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the code is past its validity window.
func (o *OTP) Expired(now time.Time) bool { return now.After(o.ExpiresAt) }
