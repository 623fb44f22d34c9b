package models

import "time"

// ProviderAccount links a user to one external OAuth provider. Tokens are
// stored encrypted (AES-GCM via pkg/crypt); one row per (user, provider).
// Profile and Posts hold the latest provider snapshots so the user row
// stays free of per-provider JSON columns.
type ProviderAccount struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex:idx_user_provider" json:"user_id"`
	Provider        string    `gorm:"size:50;not null;uniqueIndex:idx_user_provider" json:"provider"`
	ProviderUserID  string    `gorm:"size:255" json:"provider_user_id"`
	AccessTokenEnc  string    `gorm:"type:text" json:"-"`
	RefreshTokenEnc string    `gorm:"type:text" json:"-"`
	Scopes          string    `gorm:"size:512" json:"scopes,omitempty"`
	Profile         string    `gorm:"type:json" json:"profile,omitempty"`
	Posts           string    `gorm:"type:json" json:"posts,omitempty"`
	ExpiresAt       time.Time `json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AuthSession is a pending OAuth authorization flow. State is the opaque
// value round-tripped through the provider; the PKCE verifier is kept
// encrypted until the callback consumes the row. Sessions are single use
// and expire ten minutes after creation.
type AuthSession struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	State       string     `gorm:"uniqueIndex;size:128;not null" json:"state"`
	Provider    string     `gorm:"size:50;not null" json:"provider"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	VerifierEnc string     `gorm:"type:text;not null" json:"-"`
	RedirectURI string     `gorm:"size:1024" json:"redirect_uri,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Usable reports whether the session can still complete a callback.
func (s *AuthSession) Usable(now time.Time) bool {
	return s.UsedAt == nil && now.Before(s.ExpiresAt)
}
