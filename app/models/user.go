package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered account. Businesses place orders, influencers fulfil
// them; the Role column drives routing on login and rbac checks. Accounts
// are soft-deleted, never removed.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Username  string         `gorm:"uniqueIndex;size:100" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Password  string         `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role      string         `gorm:"size:50;not null;index" json:"role"`
	Category  string         `gorm:"size:100;index" json:"category,omitempty"`
	Bio       string         `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL string         `gorm:"size:512" json:"avatar_url,omitempty"`
	Prices    string         `gorm:"type:json" json:"prices,omitempty"` // per-service price list
	Followers int64          `json:"followers,omitempty"`
	Verified  bool           `json:"verified"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Roles accepted at signup.
const (
	RoleBusiness   = "business"
	RoleInfluencer = "influencer"
	RoleAdmin      = "admin"
)

// ValidRole reports whether role is one of the accepted account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleBusiness, RoleInfluencer, RoleAdmin:
		return true
	}
	return false
}

// IsInfluencer is a convenience used by discovery and ordering paths.
func (u *User) IsInfluencer() bool { return u.Role == RoleInfluencer }
