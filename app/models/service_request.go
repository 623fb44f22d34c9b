package models

import "time"

// ServiceRequest is a custom work enquiry sent by a business to an
// influencer outside the fixed service catalogue.
type ServiceRequest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	InfluencerID uint      `gorm:"not null;index" json:"influencer_id"`
	ServiceName  string    `gorm:"size:255;not null" json:"service_name"`
	Details      string    `gorm:"type:text" json:"details,omitempty"`
	Budget       float64   `json:"budget,omitempty"`
	Status       string    `gorm:"size:32;default:open" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
