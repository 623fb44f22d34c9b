package models

import "time"

// Message is one chat message between two users. Rows are immutable; there
// is no edit or delete path.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;index:idx_messages_pair" json:"from_user_id"`
	ToUserID   uint      `gorm:"not null;index:idx_messages_pair" json:"to_user_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
