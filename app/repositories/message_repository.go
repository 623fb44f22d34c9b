package repositories

import (
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/collection"
	"github.com/shashiranjanraj/influex/pkg/orm"
)

// MessageRepository handles database operations for chat messages.
type MessageRepository struct{}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

// Create persists a message. Messages are immutable once stored.
func (r *MessageRepository) Create(m *models.Message) error {
	return orm.DB().Create(m)
}

// Conversation returns messages exchanged between two users, newest last.
// beforeID > 0 turns the query into a cursor page of messages older than
// that id; limit caps the page size.
func (r *MessageRepository) Conversation(a, b uint, limit int, beforeID uint) ([]models.Message, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := orm.DB().Model(&models.Message{}).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}

	// Fetch newest-first for the cursor, then reverse so callers render
	// the page in chronological order.
	var page []models.Message
	if err := q.Order("id DESC").Limit(limit).Get(&page); err != nil {
		return nil, err
	}
	return collection.Reverse(page), nil
}

// PartnerIDs returns the distinct user ids this user has exchanged
// messages with, most recent conversation first.
func (r *MessageRepository) PartnerIDs(userID uint) ([]uint, error) {
	var msgs []models.Message
	err := orm.DB().Model(&models.Message{}).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("id DESC").
		Get(&msgs)
	if err != nil {
		return nil, err
	}

	others := collection.Map(msgs, func(m models.Message) uint {
		if m.FromUserID == userID {
			return m.ToUserID
		}
		return m.FromUserID
	})
	others = collection.Reject(others, func(id uint) bool { return id == userID })
	return collection.Unique(others), nil
}
