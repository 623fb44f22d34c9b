package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/pkg/event"
	"gorm.io/gorm"
)

// ChatService persists and reads chat messages. Both the WebSocket gateway
// and the REST fallback endpoints go through here, so a message is stored
// exactly once regardless of transport.
type ChatService struct {
	messages *repositories.MessageRepository
	users    *repositories.UserRepository
}

func NewChatService() *ChatService {
	return &ChatService{
		messages: repositories.NewMessageRepository(),
		users:    repositories.NewUserRepository(),
	}
}

// Send stores a message from one user to another. The recipient must exist;
// empty content is rejected. Persistence happens before any broadcast, so a
// delivered frame always has a database row behind it.
func (s *ChatService) Send(from, to uint, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, fmt.Errorf("%w: content", ErrMissingFields)
	}
	if from == to {
		return models.Message{}, ErrForbidden
	}

	if _, err := s.users.FindByID(to); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Message{}, ErrNotFound
		}
		return models.Message{}, err
	}

	msg := models.Message{FromUserID: from, ToUserID: to, Content: content}
	if err := s.messages.Create(&msg); err != nil {
		return models.Message{}, err
	}

	event.FireAsync("message.sent", msg)
	return msg, nil
}

// History returns one page of the conversation between the authenticated
// user and other, oldest first within the page. beforeID paginates
// backwards through older messages.
func (s *ChatService) History(userID, other uint, limit int, beforeID uint) ([]models.Message, error) {
	return s.messages.Conversation(userID, other, limit, beforeID)
}

// Partners returns the users this user has conversations with, most recent
// first.
func (s *ChatService) Partners(userID uint) ([]models.User, error) {
	ids, err := s.messages.PartnerIDs(userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.FindByID(id)
		if err != nil {
			continue // partner account deleted; skip
		}
		out = append(out, u)
	}
	return out, nil
}

// Contacts returns every other user, for starting new conversations.
func (s *ChatService) Contacts(userID uint) ([]models.User, error) {
	return s.users.AllExcept(userID)
}
