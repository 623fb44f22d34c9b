package services

import (
	"strings"

	"github.com/shashiranjanraj/influex/app/jobs"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/pkg/logger"
	"github.com/shashiranjanraj/influex/pkg/queue"
)

// NewsletterService manages the subscriber list.
type NewsletterService struct {
	subs *repositories.NewsletterRepository
}

func NewNewsletterService() *NewsletterService {
	return &NewsletterService{subs: repositories.NewNewsletterRepository()}
}

// Subscribe adds the email and queues the welcome mail for first-time
// subscribers. Subscribing again is a silent no-op. Addresses are stored
// lowercase so casing differences cannot create duplicate rows.
func (s *NewsletterService) Subscribe(email string) error {
	email = normalizeEmail(email)
	created, err := s.subs.Subscribe(email)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if err := queue.Dispatch(jobs.NewsletterWelcomeJob{Email: email}); err != nil {
		logger.Error("newsletter: welcome mail dispatch failed", "email", email, "error", err)
	}
	return nil
}

// Unsubscribe removes the email from the list. An address that was never
// subscribed is a not-found error.
func (s *NewsletterService) Unsubscribe(email string) error {
	n, err := s.subs.Unsubscribe(normalizeEmail(email))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
