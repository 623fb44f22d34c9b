package services

import (
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/config"
	"gorm.io/gorm"
)

// PromotionService issues trackable links and counts unique clicks.
type PromotionService struct {
	promos *repositories.PromotionRepository
}

func NewPromotionService() *PromotionService {
	return &PromotionService{promos: repositories.NewPromotionRepository()}
}

// GenerateURL returns the tracked link for (user, target), creating the
// promotion on first call. Repeat calls with the same target hand back the
// existing link unchanged.
func (s *PromotionService) GenerateURL(userID uint, targetURL string) (models.Promotion, string, error) {
	targetURL = strings.TrimSpace(targetURL)
	u, err := url.Parse(targetURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.Promotion{}, "", ErrMissingFields
	}

	promo, err := s.promos.FindByUserAndTarget(userID, targetURL)
	if err == nil {
		return promo, s.publicURL(promo.Code), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Promotion{}, "", err
	}

	promo = models.Promotion{
		UserID:    userID,
		Code:      uuid.NewString(),
		TargetURL: targetURL,
		Active:    true,
	}
	if err := s.promos.Create(&promo); err != nil {
		return models.Promotion{}, "", err
	}
	return promo, s.publicURL(promo.Code), nil
}

// Track resolves the promotion behind code, counts the visitor once per IP
// address, and returns the redirect target.
func (s *PromotionService) Track(code, ip, userAgent string) (string, error) {
	promo, err := s.promos.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !promo.Active {
		return "", ErrInactive
	}

	if _, err := s.promos.RecordClick(promo.ID, ip, userAgent); err != nil {
		return "", err
	}
	return promo.TargetURL, nil
}

// ListForUser returns the user's promotions with their click counts.
func (s *PromotionService) ListForUser(userID uint) ([]models.Promotion, error) {
	return s.promos.ForUser(userID)
}

func (s *PromotionService) publicURL(code string) string {
	return strings.TrimRight(config.AppURL(), "/") + "/p/" + code
}
