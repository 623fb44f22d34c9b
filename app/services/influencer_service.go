package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/pkg/cache"
	"github.com/shashiranjanraj/influex/pkg/orm"
	"gorm.io/gorm"
)

const influencerCacheTTL = 5 * time.Minute

// InfluencerService covers discovery, wishlists and custom service
// requests.
type InfluencerService struct {
	users    *repositories.UserRepository
	wishlist *repositories.WishlistRepository
}

func NewInfluencerService() *InfluencerService {
	return &InfluencerService{
		users:    repositories.NewUserRepository(),
		wishlist: repositories.NewWishlistRepository(),
	}
}

type influencerPage struct {
	Users      []models.User  `json:"users"`
	Pagination orm.Pagination `json:"pagination"`
}

// List returns one page of influencers, served from cache when warm. The
// cache key covers every query dimension so filtered pages never collide.
func (s *InfluencerService) List(category string, page, limit int) ([]models.User, orm.Pagination, error) {
	key := fmt.Sprintf("influencers:%s:%d:%d", category, page, limit)

	var cached influencerPage
	if cache.Get(key, &cached) {
		return cached.Users, cached.Pagination, nil
	}

	users, pagination, err := s.users.Influencers(category, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, err
	}

	cache.Set(key, influencerPage{Users: users, Pagination: pagination}, influencerCacheTTL) //nolint:errcheck
	return users, pagination, nil
}

// Get returns one influencer profile.
func (s *InfluencerService) Get(id uint) (models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	if !user.IsInfluencer() {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

// ToggleWishlist saves or removes the influencer for the user. Returns
// true when the influencer is on the wishlist after the call.
func (s *InfluencerService) ToggleWishlist(userID, influencerID uint) (bool, error) {
	if _, err := s.Get(influencerID); err != nil {
		return false, err
	}
	return s.wishlist.Toggle(userID, influencerID)
}

// Wishlist returns the influencer profiles the user has saved.
func (s *InfluencerService) Wishlist(userID uint) ([]models.User, error) {
	ids, err := s.wishlist.InfluencerIDs(userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.FindByID(id)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// RequestService files a custom work enquiry against an influencer.
func (s *InfluencerService) RequestService(req *models.ServiceRequest) error {
	if _, err := s.Get(req.InfluencerID); err != nil {
		return err
	}
	return s.wishlist.CreateServiceRequest(req)
}
