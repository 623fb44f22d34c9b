package repositories

import (
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/orm"
)

// WishlistRepository handles database operations for saved influencers.
type WishlistRepository struct{}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{}
}

// Toggle adds the influencer to the user's wishlist, or removes it when
// already present. Returns true when the item is saved after the call.
func (r *WishlistRepository) Toggle(userID, influencerID uint) (bool, error) {
	inserted, err := orm.DB().CreateIgnoreConflict(&models.WishlistItem{
		UserID:       userID,
		InfluencerID: influencerID,
	})
	if err != nil {
		return false, err
	}
	if inserted > 0 {
		return true, nil
	}

	err = orm.DB().Where("user_id = ? AND influencer_id = ?", userID, influencerID).
		Delete(&models.WishlistItem{})
	return false, err
}

// InfluencerIDs returns the ids saved by the user.
func (r *WishlistRepository) InfluencerIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := orm.DB().Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Pluck("influencer_id", &ids)
	return ids, err
}

// CreateServiceRequest persists a custom work enquiry.
func (r *WishlistRepository) CreateServiceRequest(req *models.ServiceRequest) error {
	return orm.DB().Create(req)
}
