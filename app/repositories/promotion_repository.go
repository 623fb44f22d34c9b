package repositories

import (
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/orm"
)

// PromotionRepository handles database operations for tracked links.
type PromotionRepository struct{}

func NewPromotionRepository() *PromotionRepository {
	return &PromotionRepository{}
}

// FindByUserAndTarget returns the existing promotion for (user, url), if any.
func (r *PromotionRepository) FindByUserAndTarget(userID uint, targetURL string) (models.Promotion, error) {
	var p models.Promotion
	err := orm.DB().Model(&models.Promotion{}).
		Where("user_id = ? AND target_url = ?", userID, targetURL).
		First(&p)
	return p, err
}

// FindByCode looks up a promotion by its public code.
func (r *PromotionRepository) FindByCode(code string) (models.Promotion, error) {
	var p models.Promotion
	err := orm.DB().Model(&models.Promotion{}).Where("code = ?", code).First(&p)
	return p, err
}

// Create persists a new promotion.
func (r *PromotionRepository) Create(p *models.Promotion) error {
	return orm.DB().Create(p)
}

// ForUser returns the user's promotions, newest first.
func (r *PromotionRepository) ForUser(userID uint) ([]models.Promotion, error) {
	var promos []models.Promotion
	err := orm.DB().Model(&models.Promotion{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Get(&promos)
	return promos, err
}

// RecordClick counts one click from ip, once per address. The click row and
// the counter bump commit together; a repeat address inserts nothing and
// leaves the counter untouched.
func (r *PromotionRepository) RecordClick(promotionID uint, ip, userAgent string) (bool, error) {
	var counted bool
	err := orm.Transaction(func(tx *orm.Query) error {
		inserted, err := tx.CreateIgnoreConflict(&models.PromotionClick{
			PromotionID: promotionID,
			IPAddress:   ip,
			UserAgent:   userAgent,
		})
		if err != nil {
			return err
		}
		if inserted == 0 {
			return nil
		}
		counted = true
		now := time.Now()
		return tx.Model(&models.Promotion{}).Where("id = ?", promotionID).
			Updates(map[string]interface{}{
				"click_count":   orm.Expr("click_count + 1"),
				"last_click_at": now,
			})
	})
	return counted, err
}

// DeactivateStale disables promotions with no clicks since the cutoff.
// Run from the scheduler.
func (r *PromotionRepository) DeactivateStale(cutoff time.Time) (int64, error) {
	var ids []uint
	err := orm.DB().Model(&models.Promotion{}).
		Where("active = ? AND (last_click_at IS NULL OR last_click_at < ?) AND created_at < ?", true, cutoff, cutoff).
		Pluck("id", &ids)
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	err = orm.DB().Model(&models.Promotion{}).Where("id IN ?", ids).
		Updates(map[string]interface{}{"active": false})
	return int64(len(ids)), err
}
