package repositories

import (
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/orm"
)

// OTPRepository handles database operations for one-time codes.
type OTPRepository struct{}

func NewOTPRepository() *OTPRepository {
	return &OTPRepository{}
}

// Create persists a new code for the email.
func (r *OTPRepository) Create(otp *models.OTP) error {
	return orm.DB().Create(otp)
}

// Latest returns the most recent code issued to the email.
func (r *OTPRepository) Latest(email string) (models.OTP, error) {
	var otp models.OTP
	err := orm.DB().Model(&models.OTP{}).
		Where("email = ?", email).
		Order("id DESC").
		First(&otp)
	return otp, err
}

// MarkVerified flips the verified flag on the given row.
func (r *OTPRepository) MarkVerified(id uint) error {
	return orm.DB().Model(&models.OTP{}).Where("id = ?", id).
		Updates(map[string]interface{}{"verified": true})
}

// HasVerified reports whether the email holds an unexpired, verified code.
func (r *OTPRepository) HasVerified(email string) (bool, error) {
	var n int64
	err := orm.DB().Model(&models.OTP{}).
		Where("email = ? AND verified = ? AND expires_at > ?", email, true, time.Now()).
		Count(&n)
	return n > 0, err
}

// DeleteForEmail purges every code issued to the email.
func (r *OTPRepository) DeleteForEmail(email string) error {
	return orm.DB().Where("email = ?", email).Delete(&models.OTP{})
}

// DeleteExpired removes codes past their validity window. Run periodically
// by the scheduler.
func (r *OTPRepository) DeleteExpired() error {
	return orm.DB().Where("expires_at < ?", time.Now()).Delete(&models.OTP{})
}
