package repositories

import (
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/orm"
)

// OAuthRepository handles database operations for OAuth sessions and
// linked provider accounts.
type OAuthRepository struct{}

func NewOAuthRepository() *OAuthRepository {
	return &OAuthRepository{}
}

// CreateSession persists a new pending authorization flow.
func (r *OAuthRepository) CreateSession(s *models.AuthSession) error {
	return orm.DB().Create(s)
}

// FindSessionByState looks up a flow by its state value.
func (r *OAuthRepository) FindSessionByState(state string) (models.AuthSession, error) {
	var s models.AuthSession
	err := orm.DB().Model(&models.AuthSession{}).Where("state = ?", state).First(&s)
	return s, err
}

// ConsumeSession marks the session used. The guarded update makes the
// callback single use even under concurrent requests: only the first
// caller sees a row change.
func (r *OAuthRepository) ConsumeSession(id uint) (bool, error) {
	now := time.Now()
	res, err := orm.DB().Model(&models.AuthSession{}).
		Where("id = ? AND used_at IS NULL", id).
		UpdatesWithCount(map[string]interface{}{"used_at": now})
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

// DeleteExpiredSessions purges flows that can no longer complete. Run from
// the scheduler. Consumed rows stay an extra hour past their use so a
// disputed callback can still be traced.
func (r *OAuthRepository) DeleteExpiredSessions() error {
	cutoff := time.Now().Add(-time.Hour)
	return orm.DB().Where("expires_at < ? OR used_at < ?", cutoff, cutoff).
		Delete(&models.AuthSession{})
}

// FindAccount returns the linked account for (user, provider).
func (r *OAuthRepository) FindAccount(userID uint, provider string) (models.ProviderAccount, error) {
	var a models.ProviderAccount
	err := orm.DB().Model(&models.ProviderAccount{}).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&a)
	return a, err
}

// SaveAccount inserts or refreshes the linked account for (user, provider).
// A relink keeps the previously fetched profile and post snapshots.
func (r *OAuthRepository) SaveAccount(a *models.ProviderAccount) error {
	existing, err := r.FindAccount(a.UserID, a.Provider)
	if err == nil {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
		if a.Profile == "" {
			a.Profile = existing.Profile
		}
		if a.Posts == "" {
			a.Posts = existing.Posts
		}
		return orm.DB().Save(a)
	}
	return orm.DB().Create(a)
}

// DeleteAccount unlinks one provider from the user.
func (r *OAuthRepository) DeleteAccount(userID uint, provider string) error {
	return orm.DB().Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&models.ProviderAccount{})
}

// DeleteAccountsByProviderUser removes every linked account matching the
// provider-side user id. Used by the data deletion callback.
func (r *OAuthRepository) DeleteAccountsByProviderUser(provider, providerUserID string) error {
	return orm.DB().Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		Delete(&models.ProviderAccount{})
}
