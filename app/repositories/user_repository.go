package repositories

import (
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// ExistsByEmailOrPhone reports whether an account already uses the email
// or, when phone is non-empty, the phone number.
func (r *UserRepository) ExistsByEmailOrPhone(email, phone string) (bool, error) {
	var n int64
	q := orm.DB().Model(&models.User{})
	if phone != "" {
		q = q.Where("email = ? OR phone = ?", email, phone)
	} else {
		q = q.Where("email = ?", email)
	}
	if err := q.Count(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// UpdatePassword replaces the stored password hash for the given email.
func (r *UserRepository) UpdatePassword(email, hash string) error {
	return orm.DB().Model(&models.User{}).Where("email = ?", email).
		Updates(map[string]interface{}{"password": hash, "updated_at": time.Now()})
}

// Influencers returns one page of influencer accounts, optionally filtered
// by category, ordered by follower count.
func (r *UserRepository) Influencers(category string, page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	q := orm.DB().Model(&models.User{}).Where("role = ?", models.RoleInfluencer)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	pagination, err := q.Order("followers DESC").GetWithPagination(&users, page, limit)
	return users, pagination, err
}

// AllExcept returns every user except the given one, for the chat
// contact list.
func (r *UserRepository) AllExcept(id uint) ([]models.User, error) {
	var users []models.User
	err := orm.DB().Model(&models.User{}).Where("id <> ?", id).Order("name ASC").Get(&users)
	return users, err
}
