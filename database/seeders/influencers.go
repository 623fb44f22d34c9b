package seeders

import (
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	Register("influencers", SeedInfluencers)
}

// SeedInfluencers loads a small demo catalogue so discovery and chat have
// something to show on a fresh database. Existing emails are left alone.
func SeedInfluencers(db *gorm.DB) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Aarav Mehta", Username: "aarav.codes", Email: "aarav@example.com", Role: models.RoleInfluencer, Category: "tech", Followers: 182000, Verified: true, Password: hash},
		{Name: "Diya Sharma", Username: "diyastyle", Email: "diya@example.com", Role: models.RoleInfluencer, Category: "fashion", Followers: 455000, Verified: true, Password: hash},
		{Name: "Kabir Singh", Username: "kabirfit", Email: "kabir@example.com", Role: models.RoleInfluencer, Category: "fitness", Followers: 98000, Password: hash},
		{Name: "Meera Iyer", Username: "meeraeats", Email: "meera@example.com", Role: models.RoleInfluencer, Category: "food", Followers: 221000, Password: hash},
		{Name: "Acme Brands", Username: "acme", Email: "brand@example.com", Role: models.RoleBusiness, Password: hash},
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error
}
