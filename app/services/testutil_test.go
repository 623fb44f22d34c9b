package services

import (
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/database"
	"github.com/shashiranjanraj/influex/pkg/queue"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest points the global connection at a throwaway SQLite file and
// resets the ambient config the services read.
func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	config.Set("JWT_SECRET", "test-secret")
	config.Set("APP_KEY", "test-app-key")
	config.Set("APP_URL", "http://localhost:8080")
	queue.SetDriver(queue.NewMemoryDriver())

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.Message{},
		&models.Order{},
		&models.Promotion{},
		&models.PromotionClick{},
		&models.ProviderAccount{},
		&models.AuthSession{},
		&models.NewsletterSubscriber{},
		&models.WishlistItem{},
		&models.ServiceRequest{},
	))

	database.DB = db
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()
	u := models.User{
		Name:     name,
		Username: name,
		Email:    email,
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}
