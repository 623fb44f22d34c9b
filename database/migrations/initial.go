package migrations

import (
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_otps_table", &CreateOTPsTable{})
	migration.Register("20260101000002_create_messages_table", &CreateMessagesTable{})
	migration.Register("20260101000003_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260101000004_create_promotions_tables", &CreatePromotionsTables{})
	migration.Register("20260101000005_create_oauth_tables", &CreateOAuthTables{})
	migration.Register("20260101000006_create_newsletter_table", &CreateNewsletterTable{})
	migration.Register("20260101000007_create_wishlist_tables", &CreateWishlistTables{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: otps --------

type CreateOTPsTable struct{}

func (m *CreateOTPsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.OTP{})
}

func (m *CreateOTPsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("otps")
}

// -------- 0002: messages --------

type CreateMessagesTable struct{}

func (m *CreateMessagesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Message{})
}

func (m *CreateMessagesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("messages")
}

// -------- 0003: orders --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders")
}

// -------- 0004: promotions + clicks --------

type CreatePromotionsTables struct{}

func (m *CreatePromotionsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Promotion{}, &models.PromotionClick{})
}

func (m *CreatePromotionsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("promotion_clicks", "promotions")
}

// -------- 0005: provider accounts + auth sessions --------

type CreateOAuthTables struct{}

func (m *CreateOAuthTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProviderAccount{}, &models.AuthSession{})
}

func (m *CreateOAuthTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("auth_sessions", "provider_accounts")
}

// -------- 0006: newsletter --------

type CreateNewsletterTable struct{}

func (m *CreateNewsletterTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.NewsletterSubscriber{})
}

func (m *CreateNewsletterTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("newsletter_subscribers")
}

// -------- 0007: wishlist + service requests --------

type CreateWishlistTables struct{}

func (m *CreateWishlistTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.WishlistItem{}, &models.ServiceRequest{})
}

func (m *CreateWishlistTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("service_requests", "wishlist_items")
}
