package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// A named shared-cache database keeps gorm's pooled connections on the
	// same in-memory store; the name isolates tests from each other.
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Link{},
		&models.TaskCompletion{},
		&models.Withdrawal{},
		&models.Referral{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	database.DB = db
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	user := models.User{
		Email:    email,
		Password: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestProfile(t *testing.T, db *gorm.DB, user models.User, balance decimal.Decimal) models.Profile {
	profile := models.Profile{
		ID:      user.ID,
		Email:   user.Email,
		Balance: balance,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return profile
}

func createTestLink(t *testing.T, db *gorm.DB, owner models.User, slug string, reward decimal.Decimal) models.Link {
	link := models.Link{
		UserID:       owner.ID,
		OriginalURL:  "https://example.com",
		Slug:         slug,
		RewardAmount: reward,
	}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("Failed to create test link: %v", err)
	}
	return link
}

func fetchBalance(t *testing.T, db *gorm.DB, userID uuid.UUID) decimal.Decimal {
	var profile models.Profile
	if err := db.First(&profile, "id = ?", userID).Error; err != nil {
		t.Fatalf("Failed to fetch profile %s: %v", userID, err)
	}
	return profile.Balance
}
