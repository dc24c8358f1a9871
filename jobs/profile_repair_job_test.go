package jobs

import (
	"testing"

	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJobTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:profile_repair_job?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Profile{}); err != nil {
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

func TestBackfillMissingProfiles(t *testing.T) {
	db := setupJobTestDB(t)

	withProfile := models.User{Email: "ok@example.com", Password: "x"}
	if err := db.Create(&withProfile).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if err := db.Create(&models.Profile{ID: withProfile.ID, Email: withProfile.Email}).Error; err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}

	orphan := models.User{Email: "orphan@example.com", Password: "x"}
	if err := db.Create(&orphan).Error; err != nil {
		t.Fatalf("Failed to create orphan user: %v", err)
	}

	BackfillMissingProfiles()

	var profile models.Profile
	if err := db.First(&profile, "id = ?", orphan.ID).Error; err != nil {
		t.Fatalf("Expected backfilled profile for orphan user: %v", err)
	}
	if profile.Email != orphan.Email {
		t.Errorf("Expected email %s, got %s", orphan.Email, profile.Email)
	}

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 profiles, got %d", count)
	}

	// Idempotent: nothing left to repair.
	BackfillMissingProfiles()
	db.Model(&models.Profile{}).Count(&count)
	if count != 2 {
		t.Errorf("Repair created duplicate profiles: %d", count)
	}
}
