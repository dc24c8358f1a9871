package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/moneylink/moneylink_job/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestBootstrapNewUser_CreatesProfileAndReferral(t *testing.T) {
	db := setupTestDB(t)

	referrer := createTestUser(t, db, "referrer@example.com")
	createTestProfile(t, db, referrer, decimal.Zero)
	newUser := createTestUser(t, db, "fresh@example.com")

	BootstrapNewUser(newUser, &referrer.ID)

	balance := fetchBalance(t, db, newUser.ID)
	if !balance.Equal(decimal.Zero) {
		t.Errorf("Expected fresh profile with zero balance, got %s", balance.String())
	}

	var referral models.Referral
	if err := db.First(&referral, "referred_user_id = ?", newUser.ID).Error; err != nil {
		t.Fatalf("Expected referral row: %v", err)
	}
	if referral.Status != models.ReferralStatusPending {
		t.Errorf("Expected pending referral, got %s", referral.Status)
	}
	if !referral.RewardAmount.Equal(ReferralRewardAmount) {
		t.Errorf("Expected reward %s, got %s", ReferralRewardAmount.String(), referral.RewardAmount.String())
	}
}

func TestBootstrapNewUser_SwallowsReferralFaults(t *testing.T) {
	db := setupTestDB(t)

	newUser := createTestUser(t, db, "fresh@example.com")

	// Unknown referrer: the profile is still created and nothing blows up.
	ghost := uuid.New()
	BootstrapNewUser(newUser, &ghost)

	balance := fetchBalance(t, db, newUser.ID)
	if !balance.Equal(decimal.Zero) {
		t.Errorf("Expected profile despite referral fault, got balance %s", balance.String())
	}

	var count int64
	db.Model(&models.Referral{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no referral rows, got %d", count)
	}

	// Running the bootstrap again must not fail on the existing profile.
	BootstrapNewUser(newUser, nil)
}

func TestEnsureProfile_CreatesOnceAndReuses(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "lazy@example.com")

	err := db.Transaction(func(tx *gorm.DB) error {
		profile, err := EnsureProfile(tx, user.ID)
		if err != nil {
			return err
		}
		if !profile.Balance.Equal(decimal.Zero) {
			t.Errorf("Expected zero balance on materialized profile, got %s", profile.Balance.String())
		}
		if profile.Email != user.Email {
			t.Errorf("Expected email copied from user, got %s", profile.Email)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}

	// The second call finds the same row instead of creating another.
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := EnsureProfile(tx, user.ID)
		return err
	})
	if err != nil {
		t.Fatalf("Second EnsureProfile failed: %v", err)
	}

	var count int64
	db.Model(&models.Profile{}).Where("id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 profile row, got %d", count)
	}
}

func TestEnsureProfile_UnknownUser(t *testing.T) {
	db := setupTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := EnsureProfile(tx, uuid.New())
		return err
	})
	if err == nil {
		t.Fatal("Expected error for user that does not exist")
	}
}
