package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/moneylink/moneylink_job/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestCompleteTask_CreditsRewardOnce(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "worker@example.com")
	createTestProfile(t, db, user, decimal.Zero)
	link := createTestLink(t, db, user, "abc123", decimal.RequireFromString("0.0500"))

	if err := CompleteTask(user.ID, link.ID); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}

	balance := fetchBalance(t, db, user.ID)
	if !balance.Equal(decimal.RequireFromString("0.0500")) {
		t.Errorf("Expected balance 0.0500, got %s", balance.String())
	}

	var updated models.Link
	if err := db.First(&updated, "id = ?", link.ID).Error; err != nil {
		t.Fatalf("Failed to reload link: %v", err)
	}
	if updated.Views != 1 {
		t.Errorf("Expected 1 view, got %d", updated.Views)
	}

	var count int64
	db.Model(&models.TaskCompletion{}).
		Where("user_id = ? AND link_id = ?", user.ID, link.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 completion row, got %d", count)
	}

	// Second attempt must fail and leave everything untouched.
	err := CompleteTask(user.ID, link.ID)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("Expected ErrAlreadyCompleted, got %v", err)
	}

	balance = fetchBalance(t, db, user.ID)
	if !balance.Equal(decimal.RequireFromString("0.0500")) {
		t.Errorf("Balance changed on duplicate completion: %s", balance.String())
	}
	if err := db.First(&updated, "id = ?", link.ID).Error; err != nil {
		t.Fatalf("Failed to reload link: %v", err)
	}
	if updated.Views != 1 {
		t.Errorf("Views changed on duplicate completion: %d", updated.Views)
	}
}

func TestCompleteTask_UnknownLink(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "worker@example.com")
	createTestProfile(t, db, user, decimal.Zero)

	err := CompleteTask(user.ID, uuid.New())
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("Expected ErrTaskNotFound, got %v", err)
	}

	balance := fetchBalance(t, db, user.ID)
	if !balance.Equal(decimal.Zero) {
		t.Errorf("Balance changed on failed completion: %s", balance.String())
	}
}

func TestCompleteTask_MaterializesMissingProfile(t *testing.T) {
	db := setupTestDB(t)

	// User registered but the bootstrap never created a profile.
	user := createTestUser(t, db, "orphan@example.com")
	link := createTestLink(t, db, user, "xyz789", decimal.RequireFromString("0.1000"))

	if err := CompleteTask(user.ID, link.ID); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}

	balance := fetchBalance(t, db, user.ID)
	if !balance.Equal(decimal.RequireFromString("0.1000")) {
		t.Errorf("Expected lazily created profile with balance 0.1000, got %s", balance.String())
	}
}

func TestCompleteTask_ReferralPaidExactlyOnce(t *testing.T) {
	db := setupTestDB(t)

	referrer := createTestUser(t, db, "referrer@example.com")
	createTestProfile(t, db, referrer, decimal.Zero)
	referred := createTestUser(t, db, "referred@example.com")
	createTestProfile(t, db, referred, decimal.Zero)

	if err := RecordReferral(referrer.ID, referred.ID); err != nil {
		t.Fatalf("RecordReferral failed: %v", err)
	}

	link1 := createTestLink(t, db, referrer, "task01", decimal.RequireFromString("0.0500"))
	link2 := createTestLink(t, db, referrer, "task02", decimal.RequireFromString("0.0500"))

	if err := CompleteTask(referred.ID, link1.ID); err != nil {
		t.Fatalf("First completion failed: %v", err)
	}

	referrerBalance := fetchBalance(t, db, referrer.ID)
	if !referrerBalance.Equal(ReferralRewardAmount) {
		t.Errorf("Expected referrer balance %s after first completion, got %s",
			ReferralRewardAmount.String(), referrerBalance.String())
	}

	var referral models.Referral
	if err := db.First(&referral, "referred_user_id = ?", referred.ID).Error; err != nil {
		t.Fatalf("Failed to reload referral: %v", err)
	}
	if referral.Status != models.ReferralStatusApproved {
		t.Errorf("Expected referral status approved, got %s", referral.Status)
	}

	// The second completion pays the task reward but no referral again.
	if err := CompleteTask(referred.ID, link2.ID); err != nil {
		t.Fatalf("Second completion failed: %v", err)
	}

	referrerBalance = fetchBalance(t, db, referrer.ID)
	if !referrerBalance.Equal(ReferralRewardAmount) {
		t.Errorf("Referral paid twice: referrer balance %s", referrerBalance.String())
	}

	referredBalance := fetchBalance(t, db, referred.ID)
	if !referredBalance.Equal(decimal.RequireFromString("0.1000")) {
		t.Errorf("Expected referred balance 0.1000, got %s", referredBalance.String())
	}
}

func TestRecordReferral_UnknownReferrer(t *testing.T) {
	db := setupTestDB(t)

	referred := createTestUser(t, db, "referred@example.com")
	createTestProfile(t, db, referred, decimal.Zero)

	if err := RecordReferral(uuid.New(), referred.ID); err == nil {
		t.Fatal("Expected error for referrer without a profile")
	}

	var count int64
	db.Model(&models.Referral{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no referral rows, got %d", count)
	}
}

func TestRecordReferral_OncePerReferredUser(t *testing.T) {
	db := setupTestDB(t)

	referrerA := createTestUser(t, db, "a@example.com")
	createTestProfile(t, db, referrerA, decimal.Zero)
	referrerB := createTestUser(t, db, "b@example.com")
	createTestProfile(t, db, referrerB, decimal.Zero)
	referred := createTestUser(t, db, "referred@example.com")
	createTestProfile(t, db, referred, decimal.Zero)

	if err := RecordReferral(referrerA.ID, referred.ID); err != nil {
		t.Fatalf("First RecordReferral failed: %v", err)
	}
	if err := RecordReferral(referrerB.ID, referred.ID); err == nil {
		t.Fatal("Expected unique violation for second referral of the same user")
	}

	var count int64
	db.Model(&models.Referral{}).Where("referred_user_id = ?", referred.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 referral row, got %d", count)
	}
}

// The pre-check inside CompleteTask is only advisory; the unique index on
// (user_id, link_id) is what actually arbitrates two concurrent completions.
// A writer losing that race sees the constraint violation as
// gorm.ErrDuplicatedKey, which the service reports as ErrAlreadyCompleted.
func TestCompleteTask_UniqueIndexArbitratesDuplicates(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "racer@example.com")
	createTestProfile(t, db, user, decimal.Zero)
	link := createTestLink(t, db, user, "race01", decimal.RequireFromString("0.05"))

	first := models.TaskCompletion{UserID: user.ID, LinkID: link.ID}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("First completion insert failed: %v", err)
	}

	// A concurrent writer that passed the pre-check but lost the race hits
	// the constraint on insert.
	second := models.TaskCompletion{UserID: user.ID, LinkID: link.ID}
	if err := db.Create(&second).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Expected gorm.ErrDuplicatedKey for duplicate completion, got %v", err)
	}

	// Once the row exists, CompleteTask refuses it and credits nothing.
	if err := CompleteTask(user.ID, link.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("Expected ErrAlreadyCompleted, got %v", err)
	}

	var count int64
	db.Model(&models.TaskCompletion{}).
		Where("user_id = ? AND link_id = ?", user.ID, link.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 completion row, got %d", count)
	}

	balance := fetchBalance(t, db, user.ID)
	if !balance.Equal(decimal.Zero) {
		t.Errorf("Expected untouched balance, got %s", balance.String())
	}
}

// Settlement runs inside the caller's transaction and only reports what to
// announce; a rolled-back transaction must leave the referral pending with no
// credit, so nothing observable happens before commit.
func TestSettlePendingReferral_PayoutFollowsCommit(t *testing.T) {
	db := setupTestDB(t)

	referrer := createTestUser(t, db, "referrer@example.com")
	createTestProfile(t, db, referrer, decimal.Zero)
	referred := createTestUser(t, db, "referred@example.com")
	createTestProfile(t, db, referred, decimal.Zero)

	if err := RecordReferral(referrer.ID, referred.ID); err != nil {
		t.Fatalf("RecordReferral failed: %v", err)
	}

	// A transaction that fails after settling rolls everything back.
	var payout *referralPayout
	errBoom := errors.New("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		payout, err = settlePendingReferral(tx, referred.ID)
		if err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("Expected the injected failure, got %v", err)
	}
	if balance := fetchBalance(t, db, referrer.ID); !balance.Equal(decimal.Zero) {
		t.Errorf("Rollback leaked a credit: referrer balance %s", balance.String())
	}
	var referral models.Referral
	if err := db.First(&referral, "referred_user_id = ?", referred.ID).Error; err != nil {
		t.Fatalf("Failed to reload referral: %v", err)
	}
	if referral.Status != models.ReferralStatusPending {
		t.Errorf("Expected referral still pending after rollback, got %s", referral.Status)
	}

	// A committed settlement reports the referrer to notify, exactly once.
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		payout, err = settlePendingReferral(tx, referred.ID)
		return err
	})
	if err != nil {
		t.Fatalf("Settlement failed: %v", err)
	}
	if payout == nil {
		t.Fatal("Expected payout details for a pending referral")
	}
	if payout.ReferrerID != referrer.ID {
		t.Errorf("Expected referrer %s, got %s", referrer.ID, payout.ReferrerID)
	}
	if payout.ReferrerEmail != referrer.Email {
		t.Errorf("Expected referrer email %s, got %s", referrer.Email, payout.ReferrerEmail)
	}
	if !payout.Amount.Equal(ReferralRewardAmount) {
		t.Errorf("Expected payout amount %s, got %s", ReferralRewardAmount, payout.Amount)
	}
	if balance := fetchBalance(t, db, referrer.ID); !balance.Equal(ReferralRewardAmount) {
		t.Errorf("Expected referrer balance %s, got %s", ReferralRewardAmount, balance.String())
	}

	// Nothing is left to settle, so there is nothing to announce.
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		payout, err = settlePendingReferral(tx, referred.ID)
		return err
	})
	if err != nil {
		t.Fatalf("Second settlement failed: %v", err)
	}
	if payout != nil {
		t.Errorf("Expected no payout on an already-approved referral, got %+v", payout)
	}
}
