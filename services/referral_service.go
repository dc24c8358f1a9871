package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/logging"
	"github.com/moneylink/moneylink_job/models"
	"github.com/moneylink/moneylink_job/monitoring"
	"github.com/moneylink/moneylink_job/notifications"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReferralRewardAmount is the one-time commission (~500 VND) paid to the
// referrer when the referred user completes their first task.
var ReferralRewardAmount = decimal.RequireFromString("0.0217")

// RecordReferral creates the pending referral row for a newly registered
// user. It refuses unknown referrers and relies on the unique constraint on
// referred_user_id to keep referrals one-per-user.
func RecordReferral(referrerID, referredUserID uuid.UUID) error {
	if referrerID == referredUserID {
		return errors.New("user cannot refer themselves")
	}

	var referrer models.Profile
	if err := database.DB.First(&referrer, "id = ?", referrerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("referrer %s has no profile", referrerID)
		}
		return err
	}

	referral := models.Referral{
		ReferrerID:     referrerID,
		ReferredUserID: referredUserID,
		Status:         models.ReferralStatusPending,
		RewardAmount:   ReferralRewardAmount,
	}
	return database.DB.Create(&referral).Error
}

// referralPayout carries what the post-commit announcement needs out of the
// settlement transaction.
type referralPayout struct {
	ReferrerID    uuid.UUID
	ReferrerName  string
	ReferrerEmail string
	Amount        decimal.Decimal
}

// settlePendingReferral approves the caller's pending referral (if any) and
// credits the referrer, inside the caller's transaction. The status flip
// gates the payout: once approved it can never pay again. The returned payout
// is nil when there was nothing to settle; metrics and mail belong to the
// caller, after its transaction has committed.
func settlePendingReferral(tx *gorm.DB, userID uuid.UUID) (*referralPayout, error) {
	var referral models.Referral
	err := lockForUpdate(tx).
		Where("referred_user_id = ? AND status = ?", userID, models.ReferralStatusPending).
		First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	referral.Status = models.ReferralStatusApproved
	if err := tx.Save(&referral).Error; err != nil {
		return nil, err
	}

	referrer, err := EnsureProfile(tx, referral.ReferrerID)
	if err != nil {
		return nil, err
	}
	referrer.Balance = referrer.Balance.Add(referral.RewardAmount)
	if err := tx.Save(referrer).Error; err != nil {
		return nil, err
	}

	name := ""
	if referrer.FullName != nil {
		name = *referrer.FullName
	}
	return &referralPayout{
		ReferrerID:    referral.ReferrerID,
		ReferrerName:  name,
		ReferrerEmail: referrer.Email,
		Amount:        referral.RewardAmount,
	}, nil
}

// announceReferralPayout records and mails a settled referral. Only called
// once the settling transaction has committed, so a rollback can never
// produce a "reward added" mail.
func announceReferralPayout(referredUserID uuid.UUID, payout *referralPayout) {
	monitoring.RewardsPaidTotal.WithLabelValues("referral").Add(payout.Amount.InexactFloat64())
	logging.Logger.Info("referral reward paid",
		zap.String("referrer_id", payout.ReferrerID.String()),
		zap.String("referred_user_id", referredUserID.String()),
		zap.String("amount", payout.Amount.String()))

	go notifications.SendEmail(
		payout.ReferrerName,
		payout.ReferrerEmail,
		"You've Earned a Referral Reward!",
		fmt.Sprintf("<h1>Congratulations!</h1><p>Someone you referred has completed their first task. $%s has been added to your balance.</p>", payout.Amount.StringFixed(4)),
	)
}
