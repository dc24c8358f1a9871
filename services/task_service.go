package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/logging"
	"github.com/moneylink/moneylink_job/models"
	"github.com/moneylink/moneylink_job/monitoring"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompleteTask credits the caller for visiting a link, exactly once per
// (user, link) pair. The completion record, the balance credit, the view
// increment and a possible referral payout all commit together or not at all.
func CompleteTask(userID, linkID uuid.UUID) error {
	var reward decimal.Decimal
	var payout *referralPayout
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Friendly pre-check only; the unique index on (user_id, link_id)
		// is what actually arbitrates concurrent duplicates.
		var existing models.TaskCompletion
		err := tx.Where("user_id = ? AND link_id = ?", userID, linkID).First(&existing).Error
		if err == nil {
			return ErrAlreadyCompleted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var link models.Link
		if err := tx.First(&link, "id = ?", linkID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		reward = link.RewardAmount

		completion := models.TaskCompletion{
			UserID: userID,
			LinkID: linkID,
		}
		if err := tx.Create(&completion).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCompleted
			}
			return err
		}

		profile, err := EnsureProfile(tx, userID)
		if err != nil {
			return err
		}
		profile.Balance = profile.Balance.Add(link.RewardAmount)
		if err := tx.Save(profile).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Link{}).Where("id = ?", linkID).
			Update("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}

		payout, err = settlePendingReferral(tx, userID)
		return err
	})
	if err != nil {
		return err
	}

	if payout != nil {
		announceReferralPayout(userID, payout)
	}
	monitoring.TasksCompletedTotal.Inc()
	monitoring.RewardsPaidTotal.WithLabelValues("task").Add(reward.InexactFloat64())
	logging.Logger.Info("task completed",
		zap.String("user_id", userID.String()),
		zap.String("link_id", linkID.String()))
	return nil
}
